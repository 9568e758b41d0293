package models

import (
	"sort"
	"time"
)

// AddressRecord accumulates everything found for one collection date.
type AddressRecord struct {
	Date      time.Time
	Ranges    []string
	Addresses []string
	Points    []Point
}

// SortedRanges returns the display ranges in lexical order.
func (r *AddressRecord) SortedRanges() []string {
	out := make([]string, len(r.Ranges))
	copy(out, r.Ranges)
	sort.Strings(out)
	return out
}

// SortedPoints returns the points ordered by label, lat, lon.
func (r *AddressRecord) SortedPoints() []Point {
	out := make([]Point, len(r.Points))
	copy(out, r.Points)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// DateStats holds the counters collected while processing one date.
type DateStats struct {
	Date            time.Time
	Rows            int
	Ranges          int
	UnknownStreets  int
	SkippedRows     int
	AddressesTried  int
	Resolved        int
	AlreadyComplete bool
}

// Manifest is the completion record written last into a date folder.
type Manifest struct {
	Date        string    `yaml:"date"`
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Strategy    string    `yaml:"strategy"`
	Ranges      int       `yaml:"ranges"`
	Addresses   int       `yaml:"addresses"`
	Points      int       `yaml:"points"`
	Files       []string  `yaml:"files"`
}

// RunSummary holds the computed totals over a whole run.
type RunSummary struct {
	DatesFound     int
	DatesProcessed int
	DatesSkipped   int
	TotalRanges    int
	TotalResolved  int
	TotalTried     int
	UnknownStreets int
	PerDate        []DateStats
}
