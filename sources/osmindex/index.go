package osmindex

import (
	"fmt"
	"sort"

	"sperrmuell/models"
)

// AddressKey formats the canonical lookup key for a concrete address.
func AddressKey(street string, number int, postcode, city string) string {
	return fmt.Sprintf("%s %d, %s %s", street, number, postcode, city)
}

// AddressIndex maps canonical address strings to their mean coordinate.
// It is read-only once built.
type AddressIndex struct {
	coords map[string]models.Coordinate
}

// NewAddressIndex wraps an already finalised address map. The map is copied.
func NewAddressIndex(coords map[string]models.Coordinate) *AddressIndex {
	c := make(map[string]models.Coordinate, len(coords))
	for k, v := range coords {
		c[k] = v
	}
	return &AddressIndex{coords: c}
}

// Lookup returns the coordinate for a canonical address.
func (ix *AddressIndex) Lookup(address string) (models.Coordinate, bool) {
	c, ok := ix.coords[address]
	return c, ok
}

// Len returns the number of indexed addresses.
func (ix *AddressIndex) Len() int {
	return len(ix.coords)
}

// Addresses returns all indexed addresses, sorted.
func (ix *AddressIndex) Addresses() []string {
	out := make([]string, 0, len(ix.coords))
	for k := range ix.coords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// StreetRanges maps street names to the house-number extent seen in the extract.
// It is read-only once built.
type StreetRanges struct {
	ranges map[string]models.StreetRange
}

// NewStreetRanges wraps a street range map. The map is copied.
func NewStreetRanges(ranges map[string]models.StreetRange) *StreetRanges {
	r := make(map[string]models.StreetRange, len(ranges))
	for k, v := range ranges {
		r[k] = v
	}
	return &StreetRanges{ranges: r}
}

// Lookup returns the known range for street.
func (sr *StreetRanges) Lookup(street string) (models.StreetRange, bool) {
	r, ok := sr.ranges[street]
	return r, ok
}

// Len returns the number of known streets.
func (sr *StreetRanges) Len() int {
	return len(sr.ranges)
}

// Streets returns all known street names, sorted.
func (sr *StreetRanges) Streets() []string {
	out := make([]string, 0, len(sr.ranges))
	for k := range sr.ranges {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Index bundles the two lookup tables produced from one extract.
type Index struct {
	Addresses *AddressIndex
	Streets   *StreetRanges
}
