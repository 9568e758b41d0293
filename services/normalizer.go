package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sperrmuell/models"
	"sperrmuell/sources/osmindex"
	"sperrmuell/utils"
)

var (
	ErrUnknownStreet   = errors.New("street not in OSM street directory")
	ErrBadHouseNumber  = errors.New("house number is not an integer")
	ErrEmptyHouseRange = errors.New("house number range is empty after clamping")
)

// AddressRange is a canonical, clamped house-number range on one street.
type AddressRange struct {
	Street   string
	Postcode string
	City     string
	Start    int
	End      int
}

// Display renders the range the way it is listed in Adressen.txt.
func (r AddressRange) Display() string {
	var b strings.Builder
	b.WriteString(r.Street)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.Start))
	if r.End != r.Start {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(r.End))
	}
	if r.Postcode != "" {
		b.WriteByte(' ')
		b.WriteString(r.Postcode)
	}
	b.WriteByte(' ')
	b.WriteString(r.City)
	return b.String()
}

// Address returns the concrete address for house number n.
func (r AddressRange) Address(n int) string {
	return osmindex.AddressKey(r.Street, n, r.Postcode, r.City)
}

// Normalizer turns schedule rows into canonical ranges, tightened to the
// house numbers that actually exist on the street.
type Normalizer struct {
	streets *osmindex.StreetRanges
	logger  *utils.Logger
}

func NewNormalizer(streets *osmindex.StreetRanges, logger *utils.Logger) *Normalizer {
	return &Normalizer{streets: streets, logger: logger}
}

// Normalize resolves ev's street and clamps its odd/even bounds to the
// street's known range. Rows that cannot be used return an error wrapping
// one of the package sentinels and are logged. With ErrEmptyHouseRange the
// clamped range is still returned so it can be listed.
func (n *Normalizer) Normalize(ev models.CollectionEvent) (AddressRange, error) {
	street, known, ok := n.resolveStreet(ev.Street)
	if !ok {
		n.logger.Warn("[normalizer] %q not found in OSM street directory", ev.Street)
		return AddressRange{}, fmt.Errorf("%q: %w", ev.Street, ErrUnknownStreet)
	}

	starts, err := parseBounds(ev.OddFrom, ev.EvenFrom)
	if err != nil {
		n.logger.Warn("[normalizer] Skipping %s: %v", ev.Street, err)
		return AddressRange{}, err
	}
	ends, err := parseBounds(ev.OddTo, ev.EvenTo)
	if err != nil {
		n.logger.Warn("[normalizer] Skipping %s: %v", ev.Street, err)
		return AddressRange{}, err
	}

	start := known.Min
	if len(starts) > 0 {
		start = max(start, minOf(starts))
	}
	end := known.Max
	if len(ends) > 0 {
		end = min(end, maxOf(ends))
	}

	r := AddressRange{
		Street:   street,
		Postcode: ev.Postcode,
		City:     ev.City,
		Start:    start,
		End:      end,
	}
	if start > end {
		n.logger.Warn("[normalizer] %s: clamped range %d-%d is empty (street has %s), listing only",
			street, start, end, known)
		return r, fmt.Errorf("%s %d-%d: %w", street, start, end, ErrEmptyHouseRange)
	}
	return r, nil
}

func (n *Normalizer) resolveStreet(street string) (string, models.StreetRange, bool) {
	if r, ok := n.streets.Lookup(street); ok {
		return street, r, true
	}
	expanded := strings.ReplaceAll(street, "str.", "straße")
	expanded = strings.ReplaceAll(expanded, "Str.", "Straße")
	if expanded != street {
		if r, ok := n.streets.Lookup(expanded); ok {
			n.logger.Debug("[normalizer] %q matched as %q", street, expanded)
			return expanded, r, true
		}
	}
	return "", models.StreetRange{}, false
}

// parseBounds returns the present (non-blank) values among odd and even.
func parseBounds(odd, even string) ([]int, error) {
	var out []int
	for _, raw := range []string{odd, even} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, ErrBadHouseNumber)
		}
		out = append(out, v)
	}
	return out, nil
}

func minOf(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		m = min(m, v)
	}
	return m
}

func maxOf(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		m = max(m, v)
	}
	return m
}
