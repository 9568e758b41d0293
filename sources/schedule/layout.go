package schedule

import (
	"fmt"
	"strings"
)

// Columns names the schedule columns by spreadsheet letter ("A", "N", "AS", ...).
type Columns struct {
	Category  string
	FirstDate string
	Street    string
	City      string
	Postcode  string
	EvenFrom  string
	EvenTo    string
	OddFrom   string
	OddTo     string
}

// Layout holds 0-based column positions and the category marker that
// selects bulky-waste rows. Every column from FirstDate to the end of a row
// is a date column.
type Layout struct {
	Category  int
	FirstDate int
	Street    int
	City      int
	Postcode  int
	EvenFrom  int
	EvenTo    int
	OddFrom   int
	OddTo     int

	Marker string
}

// ColumnIndex converts a spreadsheet column name to a 0-based index: A=0, Z=25, AA=26.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("schedule: empty column name")
	}
	num := 0
	for _, c := range letters {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("schedule: invalid column name %q", letters)
		}
		num = num*26 + int(c-'A') + 1
	}
	return num - 1, nil
}

// NewLayout resolves column letters into a Layout.
func NewLayout(cols Columns, marker string) (Layout, error) {
	l := Layout{Marker: marker}
	fields := []struct {
		name   string
		letter string
		dst    *int
	}{
		{"category", cols.Category, &l.Category},
		{"first date", cols.FirstDate, &l.FirstDate},
		{"street", cols.Street, &l.Street},
		{"city", cols.City, &l.City},
		{"postcode", cols.Postcode, &l.Postcode},
		{"even from", cols.EvenFrom, &l.EvenFrom},
		{"even to", cols.EvenTo, &l.EvenTo},
		{"odd from", cols.OddFrom, &l.OddFrom},
		{"odd to", cols.OddTo, &l.OddTo},
	}
	for _, f := range fields {
		idx, err := ColumnIndex(f.letter)
		if err != nil {
			return Layout{}, fmt.Errorf("%s column: %w", f.name, err)
		}
		*f.dst = idx
	}
	return l, nil
}
