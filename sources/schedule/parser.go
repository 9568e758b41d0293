package schedule

import (
	"sort"
	"strings"
	"time"

	"sperrmuell/models"
	"sperrmuell/utils"
)

const (
	parseLayout  = "2.1.2006"
	sourceLayout = "02.01.2006"
)

// ParseDate reads a day.month.year cell. Cells that are not dates return false.
func ParseDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(parseLayout, cell)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats d the way the schedule writes dates.
func FormatDate(d time.Time) string {
	return d.Format(sourceLayout)
}

// Table is a loaded schedule. It is never modified after Load.
type Table struct {
	rows   [][]string
	layout Layout
}

// NewTable wraps already read rows.
func NewTable(rows [][]string, layout Layout) *Table {
	return &Table{rows: rows, layout: layout}
}

// Load reads the schedule at path. Workbook date cells in the layout's date
// columns are converted to the DD.MM.YYYY text the export uses.
func Load(path string, layout Layout, opts Options) (*Table, error) {
	rows, err := readRows(path, opts, layout.FirstDate)
	if err != nil {
		return nil, err
	}
	return NewTable(rows, layout), nil
}

// Len returns the number of raw rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Dates scans the whole table and returns every collection date of a
// qualifying row, deduplicated and ascending.
func (t *Table) Dates() []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, row := range t.rows {
		if !t.qualifies(row) {
			continue
		}
		for _, d := range t.rowDates(row) {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Events returns every qualifying row as a CollectionEvent.
func (t *Table) Events() []models.CollectionEvent {
	var events []models.CollectionEvent
	for _, row := range t.rows {
		if t.qualifies(row) {
			events = append(events, t.event(row))
		}
	}
	return events
}

// EventsOn rescans the table and returns the qualifying rows whose date
// columns contain day.
func (t *Table) EventsOn(day time.Time) []models.CollectionEvent {
	want := FormatDate(day)
	var events []models.CollectionEvent
	for _, row := range t.rows {
		if !t.qualifies(row) {
			continue
		}
		for col := t.layout.FirstDate; col < len(row); col++ {
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			if cell == want {
				events = append(events, t.event(row))
				break
			}
			if d, ok := ParseDate(cell); ok && d.Equal(day) {
				events = append(events, t.event(row))
				break
			}
		}
	}
	return events
}

func (t *Table) qualifies(row []string) bool {
	return utils.NormaliseName(cell(row, t.layout.Category)) == utils.NormaliseName(t.layout.Marker)
}

func (t *Table) rowDates(row []string) []time.Time {
	var dates []time.Time
	for col := t.layout.FirstDate; col < len(row); col++ {
		if d, ok := ParseDate(row[col]); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

func (t *Table) event(row []string) models.CollectionEvent {
	return models.CollectionEvent{
		Street:   utils.NormaliseName(cell(row, t.layout.Street)),
		City:     utils.NormaliseName(cell(row, t.layout.City)),
		Postcode: utils.NormaliseName(cell(row, t.layout.Postcode)),
		OddFrom:  strings.TrimSpace(cell(row, t.layout.OddFrom)),
		OddTo:    strings.TrimSpace(cell(row, t.layout.OddTo)),
		EvenFrom: strings.TrimSpace(cell(row, t.layout.EvenFrom)),
		EvenTo:   strings.TrimSpace(cell(row, t.layout.EvenTo)),
		Dates:    t.rowDates(row),
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
