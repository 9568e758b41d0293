package models

import "time"

// CollectionEvent is one bulky-waste row of the municipal schedule.
// House-number fields hold the raw cell text; blank means "not given".
type CollectionEvent struct {
	Street   string
	City     string
	Postcode string

	OddFrom  string
	OddTo    string
	EvenFrom string
	EvenTo   string

	Dates []time.Time
}

// HasDate reports whether the event is scheduled on the same calendar day as d.
func (e CollectionEvent) HasDate(d time.Time) bool {
	y, m, day := d.Date()
	for _, ed := range e.Dates {
		ey, em, eday := ed.Date()
		if ey == y && em == m && eday == day {
			return true
		}
	}
	return false
}
