package services

import (
	"errors"
	"strings"
	"testing"

	"sperrmuell/models"
	"sperrmuell/sources/osmindex"
	"sperrmuell/utils"
)

func newTestNormalizer() *Normalizer {
	streets := osmindex.NewStreetRanges(map[string]models.StreetRange{
		"Hauptstraße":    {Min: 10, Max: 50},
		"Kölnstraße":     {Min: 1, Max: 120},
		"Am Hof":         {Min: 3, Max: 3},
		"Beispielstraße": {Min: 1, Max: 20},
	})
	return NewNormalizer(streets, utils.NewDiscardLogger())
}

func TestNormalizeClampsToKnownRange(t *testing.T) {
	n := newTestNormalizer()
	r, err := n.Normalize(models.CollectionEvent{
		Street: "Hauptstraße", City: "Bonn", Postcode: "53111",
		OddFrom: "1", OddTo: "9999",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 10 || r.End != 50 {
		t.Errorf("range: got %d-%d, want 10-50", r.Start, r.End)
	}
	if got, want := r.Display(), "Hauptstraße 10-50 53111 Bonn"; got != want {
		t.Errorf("Display: got %q, want %q", got, want)
	}
}

func TestNormalizeCombinesOddAndEven(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name      string
		ev        models.CollectionEvent
		wantStart int
		wantEnd   int
	}{
		{"both sides", models.CollectionEvent{OddFrom: "15", OddTo: "41", EvenFrom: "12", EvenTo: "30"}, 12, 41},
		{"even only", models.CollectionEvent{EvenFrom: "20", EvenTo: "24"}, 20, 24},
		{"nothing given", models.CollectionEvent{}, 10, 50},
		{"placeholders", models.CollectionEvent{OddFrom: "0", OddTo: "9999", EvenFrom: "0", EvenTo: "9998"}, 10, 50},
		{"whitespace is blank", models.CollectionEvent{OddFrom: " ", OddTo: "33 "}, 10, 33},
	}
	for _, tt := range tests {
		ev := tt.ev
		ev.Street, ev.City = "Hauptstraße", "Bonn"
		r, err := n.Normalize(ev)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if r.Start != tt.wantStart || r.End != tt.wantEnd {
			t.Errorf("%s: got %d-%d, want %d-%d", tt.name, r.Start, r.End, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestDisplaySingleNumberWithoutPostcode(t *testing.T) {
	n := newTestNormalizer()
	r, err := n.Normalize(models.CollectionEvent{Street: "Am Hof", City: "Bonn"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.Display(), "Am Hof 3 Bonn"; got != want {
		t.Errorf("Display: got %q, want %q", got, want)
	}
	if got, want := r.Address(3), "Am Hof 3,  Bonn"; got != want {
		t.Errorf("Address: got %q, want %q", got, want)
	}
}

func TestNormalizeExpandsStreetAbbreviation(t *testing.T) {
	n := newTestNormalizer()
	r, err := n.Normalize(models.CollectionEvent{Street: "Kölnstr.", City: "Bonn", Postcode: "53111", OddFrom: "1", OddTo: "5"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Street != "Kölnstraße" {
		t.Errorf("street: got %q, want Kölnstraße", r.Street)
	}
	if got, want := r.Address(3), "Kölnstraße 3, 53111 Bonn"; got != want {
		t.Errorf("Address: got %q, want %q", got, want)
	}
}

func TestNormalizeRejects(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name string
		ev   models.CollectionEvent
		want error
	}{
		{"unknown street", models.CollectionEvent{Street: "Mondweg", City: "Bonn"}, ErrUnknownStreet},
		{"unknown abbreviation", models.CollectionEvent{Street: "Mondstr.", City: "Bonn"}, ErrUnknownStreet},
		{"letter suffix", models.CollectionEvent{Street: "Hauptstraße", City: "Bonn", OddFrom: "12a"}, ErrBadHouseNumber},
	}
	for _, tt := range tests {
		_, err := n.Normalize(tt.ev)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestNormalizeEmptyRangeKeepsDisplay(t *testing.T) {
	n := newTestNormalizer()
	r, err := n.Normalize(models.CollectionEvent{Street: "Hauptstraße", City: "Bonn", OddFrom: "60", OddTo: "70"})
	if !errors.Is(err, ErrEmptyHouseRange) {
		t.Fatalf("got %v, want %v", err, ErrEmptyHouseRange)
	}
	if r.Start <= r.End {
		t.Errorf("range: got %d-%d, want start after end", r.Start, r.End)
	}
	if !strings.HasPrefix(r.Display(), "Hauptstraße 60-") {
		t.Errorf("Display: got %q", r.Display())
	}
}
