package schedule

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var testColumns = Columns{
	Category:  "A",
	Street:    "B",
	City:      "C",
	Postcode:  "D",
	EvenFrom:  "E",
	EvenTo:    "F",
	OddFrom:   "G",
	OddTo:     "H",
	FirstDate: "J",
}

const sampleTSV = "Art\tStraße\tOrt\tPLZ\tgv\tgb\tuv\tub\tx\tTermine\n" +
	"Sperrmüll\tBeispielstraße\tBonn\t53111\t2\t20\t1\t19\t\t01.03.2024\t15.06.2024\n" +
	"Restmüll\tBeispielstraße\tBonn\t53111\t2\t20\t1\t19\t\t02.03.2024\n" +
	"Sperrmüll\tHauptstraße\tBonn\t\t\t\t1\t9\t\t15.06.2024\t1.3.2024\n" +
	"Sperrmüll\tKurzweg\tBonn\t53113\n"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTable(t *testing.T) *Table {
	t.Helper()
	layout, err := NewLayout(testColumns, "Sperrmüll")
	if err != nil {
		t.Fatal(err)
	}
	rows, err := ReadDelimited(strings.NewReader(sampleTSV), Options{})
	if err != nil {
		t.Fatal(err)
	}
	return NewTable(rows, layout)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"01.03.2024", day(2024, 3, 1), true},
		{"1.3.2024", day(2024, 3, 1), true},
		{" 15.06.2024 ", day(2024, 6, 15), true},
		{"", time.Time{}, false},
		{"Termine", time.Time{}, false},
		{"31.02.2024", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q): got %v/%v, want %v/%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDatesOnlyFromMarkedRows(t *testing.T) {
	dates := sampleTable(t).Dates()
	want := []time.Time{day(2024, 3, 1), day(2024, 6, 15)}
	if len(dates) != len(want) {
		t.Fatalf("dates: got %v, want %v", dates, want)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("dates[%d]: got %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestEventsOn(t *testing.T) {
	table := sampleTable(t)

	events := table.EventsOn(day(2024, 3, 1))
	if len(events) != 2 {
		t.Fatalf("events on 01.03.2024: got %d, want 2", len(events))
	}
	first := events[0]
	if first.Street != "Beispielstraße" || first.City != "Bonn" || first.Postcode != "53111" {
		t.Errorf("first event: got %+v", first)
	}
	if first.OddFrom != "1" || first.OddTo != "19" || first.EvenFrom != "2" || first.EvenTo != "20" {
		t.Errorf("first event ranges: got %+v", first)
	}
	if !first.HasDate(day(2024, 3, 1)) || !first.HasDate(day(2024, 6, 15)) {
		t.Errorf("first event dates: got %v", first.Dates)
	}
	// Unpadded date cell still matches.
	if events[1].Street != "Hauptstraße" {
		t.Errorf("second event: got %q, want Hauptstraße", events[1].Street)
	}
	if events[1].Postcode != "" || events[1].EvenFrom != "" {
		t.Errorf("second event should have empty postcode and even range: %+v", events[1])
	}

	if got := table.EventsOn(day(2024, 3, 2)); len(got) != 0 {
		t.Errorf("non-bulky rows must be ignored, got %d events", len(got))
	}
}

func TestShortRowsAreTolerated(t *testing.T) {
	events := sampleTable(t).Events()
	if len(events) != 3 {
		t.Fatalf("events: got %d, want 3", len(events))
	}
	if len(events[2].Dates) != 0 {
		t.Errorf("short row dates: got %v, want none", events[2].Dates)
	}
}

func TestReadDelimitedMacintosh(t *testing.T) {
	encoded, err := charmap.Macintosh.NewEncoder().String("Sperrmüll;Kölnstraße\n")
	if err != nil {
		t.Fatal(err)
	}
	rows, err := ReadDelimited(strings.NewReader(encoded), Options{Delimiter: ';', Encoding: "macintosh"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0][0] != "Sperrmüll" || rows[0][1] != "Kölnstraße" {
		t.Errorf("rows: got %q", rows)
	}
}

func TestReadDelimitedStripAndBOM(t *testing.T) {
	in := "\xEF\xBB\xBFa\tJUNK\tb\n"
	rows, err := ReadDelimited(strings.NewReader(in), Options{Strip: "JUNK\t"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 || rows[0][0] != "a" || rows[0][1] != "b" {
		t.Errorf("rows: got %q", rows)
	}
}

func TestReadDelimitedUnknownEncoding(t *testing.T) {
	if _, err := ReadDelimited(strings.NewReader(""), Options{Encoding: "ebcdic"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestLoadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Abfallplaner2024.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	row := []interface{}{"Sperrmüll", "Beispielstraße", "Bonn", "53111", "2", "20", "1", "19", "", "01.03.2024"}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	layout, err := NewLayout(testColumns, "Sperrmüll")
	if err != nil {
		t.Fatal(err)
	}
	table, err := Load(path, layout, Options{})
	if err != nil {
		t.Fatal(err)
	}
	events := table.EventsOn(day(2024, 3, 1))
	if len(events) != 1 || events[0].Street != "Beispielstraße" {
		t.Errorf("workbook events: got %+v", events)
	}
}

func TestLoadWorkbookDateCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Abfallplaner2024.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Sperrmüll", "Beispielstraße", "Bonn", 53111, 2, 20, 1, 19, "", day(2024, 3, 1), day(2024, 6, 15)},
		{"Restmüll", "Beispielstraße", "Bonn", 53111, 2, 20, 1, 19, "", day(2024, 3, 2)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	layout, err := NewLayout(testColumns, "Sperrmüll")
	if err != nil {
		t.Fatal(err)
	}
	table, err := Load(path, layout, Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := []time.Time{day(2024, 3, 1), day(2024, 6, 15)}
	got := table.Dates()
	if len(got) != len(want) {
		t.Fatalf("dates: got %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("dates[%d]: got %v, want %v", i, got[i], want[i])
		}
	}

	events := table.EventsOn(day(2024, 3, 1))
	if len(events) != 1 {
		t.Fatalf("events on 01.03.2024: got %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Postcode != "53111" || ev.EvenFrom != "2" || ev.OddTo != "19" {
		t.Errorf("numeric cells: got postcode %q, even from %q, odd to %q", ev.Postcode, ev.EvenFrom, ev.OddTo)
	}
}
