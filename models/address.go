package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) String() string {
	return "(" + formatFloat(c.Lat) + ", " + formatFloat(c.Lon) + ")"
}

// StreetRange is the lowest and highest house number known for a street.
type StreetRange struct {
	Min int
	Max int
}

func (r StreetRange) String() string {
	return fmt.Sprintf("(%d, %d)", r.Min, r.Max)
}

// Point is a resolved collection point: a concrete address and its position.
type Point struct {
	Label string  `csv:"address"`
	Lat   float64 `csv:"lat"`
	Lon   float64 `csv:"lon"`
}

func (p Point) String() string {
	return p.Label + " " + Coordinate{Lat: p.Lat, Lon: p.Lon}.String()
}

// Tuple renders p as the literal ('label', lat, lon) line of Koordinaten.txt.
func (p Point) Tuple() string {
	return "(" + quoteLiteral(p.Label) + ", " + literalFloat(p.Lat) + ", " + literalFloat(p.Lon) + ")"
}

// Less orders points by label, then latitude, then longitude.
func (p Point) Less(o Point) bool {
	if p.Label != o.Label {
		return p.Label < o.Label
	}
	if p.Lat != o.Lat {
		return p.Lat < o.Lat
	}
	return p.Lon < o.Lon
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// literalFloat always keeps a decimal point, so 7 is written as 7.0.
func literalFloat(f float64) string {
	s := formatFloat(f)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// quoteLiteral single-quotes s unless it holds a single quote and no double
// quote, in which case double quotes are used.
func quoteLiteral(s string) string {
	q := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = `"`
	}
	var b strings.Builder
	b.WriteString(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case string(r) == q:
			b.WriteString(`\` + q)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(q)
	return b.String()
}
