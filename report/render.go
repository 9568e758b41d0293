// Package report renders the human-facing outputs of a run: the per-date
// Leaflet map, the cumulative date index and the optional map snapshot.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/osteele/liquid"

	"sperrmuell/models"
	"sperrmuell/storage"
)

const (
	markerColor  = "crimson"
	markerRadius = 2
	titleLayout  = "02.01.2006"
)

// MapOptions positions the initial map view.
type MapOptions struct {
	Municipality string
	Center       models.Coordinate
	Zoom         int
}

// Renderer holds the parsed templates. It is safe for concurrent use.
type Renderer struct {
	mapTpl   *liquid.Template
	indexTpl *liquid.Template
	opts     MapOptions
}

func NewRenderer(opts MapOptions) (*Renderer, error) {
	engine := liquid.NewEngine()

	mapTpl, err := engine.ParseString(mapTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parse map template: %w", err)
	}
	indexTpl, err := engine.ParseString(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parse index template: %w", err)
	}
	return &Renderer{mapTpl: mapTpl, indexTpl: indexTpl, opts: opts}, nil
}

// MapTitle is the heading shown above the map of date.
func (r *Renderer) MapTitle(date time.Time) string {
	return "Sperrmüllgebiet " + r.opts.Municipality + " " + date.Format(titleLayout)
}

type jsonPoint struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// RenderMap writes the Leaflet map for one date: a crimson circle per
// point with the address as tooltip.
func (r *Renderer) RenderMap(w io.Writer, date time.Time, points []models.Point) error {
	markers := make([]jsonPoint, len(points))
	for i, p := range points {
		markers[i] = jsonPoint{Label: p.Label, Lat: p.Lat, Lon: p.Lon}
	}
	encoded, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("report: encode markers: %w", err)
	}

	out, err := r.mapTpl.Render(liquid.Bindings{
		"title":       r.MapTitle(date),
		"center_lat":  strconv.FormatFloat(r.opts.Center.Lat, 'f', -1, 64),
		"center_lon":  strconv.FormatFloat(r.opts.Center.Lon, 'f', -1, 64),
		"zoom":        r.opts.Zoom,
		"radius":      markerRadius,
		"color":       markerColor,
		"points_json": string(encoded),
	})
	if err != nil {
		return fmt.Errorf("report: render map: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("report: write map: %w", err)
	}
	return nil
}

// RenderIndex writes the list of completed dates, headed with the
// generation date.
func (r *Renderer) RenderIndex(w io.Writer, completed []time.Time, generated time.Time) error {
	entries := make([]map[string]interface{}, len(completed))
	for i, d := range completed {
		entries[i] = map[string]interface{}{
			"label": d.Format(titleLayout),
			"dir":   storage.DateDirName(d),
		}
	}
	heading := fmt.Sprintf("Sperrmülltermine %s %d ab %s",
		r.opts.Municipality, generated.Year(), generated.Format("02.01."))

	out, err := r.indexTpl.Render(liquid.Bindings{
		"heading": heading,
		"entries": entries,
	})
	if err != nil {
		return fmt.Errorf("report: render index: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("report: write index: %w", err)
	}
	return nil
}
