package storage

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"sperrmuell/models"
)

// GeoJSONWriter collects points into a FeatureCollection and writes it on Close.
type GeoJSONWriter struct {
	path       string
	collection *geojson.FeatureCollection
}

func NewGeoJSONWriter(path string) *GeoJSONWriter {
	return &GeoJSONWriter{path: path, collection: geojson.NewFeatureCollection()}
}

func (g *GeoJSONWriter) Write(points []models.Point) error {
	for _, p := range points {
		feature := geojson.NewPointFeature([]float64{p.Lon, p.Lat})
		feature.SetProperty("address", p.Label)
		g.collection.AddFeature(feature)
	}
	return nil
}

func (g *GeoJSONWriter) Close() error {
	data, err := g.collection.MarshalJSON()
	if err != nil {
		return fmt.Errorf("geojson: encode: %w", err)
	}
	if err := os.WriteFile(g.path, data, 0644); err != nil {
		return fmt.Errorf("geojson: write %q: %w", g.path, err)
	}
	return nil
}
