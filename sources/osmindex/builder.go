package osmindex

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"sperrmuell/models"
	"sperrmuell/utils"
)

const (
	tagCity        = "addr:city"
	tagStreet      = "addr:street"
	tagPostcode    = "addr:postcode"
	tagHouseNumber = "addr:housenumber"
)

type address struct {
	street, houseNumber, postcode, city string
}

func (a address) String() string {
	return fmt.Sprintf("%s %s, %s %s", a.street, a.houseNumber, a.postcode, a.city)
}

// Builder turns an OSM XML extract into an Index for one municipality.
type Builder struct {
	municipality string
	logger       *utils.Logger

	nodes  map[osm.NodeID]models.Coordinate
	geoms  map[string][]models.Coordinate
	ranges map[string]models.StreetRange

	nodeCount, wayCount int
}

// NewBuilder creates a Builder that keeps addresses whose addr:city equals municipality.
func NewBuilder(municipality string, logger *utils.Logger) *Builder {
	return &Builder{
		municipality: utils.NormaliseName(municipality),
		logger:       logger,
	}
}

// BuildFile opens path and builds the index from it.
func (b *Builder) BuildFile(ctx context.Context, path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osm: open extract: %w", err)
	}
	defer f.Close()

	b.logger.Info("[osm] Parsing %s...", path)
	return b.Build(ctx, f)
}

// Build scans r and returns the finalised address index and street ranges.
// Nodes must precede the ways that reference them, as in any OSM XML export.
func (b *Builder) Build(ctx context.Context, r io.Reader) (*Index, error) {
	b.nodes = make(map[osm.NodeID]models.Coordinate)
	b.geoms = make(map[string][]models.Coordinate)
	b.ranges = make(map[string]models.StreetRange)
	b.nodeCount, b.wayCount = 0, 0

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if err := b.addNode(o); err != nil {
				return nil, err
			}
		case *osm.Way:
			if err := b.addWay(o); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("osm: scan extract: %w", err)
	}

	ix := b.finalise()
	b.logger.Info("[osm] Indexed %d addresses on %d streets (%d nodes, %d address ways)",
		ix.Addresses.Len(), ix.Streets.Len(), b.nodeCount, b.wayCount)
	return ix, nil
}

func (b *Builder) addNode(n *osm.Node) error {
	coord := models.Coordinate{Lat: n.Lat, Lon: n.Lon}
	b.nodes[n.ID] = coord
	b.nodeCount++

	addr, ok := b.extractAddress(n.Tags)
	if !ok {
		return nil
	}
	return b.register(addr, []models.Coordinate{coord})
}

func (b *Builder) addWay(w *osm.Way) error {
	addr, ok := b.extractAddress(w.Tags)
	if !ok {
		return nil
	}
	b.wayCount++

	seen := make(map[osm.NodeID]struct{}, len(w.Nodes))
	coords := make([]models.Coordinate, 0, len(w.Nodes))
	for _, wn := range w.Nodes {
		if _, dup := seen[wn.ID]; dup {
			continue
		}
		seen[wn.ID] = struct{}{}

		c, ok := b.nodes[wn.ID]
		if !ok {
			return fmt.Errorf("osm: way %d (%s) references unknown node %d", w.ID, addr, wn.ID)
		}
		coords = append(coords, c)
	}
	if len(coords) == 0 {
		b.logger.Debug("[osm] Way %d (%s) has no nodes, skipped", w.ID, addr)
		return nil
	}
	return b.register(addr, coords)
}

func (b *Builder) extractAddress(tags osm.Tags) (address, bool) {
	a := address{
		street:      utils.NormaliseName(tags.Find(tagStreet)),
		houseNumber: tags.Find(tagHouseNumber),
		postcode:    utils.NormaliseName(tags.Find(tagPostcode)),
		city:        utils.NormaliseName(tags.Find(tagCity)),
	}
	if a.street == "" || a.houseNumber == "" || a.postcode == "" || a.city == "" {
		return address{}, false
	}
	return a, a.city == b.municipality
}

func (b *Builder) register(a address, coords []models.Coordinate) error {
	numbers, err := ParseHouseNumbers(a.houseNumber)
	if err != nil {
		b.logger.Error("[osm] Bad house number in %s", a)
		return fmt.Errorf("osm: %s: %w", a, err)
	}

	for _, nr := range numbers {
		key := AddressKey(a.street, nr, a.postcode, a.city)
		b.geoms[key] = append(b.geoms[key], coords...)

		r, known := b.ranges[a.street]
		if !known {
			r = models.StreetRange{Min: nr, Max: nr}
		}
		r.Min = min(r.Min, nr)
		r.Max = max(r.Max, nr)
		b.ranges[a.street] = r
	}
	return nil
}

// finalise collapses every address's geometry list into its mean coordinate.
func (b *Builder) finalise() *Index {
	coords := make(map[string]models.Coordinate, len(b.geoms))
	for key, points := range b.geoms {
		var sumLat, sumLon float64
		for _, p := range points {
			sumLat += p.Lat
			sumLon += p.Lon
		}
		n := float64(len(points))
		coords[key] = models.Coordinate{Lat: sumLat / n, Lon: sumLon / n}
	}

	return &Index{
		Addresses: &AddressIndex{coords: coords},
		Streets:   &StreetRanges{ranges: b.ranges},
	}
}
