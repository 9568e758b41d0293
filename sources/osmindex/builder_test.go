package osmindex

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sperrmuell/models"
	"sperrmuell/utils"
)

const sampleExtract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="50.0" lon="7.0">
    <tag k="addr:city" v="Bonn"/>
    <tag k="addr:street" v="Hauptstraße"/>
    <tag k="addr:postcode" v="53111"/>
    <tag k="addr:housenumber" v="12"/>
  </node>
  <node id="2" lat="50.2" lon="7.2"/>
  <node id="3" lat="50.4" lon="7.4"/>
  <node id="4" lat="51.0" lon="8.0">
    <tag k="addr:city" v="Köln"/>
    <tag k="addr:street" v="Domstraße"/>
    <tag k="addr:postcode" v="50667"/>
    <tag k="addr:housenumber" v="1"/>
  </node>
  <node id="5" lat="50.5" lon="7.5">
    <tag k="addr:city" v="Bonn"/>
    <tag k="addr:street" v="Hauptstraße"/>
    <tag k="addr:housenumber" v="99"/>
  </node>
  <way id="10">
    <nd ref="2"/>
    <nd ref="3"/>
    <nd ref="2"/>
    <tag k="building" v="yes"/>
    <tag k="addr:city" v="Bonn"/>
    <tag k="addr:street" v="Hauptstraße"/>
    <tag k="addr:postcode" v="53111"/>
    <tag k="addr:housenumber" v="14-16"/>
  </way>
  <way id="11">
    <nd ref="2"/>
    <tag k="addr:city" v="Bonn"/>
    <tag k="addr:street" v="Hauptstraße"/>
    <tag k="addr:postcode" v="53111"/>
    <tag k="addr:housenumber" v="12"/>
  </way>
</osm>`

func build(t *testing.T, xml string) *Index {
	t.Helper()
	ix, err := NewBuilder("Bonn", utils.NewDiscardLogger()).Build(context.Background(), strings.NewReader(xml))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return ix
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildFiltersMunicipalityAndIncompleteAddresses(t *testing.T) {
	ix := build(t, sampleExtract)

	if _, ok := ix.Addresses.Lookup("Domstraße 1, 50667 Köln"); ok {
		t.Error("address in another city must not be indexed")
	}
	if _, ok := ix.Streets.Lookup("Domstraße"); ok {
		t.Error("street in another city must not be indexed")
	}
	for _, a := range ix.Addresses.Addresses() {
		if strings.Contains(a, " 99,") {
			t.Errorf("address without postcode was indexed: %s", a)
		}
	}
}

func TestBuildWayDeduplicatesNodesAndUsesHalfOpenRange(t *testing.T) {
	ix := build(t, sampleExtract)

	c, ok := ix.Addresses.Lookup("Hauptstraße 14, 53111 Bonn")
	if !ok {
		t.Fatal("Hauptstraße 14 missing")
	}
	// nodes 2 and 3 only; the repeated ref to 2 is ignored
	if !near(c.Lat, 50.3) || !near(c.Lon, 7.3) {
		t.Errorf("Hauptstraße 14: got %v, want (50.3, 7.3)", c)
	}
	if _, ok := ix.Addresses.Lookup("Hauptstraße 15, 53111 Bonn"); !ok {
		t.Error("Hauptstraße 15 missing")
	}
	if _, ok := ix.Addresses.Lookup("Hauptstraße 16, 53111 Bonn"); ok {
		t.Error("Hauptstraße 16 must not be registered for 14-16")
	}
}

func TestBuildAveragesAllContributions(t *testing.T) {
	ix := build(t, sampleExtract)

	// node 1 (50.0, 7.0) and way 11 via node 2 (50.2, 7.2)
	c, ok := ix.Addresses.Lookup("Hauptstraße 12, 53111 Bonn")
	if !ok {
		t.Fatal("Hauptstraße 12 missing")
	}
	if !near(c.Lat, 50.1) || !near(c.Lon, 7.1) {
		t.Errorf("mean: got %v, want (50.1, 7.1)", c)
	}
}

func TestBuildStreetRanges(t *testing.T) {
	ix := build(t, sampleExtract)

	r, ok := ix.Streets.Lookup("Hauptstraße")
	if !ok {
		t.Fatal("Hauptstraße range missing")
	}
	if r != (models.StreetRange{Min: 12, Max: 15}) {
		t.Errorf("range: got %v, want (12, 15)", r)
	}
}

func TestBuildFailsOnBadHouseNumber(t *testing.T) {
	xml := `<osm version="0.6">
  <node id="1" lat="50.0" lon="7.0">
    <tag k="addr:city" v="Bonn"/>
    <tag k="addr:street" v="Nebenweg"/>
    <tag k="addr:postcode" v="53113"/>
    <tag k="addr:housenumber" v="Haus A"/>
  </node>
</osm>`

	_, err := NewBuilder("Bonn", utils.NewDiscardLogger()).Build(context.Background(), strings.NewReader(xml))
	if !errors.Is(err, ErrHouseNumber) {
		t.Fatalf("expected ErrHouseNumber, got %v", err)
	}
	if !strings.Contains(err.Error(), "Nebenweg Haus A, 53113 Bonn") {
		t.Errorf("error should name the address, got %q", err)
	}
}

func TestBuildFailsOnDanglingWayReference(t *testing.T) {
	xml := `<osm version="0.6">
  <way id="1">
    <nd ref="42"/>
    <tag k="addr:city" v="Bonn"/>
    <tag k="addr:street" v="Nebenweg"/>
    <tag k="addr:postcode" v="53113"/>
    <tag k="addr:housenumber" v="1"/>
  </way>
</osm>`

	if _, err := NewBuilder("Bonn", utils.NewDiscardLogger()).Build(context.Background(), strings.NewReader(xml)); err == nil {
		t.Fatal("expected an error for a way referencing a missing node")
	}
}

func TestWriteListings(t *testing.T) {
	ix := build(t, sampleExtract)
	dir := t.TempDir()

	if err := WriteListings(ix, dir); err != nil {
		t.Fatalf("write listings: %v", err)
	}

	streets, err := os.ReadFile(filepath.Join(dir, StreetListingFile))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(streets)); got != "Hauptstraße (12, 15)" {
		t.Errorf("street listing: got %q", got)
	}

	addrs, err := os.ReadFile(filepath.Join(dir, AddressListingFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(addrs)), "\n")
	if len(lines) != 3 {
		t.Fatalf("address listing: got %d lines, want 3:\n%s", len(lines), addrs)
	}
	if !strings.HasPrefix(lines[0], "Hauptstraße 12, 53111 Bonn (") {
		t.Errorf("address listing not sorted: first line %q", lines[0])
	}
}
