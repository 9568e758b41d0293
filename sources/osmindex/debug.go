package osmindex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

const (
	AddressListingFile = "OSM-Adressen.txt"
	StreetListingFile  = "OSM-Strassen.txt"
)

// WriteListings writes the sorted address and street listings into dir.
func WriteListings(ix *Index, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("osm: create listing dir: %w", err)
	}

	err := writeLines(filepath.Join(dir, AddressListingFile), ix.Addresses.Addresses(), func(a string) string {
		c, _ := ix.Addresses.Lookup(a)
		return a + " " + c.String()
	})
	if err != nil {
		return err
	}

	return writeLines(filepath.Join(dir, StreetListingFile), ix.Streets.Streets(), func(s string) string {
		r, _ := ix.Streets.Lookup(s)
		return s + " " + r.String()
	})
}

func writeLines(path string, keys []string, line func(string) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("osm: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, k := range keys {
		if _, err := fmt.Fprintln(w, line(k)); err != nil {
			f.Close()
			return fmt.Errorf("osm: write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("osm: write %s: %w", path, err)
	}
	return f.Close()
}
