package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"sperrmuell/models"
)

const (
	ManifestFile = "manifest.yaml"

	dateDirLayout = "2006-01-02"
	stagingMarker = ".staging-"
)

// DateDirName is the folder name of a collection date.
func DateDirName(d time.Time) string {
	return d.Format(dateDirLayout)
}

// Tree is the output directory: one committed folder per collection date
// plus the cumulative index files.
type Tree struct {
	root string
}

func NewTree(root string) *Tree {
	return &Tree{root: root}
}

func (t *Tree) Root() string {
	return t.root
}

func (t *Tree) DateDir(d time.Time) string {
	return filepath.Join(t.root, DateDirName(d))
}

// Complete reports whether the date folder carries a readable manifest.
// A folder without one is a leftover of an older or interrupted run.
func (t *Tree) Complete(d time.Time) bool {
	_, err := ReadManifest(filepath.Join(t.DateDir(d), ManifestFile))
	return err == nil
}

// CompletedDates returns the dates among found that have a committed folder.
func (t *Tree) CompletedDates(found []time.Time) []time.Time {
	var done []time.Time
	for _, d := range found {
		if t.Complete(d) {
			done = append(done, d)
		}
	}
	return done
}

// CleanStaging removes staging folders left behind by interrupted runs.
func (t *Tree) CleanStaging() ([]string, error) {
	entries, err := os.ReadDir(t.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tree: read %s: %w", t.root, err)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), ".") || !strings.Contains(e.Name(), stagingMarker) {
			continue
		}
		path := filepath.Join(t.root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("tree: remove %s: %w", path, err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}

// Stage creates a fresh staging folder for d.
func (t *Tree) Stage(d time.Time) (*Staging, error) {
	if err := os.MkdirAll(t.root, 0755); err != nil {
		return nil, fmt.Errorf("tree: create %s: %w", t.root, err)
	}
	name := "." + DateDirName(d) + stagingMarker + uuid.NewString()
	dir := filepath.Join(t.root, name)
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("tree: create staging dir: %w", err)
	}
	return &Staging{dir: dir, final: t.DateDir(d)}, nil
}

// Staging collects the files of one date before they become visible.
type Staging struct {
	dir   string
	final string
	files []string
}

func (s *Staging) Dir() string {
	return s.dir
}

// Path registers name as an output file and returns its staging path.
func (s *Staging) Path(name string) string {
	s.files = append(s.files, name)
	return filepath.Join(s.dir, name)
}

// Commit writes the manifest and moves the folder into place, replacing an
// incomplete folder of the same date.
func (s *Staging) Commit(m *models.Manifest) error {
	m.Files = append([]string(nil), s.files...)
	if err := WriteManifest(filepath.Join(s.dir, ManifestFile), m); err != nil {
		return err
	}
	if err := os.RemoveAll(s.final); err != nil {
		return fmt.Errorf("tree: replace %s: %w", s.final, err)
	}
	if err := os.Rename(s.dir, s.final); err != nil {
		return fmt.Errorf("tree: commit %s: %w", s.final, err)
	}
	return nil
}

// Discard removes the staging folder.
func (s *Staging) Discard() error {
	return os.RemoveAll(s.dir)
}

func WriteManifest(path string, m *models.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

func ReadManifest(path string) (*models.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m models.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	if m.Date == "" {
		return nil, fmt.Errorf("manifest: %s has no date", path)
	}
	return &m, nil
}
