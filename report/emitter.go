package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sperrmuell/models"
	"sperrmuell/storage"
	"sperrmuell/utils"
)

const (
	AddressesFile      = "Adressen.txt"
	CoordinatesFile    = "Koordinaten.txt"
	CoordinatesCSVFile = "Koordinaten.csv"
	GeoJSONFile        = "Koordinaten.geojson"
	MapFile            = "Karte.html"
	SnapshotFile       = "Karte.png"

	IndexHTMLFile = "Termine.html"
	IndexTextFile = "Termine.txt"
)

// Emitter writes every per-date output into the output tree and keeps the
// cumulative index current. It implements storage.Sink.
type Emitter struct {
	tree     *storage.Tree
	renderer *Renderer
	snapshot *Snapshotter
	runID    string
	strategy string
	logger   *utils.Logger
	now      func() time.Time
}

// EmitterConfig wires an Emitter. Snapshot may be nil to skip Karte.png.
type EmitterConfig struct {
	Tree     *storage.Tree
	Renderer *Renderer
	Snapshot *Snapshotter
	RunID    string
	Strategy string
}

func NewEmitter(cfg EmitterConfig, logger *utils.Logger) *Emitter {
	return &Emitter{
		tree:     cfg.Tree,
		renderer: cfg.Renderer,
		snapshot: cfg.Snapshot,
		runID:    cfg.RunID,
		strategy: cfg.Strategy,
		logger:   logger,
		now:      time.Now,
	}
}

func (e *Emitter) Complete(date time.Time) bool {
	return e.tree.Complete(date)
}

// Emit stages all files of rec and commits the date folder. A failed
// snapshot is logged and does not fail the date.
func (e *Emitter) Emit(ctx context.Context, rec *models.AddressRecord) (*models.Manifest, error) {
	st, err := e.tree.Stage(rec.Date)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			if err := st.Discard(); err != nil {
				e.logger.Warn("[emitter] Could not remove %s: %v", st.Dir(), err)
			}
		}
	}()

	points := rec.SortedPoints()

	if err := storage.WriteLines(st.Path(AddressesFile), rec.SortedRanges()); err != nil {
		return nil, err
	}

	text, err := storage.NewTextWriter(st.Path(CoordinatesFile))
	if err != nil {
		return nil, err
	}
	csvw, err := storage.NewCSVWriter(st.Path(CoordinatesCSVFile))
	if err != nil {
		_ = text.Close()
		return nil, err
	}
	geo := storage.NewGeoJSONWriter(st.Path(GeoJSONFile))
	if err := storage.WritePoints(points, text, csvw, geo); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err := e.renderer.RenderMap(&page, rec.Date, points); err != nil {
		return nil, err
	}
	mapPath := st.Path(MapFile)
	if err := os.WriteFile(mapPath, page.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("emitter: write %s: %w", mapPath, err)
	}

	if e.snapshot != nil {
		pngPath := filepath.Join(st.Dir(), SnapshotFile)
		if err := e.snapshot.Capture(ctx, mapPath, pngPath); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn("[emitter] Map snapshot for %s failed: %v", storage.DateDirName(rec.Date), err)
		} else {
			st.Path(SnapshotFile)
		}
	}

	m := &models.Manifest{
		Date:        storage.DateDirName(rec.Date),
		RunID:       e.runID,
		GeneratedAt: e.now().UTC().Truncate(time.Second),
		Strategy:    e.strategy,
		Ranges:      len(rec.Ranges),
		Addresses:   len(rec.Addresses),
		Points:      len(points),
	}
	if err := st.Commit(m); err != nil {
		return nil, err
	}
	committed = true
	return m, nil
}

// WriteIndex rewrites Termine.txt with every date found and Termine.html
// with the dates that have a committed folder.
func (e *Emitter) WriteIndex(found []time.Time) error {
	if err := os.MkdirAll(e.tree.Root(), 0755); err != nil {
		return fmt.Errorf("emitter: create %s: %w", e.tree.Root(), err)
	}
	if err := storage.WriteDates(filepath.Join(e.tree.Root(), IndexTextFile), found); err != nil {
		return err
	}

	var page bytes.Buffer
	if err := e.renderer.RenderIndex(&page, e.tree.CompletedDates(found), e.now()); err != nil {
		return err
	}
	path := filepath.Join(e.tree.Root(), IndexHTMLFile)
	if err := os.WriteFile(path, page.Bytes(), 0644); err != nil {
		return fmt.Errorf("emitter: write %s: %w", path, err)
	}
	return nil
}
