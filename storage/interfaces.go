package storage

import (
	"context"
	"time"

	"sperrmuell/models"
)

// PointWriter is the interface any per-date point sink must satisfy.
type PointWriter interface {
	Write(points []models.Point) error
	Close() error
}

// Sink receives the finished record of every collection date.
type Sink interface {
	// Complete reports whether date already has a committed folder.
	Complete(date time.Time) bool
	// Emit writes every output of rec and commits the date folder.
	Emit(ctx context.Context, rec *models.AddressRecord) (*models.Manifest, error)
	// WriteIndex regenerates the cumulative outputs at the output root.
	WriteIndex(found []time.Time) error
}
