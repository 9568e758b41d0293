package storage

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"sperrmuell/models"
)

// TextWriter writes resolved points as ('label', lat, lon) lines.
type TextWriter struct {
	file *os.File
	buf  *bufio.Writer
}

func NewTextWriter(path string) (*TextWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("text: create file %q: %w", path, err)
	}
	return &TextWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

func (t *TextWriter) Write(points []models.Point) error {
	for _, p := range points {
		if _, err := fmt.Fprintln(t.buf, p.Tuple()); err != nil {
			return fmt.Errorf("text: write line: %w", err)
		}
	}
	return nil
}

func (t *TextWriter) Close() error {
	if err := t.buf.Flush(); err != nil {
		_ = t.file.Close()
		return fmt.Errorf("text: flush: %w", err)
	}
	return t.file.Close()
}

// WriteLines writes one line per entry to path, replacing any previous file.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("text: create file %q: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			_ = f.Close()
			return fmt.Errorf("text: write %q: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("text: write %q: %w", path, err)
	}
	return f.Close()
}

// WriteDates writes dates as YYYY-MM-DD lines.
func WriteDates(path string, dates []time.Time) error {
	lines := make([]string, len(dates))
	for i, d := range dates {
		lines[i] = DateDirName(d)
	}
	return WriteLines(path, lines)
}

// WritePoints writes points with every configured PointWriter and closes them.
func WritePoints(points []models.Point, writers ...PointWriter) error {
	var firstErr error
	for _, w := range writers {
		if err := w.Write(points); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
