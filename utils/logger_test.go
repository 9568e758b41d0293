package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.SetOutput(&buf)

	if err := l.SetLevel("warn"); err != nil {
		t.Fatal(err)
	}
	l.Info("[test] hidden %d", 1)
	l.Warn("[test] shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "[test] shown 2") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	if err := NewDiscardLogger().SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNormaliseName(t *testing.T) {
	// "Ko" + combining diaeresis, as exported by some spreadsheet tools.
	decomposed := " Ko\u0308lnstraße "
	if got := NormaliseName(decomposed); got != "Kölnstraße" {
		t.Errorf("NormaliseName: got %q, want %q", got, "Kölnstraße")
	}
}
