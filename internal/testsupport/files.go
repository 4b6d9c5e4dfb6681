package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TSEEvent is one line of a Temple .tse annotation file.
type TSEEvent struct {
	Start      float64
	Stop       float64
	Label      string
	Confidence float64
}

// TSE renders events in the tse_v1.0.0 layout.
func TSE(events ...TSEEvent) []byte {
	var b strings.Builder
	b.WriteString("version = tse_v1.0.0\n\n")
	for _, ev := range events {
		b.WriteString(formatFixed(ev.Start))
		b.WriteByte(' ')
		b.WriteString(formatFixed(ev.Stop))
		b.WriteByte(' ')
		b.WriteString(ev.Label)
		b.WriteByte(' ')
		b.WriteString(formatFixed(ev.Confidence))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WriteTSE writes a .tse file at path.
func WriteTSE(t testing.TB, path string, events ...TSEEvent) {
	t.Helper()
	WriteFile(t, path, TSE(events...))
}

// AssertNotExist fails the test when path exists.
func AssertNotExist(t testing.TB, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("expected %s to be absent", path)
	} else if !os.IsNotExist(err) {
		t.Fatalf("stat %s: %v", path, err)
	}
}
