package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edfconv/internal/testsupport"
)

// isolate points HOME and the working directory at fresh temp dirs so no
// user or project config is picked up.
func isolate(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("EDFCONV_LOG_LEVEL", "")
	t.Setenv("EDFCONV_LOG_FORMAT", "")
	t.Setenv("EDFCONV_SCHEME", "")
	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	t.Chdir(work)
	return work
}

// writeSession creates s001.edf for patient p001 with a sibling s001.tse.
func writeSession(t *testing.T, dir string) string {
	t.Helper()

	edfPath := filepath.Join(dir, "s001.edf")
	testsupport.WriteEDF(t, edfPath, testsupport.SimpleEDF("p001"))
	testsupport.WriteTSE(t, filepath.Join(dir, "s001.tse"),
		testsupport.TSEEvent{Start: 0, Stop: 1.5, Label: "seiz", Confidence: 1})
	return edfPath
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func runExecute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}
