package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"edfconv/internal/services"
	"edfconv/internal/testsupport"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithScheme("temple"), testsupport.WithOverwrite(false))
	opts := OptionsFromConfig(cfg)
	if opts.OutputPath != "." || opts.Scheme != "temple" || opts.Overwrite || !opts.Lock || !opts.Preflight {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.AnnotationExtension != ".tse" || opts.RecordExtension != ".tfrecord" {
		t.Fatalf("unexpected extensions %+v", opts)
	}
}

func TestOptionsValidateCollectsAll(t *testing.T) {
	opts := Options{EDFPath: "a.edf", AnnotationPath: "./a.edf", OutputPath: "a.edf", Scheme: "x"}
	err := opts.Validate()
	if !errors.Is(err, services.ErrArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", n, err)
	}
}

func TestOptionsResolve(t *testing.T) {
	dir := t.TempDir()
	opts := Options{EDFPath: filepath.Join(dir, "s001.edf"), OutputPath: dir, AnnotationExtension: ".tse_bi"}
	got := opts.Resolve()
	if got.AnnotationPath != filepath.Join(dir, "s001.tse_bi") {
		t.Fatalf("annotation path = %q", got.AnnotationPath)
	}
	if got.OutputPath != filepath.Join(dir, "s001.tfrecord") {
		t.Fatalf("output path = %q", got.OutputPath)
	}

	explicit := Options{EDFPath: "s001.edf", AnnotationPath: "notes.txt", OutputPath: filepath.Join(dir, "x.tfrecord")}.Resolve()
	if explicit.AnnotationPath != "notes.txt" || explicit.OutputPath != filepath.Join(dir, "x.tfrecord") {
		t.Fatalf("explicit paths changed: %+v", explicit)
	}
}
