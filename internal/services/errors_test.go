package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"edfconv/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrLoad, "edf", "read header", "truncated", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrLoad) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"edf", "read header", "truncated"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrLoad) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "conversion failure") {
		t.Fatalf("expected fallback detail, got %q", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"argument", services.Wrap(services.ErrArgument, "cli", "parse flags", "bad flag", nil), services.ExitUsage},
		{"wrapped argument", fmt.Errorf("outer: %w", services.Wrap(services.ErrArgument, "", "", "x", nil)), services.ExitUsage},
		{"load", services.Wrap(services.ErrLoad, "edf", "open", "", errors.New("missing")), services.ExitFatal},
		{"write", services.Wrap(services.ErrWrite, "output", "rename", "", nil), services.ExitFatal},
		{"plain", errors.New("unexpected"), services.ExitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindAndHint(t *testing.T) {
	err := services.Wrap(services.ErrBuild, "example", "encode", "", nil)
	if got := services.Kind(err); got != "build_error" {
		t.Fatalf("unexpected kind %q", got)
	}
	if services.Hint(err) == "" {
		t.Fatal("expected hint")
	}
	if got := services.Kind(errors.New("x")); got != "internal_error" {
		t.Fatalf("unexpected kind for unmarked error %q", got)
	}
}
