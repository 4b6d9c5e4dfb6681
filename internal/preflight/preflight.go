package preflight

import (
	"errors"
	"os"
	"path/filepath"

	"edfconv/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Marker classifies a failure (services.ErrLoad or services.ErrWrite).
	Marker error
}

// Request names the paths a conversion will touch.
type Request struct {
	EDFPath string
	// OutputPath is the resolved destination file or directory.
	OutputPath string
}

// RunAll executes every check for req.
func RunAll(req Request) []Result {
	input := CheckFileReadable("EDF file", req.EDFPath)
	input.Marker = services.ErrLoad

	output := CheckDirectoryAccess("Output directory", outputDir(req.OutputPath))
	output.Marker = services.ErrWrite

	return []Result{input, output}
}

// Check runs all checks and returns the failures as one error, or nil.
func Check(req Request) error {
	var errs []error
	for _, r := range RunAll(req) {
		if r.Passed {
			continue
		}
		errs = append(errs, services.Wrap(r.Marker, "preflight", r.Name, r.Detail, nil))
	}
	return errors.Join(errs...)
}

func outputDir(path string) string {
	if path == "" {
		return "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
