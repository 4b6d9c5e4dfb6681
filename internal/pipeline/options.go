package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"edfconv/internal/config"
	"edfconv/internal/output"
	"edfconv/internal/services"
)

// Options are the resolved command-line inputs of one conversion.
type Options struct {
	OutputPath     string
	EDFPath        string
	AnnotationPath string
	Help           bool

	Scheme              string
	AnnotationExtension string
	RecordExtension     string
	Overwrite           bool
	Lock                bool
	Preflight           bool
}

// DefaultOptions returns options seeded from the config defaults.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg)
}

// OptionsFromConfig seeds options with the conversion and output settings
// from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		OutputPath:          ".",
		Scheme:              cfg.Conversion.Scheme,
		AnnotationExtension: cfg.Conversion.AnnotationExtension,
		RecordExtension:     cfg.Conversion.RecordExtension,
		Overwrite:           cfg.Output.Overwrite,
		Lock:                cfg.Output.Lock,
		Preflight:           true,
	}
}

// Validate reports every problem with the options at once. Each problem
// carries services.ErrArgument.
func (o Options) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, services.Wrap(services.ErrArgument, "arguments", "validate", fmt.Sprintf(format, args...), nil))
	}
	if strings.TrimSpace(o.EDFPath) == "" {
		add("edf_path is required")
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		add("output_path must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(o.Scheme)) {
	case "", config.SchemeTemple:
	default:
		add("unknown identifier scheme %q", o.Scheme)
	}
	if o.AnnotationPath != "" && filepath.Clean(o.AnnotationPath) == filepath.Clean(o.EDFPath) {
		add("edf_annotation_path must differ from edf_path")
	}
	if o.OutputPath != "" && o.EDFPath != "" && filepath.Clean(o.OutputPath) == filepath.Clean(o.EDFPath) {
		add("output_path must differ from edf_path")
	}
	return errors.Join(errs...)
}

// Resolve fills derived paths: an empty annotation path becomes the sibling
// of the EDF file with the annotation extension, and a directory output path
// becomes "<dir>/<edf stem><record extension>".
func (o Options) Resolve() Options {
	if o.AnnotationPath == "" && o.EDFPath != "" {
		ext := o.AnnotationExtension
		if ext == "" {
			ext = ".tse"
		}
		o.AnnotationPath = strings.TrimSuffix(o.EDFPath, filepath.Ext(o.EDFPath)) + ext
	}
	o.OutputPath = output.Destination(o.OutputPath, o.EDFPath, o.RecordExtension)
	return o
}
