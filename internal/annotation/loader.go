package annotation

import (
	"fmt"
	"os"
	"strings"

	"edfconv/internal/recording"
	"edfconv/internal/services"
)

// Loader reads annotation files through a parser registry.
type Loader struct {
	Registry *Registry
}

// NewLoader returns a loader backed by the default registry.
func NewLoader() *Loader {
	return &Loader{Registry: NewRegistry()}
}

// Load reads the annotation file at path and aligns it with rec. Every error
// carries services.ErrLoad.
func (l *Loader) Load(rec *recording.Recording, path string) (Annotation, error) {
	if rec == nil {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "load", "recording is nil", nil)
	}
	if strings.TrimSpace(path) == "" {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "open", "annotation path is empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "open", path, err)
	}
	if info.IsDir() {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "open", fmt.Sprintf("%s is a directory", path), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "read", path, err)
	}

	registry := l.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	parser, err := registry.Find(path, data)
	if err != nil {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "select parser", "", err)
	}
	ann, err := parser.Parse(path, data)
	if err != nil {
		return Annotation{}, services.Wrap(services.ErrLoad, "annotation", "parse "+parser.Name(), path, err)
	}
	ann.StartTime = rec.StartTime
	ann.EndTime = rec.EndTime()
	return ann, nil
}

// Load reads path with the default registry.
func Load(rec *recording.Recording, path string) (Annotation, error) {
	return NewLoader().Load(rec, path)
}
