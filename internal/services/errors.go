package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArgument      = errors.New("argument error")
	ErrConfiguration = errors.New("configuration error")
	ErrLoad          = errors.New("load error")
	ErrBuild         = errors.New("build error")
	ErrWrite         = errors.New("write error")
)

const (
	// ExitUsage is returned when the command line could not be parsed. No work
	// is attempted.
	ExitUsage = 2
	// ExitFatal is returned when a stage fails after arguments were accepted.
	ExitFatal = 1
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrLoad
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error returned by the command tree to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrArgument):
		return ExitUsage
	default:
		return ExitFatal
	}
}

// Kind returns a short label for the marker carried by err, used as the
// event_type of fatal log lines.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrArgument):
		return "argument_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrLoad):
		return "load_error"
	case errors.Is(err, ErrBuild):
		return "build_error"
	case errors.Is(err, ErrWrite):
		return "write_error"
	default:
		return "internal_error"
	}
}

// Hint returns operator guidance for the marker carried by err.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrArgument):
		return "run with --help for usage"
	case errors.Is(err, ErrConfiguration):
		return "check the config file or run 'edfconv config validate'"
	case errors.Is(err, ErrLoad):
		return "verify the EDF and annotation paths point at readable, well-formed files"
	case errors.Is(err, ErrBuild):
		return "inspect channel labels and annotation spans in the inputs"
	case errors.Is(err, ErrWrite):
		return "verify output_path is writable and not locked by another conversion"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
