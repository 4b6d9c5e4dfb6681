package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"edfconv/internal/logging"
	"edfconv/internal/services"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd, ctx := buildRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	reportError(ctx, stderr, err)
	return services.ExitCode(err)
}

// reportError prints argument errors one per line and logs everything else
// as a fatal ERROR line carrying event_type and error_hint.
func reportError(ctx *commandContext, stderr io.Writer, err error) {
	if errors.Is(err, services.ErrArgument) {
		for _, e := range flatten(err) {
			fmt.Fprintf(stderr, "Error in argument: %v\n", e)
		}
		fmt.Fprintln(stderr, "Run 'edfconv --help' for usage.")
		return
	}
	logger := ctx.loggerFor(stderr)
	logging.ErrorWithContext(logger, "conversion failed", services.Kind(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
		logging.Error(err),
	)
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
