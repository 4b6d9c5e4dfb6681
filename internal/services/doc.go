// Package services defines shared utilities consumed by the conversion stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp the run identifier and current stage name for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (argument, configuration, load, build, write) so the CLI can choose
//     between a graceful usage exit and a fatal abort.
//
// Use these helpers when wiring new stage logic so error reporting stays
// uniform across the pipeline.
package services
