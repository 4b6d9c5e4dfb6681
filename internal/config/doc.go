// Package config loads, normalizes, and validates edfconv configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// EDFCONV_LOG_LEVEL. Command-line flags cover a single conversion; this file
// covers the knobs that stay the same across runs (logging, the institution
// naming scheme, output locking and overwrite policy).
//
// Always obtain settings through this package so downstream code receives
// canonical log formats, a known scheme, and clear validation errors.
package config
