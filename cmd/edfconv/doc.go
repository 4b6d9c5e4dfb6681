// Package main hosts the edfconv CLI entrypoint and command graph.
//
// The root command converts one EDF/EDF+ recording and its annotation file
// into a single TFRecord-framed tf.Example. Subcommands inspect written
// records and scaffold or validate the configuration file. Flag parsing,
// configuration resolution and logger setup live here; the conversion itself
// is delegated to internal/pipeline.
//
// Exit status is 0 on success, help, or when --edf_path is omitted; 2 when
// the command line is invalid; 1 when a conversion stage fails.
package main
