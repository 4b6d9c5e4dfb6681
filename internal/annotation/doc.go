// Package annotation reads the human annotation file that accompanies an EEG
// recording and aligns it to the recording's timeline.
//
// Parsers are chosen through a Registry: each parser reports whether it can
// handle a file from its name and leading bytes, and the first match wins.
// The default registry knows Temple .tse event files and falls back to
// keeping the file as one free-text annotation.
package annotation
