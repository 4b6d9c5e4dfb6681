// Package edf reads European Data Format (EDF and EDF+) recordings.
//
// Parse decodes the fixed header, the per-signal headers, and every data
// record into physical-unit samples. EDF+ "EDF Annotations" signals are not
// returned as channels; their time-stamped annotation lists are decoded
// instead. Load wraps Parse for the conversion pipeline: it opens a file,
// applies an institution identifier scheme, and returns a recording.Recording.
//
// Header text is decoded leniently (ISO-8859-1 bytes are accepted) but the
// numeric layout is strict: a header size that disagrees with the signal
// count, a non-positive record duration, or a truncated data record is an
// error.
package edf
