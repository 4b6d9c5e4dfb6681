// Package textutil provides small text helpers shared by the parsers and the
// output writer.
//
// The primary use cases are:
//   - Decoding fixed-width header fields that may carry ISO-8859-1 bytes
//   - Folding free-text labels to a canonical lower case
//   - Sanitizing filenames derived from recording names
package textutil
