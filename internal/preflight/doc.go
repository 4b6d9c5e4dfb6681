// Package preflight checks that a conversion can read its input and write its
// output before any parsing starts.
//
// Checks only inspect permissions with access(2); they never create, open for
// writing, or modify anything. A failing input check maps to a load error and
// a failing output check to a write error, matching the stage that would
// otherwise have failed later.
package preflight
