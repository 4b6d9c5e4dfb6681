// Package output writes the converted record to its destination.
//
// A write holds an exclusive advisory lock on "<destination>.lock" for its
// whole duration, refuses to replace an existing file unless overwriting is
// enabled, and goes through a temp file that is synced and renamed into
// place, so readers only ever observe the old file or the complete new one.
package output
