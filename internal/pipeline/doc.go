// Package pipeline runs one conversion: load the recording, attach patient
// metadata, load the annotation, build the example and write it.
//
// Stages run strictly in order and the first failure ends the run. Every
// stage collaborator sits behind a small interface so tests can substitute
// fakes; Default wires the real implementations. Progress is tracked as a
// State that moves forward one step per stage and lands in DONE or FAILED.
package pipeline
