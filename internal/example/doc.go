// Package example builds tensorflow.Example records from a loaded recording
// and its annotations.
//
// The Example type mirrors the tensorflow.Example protobuf message: a map of
// named features, each holding a bytes, float or int64 list. Marshal writes
// the standard wire encoding directly with protowire, so no generated
// TensorFlow bindings are needed; keys are emitted in sorted order so the
// same input always yields the same bytes.
package example
