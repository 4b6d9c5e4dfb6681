package example

import (
	"fmt"
	"sort"
)

// Kind identifies which list a Feature holds.
type Kind int

const (
	KindBytes Kind = iota + 1
	KindFloat
	KindInt64
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindFloat:
		return "float"
	case KindInt64:
		return "int64"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Feature is one named value list. Only the list matching Kind is used.
type Feature struct {
	Kind   Kind
	Bytes  [][]byte
	Floats []float32
	Int64s []int64
}

// BytesFeature returns a bytes list feature.
func BytesFeature(values ...[]byte) Feature {
	return Feature{Kind: KindBytes, Bytes: values}
}

// StringFeature returns a bytes list feature holding the given strings.
func StringFeature(values ...string) Feature {
	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return Feature{Kind: KindBytes, Bytes: out}
}

// FloatFeature returns a float list feature.
func FloatFeature(values ...float32) Feature {
	return Feature{Kind: KindFloat, Floats: values}
}

// Int64Feature returns an int64 list feature.
func Int64Feature(values ...int64) Feature {
	return Feature{Kind: KindInt64, Int64s: values}
}

// Len returns the number of values in the feature's list.
func (f Feature) Len() int {
	switch f.Kind {
	case KindBytes:
		return len(f.Bytes)
	case KindFloat:
		return len(f.Floats)
	case KindInt64:
		return len(f.Int64s)
	default:
		return 0
	}
}

// Strings returns the bytes list as strings.
func (f Feature) Strings() []string {
	out := make([]string, len(f.Bytes))
	for i, b := range f.Bytes {
		out[i] = string(b)
	}
	return out
}

// Example is a set of named features.
type Example struct {
	Features map[string]Feature
}

// New returns an empty Example.
func New() *Example {
	return &Example{Features: make(map[string]Feature)}
}

// Set stores a feature under key, replacing any previous value.
func (e *Example) Set(key string, f Feature) {
	if e.Features == nil {
		e.Features = make(map[string]Feature)
	}
	e.Features[key] = f
}

// Get returns the feature stored under key.
func (e *Example) Get(key string) (Feature, bool) {
	f, ok := e.Features[key]
	return f, ok
}

// Keys returns the feature names in sorted order.
func (e *Example) Keys() []string {
	keys := make([]string, 0, len(e.Features))
	for k := range e.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
