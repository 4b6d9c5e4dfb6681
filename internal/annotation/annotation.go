package annotation

import "time"

// Kind names the format an annotation was read from.
type Kind string

const (
	KindTSE     Kind = "tse"
	KindRawText Kind = "raw_text"
)

// Span is one labelled interval, in seconds from the recording start.
type Span struct {
	Start      float64
	End        float64
	Label      string
	Confidence float64
	Channel    string
	Raw        string
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Annotation is the structured content of one annotation file.
type Annotation struct {
	Kind      Kind
	Source    string
	RawText   string
	StartTime time.Time
	EndTime   time.Time
	Spans     []Span
}

// Set is an ordered collection of annotations attached to one recording.
type Set struct {
	Annotations []Annotation
}

// NewSet wraps annotations in a Set, preserving order.
func NewSet(annotations ...Annotation) *Set {
	return &Set{Annotations: annotations}
}

// Len returns the number of annotations.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Annotations)
}

// Spans flattens the spans of every annotation in order.
func (s *Set) Spans() []Span {
	if s == nil {
		return nil
	}
	var out []Span
	for _, a := range s.Annotations {
		out = append(out, a.Spans...)
	}
	return out
}
