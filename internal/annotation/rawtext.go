package annotation

import (
	"strings"

	"edfconv/internal/textutil"
)

type rawTextParser struct{}

// NewRawTextParser returns the fallback parser: it accepts any file and keeps
// its content as a single free-text annotation without spans.
func NewRawTextParser() Parser {
	return rawTextParser{}
}

func (rawTextParser) Name() string { return string(KindRawText) }

func (rawTextParser) CanParse(string, []byte) bool { return true }

func (rawTextParser) Parse(path string, data []byte) (Annotation, error) {
	return Annotation{
		Kind:    KindRawText,
		Source:  path,
		RawText: strings.TrimSpace(textutil.DecodeText(data)),
	}, nil
}
