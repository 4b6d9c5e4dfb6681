package annotation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"edfconv/internal/textutil"
)

const tseVersionPrefix = "tse_v1"

type tseParser struct{}

// NewTSEParser returns the parser for Temple .tse and .tse_bi event files:
// a "version = tse_v1.0.0" header followed by "start stop label confidence"
// lines with times in seconds.
func NewTSEParser() Parser {
	return tseParser{}
}

func (tseParser) Name() string { return string(KindTSE) }

func (tseParser) CanParse(path string, head []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tse", ".tse_bi":
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(head), []byte("version = tse_"))
}

func (tseParser) Parse(path string, data []byte) (Annotation, error) {
	text := textutil.DecodeText(data)
	ann := Annotation{Kind: KindTSE, Source: path, RawText: text}

	scanner := bufio.NewScanner(strings.NewReader(text))
	sawVersion := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if key, value, ok := strings.Cut(line, "="); ok && strings.TrimSpace(key) == "version" {
			version := strings.TrimSpace(value)
			if !strings.HasPrefix(version, tseVersionPrefix) {
				return Annotation{}, fmt.Errorf("line %d: unsupported tse version %q", lineNo, version)
			}
			sawVersion = true
			continue
		}
		if !sawVersion {
			return Annotation{}, fmt.Errorf("line %d: missing tse version header", lineNo)
		}
		span, err := parseTSELine(line)
		if err != nil {
			return Annotation{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ann.Spans = append(ann.Spans, span)
	}
	if err := scanner.Err(); err != nil {
		return Annotation{}, err
	}
	if !sawVersion {
		return Annotation{}, errors.New("missing tse version header")
	}
	return ann, nil
}

func parseTSELine(line string) (Span, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 4 {
		return Span{}, fmt.Errorf("expected start stop label [confidence], got %d fields", len(fields))
	}
	start, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Span{}, fmt.Errorf("invalid start %q", fields[0])
	}
	stop, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Span{}, fmt.Errorf("invalid stop %q", fields[1])
	}
	confidence := 1.0
	if len(fields) == 4 {
		if confidence, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return Span{}, fmt.Errorf("invalid confidence %q", fields[3])
		}
	}
	if start < 0 {
		return Span{}, fmt.Errorf("negative start %v", start)
	}
	if stop < start {
		return Span{}, fmt.Errorf("stop %v precedes start %v", stop, start)
	}
	return Span{
		Start:      start,
		End:        stop,
		Label:      textutil.FoldLabel(fields[2]),
		Confidence: confidence,
		Raw:        line,
	}, nil
}
