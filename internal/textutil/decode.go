package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
)

// DecodeField converts a fixed-width header field to trimmed UTF-8. Pure ASCII
// input is returned as-is; other bytes are interpreted as ISO-8859-1, which is
// what most EEG acquisition systems write despite the ASCII-only header rule.
func DecodeField(raw []byte) string {
	if isASCII(raw) {
		return strings.TrimSpace(string(raw))
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil || !utf8.Valid(decoded) {
		return strings.TrimSpace(strings.ToValidUTF8(string(raw), "�"))
	}
	return strings.TrimSpace(string(decoded))
}

// FoldLabel trims and lower-cases a free-text label.
func FoldLabel(label string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(label))
}

// DecodeText converts a whole text file to UTF-8. Valid UTF-8 is returned
// unchanged; anything else is read as ISO-8859-1.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(decoded)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
