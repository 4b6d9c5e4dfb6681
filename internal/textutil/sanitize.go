package textutil

import (
	"strings"
	"unicode"
)

const fallbackStem = "recording"

// SanitizeStem turns an EDF base name into a record file stem. Path
// separators, shell-hostile punctuation and control characters become
// underscores, whitespace runs collapse to one underscore, and leading dots
// are dropped so the record is never a hidden file. An empty result becomes
// "recording".
func SanitizeStem(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
	stem := strings.Join(strings.Fields(mapped), "_")
	stem = strings.TrimLeft(stem, ".")
	if stem == "" {
		return fallbackStem
	}
	return stem
}
