package edf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	talTextSep     = 0x14
	talDurationSep = 0x15
	talEnd         = 0x00
)

// TAL is one EDF+ time-stamped annotation list: an onset relative to the file
// start, an optional duration, and one or more annotation texts.
type TAL struct {
	Onset    time.Duration
	Duration time.Duration
	Texts    []string
}

// parseTALs decodes the annotation bytes of one data record. Entries whose
// texts are all empty are time-keeping markers and are dropped.
func parseTALs(raw []byte) ([]TAL, error) {
	var out []TAL
	for _, entry := range bytes.Split(raw, []byte{talEnd}) {
		if len(entry) == 0 {
			continue
		}
		parts := bytes.Split(entry, []byte{talTextSep})
		onset, duration, err := parseTALTiming(string(parts[0]))
		if err != nil {
			return nil, err
		}
		var texts []string
		for _, p := range parts[1:] {
			if text := strings.TrimSpace(string(p)); text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) == 0 {
			continue
		}
		out = append(out, TAL{Onset: onset, Duration: duration, Texts: texts})
	}
	return out, nil
}

func parseTALTiming(value string) (time.Duration, time.Duration, error) {
	onsetText, durationText, hasDuration := strings.Cut(value, string(rune(talDurationSep)))
	if onsetText == "" || (onsetText[0] != '+' && onsetText[0] != '-') {
		return 0, 0, fmt.Errorf("onset %q must start with a sign", onsetText)
	}
	onset, err := strconv.ParseFloat(onsetText, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid onset %q", onsetText)
	}
	var duration float64
	if hasDuration && durationText != "" {
		if duration, err = strconv.ParseFloat(durationText, 64); err != nil || duration < 0 {
			return 0, 0, fmt.Errorf("invalid duration %q", durationText)
		}
	}
	return seconds(onset), seconds(duration), nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
