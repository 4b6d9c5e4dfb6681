package testsupport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"testing"
	"time"
)

// EDFSignal describes one signal of a synthetic EDF file. Samples holds the
// digital values for all records back to back.
type EDFSignal struct {
	Label            string
	Dimension        string
	PhysicalMin      float64
	PhysicalMax      float64
	DigitalMin       int
	DigitalMax       int
	SamplesPerRecord int
	Samples          []int16
	// Annotations, when set, marks an "EDF Annotations" signal; each entry is
	// the raw TAL bytes for one record, zero-padded to SamplesPerRecord*2.
	Annotations [][]byte
}

// EDFSpec describes a synthetic EDF file.
type EDFSpec struct {
	Patient        string
	Recording      string
	Start          time.Time
	Reserved       string
	NumRecords     int
	RecordDuration float64
	// DeclaredRecords overrides the header's record count (use -1 for unknown).
	DeclaredRecords *int
	Signals         []EDFSignal
}

// SimpleEDF returns a two-channel, two-record spec with 4 samples per record
// and unit gain (digital == physical).
func SimpleEDF(patient string) EDFSpec {
	return EDFSpec{
		Patient:        patient,
		Recording:      "Startdate 21-JUL-2003 X X X",
		Start:          time.Date(2003, 7, 21, 10, 30, 0, 0, time.UTC),
		NumRecords:     2,
		RecordDuration: 1,
		Signals: []EDFSignal{
			UnitSignal("EEG FP1-REF", 4, []int16{1, 2, 3, 4, 5, 6, 7, 8}),
			UnitSignal("EEG FP2-REF", 4, []int16{-1, -2, -3, -4, -5, -6, -7, -8}),
		},
	}
}

// UnitSignal builds a microvolt signal whose physical values equal the digital ones.
func UnitSignal(label string, samplesPerRecord int, samples []int16) EDFSignal {
	return EDFSignal{
		Label:            label,
		Dimension:        "uV",
		PhysicalMin:      -32768,
		PhysicalMax:      32767,
		DigitalMin:       -32768,
		DigitalMax:       32767,
		SamplesPerRecord: samplesPerRecord,
		Samples:          samples,
	}
}

// EncodeEDF renders spec as EDF bytes.
func EncodeEDF(spec EDFSpec) []byte {
	var buf bytes.Buffer
	ns := len(spec.Signals)
	declared := spec.NumRecords
	if spec.DeclaredRecords != nil {
		declared = *spec.DeclaredRecords
	}

	field(&buf, "0", 8)
	field(&buf, spec.Patient, 80)
	field(&buf, spec.Recording, 80)
	field(&buf, spec.Start.Format("02.01.06"), 8)
	field(&buf, spec.Start.Format("15.04.05"), 8)
	field(&buf, strconv.Itoa(256*(ns+1)), 8)
	field(&buf, spec.Reserved, 44)
	field(&buf, strconv.Itoa(declared), 8)
	field(&buf, strconv.FormatFloat(spec.RecordDuration, 'g', -1, 64), 8)
	field(&buf, strconv.Itoa(ns), 4)

	for _, s := range spec.Signals {
		field(&buf, s.Label, 16)
	}
	for range spec.Signals {
		field(&buf, "", 80)
	}
	for _, s := range spec.Signals {
		field(&buf, s.Dimension, 8)
	}
	for _, s := range spec.Signals {
		field(&buf, strconv.FormatFloat(s.PhysicalMin, 'g', -1, 64), 8)
	}
	for _, s := range spec.Signals {
		field(&buf, strconv.FormatFloat(s.PhysicalMax, 'g', -1, 64), 8)
	}
	for _, s := range spec.Signals {
		field(&buf, strconv.Itoa(s.DigitalMin), 8)
	}
	for _, s := range spec.Signals {
		field(&buf, strconv.Itoa(s.DigitalMax), 8)
	}
	for range spec.Signals {
		field(&buf, "", 80)
	}
	for _, s := range spec.Signals {
		field(&buf, strconv.Itoa(s.SamplesPerRecord), 8)
	}
	for range spec.Signals {
		field(&buf, "", 32)
	}

	for rec := 0; rec < spec.NumRecords; rec++ {
		for _, s := range spec.Signals {
			if s.Annotations != nil {
				chunk := make([]byte, s.SamplesPerRecord*2)
				if rec < len(s.Annotations) {
					copy(chunk, s.Annotations[rec])
				}
				buf.Write(chunk)
				continue
			}
			for i := 0; i < s.SamplesPerRecord; i++ {
				var v int16
				if idx := rec*s.SamplesPerRecord + i; idx < len(s.Samples) {
					v = s.Samples[idx]
				}
				_ = binary.Write(&buf, binary.LittleEndian, v)
			}
		}
	}
	return buf.Bytes()
}

// WriteEDF writes spec as an EDF file at path.
func WriteEDF(t testing.TB, path string, spec EDFSpec) {
	t.Helper()
	WriteFile(t, path, EncodeEDF(spec))
}

func field(buf *bytes.Buffer, value string, width int) {
	if len(value) > width {
		panic(fmt.Sprintf("edf field %q exceeds width %d", value, width))
	}
	buf.WriteString(value)
	for i := len(value); i < width; i++ {
		buf.WriteByte(' ')
	}
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
