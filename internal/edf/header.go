package edf

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"edfconv/internal/textutil"
)

const (
	fixedHeaderSize  = 256
	signalHeaderSize = 256

	// AnnotationsLabel marks an EDF+ signal that carries annotation lists
	// rather than samples.
	AnnotationsLabel = "EDF Annotations"
)

// Header is the decoded fixed-size part of an EDF header.
type Header struct {
	Version        string
	Patient        string
	Recording      string
	StartTime      time.Time
	HeaderBytes    int
	Reserved       string
	NumRecords     int
	RecordDuration time.Duration
	Signals        []SignalHeader
}

// SignalHeader describes one signal.
type SignalHeader struct {
	Label            string
	Transducer       string
	Dimension        string
	PhysicalMin      float64
	PhysicalMax      float64
	DigitalMin       int
	DigitalMax       int
	Prefiltering     string
	SamplesPerRecord int
	Reserved         string
}

// IsAnnotations reports whether the signal is an EDF+ annotation channel.
func (s SignalHeader) IsAnnotations() bool {
	return s.Label == AnnotationsLabel
}

// Gain returns the physical units per digital step.
func (s SignalHeader) Gain() float64 {
	return (s.PhysicalMax - s.PhysicalMin) / float64(s.DigitalMax-s.DigitalMin)
}

// Physical converts a digital sample to physical units.
func (s SignalHeader) Physical(digital int16) float64 {
	return s.PhysicalMin + float64(int(digital)-s.DigitalMin)*s.Gain()
}

// RecordBytes returns the size of one data record.
func (h Header) RecordBytes() int {
	total := 0
	for _, sig := range h.Signals {
		total += sig.SamplesPerRecord * 2
	}
	return total
}

// IsEDFPlus reports whether the reserved field marks an EDF+ file.
func (h Header) IsEDFPlus() bool {
	return strings.HasPrefix(h.Reserved, "EDF+")
}

type fieldReader struct {
	buf []byte
	off int
}

func (f *fieldReader) next(width int) []byte {
	field := f.buf[f.off : f.off+width]
	f.off += width
	return field
}

func (f *fieldReader) text(width int) string {
	return textutil.DecodeField(f.next(width))
}

func readHeader(r io.Reader) (Header, error) {
	fixed := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return Header{}, fmt.Errorf("read fixed header: %w", err)
	}
	f := &fieldReader{buf: fixed}

	var h Header
	var err error
	h.Version = f.text(8)
	if h.Version != "0" {
		return Header{}, fmt.Errorf("unsupported version field %q", h.Version)
	}
	h.Patient = f.text(80)
	h.Recording = f.text(80)
	startDate := f.text(8)
	startTime := f.text(8)
	if h.HeaderBytes, err = parseIntField("header bytes", f.text(8)); err != nil {
		return Header{}, err
	}
	h.Reserved = f.text(44)
	if h.NumRecords, err = parseIntField("number of data records", f.text(8)); err != nil {
		return Header{}, err
	}
	durationSeconds, err := parseFloatField("data record duration", f.text(8))
	if err != nil {
		return Header{}, err
	}
	numSignals, err := parseIntField("number of signals", f.text(4))
	if err != nil {
		return Header{}, err
	}

	if numSignals <= 0 {
		return Header{}, fmt.Errorf("number of signals must be positive (got %d)", numSignals)
	}
	if want := fixedHeaderSize + numSignals*signalHeaderSize; h.HeaderBytes != want {
		return Header{}, fmt.Errorf("header bytes %d does not match %d signals (want %d)", h.HeaderBytes, numSignals, want)
	}
	if durationSeconds <= 0 {
		return Header{}, fmt.Errorf("data record duration must be positive (got %v)", durationSeconds)
	}
	if h.NumRecords < -1 {
		return Header{}, fmt.Errorf("invalid number of data records %d", h.NumRecords)
	}
	h.RecordDuration = time.Duration(durationSeconds * float64(time.Second))

	if h.StartTime, err = parseStart(startDate, startTime, h.Recording); err != nil {
		return Header{}, err
	}

	signals, err := readSignalHeaders(r, numSignals)
	if err != nil {
		return Header{}, err
	}
	h.Signals = signals
	return h, nil
}

func readSignalHeaders(r io.Reader, n int) ([]SignalHeader, error) {
	raw := make([]byte, n*signalHeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read signal headers: %w", err)
	}
	f := &fieldReader{buf: raw}
	signals := make([]SignalHeader, n)

	// Each attribute is stored for all signals before the next attribute.
	for i := range signals {
		signals[i].Label = f.text(16)
	}
	for i := range signals {
		signals[i].Transducer = f.text(80)
	}
	for i := range signals {
		signals[i].Dimension = f.text(8)
	}
	var errs []error
	for i := range signals {
		v, err := parseFloatField("physical minimum", f.text(8))
		errs = append(errs, signalErr(i, err))
		signals[i].PhysicalMin = v
	}
	for i := range signals {
		v, err := parseFloatField("physical maximum", f.text(8))
		errs = append(errs, signalErr(i, err))
		signals[i].PhysicalMax = v
	}
	for i := range signals {
		v, err := parseIntField("digital minimum", f.text(8))
		errs = append(errs, signalErr(i, err))
		signals[i].DigitalMin = v
	}
	for i := range signals {
		v, err := parseIntField("digital maximum", f.text(8))
		errs = append(errs, signalErr(i, err))
		signals[i].DigitalMax = v
	}
	for i := range signals {
		signals[i].Prefiltering = f.text(80)
	}
	for i := range signals {
		v, err := parseIntField("samples per record", f.text(8))
		errs = append(errs, signalErr(i, err))
		signals[i].SamplesPerRecord = v
	}
	for i := range signals {
		signals[i].Reserved = f.text(32)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for i, sig := range signals {
		if sig.SamplesPerRecord <= 0 {
			return nil, fmt.Errorf("signal %d (%s): samples per record must be positive", i, sig.Label)
		}
		if sig.DigitalMax <= sig.DigitalMin {
			return nil, fmt.Errorf("signal %d (%s): digital maximum %d must exceed minimum %d", i, sig.Label, sig.DigitalMax, sig.DigitalMin)
		}
		if sig.PhysicalMax == sig.PhysicalMin && !sig.IsAnnotations() {
			return nil, fmt.Errorf("signal %d (%s): physical range is empty", i, sig.Label)
		}
	}
	return signals, nil
}

func signalErr(index int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("signal %d: %w", index, err)
}

func parseIntField(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", name, value)
	}
	return n, nil
}

func parseFloatField(name, value string) (float64, error) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", name, value)
	}
	return n, nil
}

// parseStart combines the dd.mm.yy and hh.mm.ss header fields. EDF years are
// two digits (85-99 map to 19xx, 00-84 to 20xx); an EDF+ recording field of
// the form "Startdate DD-MMM-YYYY ..." supplies the full year when present.
func parseStart(date, clock, recordingField string) (time.Time, error) {
	var day, month, year int
	if _, err := fmt.Sscanf(date, "%d.%d.%d", &day, &month, &year); err != nil {
		return time.Time{}, fmt.Errorf("start date: invalid value %q", date)
	}
	var hour, minute, second int
	if _, err := fmt.Sscanf(clock, "%d.%d.%d", &hour, &minute, &second); err != nil {
		return time.Time{}, fmt.Errorf("start time: invalid value %q", clock)
	}
	if year >= 85 {
		year += 1900
	} else {
		year += 2000
	}
	if full, ok := edfPlusStartYear(recordingField); ok {
		year = full
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("start timestamp out of range: %s %s", date, clock)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

func edfPlusStartYear(recordingField string) (int, bool) {
	fields := strings.Fields(recordingField)
	if len(fields) < 2 || fields[0] != "Startdate" {
		return 0, false
	}
	parsed, err := time.Parse("02-Jan-2006", normalizeMonth(fields[1]))
	if err != nil {
		return 0, false
	}
	return parsed.Year(), true
}

// normalizeMonth turns "21-JUL-2003" into "21-Jul-2003" for time.Parse.
func normalizeMonth(value string) string {
	parts := strings.Split(value, "-")
	if len(parts) != 3 || len(parts[1]) != 3 {
		return value
	}
	parts[1] = parts[1][:1] + strings.ToLower(parts[1][1:])
	return strings.Join(parts, "-")
}
