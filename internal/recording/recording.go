package recording

import (
	"errors"
	"fmt"
	"time"
)

// DataType tags the modality of a recording.
type DataType string

// DataTypeEEG is the only modality this converter emits.
const DataTypeEEG DataType = "EEG"

// Variant identifies the EDF flavour a recording was read from.
type Variant string

const (
	VariantEDF           Variant = "EDF"
	VariantEDFPlusCont   Variant = "EDF+C"
	VariantEDFPlusDiscon Variant = "EDF+D"
)

// Channel is one signal from the container, already scaled to physical units.
type Channel struct {
	Label             string
	Transducer        string
	PhysicalDimension string
	Prefiltering      string
	PhysicalMin       float64
	PhysicalMax       float64
	DigitalMin        int
	DigitalMax        int
	SamplesPerRecord  int
	SampleRateHz      float64
	Samples           []float64
}

// NumSamples returns the number of decoded samples.
func (c Channel) NumSamples() int {
	return len(c.Samples)
}

// EmbeddedAnnotation is one time-stamped annotation list entry stored inside
// an EDF+ "EDF Annotations" signal.
type EmbeddedAnnotation struct {
	Onset    time.Duration
	Duration time.Duration
	Texts    []string
}

// PatientInfo holds demographic and session fields derived from naming
// conventions.
type PatientInfo struct {
	PatientID   string
	Gender      string
	Age         int
	BirthDate   string
	Session     string
	SessionDate string
	Token       string
	Montage     string
}

// Recording is one EEG session read from a container file. PatientField and
// RecordingField keep the raw local identification header fields; PatientID is
// the identifier extracted from them under the loader's scheme.
type Recording struct {
	Filename       string
	PatientField   string
	RecordingField string
	PatientID      string
	SessionID      string
	RecordingID    string
	StartTime      time.Time
	NumRecords     int
	RecordDuration time.Duration
	Variant        Variant
	DataType       DataType
	Channels       []Channel
	Annotations    []EmbeddedAnnotation

	PatientInfo PatientInfo
	enriched    bool
}

// Duration reports the total recorded time.
func (r *Recording) Duration() time.Duration {
	if r == nil {
		return 0
	}
	return time.Duration(r.NumRecords) * r.RecordDuration
}

// EndTime reports the wall-clock end of the recording.
func (r *Recording) EndTime() time.Time {
	return r.StartTime.Add(r.Duration())
}

// SetPatientInfo attaches derived patient metadata and marks the recording as
// enriched.
func (r *Recording) SetPatientInfo(info PatientInfo) {
	r.PatientInfo = info
	r.enriched = true
}

// HasPatientInfo reports whether SetPatientInfo has been called.
func (r *Recording) HasPatientInfo() bool {
	return r != nil && r.enriched
}

// Validate checks that the recording is complete enough to be turned into a
// feature record.
func (r *Recording) Validate() error {
	if r == nil {
		return errors.New("recording is nil")
	}
	var errs []error
	if r.DataType == "" {
		errs = append(errs, errors.New("data type not set"))
	}
	if !r.enriched {
		errs = append(errs, errors.New("patient info not attached"))
	}
	if len(r.Channels) == 0 {
		errs = append(errs, errors.New("no signal channels"))
	}
	seen := make(map[string]struct{}, len(r.Channels))
	for i, ch := range r.Channels {
		if ch.Label == "" {
			errs = append(errs, fmt.Errorf("channel %d has an empty label", i))
			continue
		}
		if _, dup := seen[ch.Label]; dup {
			errs = append(errs, fmt.Errorf("duplicate channel label %q", ch.Label))
		}
		seen[ch.Label] = struct{}{}
	}
	return errors.Join(errs...)
}
