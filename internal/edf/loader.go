package edf

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"edfconv/internal/recording"
	"edfconv/internal/services"
)

// SchemeTemple selects Temple University Hospital EEG corpus identifiers.
const SchemeTemple = "temple"

var templeName = regexp.MustCompile(`^([A-Za-z0-9]+)_(s\d+)_(t\d+)$`)

// Loader reads recordings under one institution identifier scheme.
type Loader struct {
	Scheme string
}

// Load reads the recording at path.
func (l Loader) Load(path string) (*recording.Recording, error) {
	return Load(l.Scheme, path)
}

// Load parses the EDF file at path and maps it to a recording using the given
// identifier scheme ("" for plain EDF+ conventions, or "temple"). All errors
// carry services.ErrLoad.
func Load(scheme, path string) (*recording.Recording, error) {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	if scheme != "" && scheme != SchemeTemple {
		return nil, services.Wrap(services.ErrLoad, "edf", "select scheme", fmt.Sprintf("unknown identifier scheme %q", scheme), nil)
	}
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrLoad, "edf", "open", "recording path is empty", nil)
	}

	file, err := ParseFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrLoad, "edf", "parse", path, err)
	}
	return toRecording(scheme, path, file), nil
}

func toRecording(scheme, path string, file *File) *recording.Recording {
	h := file.Header
	rec := &recording.Recording{
		Filename:       path,
		PatientField:   h.Patient,
		RecordingField: h.Recording,
		StartTime:      h.StartTime,
		NumRecords:     h.NumRecords,
		RecordDuration: h.RecordDuration,
		Variant:        variant(h),
	}

	for i, sig := range h.Signals {
		if sig.IsAnnotations() {
			continue
		}
		rec.Channels = append(rec.Channels, recording.Channel{
			Label:             sig.Label,
			Transducer:        sig.Transducer,
			PhysicalDimension: sig.Dimension,
			Prefiltering:      sig.Prefiltering,
			PhysicalMin:       sig.PhysicalMin,
			PhysicalMax:       sig.PhysicalMax,
			DigitalMin:        sig.DigitalMin,
			DigitalMax:        sig.DigitalMax,
			SamplesPerRecord:  sig.SamplesPerRecord,
			SampleRateHz:      float64(sig.SamplesPerRecord) / h.RecordDuration.Seconds(),
			Samples:           file.Samples[i],
		})
	}
	for _, tal := range file.Annotations {
		rec.Annotations = append(rec.Annotations, recording.EmbeddedAnnotation{
			Onset:    tal.Onset,
			Duration: tal.Duration,
			Texts:    tal.Texts,
		})
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rec.PatientID = patientCode(h.Patient)
	rec.SessionID = stem
	rec.RecordingID = recordingCode(h)

	if scheme == SchemeTemple {
		if m := templeName.FindStringSubmatch(stem); m != nil {
			if rec.PatientID == "" {
				rec.PatientID = m[1]
			}
			rec.SessionID = m[1] + "_" + m[2]
		}
	}
	return rec
}

func variant(h Header) recording.Variant {
	switch {
	case !h.IsEDFPlus():
		return recording.VariantEDF
	case strings.HasPrefix(h.Reserved, "EDF+D"):
		return recording.VariantEDFPlusDiscon
	default:
		return recording.VariantEDFPlusCont
	}
}

// patientCode returns the first subfield of the local patient field; EDF+
// writes "X" for an unknown code.
func patientCode(field string) string {
	fields := strings.Fields(field)
	if len(fields) == 0 || fields[0] == "X" {
		return ""
	}
	return fields[0]
}

// recordingCode returns the hospital administration code from an EDF+
// recording field ("Startdate dd-MMM-yyyy code technician equipment"), or the
// whole field for plain EDF.
func recordingCode(h Header) string {
	fields := strings.Fields(h.Recording)
	if len(fields) >= 3 && fields[0] == "Startdate" {
		if fields[2] == "X" {
			return ""
		}
		return fields[2]
	}
	return h.Recording
}
