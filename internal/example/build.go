package example

import (
	"edfconv/internal/annotation"
	"edfconv/internal/recording"
	"edfconv/internal/services"
)

// Feature keys.
const (
	KeyFilename      = "segment/filename"
	KeyPatientID     = "segment/patient_id"
	KeySessionID     = "segment/session_id"
	KeyDataType      = "segment/data_type"
	KeyRecordingID   = "segment/recording_id"
	KeyVariant       = "segment/edf_variant"
	KeyStartTimeUsec = "segment/start_time_usec"
	KeyDurationUsec  = "segment/duration_usec"
	KeyNumChannels   = "segment/num_channels"

	KeyInfoPatientID   = "patient_info/patient_id"
	KeyInfoGender      = "patient_info/gender"
	KeyInfoAge         = "patient_info/age"
	KeyInfoBirthDate   = "patient_info/birth_date"
	KeyInfoSession     = "patient_info/session"
	KeyInfoSessionDate = "patient_info/session_date"
	KeyInfoToken       = "patient_info/token"
	KeyInfoMontage     = "patient_info/montage"

	KeyChannelLabels = "eeg_channel/labels"

	KeyAnnotationCount     = "annotation/count"
	KeyAnnotationKind      = "annotation/kind"
	KeyAnnotationRawText   = "annotation/raw_text"
	KeyAnnotationSource    = "annotation/source"
	KeyAnnotationStartUsec = "annotation/start_time_usec"
	KeyAnnotationEndUsec   = "annotation/end_time_usec"

	KeyEventLabel      = "raw_label_events/label"
	KeyEventStart      = "raw_label_events/start_sec"
	KeyEventEnd        = "raw_label_events/end_sec"
	KeyEventConfidence = "raw_label_events/confidence"
	KeyEventIndex      = "raw_label_events/annotation_index"

	KeyEDFAnnotationOnset    = "edf_annotation/onset_sec"
	KeyEDFAnnotationDuration = "edf_annotation/duration_sec"
	KeyEDFAnnotationText     = "edf_annotation/text"
)

// ChannelKey returns the key of a per-channel feature, e.g.
// ChannelKey("EEG FP1-REF", "samples").
func ChannelKey(label, field string) string {
	return "eeg_channel/" + label + "/" + field
}

// Builder turns recordings into examples.
type Builder struct{}

// Build flattens rec and set into one Example.
func (Builder) Build(rec *recording.Recording, set *annotation.Set) (*Example, error) {
	return Build(rec, set)
}

// Build flattens rec and set into one Example. The recording must pass
// Validate (data type set, patient info attached, unique channel labels) and
// set must be non-nil. Errors carry services.ErrBuild.
func Build(rec *recording.Recording, set *annotation.Set) (*Example, error) {
	if rec == nil {
		return nil, services.Wrap(services.ErrBuild, "example", "build", "recording is nil", nil)
	}
	if err := rec.Validate(); err != nil {
		return nil, services.Wrap(services.ErrBuild, "example", "validate recording", rec.Filename, err)
	}
	if set == nil {
		return nil, services.Wrap(services.ErrBuild, "example", "build", "annotation set is nil", nil)
	}

	e := New()
	addSegment(e, rec)
	addPatientInfo(e, rec.PatientInfo)
	addChannels(e, rec.Channels)
	addAnnotations(e, set)
	addEmbeddedAnnotations(e, rec.Annotations)
	return e, nil
}

func addSegment(e *Example, rec *recording.Recording) {
	e.Set(KeyFilename, StringFeature(rec.Filename))
	e.Set(KeyPatientID, StringFeature(rec.PatientID))
	e.Set(KeySessionID, StringFeature(rec.SessionID))
	e.Set(KeyDataType, StringFeature(string(rec.DataType)))
	e.Set(KeyRecordingID, StringFeature(rec.RecordingID))
	e.Set(KeyVariant, StringFeature(string(rec.Variant)))
	e.Set(KeyStartTimeUsec, Int64Feature(rec.StartTime.UnixMicro()))
	e.Set(KeyDurationUsec, Int64Feature(rec.Duration().Microseconds()))
	e.Set(KeyNumChannels, Int64Feature(int64(len(rec.Channels))))
}

func addPatientInfo(e *Example, info recording.PatientInfo) {
	e.Set(KeyInfoPatientID, StringFeature(info.PatientID))
	e.Set(KeyInfoGender, StringFeature(info.Gender))
	e.Set(KeyInfoAge, Int64Feature(int64(info.Age)))
	e.Set(KeyInfoBirthDate, StringFeature(info.BirthDate))
	e.Set(KeyInfoSession, StringFeature(info.Session))
	e.Set(KeyInfoSessionDate, StringFeature(info.SessionDate))
	e.Set(KeyInfoToken, StringFeature(info.Token))
	e.Set(KeyInfoMontage, StringFeature(info.Montage))
}

func addChannels(e *Example, channels []recording.Channel) {
	labels := make([]string, 0, len(channels))
	for _, ch := range channels {
		labels = append(labels, ch.Label)
		samples := make([]float32, len(ch.Samples))
		for i, v := range ch.Samples {
			samples[i] = float32(v)
		}
		e.Set(ChannelKey(ch.Label, "samples"), FloatFeature(samples...))
		e.Set(ChannelKey(ch.Label, "num_samples"), Int64Feature(int64(ch.NumSamples())))
		e.Set(ChannelKey(ch.Label, "sampling_frequency_hz"), FloatFeature(float32(ch.SampleRateHz)))
		e.Set(ChannelKey(ch.Label, "physical_dimension"), StringFeature(ch.PhysicalDimension))
	}
	e.Set(KeyChannelLabels, StringFeature(labels...))
}

func addAnnotations(e *Example, set *annotation.Set) {
	var (
		kinds, texts, sources []string
		starts, ends          []int64
		labels                []string
		spanStart, spanEnd    []float32
		confidence            []float32
		index                 []int64
	)
	for i, ann := range set.Annotations {
		kinds = append(kinds, string(ann.Kind))
		texts = append(texts, ann.RawText)
		sources = append(sources, ann.Source)
		starts = append(starts, ann.StartTime.UnixMicro())
		ends = append(ends, ann.EndTime.UnixMicro())
		for _, span := range ann.Spans {
			labels = append(labels, span.Label)
			spanStart = append(spanStart, float32(span.Start))
			spanEnd = append(spanEnd, float32(span.End))
			confidence = append(confidence, float32(span.Confidence))
			index = append(index, int64(i))
		}
	}
	e.Set(KeyAnnotationCount, Int64Feature(int64(set.Len())))
	e.Set(KeyAnnotationKind, StringFeature(kinds...))
	e.Set(KeyAnnotationRawText, StringFeature(texts...))
	e.Set(KeyAnnotationSource, StringFeature(sources...))
	e.Set(KeyAnnotationStartUsec, Int64Feature(starts...))
	e.Set(KeyAnnotationEndUsec, Int64Feature(ends...))
	e.Set(KeyEventLabel, StringFeature(labels...))
	e.Set(KeyEventStart, FloatFeature(spanStart...))
	e.Set(KeyEventEnd, FloatFeature(spanEnd...))
	e.Set(KeyEventConfidence, FloatFeature(confidence...))
	e.Set(KeyEventIndex, Int64Feature(index...))
}

// addEmbeddedAnnotations emits one entry per TAL text so the three lists stay
// aligned.
func addEmbeddedAnnotations(e *Example, tals []recording.EmbeddedAnnotation) {
	if len(tals) == 0 {
		return
	}
	var onsets, durations []float32
	var texts []string
	for _, tal := range tals {
		for _, text := range tal.Texts {
			onsets = append(onsets, float32(tal.Onset.Seconds()))
			durations = append(durations, float32(tal.Duration.Seconds()))
			texts = append(texts, text)
		}
	}
	e.Set(KeyEDFAnnotationOnset, FloatFeature(onsets...))
	e.Set(KeyEDFAnnotationDuration, FloatFeature(durations...))
	e.Set(KeyEDFAnnotationText, StringFeature(texts...))
}

