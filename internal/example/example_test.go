package example_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edfconv/internal/annotation"
	"edfconv/internal/example"
	"edfconv/internal/recording"
	"edfconv/internal/services"
)

func enrichedRecording() *recording.Recording {
	rec := &recording.Recording{
		Filename:       "/data/s001.edf",
		PatientID:      "p001",
		SessionID:      "s001",
		RecordingID:    "r1",
		StartTime:      time.Date(2003, 7, 21, 10, 30, 0, 0, time.UTC),
		NumRecords:     2,
		RecordDuration: time.Second,
		Variant:        recording.VariantEDFPlusCont,
		DataType:       recording.DataTypeEEG,
		Channels: []recording.Channel{
			{Label: "EEG FP1-REF", PhysicalDimension: "uV", SampleRateHz: 2, Samples: []float64{1, 2, 3, 4}},
			{Label: "EEG FP2-REF", PhysicalDimension: "uV", SampleRateHz: 2, Samples: []float64{-1.5, 0, 1.5, 3}},
		},
		Annotations: []recording.EmbeddedAnnotation{
			{Onset: 500 * time.Millisecond, Duration: time.Second, Texts: []string{"eyes closed", "photic"}},
		},
	}
	rec.SetPatientInfo(recording.PatientInfo{PatientID: "p001", Gender: "male", Age: 49, Session: "s001"})
	return rec
}

func tseSet(rec *recording.Recording) *annotation.Set {
	return annotation.NewSet(annotation.Annotation{
		Kind:      annotation.KindTSE,
		Source:    "/data/s001.tse",
		RawText:   "version = tse_v1.0.0\n0 1 seiz 1\n",
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime(),
		Spans: []annotation.Span{
			{Start: 0, End: 1, Label: "seiz", Confidence: 1},
			{Start: 1, End: 2, Label: "bckg", Confidence: 0.5},
		},
	})
}

func TestBuildSchema(t *testing.T) {
	rec := enrichedRecording()
	e, err := example.Build(rec, tseSet(rec))
	require.NoError(t, err)

	str := func(key string) []string {
		t.Helper()
		f, ok := e.Get(key)
		require.True(t, ok, "missing %s", key)
		require.Equal(t, example.KindBytes, f.Kind, key)
		return f.Strings()
	}
	ints := func(key string) []int64 {
		t.Helper()
		f, ok := e.Get(key)
		require.True(t, ok, "missing %s", key)
		require.Equal(t, example.KindInt64, f.Kind, key)
		return f.Int64s
	}
	floats := func(key string) []float32 {
		t.Helper()
		f, ok := e.Get(key)
		require.True(t, ok, "missing %s", key)
		require.Equal(t, example.KindFloat, f.Kind, key)
		return f.Floats
	}

	assert.Equal(t, []string{"/data/s001.edf"}, str(example.KeyFilename))
	assert.Equal(t, []string{"p001"}, str(example.KeyPatientID))
	assert.Equal(t, []string{"EEG"}, str(example.KeyDataType))
	assert.Equal(t, []string{"EDF+C"}, str(example.KeyVariant))
	assert.Equal(t, []int64{rec.StartTime.UnixMicro()}, ints(example.KeyStartTimeUsec))
	assert.Equal(t, []int64{2_000_000}, ints(example.KeyDurationUsec))
	assert.Equal(t, []int64{2}, ints(example.KeyNumChannels))

	assert.Equal(t, []string{"male"}, str(example.KeyInfoGender))
	assert.Equal(t, []int64{49}, ints(example.KeyInfoAge))
	assert.Equal(t, []string{"s001"}, str(example.KeyInfoSession))

	assert.Equal(t, []string{"EEG FP1-REF", "EEG FP2-REF"}, str(example.KeyChannelLabels))
	assert.Equal(t, []float32{-1.5, 0, 1.5, 3}, floats(example.ChannelKey("EEG FP2-REF", "samples")))
	assert.Equal(t, []int64{4}, ints(example.ChannelKey("EEG FP1-REF", "num_samples")))
	assert.Equal(t, []float32{2}, floats(example.ChannelKey("EEG FP1-REF", "sampling_frequency_hz")))
	assert.Equal(t, []string{"uV"}, str(example.ChannelKey("EEG FP1-REF", "physical_dimension")))

	assert.Equal(t, []int64{1}, ints(example.KeyAnnotationCount))
	assert.Equal(t, []string{"tse"}, str(example.KeyAnnotationKind))
	assert.Equal(t, []int64{rec.EndTime().UnixMicro()}, ints(example.KeyAnnotationEndUsec))
	assert.Equal(t, []string{"seiz", "bckg"}, str(example.KeyEventLabel))
	assert.Equal(t, []float32{1, 2}, floats(example.KeyEventEnd))
	assert.Equal(t, []float32{1, 0.5}, floats(example.KeyEventConfidence))
	assert.Equal(t, []int64{0, 0}, ints(example.KeyEventIndex))

	assert.Equal(t, []string{"eyes closed", "photic"}, str(example.KeyEDFAnnotationText))
	assert.Equal(t, []float32{0.5, 0.5}, floats(example.KeyEDFAnnotationOnset))
}

func TestBuildEmptySpans(t *testing.T) {
	rec := enrichedRecording()
	rec.Annotations = nil
	set := annotation.NewSet(annotation.Annotation{Kind: annotation.KindRawText, RawText: "notes"})

	e, err := example.Build(rec, set)
	require.NoError(t, err)
	f, ok := e.Get(example.KeyEventLabel)
	require.True(t, ok)
	assert.Equal(t, 0, f.Len())
	_, ok = e.Get(example.KeyEDFAnnotationText)
	assert.False(t, ok)
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*recording.Recording) *recording.Recording
		set    bool
	}{
		{"nil recording", func(*recording.Recording) *recording.Recording { return nil }, true},
		{"nil set", func(r *recording.Recording) *recording.Recording { return r }, false},
		{"missing data type", func(r *recording.Recording) *recording.Recording {
			r.DataType = ""
			return r
		}, true},
		{"not enriched", func(r *recording.Recording) *recording.Recording {
			return &recording.Recording{DataType: recording.DataTypeEEG, Channels: r.Channels}
		}, true},
		{"duplicate labels", func(r *recording.Recording) *recording.Recording {
			r.Channels[1].Label = r.Channels[0].Label
			return r
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.mutate(enrichedRecording())
			var set *annotation.Set
			if tt.set {
				set = annotation.NewSet()
			}
			_, err := example.Build(rec, set)
			require.Error(t, err)
			assert.True(t, errors.Is(err, services.ErrBuild), "got %v", err)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	rec := enrichedRecording()
	e, err := example.Build(rec, tseSet(rec))
	require.NoError(t, err)

	data, err := e.Marshal()
	require.NoError(t, err)

	again, err := e.Marshal()
	require.NoError(t, err)
	assert.Equal(t, data, again, "marshal must be deterministic")

	decoded, err := example.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, e.Keys(), decoded.Keys())
	for _, key := range e.Keys() {
		want, _ := e.Get(key)
		got, _ := decoded.Get(key)
		assert.Equal(t, want.Kind, got.Kind, key)
		assert.Equal(t, want.Len(), got.Len(), key)
		if want.Len() == 0 {
			continue
		}
		switch want.Kind {
		case example.KindBytes:
			assert.Equal(t, want.Bytes, got.Bytes, key)
		case example.KindFloat:
			assert.Equal(t, want.Floats, got.Floats, key)
		case example.KindInt64:
			assert.Equal(t, want.Int64s, got.Int64s, key)
		}
	}
}

func TestMarshalNegativeInt64(t *testing.T) {
	e := example.New()
	e.Set("v", example.Int64Feature(-1, 0, 1<<40))
	data, err := e.Marshal()
	require.NoError(t, err)
	decoded, err := example.Unmarshal(data)
	require.NoError(t, err)
	f, ok := decoded.Get("v")
	require.True(t, ok)
	assert.Equal(t, []int64{-1, 0, 1 << 40}, f.Int64s)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := example.Unmarshal([]byte{0x0a, 0x05, 0x01})
	assert.Error(t, err)
}
