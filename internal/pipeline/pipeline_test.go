package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"edfconv/internal/annotation"
	"edfconv/internal/example"
	"edfconv/internal/logging"
	"edfconv/internal/output"
	"edfconv/internal/recording"
	"edfconv/internal/services"
	"edfconv/internal/testsupport"
	"edfconv/internal/tfrecord"
)

type fakeLoader struct {
	rec   *recording.Recording
	err   error
	calls int
}

func (f *fakeLoader) Load(path string) (*recording.Recording, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.rec
	rec.Filename = path
	return &rec, nil
}

type fakeEnricher struct{ calls int }

func (f *fakeEnricher) Enrich(rec *recording.Recording) error {
	f.calls++
	rec.SetPatientInfo(recording.PatientInfo{PatientID: rec.PatientID})
	return nil
}

type fakeAnnotations struct {
	err   error
	calls int
	path  string
}

func (f *fakeAnnotations) Load(rec *recording.Recording, path string) (annotation.Annotation, error) {
	f.calls++
	f.path = path
	if f.err != nil {
		return annotation.Annotation{}, f.err
	}
	return annotation.Annotation{Kind: annotation.KindRawText, Source: path, RawText: "note"}, nil
}

type fakeWriter struct {
	calls   int
	path    string
	payload []byte
	err     error
}

func (f *fakeWriter) Write(path string, record []byte) (output.Result, error) {
	f.calls++
	f.path = path
	f.payload = record
	if f.err != nil {
		return output.Result{}, f.err
	}
	return output.Result{Path: path, Bytes: int64(len(record))}, nil
}

type fixture struct {
	loader      *fakeLoader
	enricher    *fakeEnricher
	annotations *fakeAnnotations
	writer      *fakeWriter
	pipeline    *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		loader: &fakeLoader{rec: &recording.Recording{
			PatientID: "p001",
			Channels:  []recording.Channel{{Label: "EEG FP1-REF", Samples: []float64{1, 2}}},
		}},
		enricher:    &fakeEnricher{},
		annotations: &fakeAnnotations{},
		writer:      &fakeWriter{},
	}
	f.pipeline = &Pipeline{
		Recordings:  f.loader,
		Enricher:    f.enricher,
		Annotations: f.annotations,
		Builder:     example.Builder{},
		Writer:      f.writer,
	}
	return f
}

func fakeOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.Preflight = false
	opts.EDFPath = filepath.Join(t.TempDir(), "s001.edf")
	opts.OutputPath = filepath.Join(t.TempDir(), "out.tfrecord")
	return opts
}

func TestRunCallsStagesInOrder(t *testing.T) {
	f := newFixture()
	opts := fakeOptions(t)

	result, err := f.pipeline.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.State != StateDone {
		t.Fatalf("state = %s, want DONE", result.State)
	}
	want := []State{StateStart, StateArgsParsed, StateRecordingLoaded, StateMetadataEnriched,
		StateAnnotationsLoaded, StateRecordBuilt, StateWritten, StateDone}
	if !slices.Equal(result.Transitions, want) {
		t.Fatalf("transitions = %v, want %v", result.Transitions, want)
	}
	if result.Recording.DataType != recording.DataTypeEEG {
		t.Fatalf("data type = %q", result.Recording.DataType)
	}
	if result.Annotations.Len() != 1 {
		t.Fatalf("expected a set of one annotation, got %d", result.Annotations.Len())
	}
	if f.annotations.path != strings.TrimSuffix(opts.EDFPath, ".edf")+".tse" {
		t.Fatalf("annotation path = %q", f.annotations.path)
	}
	if f.writer.path != opts.OutputPath {
		t.Fatalf("writer path = %q", f.writer.path)
	}
	ex, err := example.Unmarshal(f.writer.payload)
	if err != nil {
		t.Fatalf("payload is not an example: %v", err)
	}
	if got, _ := ex.Get(example.KeyDataType); string(got.Bytes[0]) != "EEG" {
		t.Fatalf("data type feature = %q", got.Bytes)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}
}

func TestRunLoadFailureSkipsLaterStages(t *testing.T) {
	f := newFixture()
	f.loader.err = errors.New("no such file")

	result, err := f.pipeline.Run(context.Background(), fakeOptions(t))
	if !errors.Is(err, services.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	if result.State != StateFailed {
		t.Fatalf("state = %s, want FAILED", result.State)
	}
	if f.enricher.calls != 0 || f.annotations.calls != 0 || f.writer.calls != 0 {
		t.Fatalf("later stages ran: enrich=%d annotations=%d write=%d", f.enricher.calls, f.annotations.calls, f.writer.calls)
	}
}

func TestRunAnnotationFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.annotations.err = errors.New("bad tse")

	result, err := f.pipeline.Run(context.Background(), fakeOptions(t))
	if !errors.Is(err, services.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	want := []State{StateStart, StateArgsParsed, StateRecordingLoaded, StateMetadataEnriched, StateFailed}
	if !slices.Equal(result.Transitions, want) {
		t.Fatalf("transitions = %v", result.Transitions)
	}
	if f.writer.calls != 0 {
		t.Fatal("writer must not run after annotation failure")
	}
}

func TestRunBuildFailure(t *testing.T) {
	f := newFixture()
	f.loader.rec.Channels = append(f.loader.rec.Channels, recording.Channel{Label: "EEG FP1-REF"})

	_, err := f.pipeline.Run(context.Background(), fakeOptions(t))
	if !errors.Is(err, services.ErrBuild) {
		t.Fatalf("expected build error, got %v", err)
	}
	if f.writer.calls != 0 {
		t.Fatal("writer must not run after build failure")
	}
}

func TestRunWriteFailure(t *testing.T) {
	f := newFixture()
	f.writer.err = errors.New("disk full")

	result, err := f.pipeline.Run(context.Background(), fakeOptions(t))
	if !errors.Is(err, services.ErrWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
	if result.State != StateFailed {
		t.Fatalf("state = %s", result.State)
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	f := newFixture()
	opts := DefaultOptions()
	opts.OutputPath = ""
	opts.Scheme = "mayo"

	result, err := f.pipeline.Run(context.Background(), opts)
	if !errors.Is(err, services.ErrArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
	for _, want := range []string{"edf_path is required", "output_path must not be empty", "mayo"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if f.loader.calls != 0 {
		t.Fatal("loader must not run for invalid options")
	}
	if result.State != StateFailed {
		t.Fatalf("state = %s", result.State)
	}
}

func TestRunMissingCollaborator(t *testing.T) {
	f := newFixture()
	f.pipeline.Writer = nil
	_, err := f.pipeline.Run(context.Background(), fakeOptions(t))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunLogsTransitionsWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture()
	f.pipeline.Logger = logger

	result, err := f.pipeline.Run(context.Background(), fakeOptions(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, `"event_type":"state_transition"`); got != 7 {
		t.Fatalf("expected 7 transition lines, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, result.RunID) {
		t.Fatalf("run id %s missing from logs", result.RunID)
	}
	if !strings.Contains(out, `"stage":"RECORD_BUILT"`) {
		t.Fatalf("stage field missing from logs:\n%s", out)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	edfPath := filepath.Join(dir, "s001.edf")
	testsupport.WriteEDF(t, edfPath, testsupport.SimpleEDF("p001"))
	testsupport.WriteTSE(t, filepath.Join(dir, "s001.tse"),
		testsupport.TSEEvent{Start: 0, Stop: 2, Label: "seiz", Confidence: 1})

	opts := DefaultOptions()
	opts.EDFPath = edfPath
	opts.OutputPath = dir

	result, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantPath := filepath.Join(dir, "s001.tfrecord")
	if result.Output.Path != wantPath {
		t.Fatalf("output path = %q, want %q", result.Output.Path, wantPath)
	}

	file, err := os.Open(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	records, err := tfrecord.ReadAll(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	ex, err := example.Unmarshal(records[0])
	if err != nil {
		t.Fatal(err)
	}
	check := func(key, want string) {
		t.Helper()
		f, ok := ex.Get(key)
		if !ok || f.Len() != 1 || string(f.Bytes[0]) != want {
			t.Fatalf("%s = %q, want %q", key, f.Strings(), want)
		}
	}
	check(example.KeyDataType, "EEG")
	check(example.KeyPatientID, "p001")
	check(example.KeyInfoPatientID, "p001")
	if labels, _ := ex.Get(example.KeyEventLabel); labels.Len() != 1 {
		t.Fatalf("expected one span, got %d", labels.Len())
	}
	if count, _ := ex.Get(example.KeyAnnotationCount); count.Int64s[0] != 1 {
		t.Fatalf("annotation count = %v", count.Int64s)
	}
}

func TestRunEndToEndMissingEDF(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.EDFPath = filepath.Join(dir, "missing.edf")
	opts.OutputPath = filepath.Join(dir, "out.tfrecord")

	result, err := Run(context.Background(), opts)
	if !errors.Is(err, services.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
	if result.State != StateFailed {
		t.Fatalf("state = %s", result.State)
	}
	testsupport.AssertNotExist(t, opts.OutputPath)
}
