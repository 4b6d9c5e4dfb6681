package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"edfconv/internal/annotation"
	"edfconv/internal/edf"
	"edfconv/internal/example"
	"edfconv/internal/logging"
	"edfconv/internal/output"
	"edfconv/internal/patientinfo"
	"edfconv/internal/preflight"
	"edfconv/internal/recording"
	"edfconv/internal/services"
)

// RecordingLoader parses a container file into a recording.
type RecordingLoader interface {
	Load(path string) (*recording.Recording, error)
}

// MetadataEnricher attaches derived patient metadata to a recording.
type MetadataEnricher interface {
	Enrich(rec *recording.Recording) error
}

// AnnotationLoader reads the annotation file paired with a recording.
type AnnotationLoader interface {
	Load(rec *recording.Recording, path string) (annotation.Annotation, error)
}

// ExampleBuilder flattens a recording and its annotations into an example.
type ExampleBuilder interface {
	Build(rec *recording.Recording, set *annotation.Set) (*example.Example, error)
}

// RecordWriter stores one serialized record at path.
type RecordWriter interface {
	Write(path string, record []byte) (output.Result, error)
}

// Pipeline holds the stage collaborators.
type Pipeline struct {
	Recordings  RecordingLoader
	Enricher    MetadataEnricher
	Annotations AnnotationLoader
	Builder     ExampleBuilder
	Writer      RecordWriter
	Logger      *slog.Logger
}

// Result summarizes a run.
type Result struct {
	RunID       string
	State       State
	Transitions []State
	Recording   *recording.Recording
	Annotations *annotation.Set
	Features    int
	Output      output.Result
	Elapsed     time.Duration
}

// Default wires the standard implementations for opts.
func Default(opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Recordings:  edf.Loader{Scheme: opts.Scheme},
		Enricher:    patientinfo.Enricher{},
		Annotations: annotation.NewLoader(),
		Builder:     example.Builder{},
		Writer: &output.Writer{
			Overwrite: opts.Overwrite,
			Lock:      opts.Lock,
			Logger:    logging.NewComponentLogger(logger, "output"),
		},
		Logger: logger,
	}
}

// Run converts with the default collaborators and a discarding logger.
func Run(ctx context.Context, opts Options) (Result, error) {
	return Default(opts, logging.NewNop()).Run(ctx, opts)
}

// Run executes the stages in order. The returned error carries the marker
// of the stage that failed; Result.State is DONE or FAILED.
func (p *Pipeline) Run(ctx context.Context, opts Options) (result Result, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.NewComponentLogger(p.Logger, "pipeline")
	m := newMachine()

	result.RunID = runID
	defer func() {
		if err != nil {
			m.state, m.history = StateFailed, append(m.history, StateFailed)
			logging.WithContext(services.WithStage(ctx, StateFailed.String()), logger).Debug("state transition",
				logging.String(logging.FieldEventType, "state_transition"),
				logging.String("to", StateFailed.String()),
				logging.Error(err),
			)
		}
		result.State = m.state
		result.Transitions = m.history
		result.Elapsed = time.Since(started)
	}()

	step := func(to State) error {
		from := m.state
		if err := m.advance(to); err != nil {
			return err
		}
		logging.WithContext(services.WithStage(ctx, to.String()), logger).Debug("state transition",
			logging.String(logging.FieldEventType, "state_transition"),
			logging.String("from", from.String()),
			logging.String("to", to.String()),
		)
		return nil
	}

	if err := opts.Validate(); err != nil {
		return result, err
	}
	opts = opts.Resolve()
	if err := step(StateArgsParsed); err != nil {
		return result, err
	}
	if err := p.check(); err != nil {
		return result, err
	}

	if opts.Preflight {
		if err := preflight.Check(preflight.Request{EDFPath: opts.EDFPath, OutputPath: opts.OutputPath}); err != nil {
			return result, err
		}
	}

	rec, err := p.Recordings.Load(opts.EDFPath)
	if err != nil {
		return result, mark(services.ErrLoad, "load recording", err)
	}
	if rec == nil {
		return result, services.Wrap(services.ErrLoad, "pipeline", "load recording", "loader returned no recording", nil)
	}
	rec.DataType = recording.DataTypeEEG
	result.Recording = rec
	if err := step(StateRecordingLoaded); err != nil {
		return result, err
	}

	if err := p.Enricher.Enrich(rec); err != nil {
		return result, mark(services.ErrLoad, "enrich metadata", err)
	}
	if err := step(StateMetadataEnriched); err != nil {
		return result, err
	}

	ann, err := p.Annotations.Load(rec, opts.AnnotationPath)
	if err != nil {
		return result, mark(services.ErrLoad, "load annotation", err)
	}
	set := annotation.NewSet(ann)
	result.Annotations = set
	if err := step(StateAnnotationsLoaded); err != nil {
		return result, err
	}

	ex, err := p.Builder.Build(rec, set)
	if err != nil {
		return result, mark(services.ErrBuild, "build example", err)
	}
	if ex == nil {
		return result, services.Wrap(services.ErrBuild, "pipeline", "build example", "builder returned no example", nil)
	}
	payload, err := ex.Marshal()
	if err != nil {
		return result, mark(services.ErrBuild, "serialize example", err)
	}
	result.Features = len(ex.Features)
	if err := step(StateRecordBuilt); err != nil {
		return result, err
	}

	out, err := p.Writer.Write(opts.OutputPath, payload)
	if err != nil {
		return result, mark(services.ErrWrite, "write record", err)
	}
	result.Output = out
	if err := step(StateWritten); err != nil {
		return result, err
	}
	if err := step(StateDone); err != nil {
		return result, err
	}

	logging.WithContext(ctx, logger).Info("conversion complete",
		logging.String(logging.FieldEventType, "conversion_complete"),
		logging.String("edf_path", opts.EDFPath),
		logging.String("annotation_path", opts.AnnotationPath),
		logging.String("output_path", out.Path),
		logging.Int("channels", len(rec.Channels)),
		logging.Int("spans", len(set.Spans())),
		logging.Int("features", result.Features),
		logging.Int64("bytes", out.Bytes),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (p *Pipeline) check() error {
	var errs []error
	if p.Recordings == nil {
		errs = append(errs, errors.New("recording loader not configured"))
	}
	if p.Enricher == nil {
		errs = append(errs, errors.New("metadata enricher not configured"))
	}
	if p.Annotations == nil {
		errs = append(errs, errors.New("annotation loader not configured"))
	}
	if p.Builder == nil {
		errs = append(errs, errors.New("example builder not configured"))
	}
	if p.Writer == nil {
		errs = append(errs, errors.New("record writer not configured"))
	}
	if err := errors.Join(errs...); err != nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "wire", "", err)
	}
	return nil
}

// mark tags err with marker unless it already carries it.
func mark(marker error, operation string, err error) error {
	if errors.Is(err, marker) {
		return err
	}
	return services.Wrap(marker, "pipeline", operation, "", err)
}
