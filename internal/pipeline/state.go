package pipeline

import "fmt"

// State is a conversion's position in the pipeline.
type State string

const (
	StateStart             State = "START"
	StateArgsParsed        State = "ARGS_PARSED"
	StateRecordingLoaded   State = "RECORDING_LOADED"
	StateMetadataEnriched  State = "METADATA_ENRICHED"
	StateAnnotationsLoaded State = "ANNOTATIONS_LOADED"
	StateRecordBuilt       State = "RECORD_BUILT"
	StateWritten           State = "WRITTEN"
	StateDone              State = "DONE"
	StateFailed            State = "FAILED"
)

var order = []State{
	StateStart,
	StateArgsParsed,
	StateRecordingLoaded,
	StateMetadataEnriched,
	StateAnnotationsLoaded,
	StateRecordBuilt,
	StateWritten,
	StateDone,
}

func (s State) String() string { return string(s) }

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Next returns the state that follows s on success.
func (s State) Next() (State, bool) {
	for i, st := range order[:len(order)-1] {
		if st == s {
			return order[i+1], true
		}
	}
	return "", false
}

// CanTransition reports whether moving from s to to is allowed: one step
// forward, or to FAILED from any non-terminal state.
func (s State) CanTransition(to State) bool {
	if s.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	next, ok := s.Next()
	return ok && next == to
}

type machine struct {
	state   State
	history []State
}

func newMachine() *machine {
	return &machine{state: StateStart, history: []State{StateStart}}
}

func (m *machine) advance(to State) error {
	if !m.state.CanTransition(to) {
		return fmt.Errorf("invalid transition %s -> %s", m.state, to)
	}
	m.state = to
	m.history = append(m.history, to)
	return nil
}
