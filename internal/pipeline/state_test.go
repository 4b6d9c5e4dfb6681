package pipeline

import "testing"

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateStart, StateArgsParsed, true},
		{StateStart, StateRecordingLoaded, false},
		{StateRecordBuilt, StateWritten, true},
		{StateWritten, StateDone, true},
		{StateAnnotationsLoaded, StateFailed, true},
		{StateDone, StateFailed, false},
		{StateFailed, StateStart, false},
		{StateWritten, StateRecordBuilt, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range order {
		if s.Terminal() != (s == StateDone) {
			t.Errorf("%s terminal = %v", s, s.Terminal())
		}
	}
	if !StateFailed.Terminal() {
		t.Error("FAILED must be terminal")
	}
	if _, ok := StateDone.Next(); ok {
		t.Error("DONE has no successor")
	}
}

func TestMachineRejectsSkips(t *testing.T) {
	m := newMachine()
	if err := m.advance(StateRecordingLoaded); err == nil {
		t.Fatal("expected error when skipping ARGS_PARSED")
	}
	if err := m.advance(StateArgsParsed); err != nil {
		t.Fatal(err)
	}
	if len(m.history) != 2 {
		t.Fatalf("history = %v", m.history)
	}
}
