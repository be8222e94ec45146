package machine

import (
	"testing"

	"github.com/cbegin/jez-go/internal/clock"
)

func TestSimulateCapturesChordAsEnvelope(t *testing.T) {
	program := ".version 0\n.track t1:\n  [60 64 67] 1000 0 midi_out\n"

	result, err := Simulate(program, 2000, 1, WithSeed(1))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if result.Program != program {
		t.Errorf("got Program %q, want the original source back verbatim", result.Program)
	}
	if result.DurationMs != 2000 || result.DeltaMs != 1 {
		t.Errorf("got duration/delta %v/%v, want 2000/1", result.DurationMs, result.DeltaMs)
	}
	if len(result.Directives) != 2 {
		t.Errorf("got %d directives, want 2 (version, track)", len(result.Directives))
	}
	if result.Instructions == 0 {
		t.Errorf("expected a non-empty assembled instruction stream")
	}
	if result.SessionID == "" {
		t.Errorf("expected a non-empty session id")
	}

	var noteOns, noteOffs int
	for _, cmd := range result.Commands {
		switch cmd.Kind {
		case clock.CmdMidiNoteOn:
			noteOns++
		case clock.CmdMidiNoteOff:
			noteOffs++
		}
	}
	if noteOns < 3 {
		t.Errorf("got %d NoteOn commands over 2s of simulated time, want at least 3", noteOns)
	}
	if noteOffs < 3 {
		t.Errorf("got %d NoteOff commands over 2s of simulated time, want at least 3", noteOffs)
	}
}
