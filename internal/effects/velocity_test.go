package effects

import (
	"testing"

	"github.com/cbegin/jez-go/internal/event"
)

func TestMidiVelocityMapperDoublesTriggerEvents(t *testing.T) {
	m, ok := NewMidiVelocityMapper("volca_fm", "velocity")
	if !ok {
		t.Fatalf("expected volca_fm/velocity to resolve")
	}
	events := []event.Event{{
		Trigger:     60, // pitch/scale-degree, must not leak into the CC curve
		Destination: event.Destination{Channel: 1, Extra: 100},
		OnsetMs:     0,
		DurationMs:  50,
	}}
	out := m.Apply(50, events)
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2 (one CC + one note)", len(out))
	}
	if !out[0].IsCurve || out[0].Destination.Extra != m.CC {
		t.Errorf("got %+v, want a preceding curve event on CC %d", out[0], m.CC)
	}
	if got := event.EvalCubicBezier(out[0].Curve, 0); got != 100 {
		t.Errorf("got curve value %v, want the velocity (100), not the trigger pitch (60)", got)
	}
	if out[1].IsCurve {
		t.Errorf("original note event should be preserved as a trigger")
	}
}

func TestMarkovFilterPassesThroughBeforeReady(t *testing.T) {
	f := NewMarkovFilter(2, 16, 10, 1)
	events := []event.Event{
		{OnsetMs: 0, Trigger: 60},
		{OnsetMs: 100, Trigger: 62},
	}
	out := f.Apply(200, events)
	if len(out) != len(events) {
		t.Errorf("got %d events, want passthrough of %d", len(out), len(events))
	}
}
