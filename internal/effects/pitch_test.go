package effects

import (
	"testing"

	"github.com/cbegin/jez-go/internal/event"
)

func TestPitchQuantizerMajorScale(t *testing.T) {
	pq, ok := NewPitchQuantizer("c", 4, "major")
	if !ok {
		t.Fatalf("expected c major to resolve")
	}
	events := []event.Event{
		{Trigger: 0}, // degree 0 -> C
		{Trigger: 4}, // degree 4 -> G, same octave (4 < 7 notes in scale)
	}
	out := pq.Apply(0, events)
	if got := out[0].Trigger; got != 0+0+12*4 {
		t.Errorf("got %v, want %v", got, 0+0+12*4)
	}
	want1 := float64(scales["major"][4%7] + 0 + 12*(4+4/7))
	if got := out[1].Trigger; got != want1 {
		t.Errorf("got %v, want %v", got, want1)
	}
}

func TestPitchQuantizerPassesCurvesThrough(t *testing.T) {
	pq, _ := NewPitchQuantizer("c", 4, "major")
	c := event.Linear(0, 1)
	events := []event.Event{{IsCurve: true, Curve: c}}
	out := pq.Apply(0, events)
	if out[0].Curve != c {
		t.Errorf("curve event was modified, want passthrough")
	}
}

func TestUnknownScaleRejected(t *testing.T) {
	if _, ok := NewPitchQuantizer("c", 4, "not_a_scale"); ok {
		t.Errorf("expected unknown scale to be rejected")
	}
}
