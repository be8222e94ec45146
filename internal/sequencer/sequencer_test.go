package sequencer

import (
	"testing"

	"github.com/cbegin/jez-go/internal/event"
)

type countingEffect struct{ calls int }

func (c *countingEffect) Apply(durMs float64, events []event.Event) []event.Event {
	c.calls++
	return events
}

func TestBeginCycleSetsRevisionToCallerValue(t *testing.T) {
	reg := NewRegistry([]uint64{1}, 0)
	tr, _ := reg.Track(1)
	if tr.Revision != 0 {
		t.Fatalf("got revision %d, want 0 before any cycle", tr.Revision)
	}
	tr.BeginCycle(0)
	if tr.Revision != 0 {
		t.Errorf("got revision %d, want 0 on the first cycle", tr.Revision)
	}
	tr.BeginCycle(1)
	if tr.Revision != 1 {
		t.Errorf("got revision %d, want 1", tr.Revision)
	}
}

func TestPushEventAccumulatesAndEndCycleClears(t *testing.T) {
	reg := NewRegistry([]uint64{1}, 0)
	active, ok := reg.Activate(1)
	if !ok {
		t.Fatalf("expected track 1 to be registered")
	}
	tr, _ := reg.Track(1)
	tr.BeginCycle(0)
	active.PushEvent(event.Event{Trigger: 60})
	active.PushEvent(event.Event{Trigger: 64})
	active.SetCycleDuration(500)

	events, dur := tr.EndCycle()
	if len(events) != 2 || dur != 500 {
		t.Errorf("got %d events dur %v, want 2 events dur 500", len(events), dur)
	}

	tr.BeginCycle(1)
	events, _ = tr.EndCycle()
	if len(events) != 0 {
		t.Errorf("expected events cleared after BeginCycle, got %d", len(events))
	}
}

func TestAttachEffectCrossTrack(t *testing.T) {
	reg := NewRegistry([]uint64{1, 2}, 0)
	active1, _ := reg.Activate(1)
	eff := &countingEffect{}
	if ok := active1.AttachEffect(2, eff); !ok {
		t.Fatalf("expected attach to track 2 to succeed")
	}
	tr2, _ := reg.Track(2)
	tr2.BeginCycle(0)
	active2, _ := reg.Activate(2)
	active2.PushEvent(event.Event{Trigger: 1})
	tr2.EndCycle()
	if eff.calls != 1 {
		t.Errorf("got %d effect applications, want 1", eff.calls)
	}
}

func TestAttachEffectUnknownTrackFails(t *testing.T) {
	reg := NewRegistry([]uint64{1}, 0)
	active, _ := reg.Activate(1)
	if ok := active.AttachEffect(999, &countingEffect{}); ok {
		t.Errorf("expected attach to an unregistered track to fail")
	}
}

func TestSeedReseedsPRNG(t *testing.T) {
	reg := NewRegistry([]uint64{1}, 0)
	active, _ := reg.Activate(1)
	active.Seed(42)
	a := active.RandFloat64()
	active.Seed(42)
	b := active.RandFloat64()
	if a != b {
		t.Errorf("got %v and %v after identical reseeds, want equal", a, b)
	}
}
