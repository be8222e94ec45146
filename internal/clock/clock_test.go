package clock

import (
	"testing"
	"time"

	"github.com/cbegin/jez-go/internal/event"
)

func newTestClock() (*Clock, chan Fired) {
	out := make(chan Fired, 16)
	in := make(chan Request)
	return New(out, in), out
}

func tryRecv(t *testing.T, ch chan Fired) (Fired, bool) {
	t.Helper()
	select {
	case f := <-ch:
		return f, true
	default:
		return Fired{}, false
	}
}

func TestOutOfOrderTimeouts(t *testing.T) {
	c, out := newTestClock()
	c.Timeout(0.0, EventCmd(eventWithOnset(10)))
	c.Timeout(100.0, EventCmd(eventWithOnset(30)))
	c.Timeout(10.0, EventCmd(eventWithOnset(20)))

	c.Update(5 * time.Millisecond)
	f, ok := tryRecv(t, out)
	if !ok || f.ElapsedMs != 5 || f.Data.Event.OnsetMs != 10 {
		t.Fatalf("tick1: got %+v ok=%v, want elapsed=5 onset=10", f, ok)
	}
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick1: expected no further fired timers")
	}

	c.Update(5 * time.Millisecond)
	f, ok = tryRecv(t, out)
	if !ok || f.ElapsedMs != 10 || f.Data.Event.OnsetMs != 20 {
		t.Fatalf("tick2: got %+v ok=%v, want elapsed=10 onset=20", f, ok)
	}
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick2: expected no further fired timers")
	}

	c.Update(90 * time.Millisecond)
	f, ok = tryRecv(t, out)
	if !ok || f.ElapsedMs != 100 || f.Data.Event.OnsetMs != 30 {
		t.Fatalf("tick3: got %+v ok=%v, want elapsed=100 onset=30", f, ok)
	}
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick3: expected no further fired timers")
	}
}

func TestIntervals(t *testing.T) {
	c, out := newTestClock()
	c.Interval(10.0, EventCmd(eventWithOnset(10)))
	c.Interval(20.0, EventCmd(eventWithOnset(30)))

	c.Update(5 * time.Millisecond)
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick1: expected nothing due yet")
	}

	c.Update(5 * time.Millisecond)
	f, ok := tryRecv(t, out)
	if !ok || f.ElapsedMs != 10 || f.Data.Event.OnsetMs != 10 {
		t.Fatalf("tick2: got %+v ok=%v, want elapsed=10 onset=10", f, ok)
	}
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick2: expected only one fired timer")
	}

	c.Update(5 * time.Millisecond)
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick3: expected nothing due yet")
	}

	c.Update(5 * time.Millisecond)
	f1, ok1 := tryRecv(t, out)
	f2, ok2 := tryRecv(t, out)
	if !ok1 || !ok2 {
		t.Fatalf("tick4: expected two fired timers, got ok1=%v ok2=%v", ok1, ok2)
	}
	if f1.ElapsedMs != 20 || f2.ElapsedMs != 20 {
		t.Fatalf("tick4: got elapsed %v and %v, want both 20", f1.ElapsedMs, f2.ElapsedMs)
	}
	if f1.Data.Event.OnsetMs != 10 || f2.Data.Event.OnsetMs != 30 {
		t.Errorf("tick4: got onsets %v then %v, want 10 then 30 (re-armed interval fires before the one due since construction)", f1.Data.Event.OnsetMs, f2.Data.Event.OnsetMs)
	}
	if _, ok := tryRecv(t, out); ok {
		t.Fatalf("tick4: expected exactly two fired timers")
	}
}

func TestPriorityTieBreakAtSameInstant(t *testing.T) {
	c, out := newTestClock()
	c.Timeout(10.0, MidiCtlCmd(0, 1, 64))   // priority 7
	c.Timeout(10.0, MidiNoteOffCmd(0, 60))  // priority 0
	c.Timeout(10.0, StopCmd())              // priority 1

	c.Update(10 * time.Millisecond)

	var kinds []CommandKind
	for {
		f, ok := tryRecv(t, out)
		if !ok {
			break
		}
		kinds = append(kinds, f.Data.Kind)
	}
	if len(kinds) != 3 {
		t.Fatalf("got %d fired timers, want 3", len(kinds))
	}
	want := []CommandKind{CmdMidiNoteOff, CmdStop, CmdMidiCtl}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("dispatch order[%d] = %v, want %v (full order %v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestTickDrainsTimeoutRequestAndStop(t *testing.T) {
	out := make(chan Fired, 4)
	in := make(chan Request, 4)
	c := New(out, in)

	in <- Request{Kind: ReqTimeout, DurationMs: 5, Data: EventCmd(eventWithOnset(1))}
	if !c.Tick(0) {
		t.Fatalf("expected Tick to return true absent a stop request")
	}
	c.Update(5 * time.Millisecond)
	if f, ok := tryRecv(t, out); !ok || f.Data.Event.OnsetMs != 1 {
		t.Fatalf("expected the requested timeout to have been armed, got %+v ok=%v", f, ok)
	}

	in <- Request{Kind: ReqStop}
	if c.Tick(0) {
		t.Fatalf("expected Tick to return false after a stop request")
	}
}

func eventWithOnset(onset float64) event.Event {
	return event.Event{OnsetMs: onset}
}
