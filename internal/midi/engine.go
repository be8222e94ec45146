// Package midi implements the MIDI engine (component H): it turns a
// stream of trigger and curve events into raw note-on/note-off/control
// change commands, owning the pending-note-off and active-curve state
// that spans many update calls.
package midi

import (
	"math"
	"sort"

	"github.com/cbegin/jez-go/internal/clock"
	"github.com/cbegin/jez-go/internal/event"
)

type pendingOff struct {
	remainingMs float64
	channel     int
	pitch       int
}

type activeCurve struct {
	t          float64
	durationMs float64
	channel    int
	controller int
	curve      [8]float64
	lastCC     int
}

// Engine holds the pending note-offs and active control curves, sorted
// and dispatched independently of the clock that drives Update.
type Engine struct {
	pending      []pendingOff
	curves       []activeCurve
	lastUpdateMs float64
}

// NewEngine returns an idle engine with nothing pending.
func NewEngine() *Engine {
	return &Engine{}
}

// Dispatch turns one produced event into the commands it causes: a
// note-on (preceded by a synthetic note-off if it retriggers a still-
// ringing note) for a trigger, or a control change for a curve.
func (e *Engine) Dispatch(ev event.Event) []clock.Command {
	if ev.IsCurve {
		return e.dispatchCurve(ev)
	}
	return e.dispatchTrigger(ev)
}

func (e *Engine) dispatchTrigger(ev event.Event) []clock.Command {
	channel := ev.Destination.Channel
	pitch := int(ev.Trigger)
	velocity := ev.Destination.Extra

	var out []clock.Command
	for i, p := range e.pending {
		if p.channel == channel && p.pitch == pitch {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			out = append(out, clock.MidiNoteOffCmd(channel, pitch))
			break
		}
	}

	e.pending = append(e.pending, pendingOff{remainingMs: ev.DurationMs, channel: channel, pitch: pitch})
	sortPendingDescending(e.pending)

	out = append(out, clock.MidiNoteOnCmd(channel, pitch, velocity))
	return out
}

func (e *Engine) dispatchCurve(ev event.Event) []clock.Command {
	channel := ev.Destination.Channel
	controller := ev.Destination.Extra
	initial := int(math.Round(event.EvalCubicBezier(ev.Curve, 0)))

	previous := initial - 1 // sentinel: no prior value, guarantees the first emit
	for i, c := range e.curves {
		if c.channel == channel && c.controller == controller {
			previous = c.lastCC
			e.curves = append(e.curves[:i], e.curves[i+1:]...)
			break
		}
	}

	var out []clock.Command
	if previous != initial {
		out = append(out, clock.MidiCtlCmd(channel, controller, initial))
	}

	e.curves = append(e.curves, activeCurve{
		durationMs: ev.DurationMs,
		channel:    channel,
		controller: controller,
		curve:      ev.Curve,
		lastCC:     initial,
	})
	return out
}

// Update advances every pending note-off and active curve by the
// elapsed time since the last call, emitting note-offs that have
// reached zero and control changes wherever the rounded CC value
// changed.
func (e *Engine) Update(elapsedMs float64) []clock.Command {
	delta := elapsedMs - e.lastUpdateMs
	e.lastUpdateMs = elapsedMs

	var out []clock.Command
	out = append(out, e.updateCurves(delta)...)
	out = append(out, e.updateOffs(delta)...)
	return out
}

func (e *Engine) updateCurves(deltaMs float64) []clock.Command {
	var out []clock.Command
	kept := e.curves[:0]
	for _, c := range e.curves {
		if c.durationMs > 0 {
			c.t += deltaMs / c.durationMs
		} else {
			c.t = 1
		}
		val := int(math.Round(event.EvalCubicBezier(c.curve, math.Min(c.t, 1))))
		if val != c.lastCC {
			c.lastCC = val
			out = append(out, clock.MidiCtlCmd(c.channel, c.controller, val))
		}
		if c.t < 1 {
			kept = append(kept, c)
		}
	}
	e.curves = kept
	return out
}

func (e *Engine) updateOffs(deltaMs float64) []clock.Command {
	for i := range e.pending {
		e.pending[i].remainingMs -= deltaMs
		if e.pending[i].remainingMs < 0 {
			e.pending[i].remainingMs = 0
		}
	}

	var out []clock.Command
	for len(e.pending) > 0 {
		last := len(e.pending) - 1
		p := e.pending[last]
		if p.remainingMs > 0 {
			break
		}
		e.pending = e.pending[:last]
		out = append(out, clock.MidiNoteOffCmd(p.channel, p.pitch))
	}
	return out
}

// Flush emits a note-off for every still-pending note and clears all
// state, matching the Stop command's "silence everything now" contract.
func (e *Engine) Flush() []clock.Command {
	var out []clock.Command
	for len(e.pending) > 0 {
		last := len(e.pending) - 1
		p := e.pending[last]
		e.pending = e.pending[:last]
		out = append(out, clock.MidiNoteOffCmd(p.channel, p.pitch))
	}
	e.curves = nil
	return out
}

func sortPendingDescending(p []pendingOff) {
	sort.SliceStable(p, func(i, j int) bool { return p[i].remainingMs > p[j].remainingMs })
}
