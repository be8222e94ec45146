// Package clock implements the single-threaded timer wheel that drives
// track re-evaluation, MIDI note-offs, and control-curve updates: a
// descending-by-due-time list of timers, advanced by update and drained
// by tick.
package clock

import (
	"sort"
	"time"
)

// RequestKind selects which field of Request is populated.
type RequestKind int

const (
	ReqTimeout RequestKind = iota
	ReqInterval
	ReqStop
)

// Request is sent on the VM-to-clock channel: schedule a new timer or
// stop the clock outright.
type Request struct {
	Kind       RequestKind
	DurationMs float64
	Data       Command
}

// Fired is sent on the clock-to-VM channel when a timer comes due.
type Fired struct {
	ElapsedMs float64
	Data      Command
}

type timer struct {
	dur          time.Duration
	elapsed      time.Duration
	dispatchedAt time.Duration
	recurring    bool
	data         Command
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Clock owns a list of pending timers and the two channels it uses to
// talk to the rest of the machine. It never blocks except in RunForever.
type Clock struct {
	output chan<- Fired
	input  <-chan Request

	timers  []timer
	elapsed time.Duration
}

// New builds a clock bound to its output (fired timers) and input
// (schedule/stop requests) channels.
func New(output chan<- Fired, input <-chan Request) *Clock {
	return &Clock{output: output, input: input}
}

// Timeout schedules a one-shot timer.
func (c *Clock) Timeout(ms float64, data Command) {
	dur := millisToDuration(ms)
	c.pushTimer(timer{
		dur:          dur,
		dispatchedAt: c.elapsed + dur,
		data:         data,
	})
}

// Interval schedules a recurring timer, re-armed every time it fires.
func (c *Clock) Interval(ms float64, data Command) {
	dur := millisToDuration(ms)
	c.pushTimer(timer{
		dur:          dur,
		dispatchedAt: c.elapsed + dur,
		recurring:    true,
		data:         data,
	})
}

// pushTimer inserts t and re-sorts descending by dispatchedAt so the
// tail is always the next timer due. Timers sharing a dispatchedAt are
// ordered by the command priority tie-break, lowest priority at the
// tail so it pops (and fires) first.
func (c *Clock) pushTimer(t timer) {
	c.timers = append(c.timers, t)
	sort.SliceStable(c.timers, func(i, j int) bool {
		a, b := c.timers[i], c.timers[j]
		if a.dispatchedAt != b.dispatchedAt {
			return a.dispatchedAt > b.dispatchedAt
		}
		return a.data.Kind.Priority() > b.data.Kind.Priority()
	})
}

// Update advances every timer's elapsed time by delta and dispatches
// every timer whose elapsed has reached its duration, from the tail
// (soonest due) inward, stopping at the first still-pending timer.
// Recurring timers are re-armed with a fresh dispatchedAt.
func (c *Clock) Update(delta time.Duration) {
	c.elapsed += delta
	for i := range c.timers {
		c.timers[i].elapsed += delta
	}

	for len(c.timers) > 0 {
		last := len(c.timers) - 1
		t := c.timers[last]
		if t.elapsed < t.dur {
			break
		}
		c.timers = c.timers[:last]

		c.output <- Fired{ElapsedMs: float64(c.elapsed) / float64(time.Millisecond), Data: t.data}

		if t.recurring {
			t.elapsed = 0
			t.dispatchedAt = c.elapsed + t.dur
			c.pushTimer(t)
		}
	}
}

// Tick advances the clock and drains any pending schedule requests.
// It returns false when a Stop request was seen.
func (c *Clock) Tick(delta time.Duration) bool {
	c.Update(delta)

	for {
		select {
		case req := <-c.input:
			switch req.Kind {
			case ReqStop:
				return false
			case ReqTimeout:
				c.Timeout(req.DurationMs, req.Data)
			case ReqInterval:
				c.Interval(req.DurationMs, req.Data)
			}
		default:
			return true
		}
	}
}

// RunForever drives Tick against the wall clock, sleeping briefly
// between iterations to keep CPU usage down, until a Stop request or
// the done channel closes.
func (c *Clock) RunForever(done <-chan struct{}) {
	previous := time.Now()
	const res = time.Millisecond
	for {
		select {
		case <-done:
			return
		default:
		}
		now := time.Now()
		delta := now.Sub(previous)
		if !c.Tick(delta) {
			return
		}
		previous = now
		time.Sleep(res)
	}
}
