// Package machine wires the interpreter, clock, MIDI engine, and sink
// into the running system (component I): constructing a Machine boots
// the program through blocks 0/1/main, enqueues each track's first
// cycle, and Run drains the clock's fired timers until a Stop or
// Reload command ends the loop.
package machine

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cbegin/jez-go/internal/clock"
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/lang"
	"github.com/cbegin/jez-go/internal/midi"
	"github.com/cbegin/jez-go/internal/sequencer"
	"github.com/cbegin/jez-go/internal/sink"
	"github.com/cbegin/jez-go/internal/vm"
	"github.com/cbegin/jez-go/internal/words"
)

const (
	housekeepingIntervalMs = 1000
	midiClockIntervalMs    = 8 // resolves the curve-update-rate open question: 8ms ~ 125Hz
)

// errorReporter is the subset of internal/telemetry.Reporter that
// Machine needs, kept as a local interface so this package doesn't
// import telemetry directly (telemetry imports errs, not machine).
type errorReporter interface {
	ReportRunError(sessionID string, err *errs.Error)
}

// Config selects the optional knobs a caller may override before a
// Machine is built. The zero value is a sensible default.
type Config struct {
	Seed     int64
	Reporter errorReporter
}

// Option mutates a Config during New, following the same
// functional-options shape as the teacher's player construction.
type Option func(*Config)

// WithSeed fixes the PRNG seed every track's sequencer state derives
// from, for reproducible runs.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithReporter forwards fatal Run errors to the given reporter (an
// *telemetry.Reporter satisfies this), tagged with the Machine's
// session id. A nil reporter (the default) disables reporting.
func WithReporter(r errorReporter) Option {
	return func(c *Config) { c.Reporter = r }
}

// Machine owns one interpreter, one clock, one MIDI engine, and the
// channels binding them together.
type Machine struct {
	SessionID string

	interp   *vm.Interpreter
	registry *sequencer.Registry
	program  *lang.Program
	midiEng  *midi.Engine
	sink     sink.Sink
	reporter errorReporter

	clk      *clock.Clock
	fired    chan clock.Fired
	requests chan clock.Request
	done     chan struct{}
}

// New builds a Machine from an assembled program: constructs the
// interpreter, evaluates blocks 0 and 1 and main once, creates a
// sequencer registry for every gathered track, and enqueues each
// track's first cycle plus the housekeeping and MIDI-clock intervals.
func New(program *lang.Program, target sink.Sink, opts ...Option) (*Machine, *errs.Error) {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	ip := vm.NewInterpreter(program.Instrs, program.Funcs)
	words.Register(ip)

	tracks, err := ip.Bootstrap(program.Block0PC, program.Block1PC, program.MainEntry)
	if err != nil {
		return nil, err
	}

	registry := sequencer.NewRegistry(tracks, cfg.Seed)

	fired := make(chan clock.Fired, 64)
	requests := make(chan clock.Request, 64)
	clk := clock.New(fired, requests)

	m := &Machine{
		SessionID: uuid.New().String(),
		interp:    ip,
		registry:  registry,
		program:   program,
		midiEng:   midi.NewEngine(),
		sink:      target,
		reporter:  cfg.Reporter,
		clk:       clk,
		fired:     fired,
		requests:  requests,
		done:      make(chan struct{}),
	}

	for _, th := range tracks {
		clk.Timeout(0, clock.TrackCmd(th, 0, th))
	}
	clk.Interval(housekeepingIntervalMs, clock.ClockCmd())
	clk.Interval(midiClockIntervalMs, clock.MidiClockCmd())

	log.Printf("machine %s: bootstrapped %d track(s)", m.SessionID, len(tracks))
	return m, nil
}

// Run drives the clock on its own goroutine and processes fired
// commands on the calling goroutine until Stop, Reload, or a fatal
// runtime error ends the loop. The returned bool is true on Reload
// (the host should rebuild the Machine with a new program).
func (m *Machine) Run() (reload bool, runErr *errs.Error) {
	go m.clk.RunForever(m.done)
	defer close(m.done)

	for fired := range m.fired {
		stop, rl, err := m.handle(fired)
		if err != nil {
			m.flushAndStopClock()
			if m.reporter != nil {
				m.reporter.ReportRunError(m.SessionID, err)
			}
			return false, err
		}
		if stop {
			return rl, nil
		}
	}
	return false, nil
}

func (m *Machine) handle(f clock.Fired) (stop bool, reload bool, err *errs.Error) {
	cmd := f.Data
	switch cmd.Kind {
	case clock.CmdTrack:
		return false, false, m.handleTrack(cmd)
	case clock.CmdEvent:
		m.sink.Process(cmd)
		for _, out := range m.midiEng.Dispatch(cmd.Event) {
			m.sink.Process(out)
		}
		return false, false, nil
	case clock.CmdClock:
		m.sink.Process(cmd)
		return false, false, nil
	case clock.CmdMidiClock:
		for _, out := range m.midiEng.Update(f.ElapsedMs) {
			m.sink.Process(out)
		}
		return false, false, nil
	case clock.CmdStop:
		m.flushAndStopClock()
		return true, false, nil
	case clock.CmdReload:
		m.flushAndStopClock()
		return true, true, nil
	default:
		m.sink.Process(cmd)
		return false, false, nil
	}
}

func (m *Machine) handleTrack(cmd clock.Command) *errs.Error {
	fn, ok := m.program.Funcs[cmd.FunctionHash]
	if !ok {
		return errs.Bug("scheduled track names an unknown function")
	}
	active, ok := m.registry.Activate(cmd.TrackID)
	if !ok {
		return errs.Bug("scheduled track is not registered")
	}
	tr, _ := m.registry.Track(cmd.TrackID)

	tr.BeginCycle(cmd.TrackRevision)
	m.interp.Seq = active
	m.interp.State.Reset()
	if err := m.interp.Eval(fn.EntryPC); err != nil {
		return err
	}

	events, durationMs := tr.EndCycle()
	for _, e := range events {
		m.clk.Timeout(e.OnsetMs, clock.EventCmd(e))
	}
	m.clk.Timeout(durationMs, clock.TrackCmd(cmd.TrackID, cmd.TrackRevision+1, cmd.FunctionHash))
	return nil
}

// Stop schedules a Stop command for the next clock tick, which Run
// will see on m.fired, flush the MIDI engine, and halt the clock.
func (m *Machine) Stop() {
	m.requests <- clock.Request{Kind: clock.ReqTimeout, DurationMs: 0, Data: clock.StopCmd()}
}

func (m *Machine) flushAndStopClock() {
	for _, out := range m.midiEng.Flush() {
		m.sink.Process(out)
	}
	select {
	case m.requests <- clock.Request{Kind: clock.ReqStop}:
	case <-time.After(10 * time.Millisecond):
	}
}
