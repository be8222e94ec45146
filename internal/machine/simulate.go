package machine

import (
	"time"

	"github.com/cbegin/jez-go/internal/clock"
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/lang"
	"github.com/cbegin/jez-go/internal/sink"
)

// SimulateResult is the JSON envelope a simulate() run produces: the
// source program alongside everything it was assembled into and every
// command it emitted, for tests and host tooling to inspect offline.
type SimulateResult struct {
	SessionID    string          `json:"session_id"`
	Program      string          `json:"program"`
	DurationMs   float64         `json:"duration"`
	DeltaMs      float64         `json:"delta"`
	Directives   []string        `json:"directives"`
	Instructions int             `json:"instructions"`
	Commands     []clock.Command `json:"commands"`
}

// Simulate parses and assembles program, runs it against a null input
// for durationMs of simulated time advanced in deltaMs steps, and
// returns the full run as a JSON-ready envelope. It never touches the
// wall clock: every tick is a direct Update call, so the result is
// reproducible for a given program, duration, delta, and seed.
func Simulate(program string, durationMs, deltaMs float64, opts ...Option) (*SimulateResult, *errs.Error) {
	directives, perr := lang.Parse(program)
	if perr != nil {
		return nil, perr
	}
	asm, aerr := lang.Assemble(directives)
	if aerr != nil {
		return nil, aerr
	}

	names := make([]string, len(directives))
	for i, d := range directives {
		names[i] = d.Name.String()
	}

	rec := sink.NewRecording()
	m, err := New(asm, rec, opts...)
	if err != nil {
		return nil, err
	}

	if rerr := m.simulateRun(durationMs, deltaMs); rerr != nil {
		return nil, rerr
	}

	return &SimulateResult{
		SessionID:    m.SessionID,
		Program:      program,
		DurationMs:   durationMs,
		DeltaMs:      deltaMs,
		Directives:   names,
		Instructions: len(asm.Instrs),
		Commands:     rec.Snapshot(),
	}, nil
}

// simulateRun steps the clock by delta until elapsed reaches duration,
// draining and handling every fired command after each step, stopping
// early if the program issues its own Stop or Reload.
func (m *Machine) simulateRun(durationMs, deltaMs float64) *errs.Error {
	if deltaMs <= 0 {
		deltaMs = 1
	}
	for elapsed := 0.0; elapsed < durationMs; elapsed += deltaMs {
		m.clk.Update(time.Duration(deltaMs * float64(time.Millisecond)))
		stop, rerr := m.drainOnce()
		if rerr != nil {
			return rerr
		}
		if stop {
			break
		}
	}
	return nil
}

func (m *Machine) drainOnce() (stop bool, err *errs.Error) {
	for {
		select {
		case f := <-m.fired:
			s, _, herr := m.handle(f)
			if herr != nil {
				return false, herr
			}
			if s {
				return true, nil
			}
		default:
			return false, nil
		}
	}
}
