// Package sink defines the Sink contract (component J) and ships the
// reference implementations named in the external interfaces: a
// console logger, a discarding sink, an in-memory recorder for tests,
// and a fan-out sink composing several others.
package sink

import (
	"log"
	"sync"

	"github.com/cbegin/jez-go/internal/clock"
)

// Sink is the only external collaborator the core requires: something
// that accepts commands, optionally runs its own receive loop, and can
// describe the devices it talks to.
type Sink interface {
	Name() string
	Process(cmd clock.Command)
	RunForever(in <-chan clock.Command)
	Devices() []string
}

// Console logs every command it receives, the simplest real sink.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (c *Console) Name() string { return "console" }

func (c *Console) Process(cmd clock.Command) {
	log.Printf("sink console: %+v", cmd)
}

func (c *Console) RunForever(in <-chan clock.Command) {
	for cmd := range in {
		c.Process(cmd)
	}
}

func (c *Console) Devices() []string { return nil }

// Null discards everything; useful as a default when no real backend
// is configured.
type Null struct{}

func NewNull() *Null { return &Null{} }

func (n *Null) Name() string              { return "null" }
func (n *Null) Process(cmd clock.Command) {}

func (n *Null) RunForever(in <-chan clock.Command) {
	for range in {
	}
}

func (n *Null) Devices() []string { return nil }

// Recording buffers every command it receives, for test assertions and
// for the simulate() JSON capture.
type Recording struct {
	mu       sync.Mutex
	Commands []clock.Command
}

func NewRecording() *Recording { return &Recording{} }

func (r *Recording) Name() string { return "recording" }

func (r *Recording) Process(cmd clock.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, cmd)
}

func (r *Recording) RunForever(in <-chan clock.Command) {
	for cmd := range in {
		r.Process(cmd)
	}
}

func (r *Recording) Devices() []string { return nil }

// Snapshot returns a copy of the commands recorded so far.
func (r *Recording) Snapshot() []clock.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]clock.Command, len(r.Commands))
	copy(out, r.Commands)
	return out
}

// Multi fans one command out to every inner sink, the same "one
// dispatch, many backends" shape as a multi-engine voice fan-out,
// repurposed here from audio engines to sinks.
type Multi struct {
	inner []Sink
	name  string
}

// NewMulti composes sinks into one, joining their names for Name().
func NewMulti(sinks ...Sink) *Multi {
	name := ""
	for i, s := range sinks {
		if i > 0 {
			name += ", "
		}
		name += s.Name()
	}
	return &Multi{inner: sinks, name: name}
}

func (m *Multi) Name() string { return m.name }

func (m *Multi) Process(cmd clock.Command) {
	for _, s := range m.inner {
		s.Process(cmd)
	}
}

func (m *Multi) RunForever(in <-chan clock.Command) {
	for cmd := range in {
		m.Process(cmd)
	}
}

func (m *Multi) Devices() []string {
	var out []string
	for _, s := range m.inner {
		out = append(out, s.Devices()...)
	}
	return out
}
