// Package effects implements the track-level event filters: pitch
// quantization, MIDI velocity-to-CC mapping, and Markov-chain
// generation. Each implements event.Effect and is applied, in
// attachment order, to the flat event list a track produces each
// cycle.
package effects

import "github.com/cbegin/jez-go/internal/event"

// Chain applies a sequence of effects in attachment order, the event
// domain's counterpart to an audio effect chain.
type Chain struct {
	effects []event.Effect
}

func NewChain(effects ...event.Effect) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Apply(durMs float64, events []event.Event) []event.Event {
	for _, e := range c.effects {
		events = e.Apply(durMs, events)
	}
	return events
}

func (c *Chain) Add(e event.Effect) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int { return len(c.effects) }
