package effects

import (
	"fmt"
	"math/rand"

	"github.com/cbegin/jez-go/internal/event"
)

type markovObs struct {
	delta float64
	ev    event.Event
}

// MarkovFilter observes the events flowing through it and, once it has
// seen at least MinObservations of them, replaces each cycle's events
// with a generated stream produced by a weighted random walk over an
// order-Order prefix tree built from those observations. Before that
// threshold it passes events through unchanged.
type MarkovFilter struct {
	Order           int
	Capacity        int
	MinObservations int

	window    []markovObs
	lastOnset float64
	rng       *rand.Rand
}

// NewMarkovFilter builds a filter with the given order (prefix-tree
// depth), sliding-window capacity, and explicit readiness threshold —
// a deliberate clarification of the implicit "more than order
// observations" rule.
func NewMarkovFilter(order, capacity, minObservations int, seed int64) *MarkovFilter {
	if minObservations <= 0 {
		minObservations = order + 1
	}
	return &MarkovFilter{
		Order:           order,
		Capacity:        capacity,
		MinObservations: minObservations,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

func (m *MarkovFilter) observe(ev event.Event) {
	delta := ev.OnsetMs - m.lastOnset
	m.lastOnset = ev.OnsetMs
	m.window = append(m.window, markovObs{delta: delta, ev: ev})
	if len(m.window) > m.Capacity {
		m.window = m.window[len(m.window)-m.Capacity:]
	}
}

func (m *MarkovFilter) ready() bool {
	return len(m.window) >= m.MinObservations && len(m.window) > m.Order
}

func (m *MarkovFilter) buildTree() map[string][]markovObs {
	tree := make(map[string][]markovObs)
	for i := 0; i+m.Order < len(m.window); i++ {
		key := keyFor(m.window[i : i+m.Order])
		tree[key] = append(tree[key], m.window[i+m.Order])
	}
	return tree
}

func keyFor(states []markovObs) string {
	s := ""
	for _, st := range states {
		s += fmt.Sprintf("%.1f:%.1f|", st.delta, st.ev.Trigger)
	}
	return s
}

func (m *MarkovFilter) Apply(durMs float64, events []event.Event) []event.Event {
	for _, ev := range events {
		m.observe(ev)
	}
	if !m.ready() {
		return events
	}
	tree := m.buildTree()
	startIdx := m.rng.Intn(len(m.window) - m.Order + 1)
	current := append([]markovObs(nil), m.window[startIdx:startIdx+m.Order]...)

	var generated []event.Event
	elapsed := 0.0
	retries := 0
	for elapsed < durMs {
		key := keyFor(current)
		succ, ok := tree[key]
		if !ok || len(succ) == 0 {
			retries++
			if retries > 100 {
				return nil
			}
			startIdx = m.rng.Intn(len(m.window) - m.Order + 1)
			current = append([]markovObs(nil), m.window[startIdx:startIdx+m.Order]...)
			continue
		}
		next := succ[m.rng.Intn(len(succ))]
		ev := next.ev
		ev.OnsetMs = elapsed
		generated = append(generated, ev)
		step := next.delta
		if step <= 0 {
			step = 1
		}
		elapsed += step
		current = append(append([]markovObs(nil), current[1:]...), next)
	}
	return generated
}
