// Package sequencer holds per-track sequencing state: the revision
// counter, owned PRNG, effect chain, and per-cycle event accumulator
// that the interpreter's keyword library reaches through vm.SeqAccess.
package sequencer

import (
	"math/rand"
	"sync"

	"github.com/cbegin/jez-go/internal/event"
)

// Track is one `.track` directive's live state: its function hash (how
// the machine re-invokes it each cycle), an ordered effect chain, and a
// monotonically increasing revision counter observable to DSL code via
// the `revision` keyword.
type Track struct {
	ID           uint64
	FunctionHash uint64
	Effects      []event.Effect
	Revision     int

	mu              sync.Mutex
	rng             *rand.Rand
	events          []event.Event
	cycleDurationMs float64
}

func newTrack(id, functionHash uint64, seed int64) *Track {
	return &Track{
		ID:           id,
		FunctionHash: functionHash,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// BeginCycle sets the revision counter to rev and clears the previous
// cycle's accumulated events, preparing the track for its next
// function evaluation. The caller is the machine, which always passes
// the revision carried by the Track command currently firing, so the
// very first cycle observes revision 0.
func (t *Track) BeginCycle(rev int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Revision = rev
	t.events = nil
	t.cycleDurationMs = 0
}

// EndCycle applies every attached effect in order to the accumulated
// events and returns the resulting event list plus the cycle duration.
func (t *Track) EndCycle() ([]event.Event, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.events
	for _, eff := range t.Effects {
		out = eff.Apply(t.cycleDurationMs, out)
	}
	return out, t.cycleDurationMs
}

// Registry owns every live track, keyed by its name hash, and mediates
// cross-track effect attachment (a `.def` body can name a different
// track than the one currently evaluating).
type Registry struct {
	mu     sync.Mutex
	tracks map[uint64]*Track
	seed   int64
}

// NewRegistry creates one Track per name hash, each with its own PRNG
// derived from seed so runs are reproducible given the same seed.
func NewRegistry(trackHashes []uint64, seed int64) *Registry {
	r := &Registry{tracks: make(map[uint64]*Track, len(trackHashes)), seed: seed}
	for i, h := range trackHashes {
		r.tracks[h] = newTrack(h, h, seed+int64(i)+1)
	}
	return r
}

// Track looks up a registered track by name hash.
func (r *Registry) Track(hash uint64) (*Track, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracks[hash]
	return t, ok
}

// Activate returns a vm.SeqAccess view bound to the named track, for
// the machine to install as Interpreter.Seq before evaluating that
// track's function this cycle.
func (r *Registry) Activate(hash uint64) (*ActiveTrack, bool) {
	t, ok := r.Track(hash)
	if !ok {
		return nil, false
	}
	return &ActiveTrack{track: t, registry: r}, true
}

// ActiveTrack is the interpreter's structural implementation of
// vm.SeqAccess for one track during one cycle's evaluation.
type ActiveTrack struct {
	track    *Track
	registry *Registry
}

func (a *ActiveTrack) Revision() int { return a.track.Revision }

func (a *ActiveTrack) RandFloat64() float64 {
	a.track.mu.Lock()
	defer a.track.mu.Unlock()
	return a.track.rng.Float64()
}

func (a *ActiveTrack) RandIntn(n int) int {
	a.track.mu.Lock()
	defer a.track.mu.Unlock()
	return a.track.rng.Intn(n)
}

func (a *ActiveTrack) PushEvent(e event.Event) {
	a.track.mu.Lock()
	defer a.track.mu.Unlock()
	a.track.events = append(a.track.events, e)
}

func (a *ActiveTrack) SetCycleDuration(ms float64) {
	a.track.mu.Lock()
	defer a.track.mu.Unlock()
	a.track.cycleDurationMs = ms
}

func (a *ActiveTrack) AttachEffect(trackHash uint64, eff event.Effect) bool {
	target, ok := a.registry.Track(trackHash)
	if !ok {
		return false
	}
	target.mu.Lock()
	defer target.mu.Unlock()
	target.Effects = append(target.Effects, eff)
	return true
}

func (a *ActiveTrack) Seed(seed int64) {
	a.track.mu.Lock()
	defer a.track.mu.Unlock()
	a.track.rng = rand.New(rand.NewSource(seed))
}
