package effects

import (
	"github.com/cbegin/jez-go/internal/event"
	"github.com/cbegin/jez-go/internal/lang"
)

// scales maps each scale name to its scale-degree semitone offsets.
var scales = map[string][]int{
	"major":              {0, 2, 4, 5, 7, 9, 11},
	"natural_minor":      {0, 2, 3, 5, 7, 8, 10},
	"dorian":             {0, 2, 3, 5, 7, 9, 10},
	"phrygian":           {0, 1, 3, 5, 7, 8, 10},
	"mixolydian":         {0, 2, 4, 5, 7, 9, 10},
	"melodic_minor_asc":  {0, 2, 3, 5, 7, 9, 11},
	"harmonic_minor":     {0, 2, 3, 5, 7, 8, 11},
	"bebop_dorian":       {0, 3, 4, 5, 7, 9, 10},
	"blues":              {0, 3, 5, 6, 7, 10},
	"minor_pentatonic":   {0, 3, 5, 6, 7, 10},
	"hungarian_minor":    {0, 2, 3, 6, 7, 8, 11},
	"ukranian_dorian":    {0, 2, 3, 6, 7, 9, 10},
	"marva":              {0, 1, 4, 6, 7, 9, 11},
	"todi":               {0, 1, 3, 6, 7, 8, 11},
	"whole_tone":         {0, 2, 4, 6, 8, 10},
}

var keys = map[string]int{
	"c": 0, "c#": 1, "db": 1,
	"d": 2, "d#": 3, "eb": 3,
	"e": 4,
	"f": 5, "f#": 6, "gb": 6,
	"g": 7, "g#": 8, "ab": 8,
	"a": 9, "a#": 10, "bb": 10,
	"b": 11,
}

var scalesByHash = buildHashIndex(scales)
var keysByHash = buildIntHashIndex(keys)

func buildHashIndex(m map[string][]int) map[uint64][]int {
	out := make(map[uint64][]int, len(m))
	for name, v := range m {
		out[lang.HashStr(name)] = v
	}
	return out
}

func buildIntHashIndex(m map[string]int) map[uint64]int {
	out := make(map[uint64]int, len(m))
	for name, v := range m {
		out[lang.HashStr(name)] = v
	}
	return out
}

// NewPitchQuantizerByHash resolves key and scale by name hash, matching
// the original's root_key_hash/scale_hash construction: identifiers are
// hashed once at the call site rather than carried as strings.
func NewPitchQuantizerByHash(keyHash uint64, octave int, scaleHash uint64) (*PitchQuantizer, bool) {
	key, ok := keysByHash[keyHash]
	if !ok {
		return nil, false
	}
	scale, ok := scalesByHash[scaleHash]
	if !ok {
		return nil, false
	}
	return &PitchQuantizer{Key: key, Octave: octave, Scale: scale}, true
}

// ScaleNames lists the known scale names, for keyword argument
// validation and tests.
func ScaleNames() []string {
	names := make([]string, 0, len(scales))
	for n := range scales {
		names = append(names, n)
	}
	return names
}

// KeySemitone resolves a key name (e.g. "c#", "eb") to its semitone
// offset 0-11, or false if unrecognized.
func KeySemitone(name string) (int, bool) {
	v, ok := keys[name]
	return v, ok
}

// PitchQuantizer rewrites each Trigger event's value, treated as a
// scale degree, into an absolute MIDI semitone: scale[degree % len] +
// key + 12*(octave + degree/len). Curve events pass through unchanged.
type PitchQuantizer struct {
	Key    int // semitone offset 0-11
	Octave int
	Scale  []int
}

// NewPitchQuantizer looks up key and scale by name; ok is false if
// either name is unrecognized.
func NewPitchQuantizer(keyName string, octave int, scaleName string) (*PitchQuantizer, bool) {
	key, ok := KeySemitone(keyName)
	if !ok {
		return nil, false
	}
	scale, ok := scales[scaleName]
	if !ok {
		return nil, false
	}
	return &PitchQuantizer{Key: key, Octave: octave, Scale: scale}, true
}

func (p *PitchQuantizer) Apply(durMs float64, events []event.Event) []event.Event {
	out := make([]event.Event, len(events))
	n := len(p.Scale)
	for i, ev := range events {
		if ev.IsCurve || n == 0 {
			out[i] = ev
			continue
		}
		degree := int(ev.Trigger)
		idx := degree % n
		octShift := degree / n
		if idx < 0 {
			idx += n
			octShift--
		}
		ev.Trigger = float64(p.Scale[idx] + p.Key + 12*(p.Octave+octShift))
		out[i] = ev
	}
	return out
}
