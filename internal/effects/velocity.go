package effects

import (
	"github.com/cbegin/jez-go/internal/event"
	"github.com/cbegin/jez-go/internal/lang"
)

// deviceCCMaps gives, per device, the CC number assigned to each named
// parameter.
var deviceCCMaps = map[string]map[string]int{
	"volca_fm": {
		"octave":           40,
		"velocity":         41,
		"modulator_attack": 42,
		"modulator_decay":  43,
		"carrier_attack":   44,
		"carrier_decay":    45,
		"lfo_rate":         46,
		"lfo_pitch_depth":  47,
		"algorithm":        48,
	},
	"volca_sample": {
		"level": 7,
		// not a real parameter, just an alias onto level's CC
		"velocity":           7,
		"pan":                10,
		"sample_start_point": 40,
		"sample_length":      41,
		"hi_cut":             42,
		"speed":              43,
		"pitch_eg_int":       44,
		"pitch_eg_attack":    45,
		"pitch_eg_decay":     46,
		"amp_eg_attack":      47,
		"amp_eg_decay":       48,
	},
}

// LookupCC resolves a device/parameter pair to a CC number.
func LookupCC(device, param string) (int, bool) {
	m, ok := deviceCCMaps[device]
	if !ok {
		return 0, false
	}
	cc, ok := m[param]
	return cc, ok
}

var deviceCCMapsByHash = buildDeviceHashIndex(deviceCCMaps)

func buildDeviceHashIndex(m map[string]map[string]int) map[uint64]map[uint64]int {
	out := make(map[uint64]map[uint64]int, len(m))
	for device, params := range m {
		inner := make(map[uint64]int, len(params))
		for param, cc := range params {
			inner[lang.HashStr(param)] = cc
		}
		out[lang.HashStr(device)] = inner
	}
	return out
}

// LookupCCByHash resolves a device/parameter pair by name hash.
func LookupCCByHash(deviceHash, paramHash uint64) (int, bool) {
	m, ok := deviceCCMapsByHash[deviceHash]
	if !ok {
		return 0, false
	}
	cc, ok := m[paramHash]
	return cc, ok
}

// NewMidiVelocityMapperByHash resolves device/param by name hash; ok is
// false if the pair is unrecognized.
func NewMidiVelocityMapperByHash(deviceHash, paramHash uint64) (*MidiVelocityMapper, bool) {
	cc, ok := LookupCCByHash(deviceHash, paramHash)
	if !ok {
		return nil, false
	}
	return &MidiVelocityMapper{CC: cc}, true
}

// MidiVelocityMapper inserts a preceding flat-line Curve CC event for
// every Trigger event, on the same channel, mapped to the device's CC
// number for the given parameter. The original trigger event is kept,
// so event count doubles.
type MidiVelocityMapper struct {
	Device string
	Param  string
	CC     int
}

// NewMidiVelocityMapper resolves device/param to a CC number; ok is
// false if the pair is unrecognized.
func NewMidiVelocityMapper(device, param string) (*MidiVelocityMapper, bool) {
	cc, ok := LookupCC(device, param)
	if !ok {
		return nil, false
	}
	return &MidiVelocityMapper{Device: device, Param: param, CC: cc}, true
}

func (m *MidiVelocityMapper) Apply(durMs float64, events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events)*2)
	for _, ev := range events {
		if !ev.IsCurve {
			ccEvent := event.Event{
				Destination: event.Destination{Channel: ev.Destination.Channel, Extra: m.CC},
				OnsetMs:     ev.OnsetMs,
				DurationMs:  ev.DurationMs,
				IsCurve:     true,
				Curve:       event.Linear(float64(ev.Destination.Extra), float64(ev.Destination.Extra)),
			}
			out = append(out, ccEvent, ev)
			continue
		}
		out = append(out, ev)
	}
	return out
}
