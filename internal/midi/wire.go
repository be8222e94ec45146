package midi

import "github.com/cbegin/jez-go/internal/clock"

// WireBytes renders a raw MIDI command as its three status-byte-plus-two
// data-byte wire encoding, for native-MIDI sinks. Commands that carry no
// MIDI payload (Track, Event, Stop, ...) return ok=false.
func WireBytes(cmd clock.Command) (bytes [3]byte, ok bool) {
	switch cmd.Kind {
	case clock.CmdMidiNoteOn:
		return [3]byte{0x90 | byte(cmd.Channel), byte(cmd.Pitch), byte(cmd.Velocity)}, true
	case clock.CmdMidiNoteOff:
		return [3]byte{0x80 | byte(cmd.Channel), byte(cmd.Pitch), 0}, true
	case clock.CmdMidiCtl:
		return [3]byte{0xB0 | byte(cmd.Channel), byte(cmd.Controller), byte(cmd.Value)}, true
	default:
		return [3]byte{}, false
	}
}
