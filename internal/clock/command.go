package clock

import "github.com/cbegin/jez-go/internal/event"

// CommandKind tags which fields of Command are meaningful, following the
// same tagged-union-by-flat-struct shape used for vm.Value and vm.Instr.
type CommandKind int

const (
	CmdMidiNoteOff CommandKind = iota
	CmdStop
	CmdReload
	CmdClock
	CmdTrack
	CmdEvent
	CmdMidiNoteOn
	CmdMidiCtl
	CmdMidiClock
)

// Priority orders commands due at the same dispatch instant, lower fires
// first. A ringing note-off must land at the same instant as the note-on
// that replaces it, never after.
func (k CommandKind) Priority() int {
	switch k {
	case CmdMidiNoteOff:
		return 0
	case CmdStop:
		return 1
	case CmdReload:
		return 2
	case CmdClock:
		return 3
	case CmdTrack:
		return 4
	case CmdEvent:
		return 5
	case CmdMidiNoteOn:
		return 6
	case CmdMidiCtl:
		return 7
	case CmdMidiClock:
		return 8
	default:
		return 99
	}
}

// Command is the single payload type the clock schedules and dispatches.
// Only the fields relevant to Kind are populated for any given value.
type Command struct {
	Kind CommandKind

	// CmdTrack
	TrackID       uint64
	TrackRevision int
	FunctionHash  uint64

	// CmdEvent
	Event event.Event

	// CmdMidiNoteOn / CmdMidiNoteOff / CmdMidiCtl
	Channel    int
	Pitch      int
	Velocity   int
	Controller int
	Value      int
}

// TrackCmd builds a CmdTrack command scheduling one cycle of a track's
// function evaluation.
func TrackCmd(id uint64, revision int, functionHash uint64) Command {
	return Command{Kind: CmdTrack, TrackID: id, TrackRevision: revision, FunctionHash: functionHash}
}

// EventCmd wraps a produced event for delivery to the sink and MIDI engine.
func EventCmd(e event.Event) Command {
	return Command{Kind: CmdEvent, Event: e}
}

// MidiNoteOn/MidiNoteOff/MidiCtl build the corresponding raw MIDI commands.
func MidiNoteOnCmd(channel, pitch, velocity int) Command {
	return Command{Kind: CmdMidiNoteOn, Channel: channel, Pitch: pitch, Velocity: velocity}
}

func MidiNoteOffCmd(channel, pitch int) Command {
	return Command{Kind: CmdMidiNoteOff, Channel: channel, Pitch: pitch}
}

func MidiCtlCmd(channel, controller, value int) Command {
	return Command{Kind: CmdMidiCtl, Channel: channel, Controller: controller, Value: value}
}

// StopCmd, ReloadCmd, ClockCmd, and MidiClockCmd carry no payload.
func StopCmd() Command      { return Command{Kind: CmdStop} }
func ReloadCmd() Command    { return Command{Kind: CmdReload} }
func ClockCmd() Command     { return Command{Kind: CmdClock} }
func MidiClockCmd() Command { return Command{Kind: CmdMidiClock} }
