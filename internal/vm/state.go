package vm

import "github.com/cbegin/jez-go/internal/event"

// StackFrame is one call frame: its own operand stack and locals,
// plus the pc it was entered at and the pc to resume the caller at.
type StackFrame struct {
	Stack    []Value
	Locals   map[uint64]int
	BeginPC  int
	ReturnPC int
}

func newFrame(beginPC, returnPC int) *StackFrame {
	return &StackFrame{
		Stack:    make([]Value, 0, 8),
		Locals:   make(map[uint64]int),
		BeginPC:  beginPC,
		ReturnPC: returnPC,
	}
}

func (f *StackFrame) push(v Value) { f.Stack = append(f.Stack, v) }

func (f *StackFrame) pop() (Value, bool) {
	if len(f.Stack) == 0 {
		return Value{}, false
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, true
}

func (f *StackFrame) top() (Value, bool) {
	if len(f.Stack) == 0 {
		return Value{}, false
	}
	return f.Stack[len(f.Stack)-1], true
}

// InterpState is the machine-wide interpreter state: program counter,
// arena heap, globals, string pool, and the frame stack.
type InterpState struct {
	PC              int
	Heap            []Value
	ReservedHeapLen int
	Globals         map[uint64]int
	Strings         map[int]string
	Frames          []*StackFrame
	ExitFlag        bool
	Result          Value
}

func NewInterpState() *InterpState {
	return &InterpState{
		Heap:    make([]Value, 0, 256),
		Globals: make(map[uint64]int),
		Strings: make(map[int]string),
		Frames:  make([]*StackFrame, 0, 8),
	}
}

// Reset truncates the heap back to ReservedHeapLen, preserving globals
// and the string pool but clearing per-cycle scratch. No value below
// ReservedHeapLen is ever touched.
func (s *InterpState) Reset() {
	s.Heap = s.Heap[:s.ReservedHeapLen]
	s.Frames = s.Frames[:0]
	s.ExitFlag = false
	s.PC = 0
}

func (s *InterpState) currentFrame() *StackFrame {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

// SeqAccess is the interpreter's view of the currently-evaluating
// track's sequencing state. The machine sets Interpreter.Seq to the
// active track's state before each eval call. Implemented by
// internal/sequencer.ActiveTrack structurally, with no import cycle: vm
// defines the interface, sequencer satisfies it.
type SeqAccess interface {
	// Revision returns the current track's cycle counter.
	Revision() int
	// RandFloat64 and RandIntn draw from the sequencer's owned PRNG.
	RandFloat64() float64
	RandIntn(n int) int
	// PushEvent records one produced event for the current cycle.
	PushEvent(event.Event)
	// SetCycleDuration records the duration, in ms, of the current cycle.
	SetCycleDuration(ms float64)
	// AttachEffect appends eff to the named track's effect chain. ok is
	// false if no track with that name hash is registered.
	AttachEffect(trackHash uint64, eff event.Effect) (ok bool)
	// Seed reseeds the current track's PRNG that RandFloat64/RandIntn
	// draw from. Each track owns its own PRNG; other tracks' PRNGs are
	// not reseeded.
	Seed(seed int64)
}
