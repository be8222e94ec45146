package vm

import (
	"fmt"

	"github.com/cbegin/jez-go/internal/errs"
)

// marker kinds live only transiently on an operand stack between a
// ListBegin/SeqBegin/GroupBegin and its matching end instruction; they
// are never visible to keyword code.
const (
	kListMarker Kind = 100 + iota
	kSeqMarker
	kGroupMarker
)

// FuncEntry records a defined function's arity and the pc of its first
// body instruction (one past its Begin).
type FuncEntry struct {
	Argc    int
	EntryPC int
}

// KeywordFunc is a built-in or extension word. It reads and writes the
// top frame's operand stack and may push onto the heap; ip.Seq gives
// access to the currently-evaluating track's sequencing state.
type KeywordFunc func(ip *Interpreter) *errs.Error

// Interpreter is the machine-wide stack VM: program counter, assembled
// instructions, keyword dispatch table, and function table, operating
// over one InterpState.
type Interpreter struct {
	State      *InterpState
	Instrs     []Instr
	Keywords   map[uint64]KeywordFunc
	Funcs      map[uint64]FuncEntry
	SourceLocs []Instr
	Seq        SeqAccess
}

// NewInterpreter builds an interpreter over an assembled instruction
// stream and function table. Keywords are registered afterward via
// Register.
func NewInterpreter(instrs []Instr, funcs map[uint64]FuncEntry) *Interpreter {
	ip := &Interpreter{
		State:    NewInterpState(),
		Instrs:   instrs,
		Keywords: make(map[uint64]KeywordFunc),
		Funcs:    funcs,
	}
	for _, in := range instrs {
		if in.Op == OpSourceLoc {
			ip.SourceLocs = append(ip.SourceLocs, in)
		}
	}
	return ip
}

// Register installs fn as the handler for the keyword whose name
// hashes to word.
func (ip *Interpreter) Register(word uint64, fn KeywordFunc) {
	ip.Keywords[word] = fn
}

// Eval runs the instruction loop starting at entry (the pc of a
// function's first body instruction, one past its Begin) until the
// outermost frame it pushes returns, or pc runs past the end of the
// program.
func (ip *Interpreter) Eval(entry int) *errs.Error {
	returnPC := ip.State.PC
	frame := newFrame(entry, returnPC)
	ip.State.Frames = append(ip.State.Frames, frame)
	ip.State.PC = entry - 1
	ip.State.ExitFlag = false

	for ip.State.PC < len(ip.Instrs) && !ip.State.ExitFlag {
		pc := ip.State.PC
		if err := ip.execute(pc, ip.Instrs[pc]); err != nil {
			return ip.attachTrace(err)
		}
		ip.State.PC++
	}
	return nil
}

// Bootstrap evaluates the assembler's implicit block 0 (globals,
// source locs, string pool) and block 1 (track symbol list), then the
// optional main function, exactly as described for interpreter
// construction: block 0 sets ReservedHeapLen before the first Reset,
// block 1's result becomes the initial track list, and main runs once
// for side effects. All three runs leave no scratch state behind.
func (ip *Interpreter) Bootstrap(block0PC, block1PC int, mainEntry *int) ([]uint64, *errs.Error) {
	if err := ip.Eval(block0PC); err != nil {
		return nil, err
	}
	ip.State.ReservedHeapLen = len(ip.State.Heap)
	ip.State.Reset()

	if err := ip.Eval(block1PC); err != nil {
		return nil, err
	}
	var tracks []uint64
	result := ip.State.Result
	if result.Kind == KList {
		for _, v := range ip.State.Heap[result.Start:result.End] {
			if v.Kind == KSymbol {
				tracks = append(tracks, v.Sym)
			}
		}
	}
	ip.State.Reset()

	if mainEntry != nil {
		if err := ip.Eval(*mainEntry); err != nil {
			return nil, err
		}
		ip.State.Reset()
	}
	return tracks, nil
}

func (ip *Interpreter) execute(pc int, ins Instr) *errs.Error {
	switch ins.Op {
	case OpBegin, OpEnd, OpSourceLoc, OpRawData:
		return nil
	case OpStoreString:
		return ip.execStoreString(pc, ins)
	case OpCall:
		return ip.execCall(ins)
	case OpReturn:
		return ip.execReturn()
	case OpLoadNumber:
		return ip.pushOrFail(Number(ins.Number))
	case OpLoadSymbol:
		return ip.pushOrFail(Symbol(ins.Symbol))
	case OpLoadString:
		s, ok := ip.State.Strings[ins.StringID]
		if !ok {
			return errs.Bug("missing string pool entry")
		}
		return ip.pushOrFail(Str(s))
	case OpNull:
		return ip.pushOrFail(Null())
	case OpStoreVar:
		return ip.storeInto(ins.Word, ip.currentFrame().Locals)
	case OpStoreGlob:
		return ip.storeInto(ins.Word, ip.State.Globals)
	case OpLoadVar:
		frame := ip.currentFrame()
		idx, ok := frame.Locals[ins.Word]
		if !ok {
			idx, ok = ip.State.Globals[ins.Word]
		}
		if !ok {
			return errs.New(errs.InvalidArgs, "unbound variable")
		}
		return ip.pushOrFail(ip.State.Heap[idx])
	case OpKeyword:
		fn, ok := ip.Keywords[ins.Word]
		if !ok {
			return errs.New(errs.UnknownKeyword, "unknown keyword")
		}
		return fn(ip)
	case OpListBegin:
		return ip.pushOrFail(Value{Kind: kListMarker})
	case OpSeqBegin:
		return ip.pushOrFail(Value{Kind: kSeqMarker})
	case OpGroupBegin:
		return ip.pushOrFail(Value{Kind: kGroupMarker})
	case OpListEnd:
		return ip.closeContainer(kListMarker, KList)
	case OpSeqEnd:
		return ip.closeContainer(kSeqMarker, KSeq)
	case OpGroupEnd:
		return ip.closeContainer(kGroupMarker, KGroup)
	}
	return errs.Bug(fmt.Sprintf("unhandled opcode %v", ins.Op))
}

// execStoreString reads the len RawData instructions immediately
// following a StoreString, decodes them as UTF-8, and inserts the
// result into the string pool, advancing pc past the raw bytes.
func (ip *Interpreter) execStoreString(pc int, ins Instr) *errs.Error {
	bytes := make([]byte, ins.Len)
	for i := 0; i < ins.Len; i++ {
		at := pc + 1 + i
		if at >= len(ip.Instrs) || ip.Instrs[at].Op != OpRawData {
			return errs.Bug("truncated string literal")
		}
		bytes[i] = ip.Instrs[at].Byte
	}
	ip.State.Strings[ins.StringID] = string(bytes)
	ip.State.PC += ins.Len
	return nil
}

func (ip *Interpreter) currentFrame() *StackFrame {
	f := ip.State.currentFrame()
	if f == nil {
		panic("vm: no active frame")
	}
	return f
}

func (ip *Interpreter) pushOrFail(v Value) *errs.Error {
	ip.currentFrame().push(v)
	return nil
}

func (ip *Interpreter) storeInto(name uint64, into map[uint64]int) *errs.Error {
	v, ok := ip.currentFrame().pop()
	if !ok {
		return errs.New(errs.StackExhausted, "store")
	}
	idx := len(ip.State.Heap)
	ip.State.Heap = append(ip.State.Heap, v)
	into[name] = idx
	return nil
}

func (ip *Interpreter) closeContainer(marker Kind, result Kind) *errs.Error {
	frame := ip.currentFrame()
	var collected []Value
	for {
		v, ok := frame.pop()
		if !ok {
			return errs.New(errs.StackExhausted, "unbalanced container")
		}
		if v.Kind == marker {
			break
		}
		collected = append(collected, v)
	}
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	start := len(ip.State.Heap)
	ip.State.Heap = append(ip.State.Heap, collected...)
	end := len(ip.State.Heap)
	switch result {
	case KList:
		frame.push(List(start, end))
	case KSeq:
		frame.push(Seq(start, end))
	case KGroup:
		frame.push(Group(start, end))
	}
	return nil
}

func (ip *Interpreter) execCall(ins Instr) *errs.Error {
	caller := ip.currentFrame()
	if len(caller.Stack) < ins.Argc {
		return errs.New(errs.StackExhausted, "call argument count")
	}
	callee := newFrame(ins.Target, ip.State.PC)
	args := append([]Value(nil), caller.Stack[len(caller.Stack)-ins.Argc:]...)
	callee.Stack = append(callee.Stack, args...)
	caller.Stack = caller.Stack[:len(caller.Stack)-ins.Argc]
	ip.State.Frames = append(ip.State.Frames, callee)
	ip.State.PC = ins.Target - 1
	return nil
}

func (ip *Interpreter) execReturn() *errs.Error {
	frames := ip.State.Frames
	if len(frames) == 0 {
		return errs.Bug("return with no active frame")
	}
	top := frames[len(frames)-1]
	tos, ok := top.top()
	if !ok {
		tos = Null()
	}
	ip.State.Frames = frames[:len(frames)-1]
	if len(ip.State.Frames) == 0 {
		ip.State.Result = tos
		ip.State.ExitFlag = true
		return nil
	}
	ip.currentFrame().push(tos)
	ip.State.PC = top.ReturnPC
	return nil
}

// stackTrace walks the frame stack, innermost first, and for each
// frame's Begin instruction (BeginPC-1) looks up the source-location
// debug record via linear search.
func (ip *Interpreter) stackTrace() []string {
	var lines []string
	for i := len(ip.State.Frames) - 1; i >= 0; i-- {
		f := ip.State.Frames[i]
		loc := ip.lookupSourceLoc(f.BeginPC - 1)
		if loc == nil {
			continue
		}
		token := ip.State.Strings[loc.StringID]
		lines = append(lines, fmt.Sprintf("> '%s' at line %d col %d", token, loc.Line, loc.Col))
	}
	return lines
}

func (ip *Interpreter) lookupSourceLoc(pc int) *Instr {
	for i := range ip.SourceLocs {
		if ip.SourceLocs[i].At == pc {
			return &ip.SourceLocs[i]
		}
	}
	return nil
}

func (ip *Interpreter) attachTrace(err *errs.Error) *errs.Error {
	return err.WithTrace(ip.stackTrace())
}

// The following accessors give internal/words controlled access to the
// active frame and heap without exposing InterpState's internals.

func (ip *Interpreter) Pop() (Value, bool)  { return ip.currentFrame().pop() }
func (ip *Interpreter) Push(v Value)        { ip.currentFrame().push(v) }
func (ip *Interpreter) Top() (Value, bool)  { return ip.currentFrame().top() }
func (ip *Interpreter) HeapLen() int        { return len(ip.State.Heap) }
func (ip *Interpreter) HeapAt(i int) Value  { return ip.State.Heap[i] }
func (ip *Interpreter) SetHeapAt(i int, v Value) { ip.State.Heap[i] = v }
func (ip *Interpreter) HeapSlice(start, end int) []Value { return ip.State.Heap[start:end] }
func (ip *Interpreter) PushHeap(v Value) int {
	idx := len(ip.State.Heap)
	ip.State.Heap = append(ip.State.Heap, v)
	return idx
}
