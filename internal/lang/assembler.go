package lang

import (
	"sort"

	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

// Program is the assembled result: a flat instruction stream plus the
// entry points a Machine needs to bootstrap the interpreter.
type Program struct {
	Instrs    []vm.Instr
	Funcs     map[uint64]vm.FuncEntry
	Block0PC  int
	Block1PC  int
	MainEntry *int
}

type stringPool struct {
	order []string
	ids   map[string]int
}

func newStringPool() *stringPool {
	return &stringPool{ids: make(map[string]int)}
}

func (p *stringPool) intern(s string) int {
	if id, ok := p.ids[s]; ok {
		return id
	}
	id := len(p.order)
	p.order = append(p.order, s)
	p.ids[s] = id
	return id
}

type pendingCall struct {
	idx  int
	hash uint64
}

type sourceLocEntry struct {
	at       int
	stringID int
	line     int
	col      int
}

type funcDecl struct {
	name    string
	argc    int
	code    []CodeToken
	isTrack bool
	loc     Location
}

// Assemble lowers a parsed directive list into a flat instruction
// stream, synthesizing block 0 (globals, source locations, string
// pool) and block 1 (the track-symbol list) ahead of the user-defined
// functions, per the assembler's deterministic layout.
func Assemble(directives []Directive) (*Program, *errs.Error) {
	pool := newStringPool()

	var globalNames []string
	globalInit := make(map[string]Value)
	var decls []funcDecl
	funcArgc := make(map[uint64]int)
	versionSeen := false

	for _, d := range directives {
		switch d.Name {
		case NameVersion:
			if len(d.Args) != 1 || d.Args[0].Value.Kind != ValNumber {
				return nil, errs.At(errs.UnsupportedVersion, "malformed .version directive", d.Loc.Line, d.Loc.Col)
			}
			if d.Args[0].Value.Num != 0 {
				return nil, errs.At(errs.UnsupportedVersion, "unsupported version", d.Loc.Line, d.Loc.Col)
			}
			versionSeen = true

		case NameGlobals:
			for _, a := range d.Args {
				if a.Name == "" {
					return nil, errs.At(errs.UnexpectedToken, ".globals accepts only keyword arguments", d.Loc.Line, d.Loc.Col)
				}
				if _, dup := globalInit[a.Name]; dup {
					return nil, errs.At(errs.DuplicateVariable, "duplicate global '"+a.Name+"'", d.Loc.Line, d.Loc.Col)
				}
				globalNames = append(globalNames, a.Name)
				globalInit[a.Name] = a.Value
			}

		case NameDef, NameTrack:
			name, argc, err := declHeader(d)
			if err != nil {
				return nil, err
			}
			hash := HashStr(name)
			if _, dup := funcArgc[hash]; dup {
				return nil, errs.At(errs.DuplicateFunction, "duplicate function '"+name+"'", d.Loc.Line, d.Loc.Col)
			}
			funcArgc[hash] = argc
			decls = append(decls, funcDecl{name: name, argc: argc, code: d.Code, isTrack: d.Name == NameTrack, loc: d.Loc})
		}
	}
	if !versionSeen {
		return nil, errs.New(errs.UnsupportedVersion, "missing .version directive")
	}

	sort.Strings(globalNames)

	// Pass A: emit user function bodies at local offsets, starting from 0.
	var funcsInstrs []vm.Instr
	funcTableLocal := make(map[uint64]vm.FuncEntry)
	var tentativeLocs []sourceLocEntry
	var pending []pendingCall
	var trackList []uint64

	for _, fd := range decls {
		hash := HashStr(fd.name)
		beginPC := len(funcsInstrs)
		funcsInstrs = append(funcsInstrs, vm.Begin(hash))
		tentativeLocs = append(tentativeLocs, sourceLocEntry{
			at:       beginPC,
			stringID: pool.intern(fd.name),
			line:     fd.loc.Line,
			col:      fd.loc.Col,
		})
		entryPC := len(funcsInstrs)
		funcTableLocal[hash] = vm.FuncEntry{Argc: fd.argc, EntryPC: entryPC}
		if fd.isTrack {
			trackList = append(trackList, hash)
		}
		for _, tok := range fd.code {
			if err := emitCodeToken(tok, pool, funcArgc, &pending, &funcsInstrs); err != nil {
				return nil, err
			}
		}
		funcsInstrs = append(funcsInstrs, vm.Return())
		funcsInstrs = append(funcsInstrs, vm.End(hash))
	}

	for _, pc := range pending {
		fe, ok := funcTableLocal[pc.hash]
		if !ok {
			return nil, errs.Bug("unresolved call target survived argc pre-scan")
		}
		funcsInstrs[pc.idx].Target = fe.EntryPC
	}

	// Block 0: globals (sorted by name), then source locations, then
	// the string pool, wrapped in a synthetic Begin/End so Eval's
	// entry-minus-one convention holds.
	block0Name := HashStr("$block0")
	var instrs0 []vm.Instr
	instrs0 = append(instrs0, vm.Begin(block0Name))
	for _, name := range globalNames {
		val := globalInit[name]
		instrs0 = append(instrs0, valueLoadInstrs(val, pool)...)
		instrs0 = append(instrs0, vm.StoreGlob(HashStr(name)))
	}

	// Block 1: zero-arg function returning a List of all track symbols.
	block1Name := HashStr("$block1")
	var instrs1 []vm.Instr
	instrs1 = append(instrs1, vm.Begin(block1Name))
	instrs1 = append(instrs1, vm.ListBegin())
	for _, th := range trackList {
		instrs1 = append(instrs1, vm.LoadSymbol(th))
	}
	instrs1 = append(instrs1, vm.ListEnd())
	instrs1 = append(instrs1, vm.Return())
	instrs1 = append(instrs1, vm.End(block1Name))

	// instrs0 still needs its source-location and string-pool sections
	// appended, plus a trailing Return/End; compute their length up
	// front (from counts and byte lengths alone, independent of any
	// pc value) so the final shift can be derived before those pc
	// values — which depend on the shift — are known.
	stringPoolLen := 0
	for _, s := range pool.order {
		stringPoolLen += 1 + len(s) // one StoreString plus one RawData per byte
	}
	instrs0FinalLen := len(instrs0) + len(tentativeLocs) + stringPoolLen + 2 // + Return + End
	shift := instrs0FinalLen + len(instrs1)
	for i := range funcsInstrs {
		if funcsInstrs[i].Op == vm.OpCall {
			funcsInstrs[i].Target += shift
		}
	}
	funcTable := make(map[uint64]vm.FuncEntry, len(funcTableLocal))
	for hash, fe := range funcTableLocal {
		funcTable[hash] = vm.FuncEntry{Argc: fe.Argc, EntryPC: fe.EntryPC + shift}
	}
	for i := range tentativeLocs {
		tentativeLocs[i].at += shift
	}

	for _, loc := range tentativeLocs {
		instrs0 = append(instrs0, vm.SourceLoc(loc.at, loc.stringID, loc.line, loc.col))
	}
	for id, s := range pool.order {
		b := []byte(s)
		instrs0 = append(instrs0, vm.StoreString(id, len(b)))
		for _, by := range b {
			instrs0 = append(instrs0, vm.RawData(by))
		}
	}
	instrs0 = append(instrs0, vm.Return())
	instrs0 = append(instrs0, vm.End(block0Name))

	block0PC := 1
	block1PC := len(instrs0) + 1

	final := make([]vm.Instr, 0, len(instrs0)+len(instrs1)+len(funcsInstrs))
	final = append(final, instrs0...)
	final = append(final, instrs1...)
	final = append(final, funcsInstrs...)

	var mainEntry *int
	if fe, ok := funcTable[HashStr("main")]; ok {
		v := fe.EntryPC
		mainEntry = &v
	}

	return &Program{
		Instrs:    final,
		Funcs:     funcTable,
		Block0PC:  block0PC,
		Block1PC:  block1PC,
		MainEntry: mainEntry,
	}, nil
}

func declHeader(d Directive) (string, int, *errs.Error) {
	if d.Name == NameTrack {
		if len(d.Args) != 1 || d.Args[0].Value.Kind != ValWord {
			return "", 0, errs.At(errs.UnexpectedToken, ".track requires a name", d.Loc.Line, d.Loc.Col)
		}
		return d.Args[0].Value.Text, 0, nil
	}
	if len(d.Args) != 2 || d.Args[0].Value.Kind != ValWord || d.Args[1].Value.Kind != ValNumber {
		return "", 0, errs.At(errs.UnexpectedToken, ".def requires a name and argument count", d.Loc.Line, d.Loc.Col)
	}
	return d.Args[0].Value.Text, int(d.Args[1].Value.Num), nil
}

func valueLoadInstrs(v Value, pool *stringPool) []vm.Instr {
	switch v.Kind {
	case ValNumber:
		return []vm.Instr{vm.LoadNumber(v.Num)}
	case ValSymbol:
		return []vm.Instr{vm.LoadSymbol(HashStr(v.Text))}
	case ValString:
		id := pool.intern(v.Text)
		return []vm.Instr{vm.LoadString(id)}
	case ValVariable:
		return []vm.Instr{vm.LoadVar(HashStr(v.Text))}
	default: // ValWord: treat as a zero-arg keyword invocation
		return []vm.Instr{vm.Keyword(HashStr(v.Text))}
	}
}

func emitCodeToken(tok CodeToken, pool *stringPool, funcArgc map[uint64]int, pending *[]pendingCall, instrs *[]vm.Instr) *errs.Error {
	switch tok.Kind {
	case CodeListBegin:
		*instrs = append(*instrs, vm.ListBegin())
	case CodeListEnd:
		*instrs = append(*instrs, vm.ListEnd())
	case CodeSeqBegin:
		*instrs = append(*instrs, vm.SeqBegin())
	case CodeSeqEnd:
		*instrs = append(*instrs, vm.SeqEnd())
	case CodeGroupBegin:
		*instrs = append(*instrs, vm.GroupBegin())
	case CodeGroupEnd:
		*instrs = append(*instrs, vm.GroupEnd())
	case CodeNull:
		*instrs = append(*instrs, vm.NullInstr())
	case CodeStoreVar:
		*instrs = append(*instrs, vm.StoreVar(HashStr(tok.Name)))
	case CodeValue:
		v := tok.Value
		if v.Kind == ValWord {
			hash := HashStr(v.Text)
			if argc, ok := funcArgc[hash]; ok {
				idx := len(*instrs)
				*instrs = append(*instrs, vm.Call(argc, -1))
				*pending = append(*pending, pendingCall{idx: idx, hash: hash})
				return nil
			}
			*instrs = append(*instrs, vm.Keyword(hash))
			return nil
		}
		*instrs = append(*instrs, valueLoadInstrs(v, pool)...)
	}
	return nil
}
