package lang

import (
	"reflect"
	"testing"
)

const sampleProgram = `
.version 0
.globals tempo=120 name="lead"
.def main 0:
  1 2 add
.track t1:
  60 250 1 midi_out
`

func TestAssembleIsDeterministic(t *testing.T) {
	d1, err := Parse(sampleProgram)
	if err != nil {
		t.Fatalf("parse 1: %v", err)
	}
	d2, err := Parse(sampleProgram)
	if err != nil {
		t.Fatalf("parse 2: %v", err)
	}
	p1, err := Assemble(d1)
	if err != nil {
		t.Fatalf("assemble 1: %v", err)
	}
	p2, err := Assemble(d2)
	if err != nil {
		t.Fatalf("assemble 2: %v", err)
	}
	if !reflect.DeepEqual(p1.Instrs, p2.Instrs) {
		t.Errorf("assembling the same program text twice produced different instruction streams")
	}
}

func TestGlobalsSortedByName(t *testing.T) {
	directives, err := Parse(".version 0\n.globals z=1 a=2 m=3\n.track t:\n 1 midi_out")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := Assemble(directives)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// Expect StoreGlob order a, m, z within block 0.
	var order []uint64
	for _, in := range prog.Instrs {
		if in.Op.String() == "StoreGlob" {
			order = append(order, in.Word)
		}
	}
	want := []uint64{HashStr("a"), HashStr("m"), HashStr("z")}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("got StoreGlob order %v, want %v (a, m, z)", order, want)
	}
}

func TestMissingVersionRejected(t *testing.T) {
	directives, err := Parse(".track t:\n 1 midi_out")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, asmErr := Assemble(directives); asmErr == nil {
		t.Errorf("expected an error assembling a program with no .version directive")
	}
}

func TestDuplicateFunctionRejected(t *testing.T) {
	directives, err := Parse(".version 0\n.def f 0:\n 1\n.def f 0:\n 2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, asmErr := Assemble(directives); asmErr == nil {
		t.Errorf("expected DuplicateFunction error, got nil")
	}
}
