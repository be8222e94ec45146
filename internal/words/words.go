// Package words is the keyword library: built-in vm.KeywordFunc
// functions that take the interpreter (whose Seq field exposes the
// active track's sequencing state) and return an error, registered
// into an interpreter's dispatch table by name hash.
package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/lang"
	"github.com/cbegin/jez-go/internal/vm"
)

// Register installs every built-in keyword into ip's dispatch table,
// keyed by lang.HashStr(name).
func Register(ip *vm.Interpreter) {
	for name, fn := range builtins() {
		ip.Register(lang.HashStr(name), fn)
	}
}

func builtins() map[string]vm.KeywordFunc {
	m := map[string]vm.KeywordFunc{}
	for name, fn := range mathWords() {
		m[name] = fn
	}
	for name, fn := range stackWords() {
		m[name] = fn
	}
	for name, fn := range listWords() {
		m[name] = fn
	}
	for name, fn := range setWords() {
		m[name] = fn
	}
	for name, fn := range rhythmWords() {
		m[name] = fn
	}
	for name, fn := range bitsWords() {
		m[name] = fn
	}
	for name, fn := range probWords() {
		m[name] = fn
	}
	for name, fn := range curveWords() {
		m[name] = fn
	}
	for name, fn := range midiWords() {
		m[name] = fn
	}
	for name, fn := range fxWords() {
		m[name] = fn
	}
	for name, fn := range introspectWords() {
		m[name] = fn
	}
	return m
}

func popNumber(ip *vm.Interpreter) (float64, *errs.Error) {
	v, ok := ip.Pop()
	if !ok {
		return 0, errs.New(errs.StackExhausted, "operand stack underflow")
	}
	n, ok := v.AsNumber()
	if !ok {
		return 0, errs.New(errs.InvalidArgs, "expected a number")
	}
	return n, nil
}

func popValue(ip *vm.Interpreter) (vm.Value, *errs.Error) {
	v, ok := ip.Pop()
	if !ok {
		return vm.Value{}, errs.New(errs.StackExhausted, "operand stack underflow")
	}
	return v, nil
}

func popRange(ip *vm.Interpreter) (vm.Value, *errs.Error) {
	v, err := popValue(ip)
	if err != nil {
		return vm.Value{}, err
	}
	if !v.IsRange() {
		return vm.Value{}, errs.New(errs.InvalidArgs, "expected a list/seq/group")
	}
	return v, nil
}

// pushIntList allocates a new heap range holding ints as Numbers and
// pushes a List value over it.
func pushIntList(ip *vm.Interpreter, ints []int) {
	start := ip.HeapLen()
	for _, n := range ints {
		ip.PushHeap(vm.Number(float64(n)))
	}
	ip.Push(vm.List(start, ip.HeapLen()))
}
