package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func stackWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"drop": drop,
		"dup":  dup,
		"swap": swap,
		"pair": pair,
	}
}

func drop(ip *vm.Interpreter) *errs.Error {
	_, err := popValue(ip)
	return err
}

func dup(ip *vm.Interpreter) *errs.Error {
	v, err := popValue(ip)
	if err != nil {
		return err
	}
	ip.Push(v)
	ip.Push(v)
	return nil
}

func swap(ip *vm.Interpreter) *errs.Error {
	b, err := popValue(ip)
	if err != nil {
		return err
	}
	a, err := popValue(ip)
	if err != nil {
		return err
	}
	ip.Push(b)
	ip.Push(a)
	return nil
}

// pair pops two numbers a,b and pushes Pair(a,b): a container range
// reference holding both on the heap, the only surviving form of the
// original Pair value (see internal/vm's KPairOverride).
func pair(ip *vm.Interpreter) *errs.Error {
	b, err := popNumber(ip)
	if err != nil {
		return err
	}
	a, err := popNumber(ip)
	if err != nil {
		return err
	}
	start := ip.HeapLen()
	ip.PushHeap(vm.Number(a))
	ip.PushHeap(vm.Number(b))
	ip.Push(vm.PairOverride(start, ip.HeapLen()))
	return nil
}
