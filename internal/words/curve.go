package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/event"
	"github.com/cbegin/jez-go/internal/vm"
)

func curveWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"linear": linear,
	}
}

// linear pops b, a; pushes a Curve value interpolating from a to b
// across a cycle as a flat cubic Bezier.
func linear(ip *vm.Interpreter) *errs.Error {
	b, err := popNumber(ip)
	if err != nil {
		return err
	}
	a, err := popNumber(ip)
	if err != nil {
		return err
	}
	ip.Push(vm.CurveVal(event.Linear(a, b)))
	return nil
}
