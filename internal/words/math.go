package words

import (
	"math"

	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func mathWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"add":      binaryOp(func(l, r float64) float64 { return l + r }),
		"subtract": binaryOp(func(l, r float64) float64 { return l - r }),
		"multiply": binaryOp(func(l, r float64) float64 { return l * r }),
		"divide":   divide,
		"modulo":   modulo,
	}
}

// binaryOp pops rhs then lhs and pushes f(lhs, rhs).
func binaryOp(f func(l, r float64) float64) vm.KeywordFunc {
	return func(ip *vm.Interpreter) *errs.Error {
		rhs, err := popNumber(ip)
		if err != nil {
			return err
		}
		lhs, err := popNumber(ip)
		if err != nil {
			return err
		}
		ip.Push(vm.Number(f(lhs, rhs)))
		return nil
	}
}

func divide(ip *vm.Interpreter) *errs.Error {
	rhs, err := popNumber(ip)
	if err != nil {
		return err
	}
	lhs, err := popNumber(ip)
	if err != nil {
		return err
	}
	if rhs == 0 {
		return errs.New(errs.InvalidArgs, "division by zero")
	}
	ip.Push(vm.Number(lhs / rhs))
	return nil
}

func modulo(ip *vm.Interpreter) *errs.Error {
	rhs, err := popNumber(ip)
	if err != nil {
		return err
	}
	lhs, err := popNumber(ip)
	if err != nil {
		return err
	}
	if rhs == 0 {
		return errs.New(errs.InvalidArgs, "modulo by zero")
	}
	ip.Push(vm.Number(math.Mod(lhs, rhs)))
	return nil
}
