package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func bitsWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"bin_list":  binList,
		"gray_code": grayCode,
	}
}

// binList pops x, then n; pushes n zero-or-one elements for the low n
// bits of x, most-significant bit first.
func binList(ip *vm.Interpreter) *errs.Error {
	x, err := popNumber(ip)
	if err != nil {
		return err
	}
	n, err := popNumber(ip)
	if err != nil {
		return err
	}
	bits := int(n)
	xi := int(x)
	out := make([]int, bits)
	for i := 0; i < bits; i++ {
		shift := bits - 1 - i
		out[i] = (xi >> uint(shift)) & 1
	}
	pushIntList(ip, out)
	return nil
}

func grayCode(ip *vm.Interpreter) *errs.Error {
	x, err := popNumber(ip)
	if err != nil {
		return err
	}
	xi := int(x)
	ip.Push(vm.Number(float64(xi ^ (xi >> 1))))
	return nil
}
