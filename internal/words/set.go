package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func setWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"sieve":               sieve,
		"union":               union,
		"intersection":        intersection,
		"symmetric_difference": symmetricDifference,
	}
}

func rangeInts(ip *vm.Interpreter, v vm.Value) []int {
	out := make([]int, 0, v.End-v.Start)
	for i := v.Start; i < v.End; i++ {
		n, ok := ip.HeapAt(i).AsNumber()
		if ok {
			out = append(out, int(n))
		}
	}
	return out
}

func intSet(ints []int) map[int]bool {
	m := make(map[int]bool, len(ints))
	for _, n := range ints {
		m[n] = true
	}
	return m
}

// sieve pops shift, modulus, then a range; pushes the elements x of the
// range where x % modulus == shift.
func sieve(ip *vm.Interpreter) *errs.Error {
	shift, err := popNumber(ip)
	if err != nil {
		return err
	}
	modulus, err := popNumber(ip)
	if err != nil {
		return err
	}
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	if int(modulus) == 0 {
		return errs.New(errs.InvalidArgs, "sieve modulus must be nonzero")
	}
	out := []int{}
	for _, n := range rangeInts(ip, v) {
		r := n % int(modulus)
		if r < 0 {
			r += int(modulus)
		}
		if r == int(shift) {
			out = append(out, n)
		}
	}
	pushIntList(ip, out)
	return nil
}

func union(ip *vm.Interpreter) *errs.Error {
	b, err := popRange(ip)
	if err != nil {
		return err
	}
	a, err := popRange(ip)
	if err != nil {
		return err
	}
	seen := intSet(rangeInts(ip, a))
	out := rangeInts(ip, a)
	for _, n := range rangeInts(ip, b) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	pushIntList(ip, out)
	return nil
}

func intersection(ip *vm.Interpreter) *errs.Error {
	b, err := popRange(ip)
	if err != nil {
		return err
	}
	a, err := popRange(ip)
	if err != nil {
		return err
	}
	bSet := intSet(rangeInts(ip, b))
	out := []int{}
	for _, n := range rangeInts(ip, a) {
		if bSet[n] {
			out = append(out, n)
		}
	}
	pushIntList(ip, out)
	return nil
}

func symmetricDifference(ip *vm.Interpreter) *errs.Error {
	b, err := popRange(ip)
	if err != nil {
		return err
	}
	a, err := popRange(ip)
	if err != nil {
		return err
	}
	aInts, bInts := rangeInts(ip, a), rangeInts(ip, b)
	aSet, bSet := intSet(aInts), intSet(bInts)
	out := []int{}
	for _, n := range aInts {
		if !bSet[n] {
			out = append(out, n)
		}
	}
	for _, n := range bInts {
		if !aSet[n] {
			out = append(out, n)
		}
	}
	pushIntList(ip, out)
	return nil
}
