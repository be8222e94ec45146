package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func probWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"rand_range": randRange,
		"rand_seed":  randSeed,
	}
}

// randRange pops hi, lo; pushes a uniform integer draw in [lo,hi) from
// the active track's PRNG.
func randRange(ip *vm.Interpreter) *errs.Error {
	hi, err := popNumber(ip)
	if err != nil {
		return err
	}
	lo, err := popNumber(ip)
	if err != nil {
		return err
	}
	span := int(hi) - int(lo)
	if span <= 0 {
		return errs.New(errs.InvalidArgs, "rand_range requires hi > lo")
	}
	n := 0
	if ip.Seq != nil {
		n = ip.Seq.RandIntn(span)
	}
	ip.Push(vm.Number(float64(int(lo) + n)))
	return nil
}

// randSeed pops a seed value and reseeds the active track's PRNG.
func randSeed(ip *vm.Interpreter) *errs.Error {
	s, err := popNumber(ip)
	if err != nil {
		return err
	}
	if ip.Seq != nil {
		ip.Seq.Seed(int64(s))
	}
	return nil
}
