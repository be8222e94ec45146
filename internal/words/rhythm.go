package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func rhythmWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"hop_jump":    hopJump,
		"onsets":      onsets,
		"inter_onset": interOnset,
	}
}

// hopJump generates an African-polyrhythm pattern: allocate pulses
// zeros; for each onset, starting at onset*hop, seek the first free
// slot, mark it, mark its antipode with a sentinel so it isn't reused,
// then convert sentinels back to zero at output.
func hopJump(ip *vm.Interpreter) *errs.Error {
	hop, err := popNumber(ip)
	if err != nil {
		return err
	}
	pulses, err := popNumber(ip)
	if err != nil {
		return err
	}
	onsetsN, err := popNumber(ip)
	if err != nil {
		return err
	}
	p := int(pulses)
	h := int(hop)
	n := int(onsetsN)
	if p <= 0 {
		return errs.New(errs.InvalidArgs, "hop_jump pulses must be positive")
	}
	if n*h >= p {
		return errs.New(errs.InvalidArgs, "hop_jump onsets*hop must be less than pulses")
	}
	slots := make([]int, p)
	for onset := 0; onset < n; onset++ {
		start := (onset * h) % p
		idx := start
		for slots[idx] != 0 {
			idx = (idx + 1) % p
		}
		slots[idx] = 1
		antipode := (idx + p/2) % p
		if slots[antipode] == 0 {
			slots[antipode] = 2
		}
	}
	out := make([]int, p)
	for i, v := range slots {
		if v == 2 {
			out[i] = 0
		} else {
			out[i] = v
		}
	}
	pushIntList(ip, out)
	return nil
}

// onsets pops a list, then b, then a; pushes a binary mask over [a,b)
// indicating whether each integer appears in the list.
func onsets(ip *vm.Interpreter) *errs.Error {
	list, err := popRange(ip)
	if err != nil {
		return err
	}
	b, err := popNumber(ip)
	if err != nil {
		return err
	}
	a, err := popNumber(ip)
	if err != nil {
		return err
	}
	members := intSet(rangeInts(ip, list))
	out := []int{}
	for i := int(a); i < int(b); i++ {
		if members[i] {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	pushIntList(ip, out)
	return nil
}

// interOnset pops a list of onset times, pushes the pairwise
// differences between consecutive elements.
func interOnset(ip *vm.Interpreter) *errs.Error {
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	ints := rangeInts(ip, v)
	out := []int{}
	for i := 1; i < len(ints); i++ {
		out = append(out, ints[i]-ints[i-1])
	}
	pushIntList(ip, out)
	return nil
}
