package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func listWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"repeat":    repeat,
		"reverse":   reverseList,
		"rotate":    rotate,
		"shuffle":   shuffle,
		"degrade":   degrade,
		"cycle":     cycle,
		"palindrome": palindrome,
		"every":     every,
		"range":     rangeWord,
	}
}

// repeat pops a count n and a value, pushes a List of n copies of value.
func repeat(ip *vm.Interpreter) *errs.Error {
	n, err := popNumber(ip)
	if err != nil {
		return err
	}
	v, err := popValue(ip)
	if err != nil {
		return err
	}
	start := ip.HeapLen()
	for i := 0; i < int(n); i++ {
		ip.PushHeap(v)
	}
	ip.Push(vm.List(start, ip.HeapLen()))
	return nil
}

// reverseList reverses TOS's heap range in place.
func reverseList(ip *vm.Interpreter) *errs.Error {
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	s, e := v.Start, v.End
	for i, j := s, e-1; i < j; i, j = i+1, j-1 {
		a, b := ip.HeapAt(i), ip.HeapAt(j)
		ip.SetHeapAt(i, b)
		ip.SetHeapAt(j, a)
	}
	ip.Push(v)
	return nil
}

// rotate pops n and a range, pushes a new range rotated right by n mod len.
func rotate(ip *vm.Interpreter) *errs.Error {
	n, err := popNumber(ip)
	if err != nil {
		return err
	}
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	length := v.End - v.Start
	if length == 0 {
		ip.Push(v)
		return nil
	}
	shift := int(n) % length
	if shift < 0 {
		shift += length
	}
	start := ip.HeapLen()
	for i := 0; i < length; i++ {
		src := v.Start + (i-shift+length)%length
		ip.PushHeap(ip.HeapAt(src))
	}
	ip.Push(vm.Value{Kind: v.Kind, Start: start, End: ip.HeapLen()})
	return nil
}

// shuffle pops a range, pushes a new range with elements permuted using
// the active track's RNG (Fisher-Yates).
func shuffle(ip *vm.Interpreter) *errs.Error {
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	length := v.End - v.Start
	items := make([]vm.Value, length)
	for i := 0; i < length; i++ {
		items[i] = ip.HeapAt(v.Start + i)
	}
	if ip.Seq != nil {
		for i := length - 1; i > 0; i-- {
			j := ip.Seq.RandIntn(i + 1)
			items[i], items[j] = items[j], items[i]
		}
	}
	start := ip.HeapLen()
	for _, it := range items {
		ip.PushHeap(it)
	}
	ip.Push(vm.Value{Kind: v.Kind, Start: start, End: ip.HeapLen()})
	return nil
}

// degrade pops a range, pushes a new range where each element becomes
// Null with 50% probability, using the active track's RNG.
func degrade(ip *vm.Interpreter) *errs.Error {
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	start := ip.HeapLen()
	for i := v.Start; i < v.End; i++ {
		keep := true
		if ip.Seq != nil {
			keep = ip.Seq.RandFloat64() >= 0.5
		}
		if keep {
			ip.PushHeap(ip.HeapAt(i))
		} else {
			ip.PushHeap(vm.Null())
		}
	}
	ip.Push(vm.Value{Kind: v.Kind, Start: start, End: ip.HeapLen()})
	return nil
}

// cycle pops a range, pushes the element at revision mod len; an empty
// range is a no-op (pushes nothing back but the range itself is dropped).
func cycle(ip *vm.Interpreter) *errs.Error {
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	length := v.End - v.Start
	if length == 0 {
		return nil
	}
	rev := 0
	if ip.Seq != nil {
		rev = ip.Seq.Revision()
	}
	ip.Push(ip.HeapAt(v.Start + rev%length))
	return nil
}

// palindrome reverses TOS's range on odd revisions, leaves it as-is on even.
func palindrome(ip *vm.Interpreter) *errs.Error {
	v, err := popRange(ip)
	if err != nil {
		return err
	}
	rev := 0
	if ip.Seq != nil {
		rev = ip.Seq.Revision()
	}
	if rev%2 == 0 {
		ip.Push(v)
		return nil
	}
	s, e := v.Start, v.End
	start := ip.HeapLen()
	for i := e - 1; i >= s; i-- {
		ip.PushHeap(ip.HeapAt(i))
	}
	ip.Push(vm.Value{Kind: v.Kind, Start: start, End: ip.HeapLen()})
	return nil
}

// every pops n, else, then; pushes then when n divides revision, else else.
func every(ip *vm.Interpreter) *errs.Error {
	then, err := popValue(ip)
	if err != nil {
		return err
	}
	elseVal, err := popValue(ip)
	if err != nil {
		return err
	}
	n, err := popNumber(ip)
	if err != nil {
		return err
	}
	rev := 0
	if ip.Seq != nil {
		rev = ip.Seq.Revision()
	}
	if int(n) != 0 && rev%int(n) == 0 {
		ip.Push(then)
	} else {
		ip.Push(elseVal)
	}
	return nil
}

// rangeWord pops b, a; pushes a List of integers [a,b).
func rangeWord(ip *vm.Interpreter) *errs.Error {
	b, err := popNumber(ip)
	if err != nil {
		return err
	}
	a, err := popNumber(ip)
	if err != nil {
		return err
	}
	ints := []int{}
	for i := int(a); i < int(b); i++ {
		ints = append(ints, i)
	}
	pushIntList(ip, ints)
	return nil
}
