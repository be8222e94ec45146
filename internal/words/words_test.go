package words

import (
	"math/rand"
	"testing"

	"github.com/cbegin/jez-go/internal/event"
	"github.com/cbegin/jez-go/internal/vm"
)

// fakeSeq is a minimal vm.SeqAccess for exercising revision/RNG-aware
// keywords without a real sequencer.
type fakeSeq struct {
	revision int
	rng      *rand.Rand
	events   []event.Event
	duration float64
}

func (s *fakeSeq) Revision() int { return s.revision }
func (s *fakeSeq) RandFloat64() float64 {
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(1))
	}
	return s.rng.Float64()
}
func (s *fakeSeq) RandIntn(n int) int {
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(1))
	}
	return s.rng.Intn(n)
}
func (s *fakeSeq) PushEvent(e event.Event)         { s.events = append(s.events, e) }
func (s *fakeSeq) SetCycleDuration(ms float64)     { s.duration = ms }
func (s *fakeSeq) AttachEffect(uint64, event.Effect) bool { return true }
func (s *fakeSeq) Seed(seed int64)                 { s.rng = rand.New(rand.NewSource(seed)) }

// evalKeyword builds a single zero-arg function "push..., keyword,
// return" program, runs it, and returns the interpreter for inspection
// of the result/heap.
func evalKeyword(t *testing.T, push []vm.Instr, keyword string) *vm.Interpreter {
	t.Helper()
	instrs := []vm.Instr{vm.Begin(1)}
	instrs = append(instrs, push...)
	instrs = append(instrs, vm.Keyword(0), vm.Return(), vm.End(1))
	ip := vm.NewInterpreter(instrs, nil)
	Register(ip)
	for name, fn := range builtins() {
		if name == keyword {
			ip.Keywords[0] = fn
		}
	}
	if err := ip.Eval(1); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	return ip
}

func intsOf(ip *vm.Interpreter, v vm.Value) []int {
	out := make([]int, 0, v.End-v.Start)
	for i := v.Start; i < v.End; i++ {
		n, _ := ip.HeapAt(i).AsNumber()
		out = append(out, int(n))
	}
	return out
}

func pushListInstrs(begin func() vm.Instr, end func() vm.Instr, nums ...float64) []vm.Instr {
	out := []vm.Instr{begin()}
	for _, n := range nums {
		out = append(out, vm.LoadNumber(n))
	}
	out = append(out, end())
	return out
}

func TestRotateScenario(t *testing.T) {
	push := pushListInstrs(vm.ListBegin, vm.ListEnd, 1, 2, 3, 4)
	push = append(push, vm.LoadNumber(5))
	ip := evalKeyword(t, push, "rotate")
	got := intsOf(ip, ip.State.Result)
	want := []int{4, 1, 2, 3}
	assertIntsEqual(t, got, want)
}

func TestOnsetsScenario(t *testing.T) {
	push := []vm.Instr{vm.LoadNumber(5), vm.LoadNumber(10)}
	push = append(push, pushListInstrs(vm.ListBegin, vm.ListEnd, 0, 1, 2, 7, 8, 10)...)
	ip := evalKeyword(t, push, "onsets")
	got := intsOf(ip, ip.State.Result)
	want := []int{0, 0, 1, 1, 0}
	assertIntsEqual(t, got, want)
}

func TestGrayCodeLaw(t *testing.T) {
	for x := 0; x < 16; x++ {
		ip := evalKeyword(t, []vm.Instr{vm.LoadNumber(float64(x))}, "gray_code")
		got, _ := ip.State.Result.AsNumber()
		want := float64(x ^ (x >> 1))
		if got != want {
			t.Errorf("gray_code(%d) = %v, want %v", x, got, want)
		}
	}
}

func TestCycleLawVisitsAllOnce(t *testing.T) {
	seq := &fakeSeq{}
	for rev := 0; rev < 4; rev++ {
		seq.revision = rev
		push := pushListInstrs(vm.ListBegin, vm.ListEnd, 10, 20, 30, 40)
		ip := evalKeywordWithSeq(t, push, "cycle", seq)
		got, _ := ip.State.Result.AsNumber()
		want := float64([]int{10, 20, 30, 40}[rev%4])
		if got != want {
			t.Errorf("cycle at revision %d = %v, want %v", rev, got, want)
		}
	}
}

func TestSieveAndIntersectionAndOnsetsCompose(t *testing.T) {
	// 0..10 range, sieve(3,2) -> {2,5,8}; intersect with self -> {2,5,8};
	// onsets over [0,10) -> [0,0,1,0,0,1,0,0,1,0]
	rangeInstrs := []vm.Instr{vm.LoadNumber(0), vm.LoadNumber(10)}
	ip := evalKeyword(t, rangeInstrs, "range")
	full := ip.State.Result

	// onsets' bounds 0 and 10 go below the list it will pop first.
	instrs := []vm.Instr{vm.Begin(1), vm.LoadNumber(0), vm.LoadNumber(10)}
	instrs = append(instrs, pushListInstrs(vm.ListBegin, vm.ListEnd, rangeFloats(full, ip)...)...)
	instrs = append(instrs, vm.LoadNumber(3), vm.LoadNumber(2), vm.Keyword(1))
	instrs = append(instrs, pushListInstrs(vm.ListBegin, vm.ListEnd, rangeFloats(full, ip)...)...)
	instrs = append(instrs, vm.Keyword(2))
	instrs = append(instrs, vm.Keyword(3))
	instrs = append(instrs, vm.Return(), vm.End(1))

	ip2 := vm.NewInterpreter(instrs, nil)
	Register(ip2)
	for name, fn := range builtins() {
		switch name {
		case "sieve":
			ip2.Keywords[1] = fn
		case "intersection":
			ip2.Keywords[2] = fn
		case "onsets":
			ip2.Keywords[3] = fn
		}
	}
	if err := ip2.Eval(1); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	got := intsOf(ip2, ip2.State.Result)
	want := []int{0, 0, 1, 0, 0, 1, 0, 0, 1, 0}
	assertIntsEqual(t, got, want)
}

func rangeFloats(v vm.Value, ip *vm.Interpreter) []float64 {
	out := make([]float64, 0, v.End-v.Start)
	for i := v.Start; i < v.End; i++ {
		n, _ := ip.HeapAt(i).AsNumber()
		out = append(out, n)
	}
	return out
}

func evalKeywordWithSeq(t *testing.T, push []vm.Instr, keyword string, seq vm.SeqAccess) *vm.Interpreter {
	t.Helper()
	instrs := []vm.Instr{vm.Begin(1)}
	instrs = append(instrs, push...)
	instrs = append(instrs, vm.Keyword(0), vm.Return(), vm.End(1))
	ip := vm.NewInterpreter(instrs, nil)
	ip.Seq = seq
	Register(ip)
	for name, fn := range builtins() {
		if name == keyword {
			ip.Keywords[0] = fn
		}
	}
	if err := ip.Eval(1); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	return ip
}

func assertIntsEqual(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			return
		}
	}
}
