package words

import (
	"fmt"
	"log"

	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/vm"
)

func introspectWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"revision":   revision,
		"print":      printWord,
		"print_heap": printHeap,
	}
}

// revision pushes the active track's current cycle counter.
func revision(ip *vm.Interpreter) *errs.Error {
	rev := 0
	if ip.Seq != nil {
		rev = ip.Seq.Revision()
	}
	ip.Push(vm.Number(float64(rev)))
	return nil
}

// printWord pops TOS and logs it, pushing it back unchanged so print
// can sit inline in an expression without disturbing the stack.
func printWord(ip *vm.Interpreter) *errs.Error {
	v, err := popValue(ip)
	if err != nil {
		return err
	}
	log.Printf("print: %s", describeValue(ip, v))
	ip.Push(v)
	return nil
}

// printHeap logs the entire live heap slice for REPL-style debugging.
func printHeap(ip *vm.Interpreter) *errs.Error {
	log.Printf("heap (%d values):", ip.HeapLen())
	for i := 0; i < ip.HeapLen(); i++ {
		log.Printf("  [%d] %s", i, describeValue(ip, ip.HeapAt(i)))
	}
	return nil
}

func describeValue(ip *vm.Interpreter, v vm.Value) string {
	switch v.Kind {
	case vm.KNumber:
		return fmt.Sprintf("number(%v)", v.Num)
	case vm.KSymbol:
		return fmt.Sprintf("symbol(%d)", v.Sym)
	case vm.KStr:
		return fmt.Sprintf("str(%q)", v.Str)
	case vm.KList, vm.KSeq, vm.KGroup:
		return fmt.Sprintf("%s(%d,%d)", v.Kind, v.Start, v.End)
	case vm.KCurve:
		return fmt.Sprintf("curve(%v)", v.Curve)
	case vm.KPairOverride:
		return fmt.Sprintf("pair_override(%d,%d)", v.Start, v.End)
	case vm.KNull:
		return "null"
	default:
		return v.Kind.String()
	}
}
