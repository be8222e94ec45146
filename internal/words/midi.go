package words

import (
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/event"
	"github.com/cbegin/jez-go/internal/vm"
)

func midiWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"midi_out": midiOut,
	}
}

type visitItem struct {
	onset, dur float64
	v          vm.Value
	dest       event.Destination
}

// midiOut pops channel, duration, and a value, depth-first-expands the
// value into a flat event stream, and accumulates it on the active
// track's sequencer state along with the cycle duration.
func midiOut(ip *vm.Interpreter) *errs.Error {
	chanNum, err := popNumber(ip)
	if err != nil {
		return err
	}
	dur, err := popNumber(ip)
	if err != nil {
		return err
	}
	v, err := popValue(ip)
	if err != nil {
		return err
	}
	dest := event.Destination{Channel: int(chanNum), Extra: 127}
	stack := []visitItem{{onset: 0, dur: dur, v: v, dest: dest}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch it.v.Kind {
		case vm.KNull:
			// emit nothing
		case vm.KNumber:
			if ip.Seq != nil {
				ip.Seq.PushEvent(event.Event{
					Destination: it.dest,
					OnsetMs:     it.onset,
					DurationMs:  it.dur,
					Trigger:     it.v.Num,
				})
			}
		case vm.KCurve:
			if ip.Seq != nil {
				ip.Seq.PushEvent(event.Event{
					Destination: it.dest,
					OnsetMs:     it.onset,
					DurationMs:  it.dur,
					IsCurve:     true,
					Curve:       it.v.Curve,
				})
			}
		case vm.KSeq:
			n := it.v.End - it.v.Start
			if n == 0 {
				continue
			}
			sub := it.dur / float64(n)
			for k := 0; k < n; k++ {
				stack = append(stack, visitItem{
					onset: it.onset + float64(k)*sub,
					dur:   sub,
					v:     ip.HeapAt(it.v.Start + k),
					dest:  it.dest,
				})
			}
		case vm.KGroup:
			for i := it.v.Start; i < it.v.End; i++ {
				stack = append(stack, visitItem{
					onset: it.onset,
					dur:   it.dur,
					v:     ip.HeapAt(i),
					dest:  it.dest,
				})
			}
		case vm.KList:
			for i := it.v.Start; i < it.v.End; i++ {
				stack = append(stack, visitItem{
					onset: it.onset,
					dur:   it.dur,
					v:     ip.HeapAt(i),
					dest:  it.dest,
				})
			}
		case vm.KPairOverride:
			vals := ip.HeapSlice(it.v.Start, it.v.End)
			if len(vals) == 0 {
				continue
			}
			pitch, _ := vals[0].AsNumber()
			d := it.dest
			if len(vals) >= 2 {
				if extra, ok := vals[1].AsNumber(); ok {
					d.Extra = int(extra)
				}
			}
			if len(vals) >= 3 {
				if ch, ok := vals[2].AsNumber(); ok {
					d.Channel = int(ch)
				}
			}
			if ip.Seq != nil {
				ip.Seq.PushEvent(event.Event{
					Destination: d,
					OnsetMs:     it.onset,
					DurationMs:  it.dur,
					Trigger:     pitch,
				})
			}
		}
	}
	if ip.Seq != nil {
		ip.Seq.SetCycleDuration(dur)
	}
	return nil
}
