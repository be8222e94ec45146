package words

import (
	"github.com/cbegin/jez-go/internal/effects"
	"github.com/cbegin/jez-go/internal/errs"
	"github.com/cbegin/jez-go/internal/event"
	"github.com/cbegin/jez-go/internal/vm"
)

func fxWords() map[string]vm.KeywordFunc {
	return map[string]vm.KeywordFunc{
		"pitch_quantize_filter": pitchQuantizeFilter,
		"markov_filter":         markovFilter,
		"midi_velocity_filter":  midiVelocityFilter,
	}
}

func popSymbolHash(ip *vm.Interpreter) (uint64, *errs.Error) {
	v, err := popValue(ip)
	if err != nil {
		return 0, err
	}
	if v.Kind != vm.KSymbol {
		return 0, errs.New(errs.InvalidArgs, "expected a symbol")
	}
	return v.Sym, nil
}

// pitchQuantizeFilter pops scale, octave, key, track (in that order,
// track deepest), builds a PitchQuantizer from the name hashes, and
// attaches it to the named track's effect chain.
func pitchQuantizeFilter(ip *vm.Interpreter) *errs.Error {
	scaleHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	octave, err := popNumber(ip)
	if err != nil {
		return err
	}
	keyHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	trackHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	pq, ok := effects.NewPitchQuantizerByHash(keyHash, int(octave), scaleHash)
	if !ok {
		return errs.New(errs.InvalidArgs, "unknown key or scale name")
	}
	attach(ip, trackHash, pq)
	return nil
}

// markovFilter pops minObservations, capacity, order, track (track
// deepest); minObservations <= 0 selects the filter's default.
func markovFilter(ip *vm.Interpreter) *errs.Error {
	minObs, err := popNumber(ip)
	if err != nil {
		return err
	}
	capacity, err := popNumber(ip)
	if err != nil {
		return err
	}
	order, err := popNumber(ip)
	if err != nil {
		return err
	}
	trackHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	mf := effects.NewMarkovFilter(int(order), int(capacity), int(minObs), int64(order)*31+int64(capacity))
	attach(ip, trackHash, mf)
	return nil
}

// midiVelocityFilter pops param, device, track (track deepest).
func midiVelocityFilter(ip *vm.Interpreter) *errs.Error {
	paramHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	deviceHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	trackHash, err := popSymbolHash(ip)
	if err != nil {
		return err
	}
	mv, ok := effects.NewMidiVelocityMapperByHash(deviceHash, paramHash)
	if !ok {
		return errs.New(errs.InvalidArgs, "unknown device or parameter name")
	}
	attach(ip, trackHash, mv)
	return nil
}

func attach(ip *vm.Interpreter, trackHash uint64, eff event.Effect) {
	if ip.Seq != nil {
		ip.Seq.AttachEffect(trackHash, eff)
	}
}
