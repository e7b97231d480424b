// oscillator.go - naive (aliased) phase-accumulator oscillator

package engine

import "math"

// Waveform selects an Oscillator output shape (Lfo uses LfoWaveform).
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSaw
	WaveSquare
	WaveTriangle
)

// Oscillator is a simple phase-accumulator tone generator. Waveforms
// are generated directly (naive, aliased) rather than band-limited —
// anti-aliased oscillators are out of scope.
type Oscillator struct {
	sampleRate float64
	phase      float64
	phaseInc   float64
	waveform   Waveform
}

// NewOscillator builds an Oscillator bound to sampleRate.
func NewOscillator(sampleRate float64) *Oscillator {
	return &Oscillator{sampleRate: sampleRate}
}

// SetFrequency sets the oscillator's frequency in Hz.
func (o *Oscillator) SetFrequency(freq float64) {
	o.phaseInc = freq / o.sampleRate
}

// SetWaveform selects the output shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// ResetPhase zeroes the phase accumulator.
func (o *Oscillator) ResetPhase() {
	o.phase = 0
}

// Next advances the oscillator by one sample and returns the output in
// [-1, 1].
func (o *Oscillator) Next() float64 {
	var out float64
	switch o.waveform {
	case WaveSine:
		out = math.Sin(2 * math.Pi * o.phase)
	case WaveSaw:
		out = 2*o.phase - 1
	case WaveSquare:
		if o.phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
	case WaveTriangle:
		out = 4*math.Abs(o.phase-0.5) - 1
	}

	o.phase += o.phaseInc
	if o.phase >= 1 {
		o.phase -= math.Trunc(o.phase)
	} else if o.phase < 0 {
		o.phase -= math.Trunc(o.phase) - 1
	}
	return out
}
