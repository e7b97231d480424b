// lfo.go - low-frequency modulation oscillator

package engine

import (
	"math"
	"math/rand/v2"
)

// LfoWaveform is the shape an Lfo outputs, including a sample-and-hold
// mode not offered by Oscillator.
type LfoWaveform int

const (
	LfoSine LfoWaveform = iota
	LfoTriangle
	LfoSaw
	LfoSquare
	LfoSampleAndHold
)

// Lfo is a low-frequency modulation source. Sample-and-hold draws a new
// uniform value in [-1, 1] every time the phase wraps, and holds it
// between wraps.
type Lfo struct {
	sampleRate float64
	phase      float64
	phaseInc   float64
	waveform   LfoWaveform
	heldValue  float64
}

// NewLfo builds an Lfo bound to sampleRate.
func NewLfo(sampleRate float64) *Lfo {
	return &Lfo{sampleRate: sampleRate}
}

// SetFrequency sets the LFO rate in Hz.
func (l *Lfo) SetFrequency(freq float64) {
	l.phaseInc = freq / l.sampleRate
}

// SetWaveform selects the output shape.
func (l *Lfo) SetWaveform(w LfoWaveform) {
	l.waveform = w
}

// ResetPhase zeroes the phase accumulator.
func (l *Lfo) ResetPhase() {
	l.phase = 0
}

// Next advances the LFO by one sample and returns the output in
// [-1, 1].
func (l *Lfo) Next() float64 {
	wrapped := false
	l.phase += l.phaseInc
	if l.phase >= 1 {
		l.phase -= math.Trunc(l.phase)
		wrapped = true
	}

	switch l.waveform {
	case LfoSine:
		return math.Sin(2 * math.Pi * l.phase)
	case LfoTriangle:
		return 4*math.Abs(l.phase-0.5) - 1
	case LfoSaw:
		return 2*l.phase - 1
	case LfoSquare:
		if l.phase < 0.5 {
			return 1
		}
		return -1
	case LfoSampleAndHold:
		if wrapped {
			l.heldValue = rand.Float64()*2 - 1
		}
		return l.heldValue
	}
	return 0
}
