// voice.go - single polyphony slot: dual oscillators, filter, envelope

package engine

import "math"

// Voice renders one note: two detuned oscillators summed, filtered
// through an Svf whose cutoff is driven by the modulation matrix, shaped
// by an Adsr, and scaled by velocity.
type Voice struct {
	sampleRate float64

	osc1 *Oscillator
	osc2 *Oscillator
	env  *Adsr
	flt  *Svf
	lfo  *Lfo

	note     uint8
	velocity float64
	active   bool
}

// osc2DetuneFactor is the fixed detune ratio for the second oscillator.
const osc2DetuneFactor = 1.01

// NewVoice builds an idle Voice bound to sampleRate.
func NewVoice(sampleRate float64) *Voice {
	return &Voice{
		sampleRate: sampleRate,
		osc1:       NewOscillator(sampleRate),
		osc2:       NewOscillator(sampleRate),
		env:        NewAdsr(sampleRate),
		flt:        NewSvf(sampleRate),
		lfo:        NewLfo(sampleRate),
	}
}

// NoteOn gates the voice on for note/velocity (velocity in MIDI 0..127
// range).
func (v *Voice) NoteOn(note, velocity uint8) {
	freq := NoteToFreq(float64(note))
	v.osc1.SetFrequency(freq)
	v.osc2.SetFrequency(freq * osc2DetuneFactor)
	v.note = note
	v.velocity = float64(velocity) / 127
	v.lfo.ResetPhase()
	v.env.Trigger()
	v.active = true
}

// NoteOff gates the voice's envelope into Release; the voice stays
// active until the envelope completes.
func (v *Voice) NoteOff() {
	v.env.Release()
}

// IsActive reports whether the voice is still producing sound.
func (v *Voice) IsActive() bool {
	return v.active
}

// Process renders one sample through the voice: matrix-modulated filter
// cutoff, dual-oscillator mix, envelope, velocity.
func (v *Voice) Process(matrix *ModulationMatrix) float64 {
	if !v.active {
		return 0
	}

	envLevel := v.env.Process()
	lfoLevel := v.lfo.Next()

	mod := matrix.GetModulationValue(ModTarget{Kind: ModTgtFilterCutoff}, ModValues{
		Lfo:      []float64{lfoLevel},
		Envelope: []float64{envLevel},
		Velocity: v.velocity,
	})

	cutoff := 2000 * math.Pow(2, mod*5)
	if cutoff < 20 {
		cutoff = 20
	}
	if cutoff > 20000 {
		cutoff = 20000
	}
	v.flt.Set(cutoff, 0.7)

	oscMix := (v.osc1.Next() + v.osc2.Next()) * 0.5
	out := v.flt.Process(oscMix) * envLevel * v.velocity

	if !v.env.IsActive() {
		v.active = false
	}
	return out
}
