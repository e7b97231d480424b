// wavetable.go - morphing wavetable oscillator

package engine

import "math"

const (
	wavetableFrames = 8
	wavetableSize   = 2048
)

// Wavetable is a fixed set of frames morphing sine -> saw across the
// first half of the frame range, then saw -> square across the second
// half. GetSample bilinearly interpolates across both the phase axis
// and the frame (morph) axis.
type Wavetable struct {
	frames [wavetableFrames][wavetableSize]float32
}

// NewWavetable pre-synthesizes the morph table.
func NewWavetable() *Wavetable {
	w := &Wavetable{}
	for f := 0; f < wavetableFrames; f++ {
		t := float64(f) / float64(wavetableFrames-1)
		for i := 0; i < wavetableSize; i++ {
			phase := float64(i) / float64(wavetableSize)
			sine := math.Sin(2 * math.Pi * phase)
			saw := 2*phase - 1
			var square float64
			if phase < 0.5 {
				square = 1
			} else {
				square = -1
			}

			var sample float64
			if t < 0.5 {
				morph := t / 0.5
				sample = sine + (saw-sine)*morph
			} else {
				morph := (t - 0.5) / 0.5
				sample = saw + (square-saw)*morph
			}
			w.frames[f][i] = float32(sample)
		}
	}
	return w
}

// GetSample returns the table's value at the given phase (0..1, wraps)
// and morph (0..1, clamped), bilinearly interpolated across both the
// sample and frame axes.
func (w *Wavetable) GetSample(phase, morph float64) float32 {
	phase -= math.Floor(phase)
	if morph < 0 {
		morph = 0
	}
	if morph > 1 {
		morph = 1
	}

	framePos := morph * float64(wavetableFrames-1)
	f0 := int(framePos)
	f1 := f0 + 1
	if f1 >= wavetableFrames {
		f1 = wavetableFrames - 1
	}
	frameFrac := float32(framePos - float64(f0))

	samplePos := phase * float64(wavetableSize)
	s0 := int(samplePos) % wavetableSize
	s1 := (s0 + 1) % wavetableSize
	sampleFrac := float32(samplePos - math.Floor(samplePos))

	a := fLerp(w.frames[f0][s0], w.frames[f0][s1], sampleFrac)
	b := fLerp(w.frames[f1][s0], w.frames[f1][s1], sampleFrac)
	return fLerp(a, b, frameFrac)
}

// WavetableOscillator advances phase against a shared Wavetable.
type WavetableOscillator struct {
	table      *Wavetable
	sampleRate float64
	phase      float64
	freq       float64
	morph      float64
}

// NewWavetableOscillator builds an oscillator reading from table.
func NewWavetableOscillator(table *Wavetable, sampleRate float64) *WavetableOscillator {
	return &WavetableOscillator{table: table, sampleRate: sampleRate}
}

// SetFrequency sets the oscillator frequency in Hz.
func (o *WavetableOscillator) SetFrequency(freq float64) {
	o.freq = freq
}

// SetMorph sets the morph position (0..1) across the table's frames.
func (o *WavetableOscillator) SetMorph(morph float64) {
	o.morph = morph
}

// Next advances the oscillator by one sample and returns the output.
func (o *WavetableOscillator) Next() float32 {
	out := o.table.GetSample(o.phase, o.morph)
	o.phase += o.freq / o.sampleRate
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return out
}
