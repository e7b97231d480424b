// envelope_follower.go - one-pole asymmetric attack/release follower

package engine

import "math"

// EnvelopeFollower smooths a rectified input signal with independent
// attack and release time constants, used for compressor/limiter gain
// detection.
type EnvelopeFollower struct {
	sampleRate float64

	attackCoef  float64
	releaseCoef float64

	envelope float64
}

// NewEnvelopeFollower builds a follower bound to sampleRate.
func NewEnvelopeFollower(sampleRate float64) *EnvelopeFollower {
	f := &EnvelopeFollower{sampleRate: sampleRate}
	f.SetParams(10, 100)
	return f
}

// SetParams sets the attack and release times in milliseconds.
func (f *EnvelopeFollower) SetParams(attackMs, releaseMs float64) {
	f.attackCoef = coefFromMs(attackMs, f.sampleRate)
	f.releaseCoef = coefFromMs(releaseMs, f.sampleRate)
}

func coefFromMs(ms, sampleRate float64) float64 {
	if ms <= 0 {
		ms = 0.001
	}
	return math.Exp(-1 / (ms * 0.001 * sampleRate))
}

// Process advances the follower with one (already rectified) input
// sample and returns the updated envelope value.
func (f *EnvelopeFollower) Process(inputAbs float64) float64 {
	coef := f.releaseCoef
	if inputAbs > f.envelope {
		coef = f.attackCoef
	}
	f.envelope = coef*f.envelope + (1-coef)*inputAbs
	return f.envelope
}

// Reset zeroes the envelope.
func (f *EnvelopeFollower) Reset() {
	f.envelope = 0
}
