// svf.go - state-variable filter (Andrew Simper topology)

package engine

import "math"

// Svf is a trapezoidal-integrator state-variable filter following
// Andrew Simper's "Solving the continuous SVF equations" topology. Only
// the low-pass output is exposed, matching the voice filter spec.
type Svf struct {
	sampleRate float64

	cutoff float64
	q      float64

	a1, a2, a3 float64

	ic1eq, ic2eq float64
}

// NewSvf builds an Svf bound to sampleRate.
func NewSvf(sampleRate float64) *Svf {
	s := &Svf{sampleRate: sampleRate}
	s.Set(1000, 0.7)
	return s
}

// Set recomputes coefficients for the given cutoff (Hz) and Q.
func (s *Svf) Set(cutoff, q float64) {
	if cutoff < 1 {
		cutoff = 1
	}
	if cutoff > s.sampleRate*0.49 {
		cutoff = s.sampleRate * 0.49
	}
	if q <= 0 {
		q = 0.0001
	}
	s.cutoff = cutoff
	s.q = q

	g := math.Tan(math.Pi * cutoff / s.sampleRate)
	k := 1 / q
	s.a1 = 1 / (1 + g*(g+k))
	s.a2 = g * s.a1
	s.a3 = g * s.a2
}

// Process filters one sample and returns the low-pass output.
func (s *Svf) Process(v0 float64) float64 {
	v3 := v0 - s.ic2eq
	v1 := s.a1*s.ic1eq + s.a2*v3
	v2 := s.ic2eq + s.a2*s.ic1eq + s.a3*v3
	s.ic1eq = 2*v1 - s.ic1eq
	s.ic2eq = 2*v2 - s.ic2eq
	return v2
}

// Reset zeroes filter state.
func (s *Svf) Reset() {
	s.ic1eq = 0
	s.ic2eq = 0
}
