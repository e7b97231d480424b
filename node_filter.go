// node_filter.go - DJ-knob filter node (LPF/HPF)

package engine

// FilterNode is the DJ-style filter knob: a single RBJ biquad switching
// between low-pass and high-pass response. It supports in-place
// operation when called with no inputs (reads and writes outputs).
type FilterNode struct {
	l, r *Biquad
}

// NewFilterNode builds a FilterNode bound to sampleRate, initialized as
// a bypassed low-pass at 20 kHz.
func NewFilterNode(sampleRate float64) *FilterNode {
	return &FilterNode{
		l: NewBiquad(BiquadLowPass, 20000, 0.5, 0, sampleRate),
		r: NewBiquad(BiquadLowPass, 20000, 0.5, 0, sampleRate),
	}
}

// SetParams recomputes both channels' coefficients.
func (n *FilterNode) SetParams(cutoff, q float64, typ BiquadType) {
	n.l.SetParams(typ, cutoff, q, 0)
	n.r.SetParams(typ, cutoff, q, 0)
}

// Process filters in place when inputs is empty, else reads inputs and
// writes outputs.
func (n *FilterNode) Process(inputs, outputs [][]float32) bool {
	l := outputs[0]
	var r []float32
	if len(outputs) > 1 {
		r = outputs[1]
	}

	if len(inputs) > 0 {
		copy(l, inputs[0])
		if r != nil && len(inputs) > 1 {
			copy(r, inputs[1])
		}
	}

	for i := range l {
		l[i] = float32(n.l.ProcessSample(float64(l[i])))
	}
	for i := range r {
		r[i] = float32(n.r.ProcessSample(float64(r[i])))
	}
	return true
}
