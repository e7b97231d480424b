// node_eq.go - three-band stereo EQ node

package engine

// EqNode is a cascade of three stereo biquads: low-shelf, peaking,
// high-shelf. Each band's gain is independently adjustable.
type EqNode struct {
	lowL, lowR   *Biquad
	midL, midR   *Biquad
	highL, highR *Biquad
}

// NewEqNode builds an EqNode bound to sampleRate with all bands flat.
func NewEqNode(sampleRate float64) *EqNode {
	return &EqNode{
		lowL:  NewBiquad(BiquadLowShelf, 100, 0.707, 0, sampleRate),
		lowR:  NewBiquad(BiquadLowShelf, 100, 0.707, 0, sampleRate),
		midL:  NewBiquad(BiquadPeaking, 1000, 1.0, 0, sampleRate),
		midR:  NewBiquad(BiquadPeaking, 1000, 1.0, 0, sampleRate),
		highL: NewBiquad(BiquadHighShelf, 5000, 0.707, 0, sampleRate),
		highR: NewBiquad(BiquadHighShelf, 5000, 0.707, 0, sampleRate),
	}
}

// SetGains sets the three band gains in dB.
func (n *EqNode) SetGains(lowDB, midDB, highDB float64) {
	n.lowL.SetParams(BiquadLowShelf, 100, 0.707, lowDB)
	n.lowR.SetParams(BiquadLowShelf, 100, 0.707, lowDB)
	n.midL.SetParams(BiquadPeaking, 1000, 1.0, midDB)
	n.midR.SetParams(BiquadPeaking, 1000, 1.0, midDB)
	n.highL.SetParams(BiquadHighShelf, 5000, 0.707, highDB)
	n.highR.SetParams(BiquadHighShelf, 5000, 0.707, highDB)
}

// Process runs the L/R cascade in place. Mono input duplicates to R.
func (n *EqNode) Process(inputs, outputs [][]float32) bool {
	l := outputs[0]
	var r []float32
	if len(outputs) > 1 {
		r = outputs[1]
	}

	if len(inputs) > 0 {
		copy(l, inputs[0])
		if r != nil {
			if len(inputs) > 1 {
				copy(r, inputs[1])
			} else {
				copy(r, inputs[0])
			}
		}
	}

	for i := range l {
		l[i] = float32(n.lowL.ProcessSample(float64(l[i])))
		l[i] = float32(n.midL.ProcessSample(float64(l[i])))
		l[i] = float32(n.highL.ProcessSample(float64(l[i])))
	}
	for i := range r {
		r[i] = float32(n.lowR.ProcessSample(float64(r[i])))
		r[i] = float32(n.midR.ProcessSample(float64(r[i])))
		r[i] = float32(n.highR.ProcessSample(float64(r[i])))
	}
	return true
}
