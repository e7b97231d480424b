// node_bass_enhancer.go - low-end boost + saturation + mid/side width

package engine

import "math"

// BassEnhancerNode boosts low end with a shelf, adds harmonic drive via
// tanh saturation, then adjusts stereo width in the mid/side domain.
type BassEnhancerNode struct {
	shelfL, shelfR *Biquad

	drive float64
	width float64
}

// NewBassEnhancerNode builds a BassEnhancerNode bound to sampleRate.
func NewBassEnhancerNode(sampleRate float64) *BassEnhancerNode {
	return &BassEnhancerNode{
		shelfL: NewBiquad(BiquadLowShelf, 120, 1.2, 6, sampleRate),
		shelfR: NewBiquad(BiquadLowShelf, 120, 1.2, 6, sampleRate),
		drive:  0,
		width:  1,
	}
}

// SetParams sets shelf gain (dB), drive (0..1 saturation amount) and
// width (0..1 side-channel scale).
func (n *BassEnhancerNode) SetParams(shelfGainDB, drive, width float64) {
	n.shelfL.SetParams(BiquadLowShelf, 120, 1.2, shelfGainDB)
	n.shelfR.SetParams(BiquadLowShelf, 120, 1.2, shelfGainDB)
	n.drive = drive
	n.width = width
}

// Process applies the shelf, saturation, then mid/side width in place.
func (n *BassEnhancerNode) Process(inputs, outputs [][]float32) bool {
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
		lv := n.shelfL.ProcessSample(float64(l[i]))
		lv = math.Tanh((1 + n.drive*4) * lv)
		l[i] = float32(lv)
	}
	for i := range r {
		rv := n.shelfR.ProcessSample(float64(r[i]))
		rv = math.Tanh((1 + n.drive*4) * rv)
		r[i] = float32(rv)
	}

	if r == nil {
		return true
	}
	for i := range l {
		mid := (l[i] + r[i]) * 0.5
		side := (l[i] - r[i]) * 0.5 * float32(n.width)
		l[i] = mid + side
		r[i] = mid - side
	}
	return true
}
