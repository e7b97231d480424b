// node_compressor.go - linked-stereo dynamics compressor node

package engine

import "math"

// CompressorNode is a linked-stereo (shared detection) downward
// compressor: detection is peak max(|L|,|R|) through an
// EnvelopeFollower; gain reduction applies equally to both channels.
type CompressorNode struct {
	follower *EnvelopeFollower

	thresholdDB float64
	ratio       float64
	makeupDB    float64
}

// NewCompressorNode builds a CompressorNode bound to sampleRate.
func NewCompressorNode(sampleRate float64) *CompressorNode {
	n := &CompressorNode{
		follower:    NewEnvelopeFollower(sampleRate),
		thresholdDB: 0,
		ratio:       1,
		makeupDB:    0,
	}
	return n
}

// SetParams sets threshold/ratio/attack/release/makeup gain.
func (n *CompressorNode) SetParams(thresholdDB, ratio, attackMs, releaseMs, makeupDB float64) {
	n.thresholdDB = thresholdDB
	if ratio < 1 {
		ratio = 1
	}
	n.ratio = ratio
	n.makeupDB = makeupDB
	n.follower.SetParams(attackMs, releaseMs)
}

// Process applies linked-stereo compression in place.
func (n *CompressorNode) Process(inputs, outputs [][]float32) bool {
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

	makeupLinear := dbToLinear(n.makeupDB)

	for i := range l {
		var ls, rs float32
		ls = l[i]
		if r != nil {
			rs = r[i]
		}
		detect := math.Abs(float64(ls))
		if rAbs := math.Abs(float64(rs)); rAbs > detect {
			detect = rAbs
		}

		envLevel := n.follower.Process(detect)
		envDB := linearToDB(envLevel)

		gainLinear := 1.0
		if envDB > n.thresholdDB {
			overshoot := envDB - n.thresholdDB
			gainReductionDB := -overshoot * (1 - 1/n.ratio)
			gainLinear = dbToLinear(gainReductionDB)
		}
		gainLinear *= makeupLinear

		l[i] = ls * float32(gainLinear)
		if r != nil {
			r[i] = rs * float32(gainLinear)
		}
	}
	return true
}
