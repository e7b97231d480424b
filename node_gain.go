// node_gain.go - simple linear gain node

package engine

// GainNode scales every channel by a single linear gain.
type GainNode struct {
	gain float32
}

// NewGainNode builds a GainNode with the given linear gain.
func NewGainNode(gain float32) *GainNode {
	return &GainNode{gain: gain}
}

// SetGain sets the linear gain.
func (n *GainNode) SetGain(gain float32) {
	n.gain = gain
}

// Process scales min(len(inputs), len(outputs)) channels by gain. With
// no inputs it works in place, scaling every output channel; otherwise
// any extra output channels beyond the input count are silenced.
func (n *GainNode) Process(inputs, outputs [][]float32) bool {
	if len(inputs) == 0 {
		for c := range outputs {
			for i := range outputs[c] {
				outputs[c][i] *= n.gain
			}
		}
		return true
	}

	channels := len(inputs)
	if len(outputs) < channels {
		channels = len(outputs)
	}
	for c := 0; c < channels; c++ {
		for i := range outputs[c] {
			outputs[c][i] = inputs[c][i] * n.gain
		}
	}
	for c := channels; c < len(outputs); c++ {
		for i := range outputs[c] {
			outputs[c][i] = 0
		}
	}
	return true
}
