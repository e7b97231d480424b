// node_granular.go - granular synth effect node

package engine

// GranularNode wraps a GranularSynth as a source node. Unlike
// WavetableNode, the granular engine already renders stereo L/R
// directly (per-grain pan), so its output is passed through unscaled.
type GranularNode struct {
	synth *GranularSynth
}

// NewGranularNode builds a GranularNode over buffer.
func NewGranularNode(sampleRate float64, buffer []float32) *GranularNode {
	return &GranularNode{synth: NewGranularSynth(sampleRate, buffer)}
}

// SetParams sets grain density (grains/sec), size (ms), and spray (ms).
func (n *GranularNode) SetParams(density, sizeMs, sprayMs float64) {
	n.synth.SetParams(density, sizeMs, sprayMs)
}

// SetPlaybackPosition sets the nominal read position in samples.
func (n *GranularNode) SetPlaybackPosition(pos float64) {
	n.synth.SetPlaybackPosition(pos)
}

// Process renders the grain pool directly into outputs.
func (n *GranularNode) Process(inputs, outputs [][]float32) bool {
	l := outputs[0]
	var r []float32
	if len(outputs) > 1 {
		r = outputs[1]
	} else {
		r = make([]float32, len(l))
	}
	n.synth.Process(l, r)
	return true
}
