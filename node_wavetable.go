// node_wavetable.go - wavetable oscillator effect node

package engine

// WavetableNode wraps a WavetableOscillator as a source node, mixing
// its mono output into L/R at 0.5 gain.
type WavetableNode struct {
	osc *WavetableOscillator
}

// NewWavetableNode builds a WavetableNode bound to sampleRate sharing
// table.
func NewWavetableNode(table *Wavetable, sampleRate float64) *WavetableNode {
	return &WavetableNode{osc: NewWavetableOscillator(table, sampleRate)}
}

// SetFrequency sets the oscillator frequency in Hz.
func (n *WavetableNode) SetFrequency(freq float64) {
	n.osc.SetFrequency(freq)
}

// SetMorph sets the morph position (0..1).
func (n *WavetableNode) SetMorph(morph float64) {
	n.osc.SetMorph(morph)
}

// Process fills outputs with the oscillator's mono output at 0.5 gain.
func (n *WavetableNode) Process(inputs, outputs [][]float32) bool {
	l := outputs[0]
	var r []float32
	if len(outputs) > 1 {
		r = outputs[1]
	}
	for i := range l {
		s := n.osc.Next() * 0.5
		l[i] = s
		if r != nil {
			r[i] = s
		}
	}
	return true
}
