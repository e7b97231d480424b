// node_delay.go - dual-mono feedback delay node

package engine

// DelayNode is a dual-mono feedback delay with a dry/wet mix.
type DelayNode struct {
	sampleRate float64
	lineL      *DelayLine
	lineR      *DelayLine

	delaySamples float64
	feedback     float64
	mix          float64
}

// NewDelayNode builds a DelayNode bound to sampleRate, sized for up to
// maxDelayMs of delay time.
func NewDelayNode(sampleRate, maxDelayMs float64) *DelayNode {
	maxSamples := int(maxDelayMs * 0.001 * sampleRate)
	return &DelayNode{
		sampleRate: sampleRate,
		lineL:      NewDelayLine(maxSamples),
		lineR:      NewDelayLine(maxSamples),
		feedback:   0.3,
		mix:        0.3,
	}
}

// SetParams sets delay time (ms), feedback (0..1) and dry/wet mix
// (0..1).
func (n *DelayNode) SetParams(timeMs, feedback, mix float64) {
	n.delaySamples = timeMs * 0.001 * n.sampleRate
	n.feedback = feedback
	n.mix = mix
}

// Process applies the delay in place, dual-mono.
func (n *DelayNode) Process(inputs, outputs [][]float32) bool {
	n.processChannel(n.lineL, inputs, outputs, 0)
	if len(outputs) > 1 {
		n.processChannel(n.lineR, inputs, outputs, 1)
	}
	return true
}

func (n *DelayNode) processChannel(line *DelayLine, inputs, outputs [][]float32, ch int) {
	buf := outputs[ch]
	var src []float32
	if len(inputs) > ch {
		src = inputs[ch]
	}

	for i := range buf {
		var dry float32
		if src != nil {
			dry = src[i]
		} else {
			dry = buf[i]
		}
		wet := line.Read(n.delaySamples)
		line.Write(dry + wet*float32(n.feedback))
		buf[i] = dry*float32(1-n.mix) + wet*float32(n.mix)
	}
}
