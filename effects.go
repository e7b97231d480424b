// effects.go - uniform effect node contract and effect chain schema

package engine

// EffectNode is the uniform contract every node in a Track's effect
// chain satisfies. Process returns false to request the node (and,
// by convention, its containing chain slot) be torn down; nodes in
// this engine are all steady-state and always return true.
type EffectNode interface {
	Process(inputs, outputs [][]float32) bool
}

// EffectTypeKind discriminates the EffectKind tagged union used by
// update_track_effects and project hydration.
type EffectTypeKind int

const (
	EffectEq EffectTypeKind = iota
	EffectCompressor
	EffectDelay
	EffectReverb
)

// EffectKind is a tagged union describing one effect-chain entry,
// decoupled from its runtime node so it can be serialized (project
// hydration) or replayed over the control-plane ring buffer.
type EffectKind struct {
	Kind EffectTypeKind

	// Eq
	LowGainDB, MidGainDB, HighGainDB float64

	// Compressor
	ThresholdDB, Ratio, AttackMs, ReleaseMs, MakeupGainDB float64

	// Delay
	TimeMs, Feedback, Mix float64

	// Reverb (accepted, unimplemented no-op)
	ReverbMix, ReverbDecay float64
}

// BuildEffectNode realizes one EffectKind as a live EffectNode bound to
// sampleRate. Reverb is accepted but produces a pass-through no-op node,
// matching spec.md's "accepted but unimplemented" requirement.
func BuildEffectNode(k EffectKind, sampleRate float64) EffectNode {
	switch k.Kind {
	case EffectEq:
		n := NewEqNode(sampleRate)
		n.SetGains(k.LowGainDB, k.MidGainDB, k.HighGainDB)
		return n
	case EffectCompressor:
		n := NewCompressorNode(sampleRate)
		n.SetParams(k.ThresholdDB, k.Ratio, k.AttackMs, k.ReleaseMs, k.MakeupGainDB)
		return n
	case EffectDelay:
		maxMs := 2000.0
		if k.TimeMs*2 > maxMs {
			maxMs = k.TimeMs * 2
		}
		n := NewDelayNode(sampleRate, maxMs)
		n.SetParams(k.TimeMs, k.Feedback, k.Mix)
		return n
	case EffectReverb:
		return &noopNode{}
	}
	return &noopNode{}
}

// noopNode passes its input through unchanged; used for the accepted-
// but-unimplemented Reverb effect kind and as a safe default.
type noopNode struct{}

func (n *noopNode) Process(inputs, outputs [][]float32) bool {
	if len(inputs) == 0 {
		return true
	}
	channels := len(inputs)
	if len(outputs) < channels {
		channels = len(outputs)
	}
	for c := 0; c < channels; c++ {
		copy(outputs[c], inputs[c])
	}
	return true
}
