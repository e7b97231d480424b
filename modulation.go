// modulation.go - modulation matrix: source -> target routing

package engine

// ModSourceKind identifies a modulation source variant. Lfo/Envelope/
// Macro carry an index; Velocity/KeyTrack don't.
type ModSourceKind int

const (
	ModSrcLfo ModSourceKind = iota
	ModSrcEnvelope
	ModSrcVelocity
	ModSrcKeyTrack
	ModSrcMacro
)

// ModSource is a fully-identified modulation source.
type ModSource struct {
	Kind  ModSourceKind
	Index int // meaningful for Lfo, Envelope, Macro
}

// ModTargetKind identifies a modulation target variant. OscPitch/OscWave
// carry an oscillator index.
type ModTargetKind int

const (
	ModTgtFilterCutoff ModTargetKind = iota
	ModTgtFilterResonance
	ModTgtOscPitch
	ModTgtOscWave
	ModTgtGain
	ModTgtPan
)

// ModTarget is a fully-identified modulation target.
type ModTarget struct {
	Kind  ModTargetKind
	Index int // meaningful for OscPitch, OscWave
}

// ModConnection routes one source to one target with a bipolar amount.
type ModConnection struct {
	Source ModSource
	Target ModTarget
	Amount float64 // -1..1
}

// ModValues is the per-sample bundle of live modulation source values a
// Voice provides when querying the matrix.
type ModValues struct {
	Lfo      []float64
	Envelope []float64
	Velocity float64
	KeyTrack float64
}

// ModulationMatrix is an ordered list of source->target connections.
type ModulationMatrix struct {
	Connections []ModConnection
}

// NewModulationMatrix returns an empty matrix.
func NewModulationMatrix() *ModulationMatrix {
	return &ModulationMatrix{}
}

// Connect appends a connection.
func (m *ModulationMatrix) Connect(source ModSource, target ModTarget, amount float64) {
	m.Connections = append(m.Connections, ModConnection{Source: source, Target: target, Amount: amount})
}

// GetModulationValue sums source*amount over every connection whose
// target matches exactly (kind and, for indexed targets, index).
// Missing indexed source values resolve to 0. The result is unbounded;
// callers apply semantic clamps.
func (m *ModulationMatrix) GetModulationValue(target ModTarget, values ModValues) float64 {
	var sum float64
	for _, c := range m.Connections {
		if c.Target.Kind != target.Kind {
			continue
		}
		if (target.Kind == ModTgtOscPitch || target.Kind == ModTgtOscWave) && c.Target.Index != target.Index {
			continue
		}
		sum += sourceValue(c.Source, values) * c.Amount
	}
	return sum
}

func sourceValue(s ModSource, v ModValues) float64 {
	switch s.Kind {
	case ModSrcLfo:
		if s.Index >= 0 && s.Index < len(v.Lfo) {
			return v.Lfo[s.Index]
		}
		return 0
	case ModSrcEnvelope:
		if s.Index >= 0 && s.Index < len(v.Envelope) {
			return v.Envelope[s.Index]
		}
		return 0
	case ModSrcVelocity:
		return v.Velocity
	case ModSrcKeyTrack:
		return v.KeyTrack
	case ModSrcMacro:
		// Macros are not wired to live render-thread state in this
		// engine; they resolve to 0 unless a future control-plane
		// command publishes macro values.
		return 0
	}
	return 0
}
