// allocator.go - polyphonic voice allocation and LRU stealing

package engine

// VoiceStateKind is the lifecycle state of one allocator slot.
type VoiceStateKind int

const (
	VoiceIdle VoiceStateKind = iota
	VoiceActive
	VoiceReleasing
)

// VoiceState is one allocator slot's bookkeeping. Note/Velocity/Age
// apply to Active; Note applies to Releasing.
type VoiceState struct {
	Kind     VoiceStateKind
	Note     uint8
	Velocity uint8
	Age      uint64
}

// VoiceAllocator tracks which of NumVoices polyphony slots are in use,
// implementing a retrigger -> free-slot -> LRU-steal policy for NoteOn.
type VoiceAllocator struct {
	states  []VoiceState
	lastAge uint64
}

// NewVoiceAllocator builds an allocator with numVoices idle slots.
func NewVoiceAllocator(numVoices int) *VoiceAllocator {
	return &VoiceAllocator{states: make([]VoiceState, numVoices)}
}

// NumVoices returns the slot count.
func (a *VoiceAllocator) NumVoices() int {
	return len(a.states)
}

// Tick advances the allocator's age counter once per block.
func (a *VoiceAllocator) Tick() {
	a.lastAge++
}

// NoteOn selects a slot for (note, velocity) by: (1) retrigger — any
// Active/Releasing slot already holding note; (2) free slot — first
// Idle by index; (3) steal — the Active slot with smallest age (ties
// broken by lowest index). Returns the selected slot index.
func (a *VoiceAllocator) NoteOn(note, velocity uint8) int {
	for i, s := range a.states {
		if (s.Kind == VoiceActive || s.Kind == VoiceReleasing) && s.Note == note {
			a.states[i] = VoiceState{Kind: VoiceActive, Note: note, Velocity: velocity, Age: a.lastAge}
			return i
		}
	}

	for i, s := range a.states {
		if s.Kind == VoiceIdle {
			a.states[i] = VoiceState{Kind: VoiceActive, Note: note, Velocity: velocity, Age: a.lastAge}
			return i
		}
	}

	stealIdx := -1
	var stealAge uint64
	for i, s := range a.states {
		if s.Kind != VoiceActive {
			continue
		}
		if stealIdx == -1 || s.Age < stealAge {
			stealIdx = i
			stealAge = s.Age
		}
	}
	if stealIdx == -1 {
		stealIdx = 0
	}
	a.states[stealIdx] = VoiceState{Kind: VoiceActive, Note: note, Velocity: velocity, Age: a.lastAge}
	return stealIdx
}

// NoteOff finds the first Active slot matching note and transitions it
// to Releasing, returning its index and true. Returns (0, false) if no
// matching Active slot exists.
func (a *VoiceAllocator) NoteOff(note uint8) (int, bool) {
	for i, s := range a.states {
		if s.Kind == VoiceActive && s.Note == note {
			a.states[i].Kind = VoiceReleasing
			return i, true
		}
	}
	return 0, false
}

// VoiceFinished returns a slot to Idle once its envelope has completed.
func (a *VoiceAllocator) VoiceFinished(i int) {
	a.states[i] = VoiceState{Kind: VoiceIdle}
}

// State returns the bookkeeping for slot i.
func (a *VoiceAllocator) State(i int) VoiceState {
	return a.states[i]
}
