// node_synth.go - polyphonic subtractive synth effect node

package engine

// SynthNode is a polyphonic voice pool driven by queued MidiEvents. It
// drains its event queue at the start of each Process call, ticks the
// allocator's age, and mixes every active voice into L/R at 0.5 gain.
type SynthNode struct {
	sampleRate float64
	allocator  *VoiceAllocator
	voices     []*Voice
	matrix     *ModulationMatrix

	eventQueue []MidiEvent
}

// NewSynthNode builds an 8-voice (or numVoices) SynthNode bound to
// sampleRate, with the default Envelope(0)->FilterCutoff routing.
func NewSynthNode(sampleRate float64, numVoices int) *SynthNode {
	voices := make([]*Voice, numVoices)
	for i := range voices {
		voices[i] = NewVoice(sampleRate)
	}
	matrix := NewModulationMatrix()
	matrix.Connect(
		ModSource{Kind: ModSrcEnvelope, Index: 0},
		ModTarget{Kind: ModTgtFilterCutoff},
		0.5,
	)
	return &SynthNode{
		sampleRate: sampleRate,
		allocator:  NewVoiceAllocator(numVoices),
		voices:     voices,
		matrix:     matrix,
	}
}

// Matrix exposes the node's modulation matrix for control-plane edits.
func (n *SynthNode) Matrix() *ModulationMatrix {
	return n.matrix
}

// QueueEvent appends a MidiEvent to be handled at the next Process
// call.
func (n *SynthNode) QueueEvent(ev MidiEvent) {
	n.eventQueue = append(n.eventQueue, ev)
}

func (n *SynthNode) handleEvent(ev MidiEvent) {
	switch ev.Kind {
	case MidiNoteOn:
		idx := n.allocator.NoteOn(ev.Note, ev.Velocity)
		n.voices[idx].NoteOn(ev.Note, ev.Velocity)
	case MidiNoteOff:
		if idx, ok := n.allocator.NoteOff(ev.Note); ok {
			n.voices[idx].NoteOff()
		}
	}
}

// Process drains the event queue, ticks allocator age, and mixes every
// active voice into outputs at 0.5 gain.
func (n *SynthNode) Process(inputs, outputs [][]float32) bool {
	for _, ev := range n.eventQueue {
		n.handleEvent(ev)
	}
	n.eventQueue = n.eventQueue[:0]
	n.allocator.Tick()

	l := outputs[0]
	var r []float32
	if len(outputs) > 1 {
		r = outputs[1]
	}
	for i := range l {
		l[i] = 0
	}
	for i := range r {
		r[i] = 0
	}

	for i := 0; i < len(l); i++ {
		var sum float32
		for vi, v := range n.voices {
			if !v.IsActive() {
				continue
			}
			sum += float32(v.Process(n.matrix)) * 0.5
			if !v.IsActive() {
				n.allocator.VoiceFinished(vi)
			}
		}
		l[i] += sum
		if r != nil {
			r[i] += sum
		}
	}
	return true
}
