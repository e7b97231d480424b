// midi.go - MIDI event/clip types and note-to-frequency conversion

package engine

import (
	"math"
	"sort"
)

// MidiEventKind is the type of a MidiEvent.
type MidiEventKind int

const (
	MidiNoteOn MidiEventKind = iota
	MidiNoteOff
	MidiControlChange
	MidiPitchBend
)

// MidiEvent is one timestamped MIDI message within a MidiClip, relative
// to the clip's own start.
type MidiEvent struct {
	Kind      MidiEventKind
	Channel   uint8
	Note      uint8
	Velocity  uint8
	Timestamp uint64 // samples, relative to clip start
}

// MidiNote is the authoring-time representation of a note: a MidiClip
// expands each MidiNote into a NoteOn/NoteOff MidiEvent pair.
type MidiNote struct {
	Start    uint64
	Duration uint64
	Note     uint8
	Velocity uint8
}

// MidiClip is an ordered sequence of MidiEvents spanning Duration
// samples. Events are sorted ascending by Timestamp.
type MidiClip struct {
	Name     string
	Duration uint64
	Events   []MidiEvent
}

// NewMidiClip builds an empty clip of the given duration.
func NewMidiClip(name string, duration uint64) *MidiClip {
	return &MidiClip{Name: name, Duration: duration}
}

// AddNote appends the NoteOn/NoteOff pair for one note. Clips are
// expected to have all their notes added once, then be sorted via
// SortEvents before scheduling — unlike the source this was distilled
// from, which re-sorts on every AddNote call.
func (c *MidiClip) AddNote(channel uint8, note, velocity uint8, start, duration uint64) {
	c.Events = append(c.Events,
		MidiEvent{Kind: MidiNoteOn, Channel: channel, Note: note, Velocity: velocity, Timestamp: start},
		MidiEvent{Kind: MidiNoteOff, Channel: channel, Note: note, Velocity: 0, Timestamp: start + duration},
	)
}

// SortEvents stable-sorts events by timestamp. Events with identical
// timestamps keep their insertion order, so a note's own NoteOn stays
// ahead of its NoteOff.
func (c *MidiClip) SortEvents() {
	sort.SliceStable(c.Events, func(i, j int) bool {
		return c.Events[i].Timestamp < c.Events[j].Timestamp
	})
}

// PlacedMidiClip positions a MidiClip on the global timeline.
type PlacedMidiClip struct {
	StartTime uint64
	Inner     *MidiClip
}

// NoteToFreq converts a MIDI note number to its equal-tempered
// frequency in Hz, A4 (note 69) = 440 Hz.
func NoteToFreq(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}
