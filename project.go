// project.go - JSON project schema and hydration into Tracks

package engine

import (
	"encoding/json"
	"log"
)

// Project is the root of the JSON project schema, consumed at
// hydration only — the core never produces one.
type Project struct {
	Name  string      `json:"name"`
	Tempo float64     `json:"tempo"`
	Tracks []TrackData `json:"tracks"`
}

// TrackData is one track's hydration-time description.
type TrackData struct {
	ID      uint32          `json:"id"`
	Name    string          `json:"name"`
	GainDB  float64         `json:"gain_db"`
	Pan     float64         `json:"pan"`
	Muted   bool            `json:"muted"`
	Soloed  bool            `json:"soloed"`
	Clips   []ClipData      `json:"clips"`
	Effects []EffectData    `json:"effects"`
}

// ClipKind discriminates ClipData's Audio/Midi variants.
type ClipKind int

const (
	ClipAudio ClipKind = iota
	ClipMidi
)

// ClipData is a tagged union: an Audio clip references an asset by id;
// a Midi clip carries its own notes.
type ClipData struct {
	Kind     ClipKind       `json:"kind"`
	Start    uint64         `json:"start"`
	Duration uint64         `json:"duration"`
	Offset   uint64         `json:"offset"`
	AssetID  string         `json:"asset_id"`
	Notes    []MidiNoteData `json:"notes"`
}

// MidiNoteData is one authored MIDI note within a Midi ClipData.
type MidiNoteData struct {
	Start    uint64 `json:"start"`
	Duration uint64 `json:"duration"`
	Note     uint8  `json:"note"`
	Velocity uint8  `json:"velocity"`
}

// EffectData is the JSON form of an EffectKind, matching spec.md §6's
// tagged union: Eq/Compressor/Delay/Reverb.
type EffectData struct {
	Type string `json:"type"`

	LowGainDB  float64 `json:"low_gain_db,omitempty"`
	MidGainDB  float64 `json:"mid_gain_db,omitempty"`
	HighGainDB float64 `json:"high_gain_db,omitempty"`

	ThresholdDB  float64 `json:"threshold_db,omitempty"`
	Ratio        float64 `json:"ratio,omitempty"`
	AttackMs     float64 `json:"attack_ms,omitempty"`
	ReleaseMs    float64 `json:"release_ms,omitempty"`
	MakeupGainDB float64 `json:"makeup_gain_db,omitempty"`

	TimeMs   float64 `json:"time_ms,omitempty"`
	Feedback float64 `json:"feedback,omitempty"`
	Mix      float64 `json:"mix,omitempty"`

	ReverbMix   float64 `json:"reverb_mix,omitempty"`
	ReverbDecay float64 `json:"reverb_decay,omitempty"`
}

func (e EffectData) toKind() (EffectKind, bool) {
	switch e.Type {
	case "eq":
		return EffectKind{Kind: EffectEq, LowGainDB: e.LowGainDB, MidGainDB: e.MidGainDB, HighGainDB: e.HighGainDB}, true
	case "compressor":
		return EffectKind{Kind: EffectCompressor, ThresholdDB: e.ThresholdDB, Ratio: e.Ratio, AttackMs: e.AttackMs, ReleaseMs: e.ReleaseMs, MakeupGainDB: e.MakeupGainDB}, true
	case "delay":
		return EffectKind{Kind: EffectDelay, TimeMs: e.TimeMs, Feedback: e.Feedback, Mix: e.Mix}, true
	case "reverb":
		return EffectKind{Kind: EffectReverb, ReverbMix: e.ReverbMix, ReverbDecay: e.ReverbDecay}, true
	default:
		return EffectKind{}, false
	}
}

// DecodeProject parses JSON project data. Malformed JSON is returned as
// an error for the caller to decide whether to keep the prior project —
// the render path itself never sees a parse error (spec.md §7).
func DecodeProject(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// hydrateProject replaces every Track with the tracks described by p.
// Only ever called from drainHeavyOps, on the render thread. Unknown
// effect kinds are skipped and logged; this never returns an error
// (spec.md §7's "parse -> log and keep prior state" applies to the
// already-decoded value's individual fields here).
func (m *Mixer) hydrateProject(p *Project) {
	tracks := make([]*Track, 0, len(p.Tracks))

	for _, td := range p.Tracks {
		t := NewTrack(td.ID, m.SampleRate)
		t.Gain.SetGain(float32(dbToLinear(td.GainDB)))
		t.Pan = float32(clampF64(td.Pan, -1, 1))
		t.Muted = td.Muted
		t.Soloed = td.Soloed

		for _, cd := range td.Clips {
			switch cd.Kind {
			case ClipAudio:
				t.Clips = append(t.Clips, Clip{
					StartTime: cd.Start,
					Duration:  cd.Duration,
					Offset:    cd.Offset,
					AssetID:   cd.AssetID,
				})
			case ClipMidi:
				t.EnableSynth()
				clip := NewMidiClip("midi clip", cd.Duration)
				for _, note := range cd.Notes {
					clip.AddNote(0, note.Note, note.Velocity, note.Start, note.Duration)
				}
				clip.SortEvents()
				t.MidiClips = append(t.MidiClips, PlacedMidiClip{StartTime: cd.Start, Inner: clip})
			}
		}

		nodes := make([]EffectNode, 0, len(td.Effects))
		for _, ed := range td.Effects {
			kind, ok := ed.toKind()
			if !ok {
				log.Printf("amplitude: unknown effect type %q on track %d, skipping", ed.Type, td.ID)
				continue
			}
			nodes = append(nodes, BuildEffectNode(kind, m.SampleRate))
		}
		t.Effects = nodes

		tracks = append(tracks, t)
	}

	m.Tracks = tracks
	if len(tracks) > 0 {
		next := tracks[0].ID + 1
		for _, t := range tracks[1:] {
			if t.ID+1 > next {
				next = t.ID + 1
			}
		}
		m.nextTrackID = next
	}
}
