package engine

import "testing"

func TestDecodeProjectRoundTrip(t *testing.T) {
	raw := []byte(`{
		"name": "demo",
		"tempo": 120,
		"tracks": [
			{
				"id": 0,
				"name": "lead",
				"gain_db": -6,
				"pan": 0.25,
				"muted": false,
				"soloed": false,
				"clips": [
					{"kind": 0, "start": 0, "duration": 1000, "offset": 0, "asset_id": "tone"}
				],
				"effects": [
					{"type": "eq", "low_gain_db": 1, "mid_gain_db": -2, "high_gain_db": 3},
					{"type": "delay", "time_ms": 250, "feedback": 0.4, "mix": 0.3},
					{"type": "unknown_future_effect"}
				]
			},
			{
				"id": 1,
				"name": "drums",
				"gain_db": 0,
				"pan": 0,
				"clips": [
					{"kind": 1, "start": 0, "duration": 500, "notes": [
						{"start": 0, "duration": 100, "note": 36, "velocity": 100}
					]}
				]
			}
		]
	}`)

	p, err := DecodeProject(raw)
	if err != nil {
		t.Fatalf("DecodeProject failed: %v", err)
	}
	if p.Name != "demo" || p.Tempo != 120 {
		t.Fatalf("unexpected project header: %+v", p)
	}
	if len(p.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(p.Tracks))
	}
	if len(p.Tracks[0].Effects) != 3 {
		t.Fatalf("expected 3 raw effect entries (including the unknown one), got %d", len(p.Tracks[0].Effects))
	}
}

func TestDecodeProjectMalformedReturnsError(t *testing.T) {
	_, err := DecodeProject([]byte(`{not valid json`))
	if err == nil {
		t.Fatal("expected an error decoding malformed JSON")
	}
}

func TestHydrateProjectBuildsTracksAndSkipsUnknownEffects(t *testing.T) {
	m := NewMixer(44100)
	raw := []byte(`{
		"name": "demo",
		"tempo": 120,
		"tracks": [
			{
				"id": 5,
				"name": "lead",
				"gain_db": -6,
				"pan": 0.5,
				"clips": [
					{"kind": 0, "start": 0, "duration": 1000, "offset": 0, "asset_id": "tone"}
				],
				"effects": [
					{"type": "eq", "low_gain_db": 1},
					{"type": "bogus"}
				]
			},
			{
				"id": 6,
				"name": "keys",
				"clips": [
					{"kind": 1, "start": 0, "duration": 500, "notes": [
						{"start": 0, "duration": 100, "note": 60, "velocity": 100}
					]}
				]
			}
		]
	}`)

	p, err := DecodeProject(raw)
	if err != nil {
		t.Fatalf("DecodeProject failed: %v", err)
	}
	m.hydrateProject(p)

	if len(m.Tracks) != 2 {
		t.Fatalf("expected 2 hydrated tracks, got %d", len(m.Tracks))
	}

	lead := m.Tracks[0]
	if lead.ID != 5 {
		t.Errorf("expected track id 5, got %d", lead.ID)
	}
	if len(lead.Clips) != 1 || lead.Clips[0].AssetID != "tone" {
		t.Errorf("expected one audio clip referencing 'tone', got %+v", lead.Clips)
	}
	// The unknown effect type is skipped, so only the eq node survives.
	if len(lead.Effects) != 1 {
		t.Errorf("expected 1 surviving effect (eq), got %d", len(lead.Effects))
	}
	wantGain := float32(dbToLinear(-6))
	if lead.Gain == nil {
		t.Fatal("expected lead track to have a gain node")
	}
	if lead.Gain.gain != wantGain {
		t.Errorf("expected gain node set to %v (-6dB), got %v", wantGain, lead.Gain.gain)
	}

	keys := m.Tracks[1]
	if keys.ID != 6 {
		t.Errorf("expected track id 6, got %d", keys.ID)
	}
	if keys.Synth == nil {
		t.Fatal("expected a midi clip to lazily enable the synth")
	}
	if len(keys.MidiClips) != 1 {
		t.Fatalf("expected 1 midi clip, got %d", len(keys.MidiClips))
	}
	if len(keys.MidiClips[0].Inner.Events) != 2 {
		t.Errorf("expected 2 events (note on + note off), got %d", len(keys.MidiClips[0].Inner.Events))
	}

	if m.nextTrackID != 7 {
		t.Errorf("expected nextTrackID to follow the highest hydrated id (7), got %d", m.nextTrackID)
	}
}
