package engine

import "testing"

func TestVoiceAllocatorRetrigger(t *testing.T) {
	a := NewVoiceAllocator(4)
	i1 := a.NoteOn(60, 100)
	a.Tick()
	i2 := a.NoteOn(60, 110)
	t.Logf("first NoteOn(60) -> slot %d, second NoteOn(60) -> slot %d", i1, i2)
	if i1 != i2 {
		t.Errorf("second NoteOn for the same held note should reuse the same slot")
	}

	count := 0
	for _, s := range a.states {
		if s.Kind != VoiceIdle {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 non-idle slot after retrigger, got %d", count)
	}
}

func TestVoiceAllocatorStealing(t *testing.T) {
	a := NewVoiceAllocator(8)

	for note := uint8(60); note < 68; note++ {
		a.NoteOn(note, 100)
		a.Tick()
	}

	active := 0
	for _, s := range a.states {
		if s.Kind == VoiceActive {
			active++
		}
	}
	t.Logf("after 8 NoteOns: %d active", active)
	if active != 8 {
		t.Fatalf("expected 8 active voices, got %d", active)
	}

	// A 9th distinct note must steal the lowest-age (oldest, note 60)
	// slot, leaving 8 active.
	stolen := a.NoteOn(68, 100)
	t.Logf("9th NoteOn(68) stole slot %d (note now %d)", stolen, a.states[stolen].Note)

	active = 0
	has60 := false
	has68 := false
	for _, s := range a.states {
		if s.Kind == VoiceActive {
			active++
			if s.Note == 60 {
				has60 = true
			}
			if s.Note == 68 {
				has68 = true
			}
		}
	}
	if active != 8 {
		t.Errorf("expected 8 active voices after steal, got %d", active)
	}
	if has60 {
		t.Error("note 60 (lowest age) should have been stolen")
	}
	if !has68 {
		t.Error("note 68 should now be active")
	}
}

func TestVoiceAllocatorNoteOff(t *testing.T) {
	a := NewVoiceAllocator(4)
	idx := a.NoteOn(60, 100)

	offIdx, ok := a.NoteOff(60)
	if !ok || offIdx != idx {
		t.Fatalf("NoteOff(60) = (%d, %v), want (%d, true)", offIdx, ok, idx)
	}
	if a.states[idx].Kind != VoiceReleasing {
		t.Errorf("expected slot %d to be Releasing, got %v", idx, a.states[idx].Kind)
	}

	_, ok = a.NoteOff(99)
	if ok {
		t.Error("NoteOff for an unheld note should return ok=false")
	}

	a.VoiceFinished(idx)
	if a.states[idx].Kind != VoiceIdle {
		t.Errorf("expected slot %d idle after VoiceFinished, got %v", idx, a.states[idx].Kind)
	}
}
