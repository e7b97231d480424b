package engine

import (
	"math"
	"testing"
)

func TestSvfLowPassAttenuatesAboveCutoff(t *testing.T) {
	const sampleRate = 44100.0
	s := NewSvf(sampleRate)
	s.Set(200, 0.7)

	// Drive with a high-frequency tone (10kHz) well above the 200Hz
	// cutoff and measure settled output amplitude against the input.
	osc := NewOscillator(sampleRate)
	osc.SetFrequency(10000)
	osc.SetWaveform(WaveSine)

	var maxOut float64
	for i := 0; i < 2000; i++ {
		in := osc.Next()
		out := s.Process(in)
		if i > 1000 { // past settling
			if math.Abs(out) > maxOut {
				maxOut = math.Abs(out)
			}
		}
	}
	t.Logf("settled max |out| for 10kHz through 200Hz low-pass = %v", maxOut)
	if maxOut > 0.2 {
		t.Errorf("expected strong attenuation of a 10kHz tone through a 200Hz low-pass, got max %v", maxOut)
	}
}

func TestSvfClampsCutoffRange(t *testing.T) {
	s := NewSvf(44100)
	s.Set(-5, 0.7)
	if s.cutoff != 1 {
		t.Errorf("expected cutoff clamped to 1, got %v", s.cutoff)
	}
	s.Set(1e9, 0.7)
	if s.cutoff != 44100*0.49 {
		t.Errorf("expected cutoff clamped to sampleRate*0.49, got %v", s.cutoff)
	}
}

func TestOscillatorSquareWaveSign(t *testing.T) {
	o := NewOscillator(44100)
	o.SetFrequency(100)
	o.SetWaveform(WaveSquare)

	first := o.Next()
	if first != 1 {
		t.Errorf("expected square wave to start at +1, got %v", first)
	}
}

func TestOscillatorSawRampsLinearly(t *testing.T) {
	o := NewOscillator(44100)
	o.SetFrequency(44100.0 / 100) // wraps every 100 samples
	o.SetWaveform(WaveSaw)

	prev := o.Next()
	increasing := 0
	for i := 0; i < 98; i++ {
		cur := o.Next()
		if cur > prev {
			increasing++
		}
		prev = cur
	}
	t.Logf("increasing samples out of 98 = %d", increasing)
	if increasing < 90 {
		t.Errorf("expected a saw wave to ramp upward almost monotonically between wraps, got %d/98", increasing)
	}
}

func TestLfoSampleAndHoldOnlyChangesOnWrap(t *testing.T) {
	l := NewLfo(44100)
	l.SetFrequency(44100.0 / 10) // wraps every 10 samples
	l.SetWaveform(LfoSampleAndHold)

	first := l.Next()
	changed := 0
	for i := 0; i < 8; i++ {
		v := l.Next()
		if v != first {
			changed++
		}
	}
	t.Logf("held value changed %d times within one period (should be 0)", changed)
	if changed != 0 {
		t.Errorf("sample-and-hold should not change value until the phase wraps, changed %d times", changed)
	}
}

func TestLfoTriangleBounds(t *testing.T) {
	l := NewLfo(44100)
	l.SetFrequency(10)
	l.SetWaveform(LfoTriangle)
	for i := 0; i < 10000; i++ {
		v := l.Next()
		if v < -1.0001 || v > 1.0001 {
			t.Fatalf("triangle LFO escaped [-1,1] at sample %d: %v", i, v)
		}
	}
}

func TestEnvelopeFollowerAsymmetricAttackRelease(t *testing.T) {
	f := NewEnvelopeFollower(44100)
	f.SetParams(1, 200) // fast attack, slow release

	for i := 0; i < 200; i++ {
		f.Process(1.0)
	}
	afterAttack := f.envelope
	t.Logf("envelope after fast attack: %v", afterAttack)
	if afterAttack < 0.9 {
		t.Errorf("expected fast attack to nearly reach input level, got %v", afterAttack)
	}

	f.Process(0)
	afterOneReleaseSample := f.envelope
	t.Logf("envelope one sample into slow release: %v", afterOneReleaseSample)
	if afterOneReleaseSample < afterAttack*0.9 {
		t.Errorf("expected slow release to decay gradually, dropped too fast: %v -> %v", afterAttack, afterOneReleaseSample)
	}
}

func TestModulationMatrixSumsMatchingConnectionsOnly(t *testing.T) {
	m := NewModulationMatrix()
	m.Connect(ModSource{Kind: ModSrcEnvelope, Index: 0}, ModTarget{Kind: ModTgtFilterCutoff}, 0.5)
	m.Connect(ModSource{Kind: ModSrcVelocity}, ModTarget{Kind: ModTgtFilterCutoff}, 0.25)
	m.Connect(ModSource{Kind: ModSrcLfo, Index: 0}, ModTarget{Kind: ModTgtGain}, 1.0) // different target

	values := ModValues{Envelope: []float64{0.8}, Velocity: 0.4, Lfo: []float64{1.0}}
	got := m.GetModulationValue(ModTarget{Kind: ModTgtFilterCutoff}, values)
	want := 0.8*0.5 + 0.4*0.25
	t.Logf("matrix sum = %v, want %v", got, want)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("GetModulationValue = %v, want %v", got, want)
	}
}

func TestModulationMatrixMacroSourceAlwaysZero(t *testing.T) {
	m := NewModulationMatrix()
	m.Connect(ModSource{Kind: ModSrcMacro, Index: 0}, ModTarget{Kind: ModTgtGain}, 1.0)
	got := m.GetModulationValue(ModTarget{Kind: ModTgtGain}, ModValues{})
	if got != 0 {
		t.Errorf("expected macro source to resolve to 0, got %v", got)
	}
}

func TestWavetableMorphEndpointsMatchSineAndSquare(t *testing.T) {
	w := NewWavetable()
	// At morph=0 frame 0 is pure sine: sample at phase 0.25 ~ 1.0.
	v := w.GetSample(0.25, 0)
	t.Logf("morph=0 phase=0.25 -> %v (want ~1)", v)
	if math.Abs(float64(v-1)) > 0.05 {
		t.Errorf("expected frame 0 at phase 0.25 to be close to sine peak 1.0, got %v", v)
	}

	// At morph=1 the last frame is pure square: sample at phase 0.25 is +1.
	v = w.GetSample(0.25, 1)
	t.Logf("morph=1 phase=0.25 -> %v (want 1)", v)
	if math.Abs(float64(v-1)) > 0.01 {
		t.Errorf("expected frame %d at phase 0.25 to be square's +1, got %v", wavetableFrames-1, v)
	}
}

func TestGranularSynthProducesBoundedOutput(t *testing.T) {
	buf := make([]float32, 4410)
	for i := range buf {
		buf[i] = float32(math.Sin(2 * math.Pi * float64(i) / 100))
	}
	g := NewGranularSynth(44100, buf)
	g.SetParams(50, 50, 10)
	g.SetPlaybackPosition(1000)

	outL := make([]float32, 2000)
	outR := make([]float32, 2000)
	g.Process(outL, outR)

	var sumAbs float64
	for i := range outL {
		sumAbs += math.Abs(float64(outL[i]))
		if outL[i] < -1.5 || outL[i] > 1.5 || outR[i] < -1.5 || outR[i] > 1.5 {
			t.Fatalf("grain output escaped a sane bound at %d: L=%v R=%v", i, outL[i], outR[i])
		}
	}
	if sumAbs == 0 {
		t.Fatal("expected some grain activity given density=50/s over 2000 samples")
	}
}

func TestVoiceNoteOnThenOffEventuallyGoesInactive(t *testing.T) {
	v := NewVoice(44100)
	matrix := NewModulationMatrix()
	matrix.Connect(ModSource{Kind: ModSrcEnvelope, Index: 0}, ModTarget{Kind: ModTgtFilterCutoff}, 0.5)

	v.NoteOn(69, 100)
	if !v.IsActive() {
		t.Fatal("expected voice active immediately after NoteOn")
	}

	var gotSound bool
	for i := 0; i < 100; i++ {
		out := v.Process(matrix)
		if out != 0 {
			gotSound = true
		}
	}
	if !gotSound {
		t.Error("expected a non-zero signal from an active voice")
	}

	v.NoteOff()
	becameInactive := false
	for i := 0; i < 44100; i++ {
		v.Process(matrix)
		if !v.IsActive() {
			becameInactive = true
			break
		}
	}
	if !becameInactive {
		t.Error("expected the voice to become inactive once the envelope completes release")
	}
}
