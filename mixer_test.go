package engine

import (
	"math"
	"testing"
)

func TestScenarioSilence(t *testing.T) {
	m := NewMixer(44100)
	m.IsPlaying = true

	outL := make([]float32, 128)
	outR := make([]float32, 128)
	m.Process(outL, outR)

	for i := range outL {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("expected silence with no tracks, got outL[%d]=%v outR[%d]=%v", i, outL[i], i, outR[i])
		}
	}
	if m.CurrentTime != 128 {
		t.Errorf("expected current_time to advance by 128, got %d", m.CurrentTime)
	}
}

func TestScenarioUnitRateClipPlayback(t *testing.T) {
	m := NewMixer(44100)
	m.IsPlaying = true
	id := m.AddTrack()
	track := m.track(id)

	n := 1000
	left := make([]float32, n)
	right := make([]float32, n)
	for i := range left {
		left[i] = 0.5
		right[i] = -0.5
	}
	m.AddSample("tone", left, right)
	track.Clips = append(track.Clips, Clip{StartTime: 0, Duration: 1000, Offset: 0, AssetID: "tone"})

	outL := make([]float32, 256)
	outR := make([]float32, 256)
	m.Process(outL, outR)

	// The track's DJ filter is a real biquad even at its "bypass"
	// default (20kHz low-pass), so the constant-input DC response needs
	// a few samples to settle out of its zero initial state before it
	// matches the closed-form pan/gain result exactly.
	const settled = 150
	wantL := float32(0.5 * math.Cos(math.Pi/4))
	wantR := float32(-0.5 * math.Sin(math.Pi/4))
	t.Logf("settled sample %d: outL=%v (want %v), outR=%v (want %v)", settled, outL[settled], wantL, outR[settled], wantR)
	if math.Abs(float64(outL[settled]-wantL)) > 1e-3 {
		t.Errorf("outL[%d] = %v, want %v", settled, outL[settled], wantL)
	}
	if math.Abs(float64(outR[settled]-wantR)) > 1e-3 {
		t.Errorf("outR[%d] = %v, want %v", settled, outR[settled], wantR)
	}
}

func TestScenarioVariableRatePlayhead(t *testing.T) {
	m := NewMixer(44100)
	m.IsPlaying = true
	id := m.AddTrack()
	track := m.track(id)
	track.PlaybackRate = 2.0

	n := 1000
	left := make([]float32, n)
	right := make([]float32, n)
	m.AddSample("tone", left, right)
	track.Clips = append(track.Clips, Clip{StartTime: 0, Duration: 1000, Offset: 0, AssetID: "tone"})

	outL := make([]float32, 128)
	outR := make([]float32, 128)
	m.Process(outL, outR)

	t.Logf("playhead after 128 samples at rate 2.0 = %v", track.playheadCursor)
	if math.Abs(track.playheadCursor-256) > 1e-6 {
		t.Errorf("playhead = %v, want 256", track.playheadCursor)
	}
}

func TestScenarioMidiSynthFundamental(t *testing.T) {
	m := NewMixer(44100)
	m.IsPlaying = true
	id := m.AddTrack()
	track := m.track(id)
	track.EnableSynth()

	clip := NewMidiClip("test", 44100)
	clip.AddNote(0, 69, 127, 0, 44100) // A4, full block+ duration
	clip.SortEvents()
	track.MidiClips = append(track.MidiClips, PlacedMidiClip{StartTime: 0, Inner: clip})

	n := 512
	outL := make([]float32, n)
	outR := make([]float32, n)
	m.Process(outL, outR)

	var sumAbs float64
	zeroCrossings := 0
	for i := 1; i < n; i++ {
		sumAbs += math.Abs(float64(outL[i]))
		if (outL[i-1] < 0) != (outL[i] < 0) {
			zeroCrossings++
		}
	}
	t.Logf("sum |outL| over %d samples = %v, zero crossings = %d", n, sumAbs, zeroCrossings)
	if sumAbs == 0 {
		t.Fatal("expected non-zero output from a triggered synth voice")
	}

	// A roughly-440Hz tone over 512 samples at 44100Hz spans ~5.1
	// cycles; expect on the order of 2*5 zero crossings, loosely.
	if zeroCrossings < 4 || zeroCrossings > 20 {
		t.Errorf("zero crossing count %d outside the loose band expected for a ~440Hz fundamental", zeroCrossings)
	}
}

func TestScenarioCrossfader(t *testing.T) {
	m := NewMixer(44100)
	m.IsPlaying = true

	idA := m.AddTrack()
	trackA := m.track(idA)
	trackA.CrossfaderGroup = CrossfaderA

	idB := m.AddTrack()
	trackB := m.track(idB)
	trackB.CrossfaderGroup = CrossfaderB

	n := 64
	constOne := make([]float32, n)
	constOneR := make([]float32, n)
	for i := range constOne {
		constOne[i] = 1
		constOneR[i] = 1
	}
	m.AddSample("const", constOne, constOneR)
	trackA.Clips = append(trackA.Clips, Clip{StartTime: 0, Duration: uint64(n), Offset: 0, AssetID: "const"})
	trackB.Clips = append(trackB.Clips, Clip{StartTime: 0, Duration: uint64(n), Offset: 0, AssetID: "const"})
	trackA.Pan = 0
	trackB.Pan = 0

	run := func(xf float64) (float32, float32) {
		m2 := NewMixer(44100)
		m2.IsPlaying = true
		m2.CrossfaderPosition = xf
		a := m2.AddTrack()
		ta := m2.track(a)
		ta.CrossfaderGroup = CrossfaderA
		b := m2.AddTrack()
		tb := m2.track(b)
		tb.CrossfaderGroup = CrossfaderB
		m2.AddSample("const", constOne, constOneR)
		ta.Clips = append(ta.Clips, Clip{StartTime: 0, Duration: uint64(n), Offset: 0, AssetID: "const"})
		tb.Clips = append(tb.Clips, Clip{StartTime: 0, Duration: uint64(n), Offset: 0, AssetID: "const"})

		outL := make([]float32, n)
		outR := make([]float32, n)
		m2.Process(outL, outR)
		return outL[n/2], outR[n/2]
	}

	lMinus, _ := run(-1)
	lZero, _ := run(0)
	lPlus, _ := run(1)

	t.Logf("xf=-1: %v, xf=0: %v, xf=1: %v", lMinus, lZero, lPlus)

	// xf=-1: only group A passes (gain cos(pi/4) for pan=0 applied
	// once per track), xf=1: only group B; xf=0: both sum, roughly
	// double. All values pass through a tanh soft-clip, so compare
	// ordering rather than exact linear ratios.
	if !(math.Abs(float64(lZero)) > math.Abs(float64(lMinus))) {
		t.Errorf("expected xf=0 (both tracks summed) to be louder than xf=-1 (single track), got %v vs %v", lZero, lMinus)
	}
	if !(math.Abs(float64(lZero)) > math.Abs(float64(lPlus))) {
		t.Errorf("expected xf=0 (both tracks summed) to be louder than xf=1 (single track), got %v vs %v", lZero, lPlus)
	}
	if math.Abs(float64(lMinus)-float64(lPlus)) > 1e-3 {
		t.Errorf("expected symmetric output magnitude at xf=-1 and xf=1, got %v vs %v", lMinus, lPlus)
	}
}

func TestMasterSoftClipStrictlyBounded(t *testing.T) {
	m := NewMixer(44100)
	m.IsPlaying = true
	id := m.AddTrack()
	track := m.track(id)
	track.Gain.SetGain(100) // deliberately hot

	n := 64
	loud := make([]float32, n)
	loudR := make([]float32, n)
	for i := range loud {
		loud[i] = 1
		loudR[i] = -1
	}
	m.AddSample("hot", loud, loudR)
	track.Clips = append(track.Clips, Clip{StartTime: 0, Duration: uint64(n), Offset: 0, AssetID: "hot"})

	outL := make([]float32, n)
	outR := make([]float32, n)
	m.Process(outL, outR)

	for i := range outL {
		if outL[i] <= -1 || outL[i] >= 1 {
			t.Fatalf("outL[%d] = %v not strictly within (-1, 1)", i, outL[i])
		}
		if outR[i] <= -1 || outR[i] >= 1 {
			t.Fatalf("outR[%d] = %v not strictly within (-1, 1)", i, outR[i])
		}
	}
}
