// track.go - per-track signal chain: playhead, clips, fx, metering

package engine

import (
	"math"
	"sync/atomic"
)

// CrossfaderGroup is the DJ crossfader bus a Track's output is weighted
// against in the Mixer sum.
type CrossfaderGroup int

const (
	CrossfaderThru CrossfaderGroup = iota
	CrossfaderA
	CrossfaderB
)

// Clip is a piece of audio on the timeline, referencing an asset by id.
type Clip struct {
	StartTime uint64
	Duration  uint64
	Offset    uint64
	AssetID   string
}

// StereoAsset is a stereo PCM pair held in the Mixer's asset cache.
type StereoAsset struct {
	Left, Right []float32
}

// LoopState is a track's loop region, in fractional samples.
type LoopState struct {
	Enabled bool
	Start   float64
	End     float64
}

// TrackMeter is the peak/RMS snapshot read_track_meters publishes.
type TrackMeter struct {
	Peak float32
	RMS  float32
}

// Track owns one channel of the mixer: either audio clips or a
// SynthNode driven by MIDI clips, an ordered effect chain, a dedicated
// EQ, a dedicated DJ filter, gain, pan, and metering.
type Track struct {
	ID uint32

	Clips     []Clip
	MidiClips []PlacedMidiClip
	Synth     *SynthNode

	Effects []EffectNode
	Eq      *EqNode
	Filter  *FilterNode
	Gain    *GainNode

	Pan             float32
	Muted           bool
	Soloed          bool
	CrossfaderGroup CrossfaderGroup

	PlaybackRate    float64
	ScratchVelocity float64
	FXStutter       bool
	FXTapeStop      bool
	Loop            LoopState

	playheadCursor float64

	currentPeakBits atomic.Uint32
	currentRMSBits  atomic.Uint32

	sampleRate float64

	scratchL, scratchR []float32
	fxInputs, fxOutputs [2][]float32 // reused effect-chain channel slices, avoids per-block allocation
	clipCandidates     []int // reused index buffer into Clips, avoids per-block allocation
}

// NewTrack builds an empty Track bound to sampleRate.
func NewTrack(id uint32, sampleRate float64) *Track {
	return &Track{
		ID:           id,
		Gain:         NewGainNode(1.0),
		Eq:           NewEqNode(sampleRate),
		Filter:       NewFilterNode(sampleRate),
		Pan:          0,
		PlaybackRate: 1.0,
		sampleRate:   sampleRate,
	}
}

// EnableSynth lazily attaches an 8-voice SynthNode to the track.
func (t *Track) EnableSynth() {
	if t.Synth == nil {
		t.Synth = NewSynthNode(t.sampleRate, 8)
	}
}

func (t *Track) ensureScratch(n int) {
	if cap(t.scratchL) < n {
		t.scratchL = make([]float32, n)
		t.scratchR = make([]float32, n)
	}
	t.scratchL = t.scratchL[:n]
	t.scratchR = t.scratchR[:n]
}

const stutterSubdivision = 4 // quarter-beat cell, per spec.md §4.10

// Process renders N = len(outL) samples into outL/outR for this track.
func (t *Track) Process(outL, outR []float32, currentTime uint64, assetCache map[string]StereoAsset) {
	n := len(outL)

	if t.Muted {
		for i := 0; i < n; i++ {
			outL[i] = 0
			outR[i] = 0
		}
		return
	}

	for i := 0; i < n; i++ {
		outL[i] = 0
		outR[i] = 0
	}

	if t.Synth != nil {
		t.processSynthSource(outL, outR, currentTime, n)
	} else {
		t.processAudioSource(outL, outR, currentTime, n, assetCache)
	}

	// Effect chain: copy outputs -> scratch, then process(scratch -> outputs).
	t.ensureScratch(n)
	t.fxInputs = [2][]float32{t.scratchL, t.scratchR}
	t.fxOutputs = [2][]float32{outL, outR}
	for _, fx := range t.Effects {
		copy(t.scratchL, outL)
		copy(t.scratchR, outR)
		fx.Process(t.fxInputs[:], t.fxOutputs[:])
	}

	t.Eq.Process(nil, [][]float32{outL, outR})
	t.Filter.Process(nil, [][]float32{outL, outR})
	t.Gain.Process(nil, [][]float32{outL, outR})

	panClamped := clampF32(t.Pan, -1, 1)
	angle := (float64(panClamped) + 1) * math.Pi / 4
	gainL := float32(math.Cos(angle))
	gainR := float32(math.Sin(angle))
	for i := 0; i < n; i++ {
		outL[i] *= gainL
		outR[i] *= gainR
	}

	t.updateMeters(outL, outR)
}

func (t *Track) processSynthSource(outL, outR []float32, currentTime uint64, n int) {
	blockStart := currentTime
	blockEnd := currentTime + uint64(n)

	for _, clip := range t.MidiClips {
		clipStartAbs := clip.StartTime
		clipEndAbs := clip.StartTime + clip.Inner.Duration
		if clipEndAbs <= blockStart || clipStartAbs >= blockEnd {
			continue
		}
		for _, ev := range clip.Inner.Events {
			abs := clip.StartTime + ev.Timestamp
			if abs >= blockStart && abs < blockEnd {
				t.Synth.QueueEvent(ev)
			}
		}
	}

	t.Synth.Process(nil, [][]float32{outL, outR})
}

// processAudioSource advances the track's single shared playhead cursor
// once per sample (spec.md §3: playhead_cursor is a Track-scalar field,
// not per-Clip), then checks every Clip's interval against that one
// cursor value. Clips are filtered to those intersecting the block
// window up front (into a reused index buffer, no per-block allocation)
// so the inner per-sample loop only visits candidates that can possibly
// contribute.
func (t *Track) processAudioSource(outL, outR []float32, currentTime uint64, n int, assetCache map[string]StereoAsset) {
	blockEnd := currentTime + uint64(n)
	t.clipCandidates = t.clipCandidates[:0]
	for idx, clip := range t.Clips {
		clipStart := clip.StartTime
		clipEnd := clip.StartTime + clip.Duration
		if !(clipStart < blockEnd && clipEnd > currentTime) {
			continue
		}
		if _, ok := assetCache[clip.AssetID]; !ok {
			continue
		}
		t.clipCandidates = append(t.clipCandidates, idx)
	}

	beatLen := t.sampleRate / float64(stutterSubdivision)

	for i := 0; i < n; i++ {
		rate := t.PlaybackRate + t.ScratchVelocity
		if math.Abs(rate) < 0.001 {
			continue // paused
		}
		if t.FXTapeStop {
			rate = 0
		}

		t.playheadCursor += rate

		cursor := t.playheadCursor
		if t.Loop.Enabled && t.Loop.End > t.Loop.Start {
			span := t.Loop.End - t.Loop.Start
			if span > 0 {
				overshoot := math.Mod(cursor-t.Loop.Start, span)
				if overshoot < 0 {
					overshoot += span
				}
				cursor = t.Loop.Start + overshoot
				t.playheadCursor = cursor
			}
		} else if t.FXStutter {
			cellStart := math.Floor(cursor/beatLen) * beatLen
			cursor = cellStart + math.Mod(cursor, beatLen*0.5)
		}

		for _, idx := range t.clipCandidates {
			clip := t.Clips[idx]
			clipStartF := float64(clip.StartTime)
			clipEndF := float64(clip.StartTime + clip.Duration)
			if cursor >= clipStartF && cursor < clipEndF {
				asset := assetCache[clip.AssetID]
				src := float64(clip.Offset) + (cursor - clipStartF)
				l, r := interpolateStereo(asset, src)
				outL[i] += l
				outR[i] += r
			}
		}
	}
}

func interpolateStereo(asset StereoAsset, src float64) (float32, float32) {
	if src < 0 {
		return 0, 0
	}
	i0 := int(math.Floor(src))
	if i0 < 0 || i0 >= len(asset.Left) {
		return 0, 0
	}
	i1 := i0 + 1
	frac := float32(src - math.Floor(src))

	l0, r0 := asset.Left[i0], asset.Right[i0]
	var l1, r1 float32
	if i1 < len(asset.Left) {
		l1, r1 = asset.Left[i1], asset.Right[i1]
	} else {
		l1, r1 = l0, r0
	}
	return fLerp(l0, l1, frac), fLerp(r0, r1, frac)
}

func (t *Track) updateMeters(outL, outR []float32) {
	var peak float32
	var sumSquares float64
	for i := range outL {
		al := float32(math.Abs(float64(outL[i])))
		ar := float32(math.Abs(float64(outR[i])))
		if al > peak {
			peak = al
		}
		if ar > peak {
			peak = ar
		}
		sumSquares += float64(outL[i])*float64(outL[i]) + float64(outR[i])*float64(outR[i])
	}
	rms := float32(0)
	if len(outL) > 0 {
		rms = float32(math.Sqrt(sumSquares / float64(2*len(outL))))
	}
	t.currentPeakBits.Store(math.Float32bits(peak))
	t.currentRMSBits.Store(math.Float32bits(rms))
}

// Meter loads the most recently published peak/RMS snapshot. Safe to
// call from any goroutine; reads are plain atomic loads (torn reads are
// tolerable for metering, per spec.md §5).
func (t *Track) Meter() TrackMeter {
	return TrackMeter{
		Peak: math.Float32frombits(t.currentPeakBits.Load()),
		RMS:  math.Float32frombits(t.currentRMSBits.Load()),
	}
}
