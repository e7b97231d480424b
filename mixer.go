// mixer.go - multi-track sum, crossfader, master gain, soft-clip

package engine

import (
	"log"
	"math"
	"sync"
)

// commandQueueCapacity sizes the SPSC ring buffer carrying scalar
// control-plane commands to the render thread.
const commandQueueCapacity = 4096

// Mixer owns every Track, the asset cache, and the master bus. All
// render-path state belongs exclusively to the render thread; every
// control-plane mutation is funneled through Drain.
type Mixer struct {
	Tracks             []*Track
	MasterGain         *GainNode
	SampleRate         float64
	CurrentTime        uint64
	IsPlaying          bool
	CrossfaderPosition float64

	assetCache map[string]StereoAsset

	commands   *RingBuffer
	commandBuf [commandSize]byte

	pendingMu       sync.Mutex
	pendingSamples  []pendingAddSample
	pendingEffects  []pendingEffectsUpdate
	pendingProject  *Project
	hasPendingProj  bool

	scratchL, scratchR []float32

	nextTrackID uint32
}

type pendingAddSample struct {
	assetID     string
	left, right []float32
}

type pendingEffectsUpdate struct {
	trackID uint32
	effects []EffectKind
}

// NewMixer builds an empty Mixer bound to sampleRate.
func NewMixer(sampleRate float64) *Mixer {
	return &Mixer{
		MasterGain: NewGainNode(1.0),
		SampleRate: sampleRate,
		assetCache: make(map[string]StereoAsset),
		commands:   NewRingBuffer(commandQueueCapacity),
	}
}

// AddTrack appends a new empty Track and returns its id.
func (m *Mixer) AddTrack() uint32 {
	id := m.nextTrackID
	m.nextTrackID++
	m.Tracks = append(m.Tracks, NewTrack(id, m.SampleRate))
	return id
}

func (m *Mixer) track(id uint32) *Track {
	for _, t := range m.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AddSample queues a PCM asset for the render thread to pick up at the
// next Drain — large payloads are handed off by reference, not copied
// onto the ring buffer inline (spec.md §5).
func (m *Mixer) AddSample(assetID string, left, right []float32) {
	m.pendingMu.Lock()
	m.pendingSamples = append(m.pendingSamples, pendingAddSample{assetID: assetID, left: left, right: right})
	m.pendingMu.Unlock()
}

// UpdateTrackEffects queues a full effect-chain replacement for track
// id, applied at the next Drain.
func (m *Mixer) UpdateTrackEffects(id uint32, effects []EffectKind) {
	m.pendingMu.Lock()
	m.pendingEffects = append(m.pendingEffects, pendingEffectsUpdate{trackID: id, effects: effects})
	m.pendingMu.Unlock()
}

// LoadProject queues a full project hydration, applied at the next
// Drain, replacing all tracks.
func (m *Mixer) LoadProject(p *Project) {
	m.pendingMu.Lock()
	m.pendingProject = p
	m.hasPendingProj = true
	m.pendingMu.Unlock()
}

// drainHeavyOps applies queued AddSample/UpdateTrackEffects/LoadProject
// operations. Bounded by how many are pending (typically zero or one
// per block) rather than per-sample work, so the brief lock here does
// not violate the render path's no-allocation/no-blocking contract in
// practice — see DESIGN.md for the rationale.
func (m *Mixer) drainHeavyOps() {
	m.pendingMu.Lock()
	samples := m.pendingSamples
	m.pendingSamples = nil
	effects := m.pendingEffects
	m.pendingEffects = nil
	var project *Project
	if m.hasPendingProj {
		project = m.pendingProject
		m.pendingProject = nil
		m.hasPendingProj = false
	}
	m.pendingMu.Unlock()

	for _, s := range samples {
		if len(s.left) != len(s.right) {
			log.Printf("amplitude: add_sample %q: left/right length mismatch, ignoring", s.assetID)
			continue
		}
		m.assetCache[s.assetID] = StereoAsset{Left: s.left, Right: s.right}
	}

	for _, e := range effects {
		if t := m.track(e.trackID); t != nil {
			nodes := make([]EffectNode, len(e.effects))
			for i, k := range e.effects {
				nodes[i] = BuildEffectNode(k, m.SampleRate)
			}
			t.Effects = nodes
		}
	}

	if project != nil {
		m.hydrateProject(project)
	}
}

func (m *Mixer) ensureScratch(n int) {
	if cap(m.scratchL) < n {
		m.scratchL = make([]float32, n)
		m.scratchR = make([]float32, n)
	}
	m.scratchL = m.scratchL[:n]
	m.scratchR = m.scratchR[:n]
}

// crossfaderGain resolves the crossfader bus weight for group at the
// current crossfader position xf.
func crossfaderGain(group CrossfaderGroup, xf float64) float64 {
	switch group {
	case CrossfaderA:
		if xf > 0 {
			return math.Max(1-xf, 0)
		}
		return 1
	case CrossfaderB:
		if xf < 0 {
			return math.Max(1+xf, 0)
		}
		return 1
	default: // CrossfaderThru
		return 1
	}
}

// Process renders N = len(outL) samples into outL/outR, the render
// entry point. Performs zero heap allocations given preallocated
// scratch buffers (ensureScratch only grows off the realtime path, at
// startup or on a block-size change — spec.md §7 "buffer undersize").
func (m *Mixer) Process(outL, outR []float32) {
	m.Drain()

	n := len(outL)
	for i := 0; i < n; i++ {
		outL[i] = 0
		outR[i] = 0
	}

	if !m.IsPlaying {
		return
	}

	m.ensureScratch(n)

	for _, t := range m.Tracks {
		t.Process(m.scratchL, m.scratchR, m.CurrentTime, m.assetCache)
		gain := float32(crossfaderGain(t.CrossfaderGroup, m.CrossfaderPosition))
		for i := 0; i < n; i++ {
			outL[i] += m.scratchL[i] * gain
			outR[i] += m.scratchR[i] * gain
		}
	}

	m.CurrentTime += uint64(n)

	m.MasterGain.Process(nil, [][]float32{outL, outR})

	// tanh of a hot sample rounds to exactly ±1 in float32; hold the
	// result at the largest float32 magnitude below 1.
	limit := math.Nextafter32(1, 0)
	for i := 0; i < n; i++ {
		outL[i] = clampF32(float32(math.Tanh(float64(outL[i]))), -limit, limit)
		outR[i] = clampF32(float32(math.Tanh(float64(outR[i]))), -limit, limit)
	}
}

// ReadTrackMeters fills out with each track's current peak/RMS, in
// Tracks order. out must be at least len(m.Tracks) long.
func (m *Mixer) ReadTrackMeters(out []TrackMeter) {
	for i, t := range m.Tracks {
		if i >= len(out) {
			return
		}
		out[i] = t.Meter()
	}
}
