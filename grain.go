// grain.go - granular synthesis engine

package engine

import (
	"math"
	"math/rand/v2"
)

const maxGrains = 64

// Grain is a single windowed playback slice of a source buffer.
type Grain struct {
	active        bool
	startPos      float64
	currentPos    float64
	speed         float64
	durationSamps float64
	age           float64
	pan           float64
	amp           float64
}

func (g *Grain) process(buffer []float32) (l, r float32) {
	if !g.active {
		return 0, 0
	}

	idx := int(g.currentPos)
	if idx < 0 || idx+1 >= len(buffer) {
		g.active = false
		return 0, 0
	}
	frac := float32(g.currentPos - math.Floor(g.currentPos))
	sample := fLerp(buffer[idx], buffer[idx+1], frac)

	window := float32(0.5 * (1 - math.Cos(2*math.Pi*g.age/g.durationSamps)))
	sample *= window * float32(g.amp)

	panClamped := g.pan
	if panClamped < -1 {
		panClamped = -1
	}
	if panClamped > 1 {
		panClamped = 1
	}
	gainL := float32((1 - panClamped) * 0.5)
	gainR := float32((1 + panClamped) * 0.5)
	l = sample * gainL
	r = sample * gainR

	g.currentPos += g.speed
	g.age++
	if g.age >= g.durationSamps || g.currentPos < 0 || int(g.currentPos)+1 >= len(buffer) {
		g.active = false
	}
	return l, r
}

// GranularSynth spawns and mixes a pool of Grains reading from a shared
// source buffer.
type GranularSynth struct {
	sampleRate float64
	buffer     []float32
	grains     [maxGrains]Grain

	density float64 // grains per second
	sizeMs  float64
	sprayMs float64

	playbackPos  float64
	spawnAccum   float64
}

// NewGranularSynth builds a GranularSynth reading buffer.
func NewGranularSynth(sampleRate float64, buffer []float32) *GranularSynth {
	return &GranularSynth{
		sampleRate: sampleRate,
		buffer:     buffer,
		density:    10,
		sizeMs:     100,
		sprayMs:    0,
	}
}

// SetParams sets grain density (grains/sec), size (ms), and spray (ms
// of randomized start-position jitter).
func (g *GranularSynth) SetParams(density, sizeMs, sprayMs float64) {
	g.density = density
	g.sizeMs = sizeMs
	g.sprayMs = sprayMs
}

// SetPlaybackPosition sets the nominal read position (in samples) new
// grains spawn around.
func (g *GranularSynth) SetPlaybackPosition(pos float64) {
	g.playbackPos = pos
}

func (g *GranularSynth) spawnGrain() {
	for i := range g.grains {
		if g.grains[i].active {
			continue
		}
		sprayRange := g.sprayMs * 0.001 * g.sampleRate
		start := g.playbackPos + (rand.Float64()*2-1)*sprayRange
		if start < 0 {
			start = 0
		}
		if start > float64(len(g.buffer)-2) {
			start = float64(len(g.buffer) - 2)
		}
		g.grains[i] = Grain{
			active:        true,
			startPos:      start,
			currentPos:    start,
			speed:         1.0,
			durationSamps: g.sizeMs * 0.001 * g.sampleRate,
			age:           0,
			pan:           rand.Float64()*2 - 1,
			amp:           1.0,
		}
		return
	}
}

// Process renders len(outL) samples into outL/outR, accumulating the grain
// spawn timer and gain-compensating by 1/sqrt(activeCount).
func (g *GranularSynth) Process(outL, outR []float32) {
	if len(g.buffer) < 2 {
		for i := range outL {
			outL[i] = 0
			outR[i] = 0
		}
		return
	}

	for i := range outL {
		if g.density > 0 {
			g.spawnAccum += 1
			samplesPerGrain := g.sampleRate / g.density
			if g.spawnAccum >= samplesPerGrain {
				g.spawnAccum -= samplesPerGrain
				g.spawnGrain()
			}
		}

		var sumL, sumR float32
		active := 0
		for gi := range g.grains {
			if !g.grains[gi].active {
				continue
			}
			l, r := g.grains[gi].process(g.buffer)
			sumL += l
			sumR += r
			active++
		}
		if active > 0 {
			comp := float32(1 / math.Sqrt(float64(active)))
			sumL *= comp
			sumR *= comp
		}
		outL[i] = sumL
		outR[i] = sumR
	}
}
