// main.go - demo host: wires a Mixer to a real audio output device
//
// Exercises the render entry point the way a browser audio-worklet
// boundary would, without attempting to reproduce that boundary exactly
// (the worklet/host shim itself is out of scope).

package main

import (
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/amplitude-audio/engine"
)

const sampleRate = 44100

// mixerPlayer adapts a *engine.Mixer into an io.Reader oto can stream
// from. The active mixer is published through an atomic.Pointer so
// Read never blocks on a lock, only on an atomic load.
type mixerPlayer struct {
	mixer     atomic.Pointer[engine.Mixer]
	scratchL  []float32
	scratchR  []float32
}

func newMixerPlayer() *mixerPlayer {
	return &mixerPlayer{
		scratchL: make([]float32, 4096),
		scratchR: make([]float32, 4096),
	}
}

func (p *mixerPlayer) setMixer(m *engine.Mixer) {
	p.mixer.Store(m)
}

// Read fills buf with interleaved stereo float32 LE bytes.
func (p *mixerPlayer) Read(buf []byte) (int, error) {
	m := p.mixer.Load()
	if m == nil {
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), nil
	}

	frames := len(buf) / 8 // 2 channels * 4 bytes
	if frames == 0 {
		return 0, nil
	}
	if cap(p.scratchL) < frames {
		p.scratchL = make([]float32, frames)
		p.scratchR = make([]float32, frames)
	}
	l := p.scratchL[:frames]
	r := p.scratchR[:frames]

	m.Process(l, r)

	for i := 0; i < frames; i++ {
		putFloat32LE(buf[i*8:], l[i])
		putFloat32LE(buf[i*8+4:], r[i])
	}
	return frames * 8, nil
}

func putFloat32LE(buf []byte, v float32) {
	bits := math.Float32bits(v)
	buf[0] = byte(bits)
	buf[1] = byte(bits >> 8)
	buf[2] = byte(bits >> 16)
	buf[3] = byte(bits >> 24)
}

func buildDemoProject() *engine.Mixer {
	m := engine.NewMixer(sampleRate)

	synthTrackID := m.AddTrack()
	synthTrack := m.Tracks[len(m.Tracks)-1]
	synthTrack.EnableSynth()

	clip := engine.NewMidiClip("demo riff", sampleRate*2)
	notes := []uint8{60, 64, 67, 72}
	for i, note := range notes {
		start := uint64(i) * sampleRate / 2
		clip.AddNote(0, note, 100, start, sampleRate/2)
	}
	clip.SortEvents()
	synthTrack.MidiClips = append(synthTrack.MidiClips, engine.PlacedMidiClip{StartTime: 0, Inner: clip})

	audioTrackID := m.AddTrack()
	audioTrack := m.Tracks[len(m.Tracks)-1]

	loopSamples := sampleRate // 1 second of generated tone
	left := make([]float32, loopSamples)
	right := make([]float32, loopSamples)
	for i := range left {
		v := float32(math.Sin(2*math.Pi*220*float64(i)/sampleRate)) * 0.3
		left[i] = v
		right[i] = v
	}
	m.AddSample("demo-tone", left, right)
	audioTrack.Clips = append(audioTrack.Clips, engine.Clip{
		StartTime: 0,
		Duration:  uint64(loopSamples) * 4,
		Offset:    0,
		AssetID:   "demo-tone",
	})
	audioTrack.Loop = engine.LoopState{Enabled: true, Start: 0, End: float64(loopSamples)}

	log.Printf("amplitude: demo project: synth track %d, audio track %d", synthTrackID, audioTrackID)

	m.SetPlaying(true)
	return m
}

func main() {
	player := newMixerPlayer()

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4096,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		log.Fatalf("amplitude: failed to open audio context: %v", err)
	}
	<-ready

	m := buildDemoProject()
	player.setMixer(m)

	otoPlayer := ctx.NewPlayer(player)
	otoPlayer.Play()
	defer otoPlayer.Close()

	log.Println("amplitude: playing demo project, ctrl-c to stop")
	time.Sleep(10 * time.Second)
}
