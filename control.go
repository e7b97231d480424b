// control.go - control-plane parameter setters and command encoding

package engine

import (
	"encoding/binary"
	"math"
)

// CommandKind tags one fixed-layout scalar command carried over the
// ring buffer. Heavier payloads (add_sample, update_track_effects,
// load_project) bypass the ring buffer entirely — see the pending
// mailbox in mixer.go (AddSample, drainHeavyOps).
type CommandKind uint8

const (
	CmdSetPlaying CommandKind = iota
	CmdSeekToSample
	CmdSetTrackGain
	CmdSetTrackPan
	CmdSetTrackEQ
	CmdSetTrackFilter
	CmdSetCrossfaderPosition
	CmdSetTrackCrossfaderGroup
	CmdSetTrackPlaybackRate
	CmdSetTrackScratch
	CmdSetTrackFXStutter
	CmdSetTrackFXTapeStop
	CmdSetTrackLoop
	CmdStartTrackLoopSeconds
)

// commandSize is the fixed wire size of every scalar Command: 1 byte
// kind, 4 bytes track id, 4 float64 args, 1 bool flag.
const commandSize = 1 + 4 + 8*4 + 1

// Command is the decoded form of one scalar control-plane message.
type Command struct {
	Kind    CommandKind
	TrackID uint32
	Args    [4]float64
	Flag    bool
}

func encodeCommand(c Command) []byte {
	buf := make([]byte, commandSize)
	buf[0] = byte(c.Kind)
	binary.LittleEndian.PutUint32(buf[1:5], c.TrackID)
	for i, a := range c.Args {
		off := 5 + i*8
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(a))
	}
	if c.Flag {
		buf[commandSize-1] = 1
	}
	return buf
}

func decodeCommand(buf []byte) Command {
	var c Command
	c.Kind = CommandKind(buf[0])
	c.TrackID = binary.LittleEndian.Uint32(buf[1:5])
	for i := range c.Args {
		off := 5 + i*8
		c.Args[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
	}
	c.Flag = buf[commandSize-1] != 0
	return c
}

func (m *Mixer) enqueue(c Command) {
	m.commands.Write(encodeCommand(c))
}

// SetPlaying enqueues a playback start/stop.
func (m *Mixer) SetPlaying(playing bool) {
	m.enqueue(Command{Kind: CmdSetPlaying, Flag: playing})
}

// SeekToSample enqueues a timeline seek.
func (m *Mixer) SeekToSample(sample uint64) {
	m.enqueue(Command{Kind: CmdSeekToSample, Args: [4]float64{float64(sample)}})
}

// SetTrackGain enqueues a track gain change in dB.
func (m *Mixer) SetTrackGain(id uint32, db float64) {
	m.enqueue(Command{Kind: CmdSetTrackGain, TrackID: id, Args: [4]float64{db}})
}

// SetTrackPan enqueues a track pan change (-1..1).
func (m *Mixer) SetTrackPan(id uint32, pan float64) {
	m.enqueue(Command{Kind: CmdSetTrackPan, TrackID: id, Args: [4]float64{pan}})
}

// SetTrackEQ enqueues a 3-band EQ gain change (dB).
func (m *Mixer) SetTrackEQ(id uint32, lowDB, midDB, highDB float64) {
	m.enqueue(Command{Kind: CmdSetTrackEQ, TrackID: id, Args: [4]float64{lowDB, midDB, highDB}})
}

// SetTrackFilter enqueues a DJ filter knob change, v in -1..1: |v|<0.05
// bypasses at a 20 kHz low-pass; v<0 sweeps a low-pass cutoff down;
// v>0 sweeps a high-pass cutoff up.
func (m *Mixer) SetTrackFilter(id uint32, v float64) {
	m.enqueue(Command{Kind: CmdSetTrackFilter, TrackID: id, Args: [4]float64{v}})
}

// SetCrossfaderPosition enqueues a crossfader position change (-1..1).
func (m *Mixer) SetCrossfaderPosition(xf float64) {
	m.enqueue(Command{Kind: CmdSetCrossfaderPosition, Args: [4]float64{xf}})
}

// SetTrackCrossfaderGroup enqueues a crossfader group assignment:
// group<0 -> A, group>0 -> B, else Thru.
func (m *Mixer) SetTrackCrossfaderGroup(id uint32, group float64) {
	m.enqueue(Command{Kind: CmdSetTrackCrossfaderGroup, TrackID: id, Args: [4]float64{group}})
}

// SetTrackPlaybackRate enqueues a playback-rate change.
func (m *Mixer) SetTrackPlaybackRate(id uint32, rate float64) {
	m.enqueue(Command{Kind: CmdSetTrackPlaybackRate, TrackID: id, Args: [4]float64{rate}})
}

// SetTrackScratch enqueues a scratch velocity change.
func (m *Mixer) SetTrackScratch(id uint32, velocity float64) {
	m.enqueue(Command{Kind: CmdSetTrackScratch, TrackID: id, Args: [4]float64{velocity}})
}

// SetTrackFXStutter enqueues a stutter FX toggle.
func (m *Mixer) SetTrackFXStutter(id uint32, on bool) {
	m.enqueue(Command{Kind: CmdSetTrackFXStutter, TrackID: id, Flag: on})
}

// SetTrackFXTapeStop enqueues a tape-stop FX toggle.
func (m *Mixer) SetTrackFXTapeStop(id uint32, on bool) {
	m.enqueue(Command{Kind: CmdSetTrackFXTapeStop, TrackID: id, Flag: on})
}

// SetTrackLoop enqueues a loop region change.
func (m *Mixer) SetTrackLoop(id uint32, enabled bool, start, end float64) {
	m.enqueue(Command{Kind: CmdSetTrackLoop, TrackID: id, Args: [4]float64{start, end}, Flag: enabled})
}

// StartTrackLoopSeconds enqueues a loop start anchored at the track's
// current playhead, spanning seconds.
func (m *Mixer) StartTrackLoopSeconds(id uint32, seconds float64) {
	m.enqueue(Command{Kind: CmdStartTrackLoopSeconds, TrackID: id, Args: [4]float64{seconds}})
}

// applyCommand mutates Mixer/Track state for one decoded command. Only
// ever called from Drain, on the render thread.
func (m *Mixer) applyCommand(c Command) {
	switch c.Kind {
	case CmdSetPlaying:
		m.IsPlaying = c.Flag
	case CmdSeekToSample:
		m.CurrentTime = uint64(c.Args[0])
	case CmdSetTrackGain:
		if t := m.track(c.TrackID); t != nil {
			t.Gain.SetGain(float32(dbToLinear(c.Args[0])))
		}
	case CmdSetTrackPan:
		if t := m.track(c.TrackID); t != nil {
			t.Pan = float32(clampF64(c.Args[0], -1, 1))
		}
	case CmdSetTrackEQ:
		if t := m.track(c.TrackID); t != nil {
			t.Eq.SetGains(c.Args[0], c.Args[1], c.Args[2])
		}
	case CmdSetTrackFilter:
		if t := m.track(c.TrackID); t != nil {
			applyDJFilter(t.Filter, c.Args[0])
		}
	case CmdSetCrossfaderPosition:
		m.CrossfaderPosition = clampF64(c.Args[0], -1, 1)
	case CmdSetTrackCrossfaderGroup:
		if t := m.track(c.TrackID); t != nil {
			switch {
			case c.Args[0] < 0:
				t.CrossfaderGroup = CrossfaderA
			case c.Args[0] > 0:
				t.CrossfaderGroup = CrossfaderB
			default:
				t.CrossfaderGroup = CrossfaderThru
			}
		}
	case CmdSetTrackPlaybackRate:
		if t := m.track(c.TrackID); t != nil {
			t.PlaybackRate = c.Args[0]
		}
	case CmdSetTrackScratch:
		if t := m.track(c.TrackID); t != nil {
			t.ScratchVelocity = c.Args[0]
		}
	case CmdSetTrackFXStutter:
		if t := m.track(c.TrackID); t != nil {
			t.FXStutter = c.Flag
		}
	case CmdSetTrackFXTapeStop:
		if t := m.track(c.TrackID); t != nil {
			t.FXTapeStop = c.Flag
		}
	case CmdSetTrackLoop:
		if t := m.track(c.TrackID); t != nil {
			t.Loop = LoopState{Enabled: c.Flag, Start: c.Args[0], End: c.Args[1]}
		}
	case CmdStartTrackLoopSeconds:
		if t := m.track(c.TrackID); t != nil {
			start := t.playheadCursor
			end := start + c.Args[0]*t.sampleRate
			t.Loop = LoopState{Enabled: true, Start: start, End: end}
		}
	}
}

// applyDJFilter maps the DJ filter knob value v (-1..1) to the RBJ
// biquad parameters per spec.md §6: |v|<0.05 bypasses at a 20 kHz
// low-pass; v<0 sweeps a low-pass cutoff down toward 20 Hz; v>0 sweeps
// a high-pass cutoff up toward 15 kHz.
func applyDJFilter(f *FilterNode, v float64) {
	switch {
	case math.Abs(v) < 0.05:
		f.SetParams(20000, 0.5, BiquadLowPass)
	case v < 0:
		cutoff := 20000 * math.Pow(20.0/20000.0, -v)
		f.SetParams(cutoff, 0.5, BiquadLowPass)
	default:
		cutoff := 20 * math.Pow(15000.0/20.0, v)
		f.SetParams(cutoff, 0.5, BiquadHighPass)
	}
}

// Drain applies every complete command currently queued, in order.
// Called at the top of every Mixer.Process call — "the render thread
// drains the queue at block start" (spec.md §5).
func (m *Mixer) Drain() {
	for m.commands.Read(m.commandBuf[:]) {
		m.applyCommand(decodeCommand(m.commandBuf[:]))
	}
	m.drainHeavyOps()
}
