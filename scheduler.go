// scheduler.go - timeline cursor and automation lane sampling

package engine

import (
	"math"
	"sort"
)

// AutomationCurveKind is the interpolation shape between two consecutive
// AutomationPoints.
type AutomationCurveKind int

const (
	CurveLinear AutomationCurveKind = iota
	CurveStep
	CurveBezier
)

// AutomationPoint is one knot in an AutomationLane. Tension only applies
// to CurveBezier points and shapes the segment leading away from this
// point.
type AutomationPoint struct {
	Time    uint64
	Value   float64
	Curve   AutomationCurveKind
	Tension float64
}

// AutomationLane holds a time-sorted set of AutomationPoints for one
// automation target and answers point-in-time value queries via binary
// search.
type AutomationLane struct {
	Target string
	Points []AutomationPoint
}

// NewAutomationLane builds an empty lane for target.
func NewAutomationLane(target string) *AutomationLane {
	return &AutomationLane{Target: target}
}

// AddPoint inserts a point in sorted order, replacing any existing
// point at the same time.
func (a *AutomationLane) AddPoint(p AutomationPoint) {
	idx := sort.Search(len(a.Points), func(i int) bool { return a.Points[i].Time >= p.Time })
	if idx < len(a.Points) && a.Points[idx].Time == p.Time {
		a.Points[idx] = p
		return
	}
	a.Points = append(a.Points, AutomationPoint{})
	copy(a.Points[idx+1:], a.Points[idx:])
	a.Points[idx] = p
}

// GetValueAt returns the lane's value at time t, clamping before the
// first point and after the last, and interpolating within a segment
// per its leading point's curve kind.
func (a *AutomationLane) GetValueAt(t uint64) float64 {
	if len(a.Points) == 0 {
		return 0
	}
	if t <= a.Points[0].Time {
		return a.Points[0].Value
	}
	last := a.Points[len(a.Points)-1]
	if t >= last.Time {
		return last.Value
	}

	idx := sort.Search(len(a.Points), func(i int) bool { return a.Points[i].Time > t }) - 1
	p0 := a.Points[idx]
	p1 := a.Points[idx+1]

	span := float64(p1.Time - p0.Time)
	if span <= 0 {
		return p0.Value
	}
	u := float64(t-p0.Time) / span

	switch p0.Curve {
	case CurveStep:
		return p0.Value
	case CurveBezier:
		var exponent float64
		if p0.Tension >= 0 {
			exponent = 1 + p0.Tension*4
		} else {
			exponent = 1 / (1 + (-p0.Tension)*4)
		}
		shaped := math.Pow(u, exponent)
		return p0.Value + (p1.Value-p0.Value)*shaped
	default: // CurveLinear
		return p0.Value + (p1.Value-p0.Value)*u
	}
}

// Scheduler is the thin, externally-facing timeline cursor: it exposes
// automation sampling keyed by target name. MIDI clip dispatch and audio
// playhead advance live on Track itself (see track.go), which owns the
// per-sample state the source draft's scheduler left underspecified.
type Scheduler struct {
	sampleRate    float64
	currentSample uint64
	lanes         map[string]*AutomationLane
}

// NewScheduler builds a Scheduler bound to sampleRate.
func NewScheduler(sampleRate float64) *Scheduler {
	return &Scheduler{sampleRate: sampleRate, lanes: make(map[string]*AutomationLane)}
}

// Lane returns (creating if necessary) the AutomationLane for target.
func (s *Scheduler) Lane(target string) *AutomationLane {
	l, ok := s.lanes[target]
	if !ok {
		l = NewAutomationLane(target)
		s.lanes[target] = l
	}
	return l
}

// Tick advances the scheduler's cursor by samples.
func (s *Scheduler) Tick(samples uint64) {
	s.currentSample += samples
}

// CurrentSample returns the scheduler's cursor position.
func (s *Scheduler) CurrentSample() uint64 {
	return s.currentSample
}

// GetAutomationValue samples target's lane at the scheduler's current
// position.
func (s *Scheduler) GetAutomationValue(target string) float64 {
	return s.Lane(target).GetValueAt(s.currentSample)
}
