// adsr.go - attack/decay/sustain/release envelope generator

package engine

// AdsrStage is one state of the ADSR state machine.
type AdsrStage int

const (
	AdsrIdle AdsrStage = iota
	AdsrAttack
	AdsrDecay
	AdsrSustain
	AdsrRelease
)

// Adsr is a linear-segment attack/decay/sustain/release envelope.
// Attack ramps 0→1, decay ramps 1→sustain, release ramps current
// level→0. All rates are derived from millisecond parameters at
// trigger/release time.
type Adsr struct {
	sampleRate float64

	attackMs   float64
	decayMs    float64
	sustain    float64
	releaseMs  float64

	stage        AdsrStage
	currentLevel float64

	attackRate  float64
	decayRate   float64
	releaseRate float64
}

// NewAdsr builds an envelope bound to sampleRate.
func NewAdsr(sampleRate float64) *Adsr {
	return &Adsr{
		sampleRate: sampleRate,
		sustain:    1.0,
		stage:      AdsrIdle,
	}
}

// SetParams sets the attack/decay/release times (ms) and sustain level
// (0..1). Rates are recomputed on the next Trigger/Release call.
func (a *Adsr) SetParams(attackMs, decayMs, sustain, releaseMs float64) {
	a.attackMs = attackMs
	a.decayMs = decayMs
	a.sustain = sustain
	a.releaseMs = releaseMs
}

func (a *Adsr) calcRates() {
	a.attackRate = rateFromMs(a.attackMs, a.sampleRate)
	a.decayRate = rateFromMs(a.decayMs, a.sampleRate)
	// Scaled by sustain so a release beginning at the sustain level
	// reaches 0 in exactly releaseMs, not in releaseMs*sustain.
	a.releaseRate = a.sustain * rateFromMs(a.releaseMs, a.sampleRate)
}

func rateFromMs(ms, sampleRate float64) float64 {
	if ms <= 0 {
		return 1
	}
	samples := ms * 0.001 * sampleRate
	if samples < 1 {
		samples = 1
	}
	return 1 / samples
}

// Trigger gates the envelope on, transitioning to Attack from whatever
// level it currently holds (a retrigger ramps from the current level,
// not from zero).
func (a *Adsr) Trigger() {
	a.calcRates()
	a.stage = AdsrAttack
}

// Release gates the envelope off, transitioning to Release.
func (a *Adsr) Release() {
	a.calcRates()
	a.stage = AdsrRelease
}

// IsActive reports whether the envelope is anywhere but Idle.
func (a *Adsr) IsActive() bool {
	return a.stage != AdsrIdle
}

// Process advances the envelope by one sample and returns the current
// level.
func (a *Adsr) Process() float64 {
	switch a.stage {
	case AdsrAttack:
		a.currentLevel += a.attackRate
		if a.currentLevel >= 1 {
			a.currentLevel = 1
			a.stage = AdsrDecay
		}
	case AdsrDecay:
		a.currentLevel -= a.decayRate * (1 - a.sustain)
		if a.currentLevel <= a.sustain {
			a.currentLevel = a.sustain
			a.stage = AdsrSustain
		}
	case AdsrSustain:
		a.currentLevel = a.sustain
	case AdsrRelease:
		a.currentLevel -= a.releaseRate
		if a.currentLevel <= 0 {
			a.currentLevel = 0
			a.stage = AdsrIdle
		}
	case AdsrIdle:
		a.currentLevel = 0
	}
	return a.currentLevel
}
