// Package velocity derives a normalized [0,1] "spin speed" from the
// timing of detected rotation steps.
//
// The value is not a physical angular rate: it is a dimensionless proxy
// that rises while steps arrive close together and cools down while they
// do not, intended for exponential-feel acceleration of UI values driven
// by a rotary encoder.
//
// Two decay models are supported and may be mixed freely:
//
//   - Decay: fixed decrement per call, driven by a periodic timer or the
//     main loop, independent of the decode cadence.
//   - Tick: decrement scaled by elapsed real time, for frame-rate
//     independent cool-down in UIs polling at a fixed refresh rate.
//
// Like the decode package, an Estimator allocates nothing, never blocks
// and assumes at most one concurrent mutator.
package velocity

import "github.com/ost-ing/rotary/decode"

// Defaults tuned for a hand-turned detented knob.
const (
	// DefaultIncFactor is how much a qualifying step raises the velocity.
	DefaultIncFactor = 0.2
	// DefaultDecFactor is how much each Decay call lowers the velocity.
	DefaultDecFactor = 0.01
	// DefaultActionWindowMillis is the step-to-step interval below which
	// a step qualifies as "fast" and raises the velocity.
	DefaultActionWindowMillis uint64 = 25
	// DefaultDecayRate is the Tick cool-down in velocity units per second.
	DefaultDecayRate = 0.4
)

// Estimator maintains the normalized spin speed.
//
// The value is clamped to [0,1] after every mutation; external readers
// can never observe a value outside that range.
type Estimator struct {
	velocity     float64
	incFactor    float64
	decFactor    float64
	decayRate    float64
	actionWindow uint64

	lastStepMillis uint64
	seenStep       bool
}

// NewEstimator creates an Estimator with the default tuning.
func NewEstimator() *Estimator {
	return &Estimator{
		incFactor:    DefaultIncFactor,
		decFactor:    DefaultDecFactor,
		decayRate:    DefaultDecayRate,
		actionWindow: DefaultActionWindowMillis,
	}
}

// SetIncFactor sets how quickly the velocity rises toward 1.0.
func (e *Estimator) SetIncFactor(inc float64) {
	e.incFactor = inc
}

// SetDecFactor sets how much each Decay call cools the velocity down.
func (e *Estimator) SetDecFactor(dec float64) {
	e.decFactor = dec
}

// SetActionWindow sets the step-to-step interval, in milliseconds, below
// which a detected step raises the velocity.
func (e *Estimator) SetActionWindow(millis uint64) {
	e.actionWindow = millis
}

// SetDecayRate sets the Tick cool-down in velocity units per second.
func (e *Estimator) SetDecayRate(perSecond float64) {
	e.decayRate = perSecond
}

// Update feeds one decode result into the estimator.
//
// A None direction leaves the velocity untouched. A detected step raises
// the velocity by the increment factor when it follows the previous
// detected step within the action window; the very first step only
// starts the clock. nowMillis must come from the same monotonic clock as
// the decode calls; a clock that moves backwards reads as zero elapsed
// time (saturating subtraction).
func (e *Estimator) Update(dir decode.Direction, nowMillis uint64) {
	if dir == decode.None {
		return
	}

	if e.seenStep && elapsedMillis(nowMillis, e.lastStepMillis) < e.actionWindow {
		e.velocity += e.incFactor
		if e.velocity > 1.0 {
			e.velocity = 1.0
		}
	}

	e.seenStep = true
	e.lastStepMillis = nowMillis
}

// Decay cools the velocity down by the decrement factor. Call it
// periodically from a timer or the main loop; its cadence is independent
// of Update.
func (e *Estimator) Decay() {
	e.velocity -= e.decFactor
	if e.velocity < 0.0 {
		e.velocity = 0.0
	}
}

// Tick cools the velocity down by the decay rate scaled with the elapsed
// time dt in seconds. Negative dt is ignored.
func (e *Estimator) Tick(dt float64) {
	if dt <= 0 {
		return
	}

	e.velocity -= e.decayRate * dt
	if e.velocity < 0.0 {
		e.velocity = 0.0
	}
}

// Velocity returns the current spin speed in [0,1]. Idempotent read.
func (e *Estimator) Velocity() float64 {
	return e.velocity
}

// Reset returns the estimator to a cold state, keeping its tuning.
func (e *Estimator) Reset() {
	e.velocity = 0.0
	e.lastStepMillis = 0
	e.seenStep = false
}

func elapsedMillis(now, prev uint64) uint64 {
	if now < prev {
		return 0
	}

	return now - prev
}
