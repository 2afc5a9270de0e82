// Package rotary decodes the two-line signal of a quadrature rotary
// encoder into discrete rotation events, optionally augmented with a
// normalized angular-velocity scalar for exponential-feel UI
// acceleration.
//
// The package performs no I/O and owns no clock: firmware samples the DT
// and CLK lines (by polling or from a pin-change interrupt), supplies a
// monotonic millisecond timestamp, and receives a Direction back. All
// decoding work happens in constant time without allocation, so every
// entry point is safe to call from an interrupt service routine.
//
// # Basic Usage
//
// Bind the two line capabilities and drive Update from the interrupt
// vector or polling loop:
//
//	enc, _ := rotary.New(dtPin, clkPin, rotary.WithMode(decode.ModeHalfStepDebounce))
//
//	// In the pin-change ISR or polling loop:
//	switch enc.Update(millis()) {
//	case decode.Clockwise:
//	    value++
//	case decode.Anticlockwise:
//	    value--
//	}
//
// With velocity for exponential stepping, decayed from the main loop:
//
//	enc, _ := rotary.New(dtPin, clkPin, rotary.WithVelocity())
//
//	// ISR:
//	if dir := enc.Update(millis()); dir != decode.None {
//	    value += step(dir) * (1 + 9*enc.Velocity())
//	}
//
//	// Main loop, periodically:
//	enc.DecayVelocity()
//
// # Package Structure
//
// This package is a thin session wrapper. The decoding state machines
// live in the decode package and are usable on their own with literal
// boolean sequences (no hardware capability required); velocity holds
// the spin-speed estimator and trace the capture/replay diagnostics.
package rotary

import (
	"errors"
	"fmt"

	"github.com/ost-ing/rotary/decode"
	"github.com/ost-ing/rotary/internal/options"
	"github.com/ost-ing/rotary/trace"
	"github.com/ost-ing/rotary/velocity"
)

// Line is the capability to read one digital input line.
//
// A read failure is deliberately indistinguishable from a low level: the
// decoder folds errors to false, since the transition tables need a
// concrete boolean per line and a floating read is noise the tables
// already self-heal from.
type Line interface {
	IsHigh() (bool, error)
}

// Encoder binds two Line capabilities to one decoding strategy, with an
// optional velocity estimator and an optional capture recorder.
//
// An Encoder performs no locking; serialize calls as described in the
// decode package.
type Encoder struct {
	pinDT  Line
	pinCLK Line

	dec *decode.Decoder
	vel *velocity.Estimator
	rec *trace.Recorder
}

// Option configures New.
type Option = options.Option[*Encoder]

// WithMode selects the decoding strategy. The default is
// decode.ModeFullStep.
func WithMode(m decode.Mode) Option {
	return options.New(func(e *Encoder) error {
		switch m {
		case decode.ModeFullStep:
			e.dec = decode.NewFullStep()
		case decode.ModeHalfStepDebounce:
			e.dec = decode.NewHalfStepDebounce()
		case decode.ModeEdge:
			e.dec = decode.NewEdge()
		case decode.ModeThreshold:
			e.dec = decode.NewThreshold(decode.DefaultThreshold)
		default:
			return fmt.Errorf("unknown decode mode: %d", m)
		}

		return nil
	})
}

// WithThreshold selects decode.ModeThreshold with the given sensitivity
// threshold.
func WithThreshold(threshold uint8) Option {
	return options.NoError(func(e *Encoder) {
		e.dec = decode.NewThreshold(threshold)
	})
}

// WithDebounceWindows selects decode.ModeHalfStepDebounce with custom
// quiet windows in milliseconds.
func WithDebounceWindows(fullMillis, halfMillis uint64) Option {
	return options.NoError(func(e *Encoder) {
		e.dec = decode.NewHalfStepDebounce()
		e.dec.SetDebounceWindows(fullMillis, halfMillis)
	})
}

// WithVelocity attaches a velocity estimator with the default tuning.
func WithVelocity() Option {
	return options.NoError(func(e *Encoder) {
		e.vel = velocity.NewEstimator()
	})
}

// WithEstimator attaches a caller-tuned velocity estimator.
func WithEstimator(est *velocity.Estimator) Option {
	return options.NoError(func(e *Encoder) {
		e.vel = est
	})
}

// WithCapture attaches a trace recorder that captures every sampled
// update into a ring of the given capacity (see trace.NewRecorder).
func WithCapture(capacity int) Option {
	return options.NoError(func(e *Encoder) {
		e.rec = trace.NewRecorder(capacity)
	})
}

// New creates an Encoder bound to the two line capabilities. Without
// options it decodes in decode.ModeFullStep with no velocity estimation
// and no capture.
func New(pinDT, pinCLK Line, opts ...Option) (*Encoder, error) {
	e := &Encoder{pinDT: pinDT, pinCLK: pinCLK}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}
	if e.dec == nil {
		e.dec = decode.NewFullStep()
	}

	return e, nil
}

// Sample reads the current level of both lines, folding read failures to
// low.
func (e *Encoder) Sample() decode.Sample {
	return decode.Sample{
		DT:  readLevel(e.pinDT),
		CLK: readLevel(e.pinCLK),
	}
}

// Update samples both lines and advances the decoding strategy, feeding
// the result into the velocity estimator and the capture recorder when
// attached. nowMillis is the caller's monotonically non-decreasing
// millisecond clock.
func (e *Encoder) Update(nowMillis uint64) decode.Direction {
	s := e.Sample()
	if e.rec != nil {
		e.rec.Record(s, nowMillis)
	}

	dir := e.dec.Update(s, nowMillis)
	if e.vel != nil {
		e.vel.Update(dir, nowMillis)
	}

	return dir
}

// Direction returns the result of the most recent Update.
func (e *Encoder) Direction() decode.Direction {
	return e.dec.Direction()
}

// Velocity returns the current spin speed in [0,1], or 0 when no
// estimator is attached.
func (e *Encoder) Velocity() float64 {
	if e.vel == nil {
		return 0.0
	}

	return e.vel.Velocity()
}

// DecayVelocity cools the velocity down by one decrement step. Call it
// periodically from a timer or the main loop; it is a no-op without an
// estimator.
func (e *Encoder) DecayVelocity() {
	if e.vel != nil {
		e.vel.Decay()
	}
}

// TickVelocity cools the velocity down scaled by dt seconds of elapsed
// frame time. No-op without an estimator.
func (e *Encoder) TickVelocity(dt float64) {
	if e.vel != nil {
		e.vel.Tick(dt)
	}
}

// Decoder returns the inner decoder, e.g. for tuning setters or
// Snapshot diagnostics.
func (e *Encoder) Decoder() *decode.Decoder {
	return e.dec
}

// Estimator returns the attached velocity estimator, nil if none.
func (e *Encoder) Estimator() *velocity.Estimator {
	return e.vel
}

// Recorder returns the attached capture recorder, nil if none.
func (e *Encoder) Recorder() *trace.Recorder {
	return e.rec
}

// ExportTrace encodes the current capture into a trace blob. It returns
// an error when no recorder is attached.
func (e *Encoder) ExportTrace(opts ...trace.EncoderOption) ([]byte, error) {
	if e.rec == nil {
		return nil, errors.New("no capture recorder attached")
	}

	return trace.Encode(e.rec.Records(), opts...)
}

// Pins returns the two line capabilities without releasing them, e.g.
// for clearing a hardware interrupt flag.
func (e *Encoder) Pins() (Line, Line) {
	return e.pinDT, e.pinCLK
}

// Release detaches and returns the two line capabilities. Afterwards the
// Encoder reads both lines as permanently low.
func (e *Encoder) Release() (Line, Line) {
	dt, clk := e.pinDT, e.pinCLK
	e.pinDT = nil
	e.pinCLK = nil

	return dt, clk
}

func readLevel(l Line) bool {
	if l == nil {
		return false
	}

	high, err := l.IsHigh()
	if err != nil {
		return false
	}

	return high
}
