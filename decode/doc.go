// Package decode implements the signal-to-direction decoding core for
// quadrature rotary encoders.
//
// A quadrature encoder produces two square waves (DT and CLK) 90° out of
// phase; the relative phase of the two lines encodes the rotation sense.
// This package turns a stream of instantaneous line-level pairs into
// discrete rotation events without performing any I/O itself: the caller
// samples the lines (by polling or from a pin-change interrupt) and feeds
// each Sample, together with a monotonic millisecond timestamp, into a
// Decoder.
//
// # Decoding modes
//
// Exactly one decoding strategy is bound to a Decoder at construction
// time:
//
//   - ModeFullStep: a 7-state transition table that reports one event per
//     full mechanical detent. Robust, but a badly bouncing encoder can
//     occasionally swallow a detent.
//   - ModeHalfStepDebounce: full-step and half-step tables evaluated in
//     parallel with dual quiet-window debouncing. Best for bounce-prone
//     mechanical encoders; trades a little latency for no double counts.
//   - ModeEdge: a two-sample shift-register edge detector. Cheapest per
//     call and intended for high-frequency polling (≈900 Hz); no
//     table and no debounce.
//   - ModeThreshold: a 16-entry signed delta table whose per-transition
//     deltas accumulate until a configurable threshold is crossed.
//     Suited to detentless encoders.
//
// # Purity and hot-path guarantees
//
// The table math is exposed as pure functions (FullStepAdvance,
// HalfStepAdvance, QuadDelta, EdgeDetect) so it can be exercised with
// literal boolean sequences and no hardware at all. Every operation is
// constant time, allocation free and lock free; a Decoder assumes at most
// one concurrent mutator and is safe to drive directly from an interrupt
// service routine.
//
// # Sample convention
//
// The 2-bit packed line state places DT in bit 0 and CLK in bit 1. Both
// lines low (0b00) is the resting detent position; a clockwise detent
// traverses 00→01→11→10→00 and an anticlockwise detent the mirror image.
package decode
