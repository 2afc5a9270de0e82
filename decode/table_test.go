package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Canonical detent cycles, as 2-bit line states (CLK<<1 | DT).
var (
	cwCycle  = []uint8{0b00, 0b01, 0b11, 0b10, 0b00}
	ccwCycle = []uint8{0b00, 0b10, 0b11, 0b01, 0b00}
)

func driveFullStep(t *testing.T, state uint8, bits []uint8) (uint8, []Direction) {
	t.Helper()

	dirs := make([]Direction, 0, len(bits))
	for _, b := range bits {
		var dir Direction
		state, dir = FullStepAdvance(state, SampleFromBits(b))
		dirs = append(dirs, dir)
	}

	return state, dirs
}

func driveHalfStep(t *testing.T, state uint8, bits []uint8) (uint8, []Direction) {
	t.Helper()

	dirs := make([]Direction, 0, len(bits))
	for _, b := range bits {
		var dir Direction
		state, dir = HalfStepAdvance(state, SampleFromBits(b))
		dirs = append(dirs, dir)
	}

	return state, dirs
}

func countNonNone(dirs []Direction) (int, Direction) {
	n := 0
	last := None
	for _, d := range dirs {
		if d != None {
			n++
			last = d
		}
	}

	return n, last
}

func TestFullStepAdvance_CanonicalCWCycle(t *testing.T) {
	state, dirs := driveFullStep(t, 0, cwCycle)

	n, last := countNonNone(dirs)
	require.Equal(t, 1, n)
	require.Equal(t, Clockwise, last)
	require.Equal(t, uint8(0), state&stateMask, "machine must return to start after a full detent")
}

func TestFullStepAdvance_CanonicalCCWCycle(t *testing.T) {
	state, dirs := driveFullStep(t, 0, ccwCycle)

	n, last := countNonNone(dirs)
	require.Equal(t, 1, n)
	require.Equal(t, Anticlockwise, last)
	require.Equal(t, uint8(0), state&stateMask)
}

func TestFullStepAdvance_RepeatedSamplesDoNotFire(t *testing.T) {
	// Polling granularity must not matter: repeating every sample of the
	// cycle still yields exactly one event.
	var stretched []uint8
	for _, b := range cwCycle {
		stretched = append(stretched, b, b, b)
	}

	_, dirs := driveFullStep(t, 0, stretched)

	n, last := countNonNone(dirs)
	require.Equal(t, 1, n)
	require.Equal(t, Clockwise, last)
}

func TestFullStepAdvance_InvalidTransitionHealsToStart(t *testing.T) {
	// 00 -> 01 enters the CW path, then the impossible 01 -> 10 jump
	// (both lines flipping at once) folds back to start.
	state, dir := FullStepAdvance(0, SampleFromBits(0b01))
	require.Equal(t, None, dir)

	state, dir = FullStepAdvance(state, SampleFromBits(0b10))
	require.Equal(t, None, dir)
	require.Equal(t, uint8(0), state&stateMask)
}

func TestFullStepAdvance_ForwardReverseRoundTrip(t *testing.T) {
	forward := []uint8{0b00, 0b01, 0b11}
	reverse := []uint8{0b11, 0b01, 0b00}

	state, _ := driveFullStep(t, 0, forward)
	require.NotEqual(t, uint8(0), state&stateMask)

	state, dirs := driveFullStep(t, state, reverse)
	require.Equal(t, uint8(0), state&stateMask, "reverse traversal must unwind the machine")

	n, _ := countNonNone(dirs)
	require.Equal(t, 0, n, "a partial forward+reverse traversal is not a detent")
}

func TestHalfStepAdvance_CWCycleFiresTwice(t *testing.T) {
	state, dirs := driveHalfStep(t, 0, cwCycle)

	n, last := countNonNone(dirs)
	require.Equal(t, 2, n, "half-step resolution yields two events per detent")
	require.Equal(t, Clockwise, last)
	require.Equal(t, uint8(0), state&stateMask)
}

func TestHalfStepAdvance_CCWCycleFiresTwice(t *testing.T) {
	_, dirs := driveHalfStep(t, 0, ccwCycle)

	n, last := countNonNone(dirs)
	require.Equal(t, 2, n)
	require.Equal(t, Anticlockwise, last)
}

func TestQuadDelta_ValidAndInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		prev uint8
		curr uint8
		want int8
	}{
		{"no movement", 0b00, 0b00, 0},
		{"cw pulse", 0b00, 0b01, 1},
		{"ccw pulse", 0b00, 0b10, -1},
		{"skipped state", 0b00, 0b11, 0},
		{"cw second phase", 0b01, 0b11, 1},
		{"ccw from detent", 0b11, 0b01, -1},
		{"invalid reverse skip", 0b11, 0b00, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, QuadDelta(tt.prev, tt.curr))
		})
	}
}

func TestQuadDelta_FullCycleSumsToFour(t *testing.T) {
	var sum int8
	prev := cwCycle[0]
	for _, curr := range cwCycle[1:] {
		sum += QuadDelta(prev, curr)
		prev = curr
	}
	require.Equal(t, int8(4), sum, "a full CW detent is four +1 pulses")
}

func TestSample_BitsRoundTrip(t *testing.T) {
	for b := uint8(0); b < 4; b++ {
		require.Equal(t, b, SampleFromBits(b).Bits())
	}

	require.Equal(t, uint8(0b01), Sample{DT: true}.Bits())
	require.Equal(t, uint8(0b10), Sample{CLK: true}.Bits())
}
