package decode

// Shift-register edge detection. Each line keeps a per-sample bit
// history; only the last two samples take part in the decision.
const (
	histMask    uint8 = 0x03 // last two samples of a line history
	fallingEdge uint8 = 0x02 // high one sample ago, low now
)

// EdgeDetect reports a rotation event from the two line histories as
// maintained by a ModeEdge Decoder (newest sample in bit 0).
//
// A falling edge on DT while CLK is steadily low is anticlockwise; a
// falling edge on CLK while DT is steadily low is clockwise. Every other
// combination is None. The heuristic needs no transition table and no
// debounce, which makes it the cheapest strategy for high-frequency
// polling, at the cost of less robustness against contact bounce.
func EdgeDetect(dtHistory, clkHistory uint8) Direction {
	a := dtHistory & histMask
	b := clkHistory & histMask

	if a == fallingEdge && b == 0x00 {
		return Anticlockwise
	}
	if b == fallingEdge && a == 0x00 {
		return Clockwise
	}

	return None
}

// shiftLevel shifts the current line level into bit 0 of a history.
func shiftLevel(history uint8, high bool) uint8 {
	history <<= 1
	if high {
		history |= 0x01
	}

	return history
}
