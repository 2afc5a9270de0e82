package decode

// Transition table encoding: the low nibble of every entry is the next
// state index, and bits 4-5 carry the direction flag for the transition
// that produced it. All impossible transitions fold back to the start
// state, which makes the tables self-healing against line noise.
const (
	dirFlagCW   uint8 = 0x10
	dirFlagCCW  uint8 = 0x20
	dirFlagMask uint8 = 0x30
	stateMask   uint8 = 0x0F
)

// Full-step states. The detent rests at line state 00; direction fires on
// the transition that completes the cycle back into the detent.
const (
	rStart    uint8 = 0x00
	fCWFinal  uint8 = 0x01
	fCWBegin  uint8 = 0x02
	fCWNext   uint8 = 0x03
	fCCWBegin uint8 = 0x04
	fCCWFinal uint8 = 0x05
	fCCWNext  uint8 = 0x06
)

// fullStepTable is indexed by [state & stateMask][Sample.Bits()].
// Column order: line state 00, 01, 10, 11.
var fullStepTable = [7][4]uint8{
	rStart:    {rStart, fCWBegin, fCCWBegin, rStart},
	fCWFinal:  {rStart | dirFlagCW, rStart, fCWFinal, fCWNext},
	fCWBegin:  {rStart, fCWBegin, rStart, fCWNext},
	fCWNext:   {rStart, fCWBegin, fCWFinal, fCWNext},
	fCCWBegin: {rStart, rStart, fCCWBegin, fCCWNext},
	fCCWFinal: {rStart | dirFlagCCW, fCCWFinal, rStart, fCCWNext},
	fCCWNext:  {rStart, fCCWFinal, fCCWBegin, fCCWNext},
}

// Half-step states. Half steps fire at both rest points (00 and 11), so a
// full mechanical detent yields two events.
const (
	hCCWBegin  uint8 = 0x01
	hCWBegin   uint8 = 0x02
	hStartM    uint8 = 0x03
	hCWBeginM  uint8 = 0x04
	hCCWBeginM uint8 = 0x05
)

// halfStepTable is indexed by [state & stateMask][Sample.Bits()].
// Column order: line state 00, 01, 10, 11.
var halfStepTable = [6][4]uint8{
	rStart:     {rStart, hCWBegin, hCCWBegin, hStartM},
	hCCWBegin:  {rStart, rStart, hCCWBegin, hStartM | dirFlagCCW},
	hCWBegin:   {rStart, hCWBegin, rStart, hStartM | dirFlagCW},
	hStartM:    {rStart, hCCWBeginM, hCWBeginM, hStartM},
	hCWBeginM:  {rStart | dirFlagCW, hStartM, hCWBeginM, hStartM},
	hCCWBeginM: {rStart | dirFlagCCW, hCCWBeginM, hStartM, hStartM},
}

// quadDeltaTable maps (prev<<2 | curr) to a signed step delta: +1 for a
// valid clockwise transition, -1 for anticlockwise, 0 for no movement or
// a skipped (invalid) state.
var quadDeltaTable = [16]int8{
	0,  // 00 -> 00
	1,  // 00 -> 01  CW
	-1, // 00 -> 10  CCW
	0,  // 00 -> 11  invalid
	-1, // 01 -> 00  CCW
	0,  // 01 -> 01
	0,  // 01 -> 10  invalid
	1,  // 01 -> 11  CW
	1,  // 10 -> 00  CW
	0,  // 10 -> 01  invalid
	0,  // 10 -> 10
	-1, // 10 -> 11  CCW
	0,  // 11 -> 00  invalid
	-1, // 11 -> 01  CCW
	1,  // 11 -> 10  CW
	0,  // 11 -> 11
}

// tableDirection extracts the direction flag embedded in a table entry.
func tableDirection(state uint8) Direction {
	switch state & dirFlagMask {
	case dirFlagCW:
		return Clockwise
	case dirFlagCCW:
		return Anticlockwise
	default:
		return None
	}
}

// FullStepAdvance advances the full-step transition table by one sample.
//
// It is a pure function over (state, sample): the returned next state is
// the only history the machine needs, and the returned Direction is
// non-None exactly when the sample completes a full detent cycle.
// The initial state is 0.
func FullStepAdvance(state uint8, s Sample) (uint8, Direction) {
	next := fullStepTable[state&stateMask][s.Bits()]

	return next, tableDirection(next)
}

// HalfStepAdvance advances the half-step transition table by one sample.
//
// Like FullStepAdvance but fires after half a mechanical detent, which is
// faster to react yet noisier; pair it with a debounce policy for
// mechanical encoders. The initial state is 0.
func HalfStepAdvance(state uint8, s Sample) (uint8, Direction) {
	next := halfStepTable[state&stateMask][s.Bits()]

	return next, tableDirection(next)
}

// QuadDelta returns the signed step delta for the transition from the
// previous to the current 2-bit line state: +1 clockwise, -1
// anticlockwise, 0 for no movement or an invalid (skipped) transition.
func QuadDelta(prev, curr uint8) int8 {
	return quadDeltaTable[(prev&0x03)<<2|(curr&0x03)]
}
