package decode

// Sample is the instantaneous level of the two encoder lines.
//
// Samples are passed by value and carry no ownership; a failed hardware
// read must be presented as a low level (false) rather than as an error,
// since the transition tables assume a concrete boolean per line.
type Sample struct {
	DT  bool
	CLK bool
}

// Bits packs the sample into the 2-bit line state used by the transition
// tables: DT in bit 0, CLK in bit 1.
func (s Sample) Bits() uint8 {
	var b uint8
	if s.DT {
		b |= 0x01
	}
	if s.CLK {
		b |= 0x02
	}

	return b
}

// SampleFromBits unpacks a 2-bit line state produced by Sample.Bits.
// Bits above the low two are ignored.
func SampleFromBits(b uint8) Sample {
	return Sample{
		DT:  b&0x01 != 0,
		CLK: b&0x02 != 0,
	}
}
