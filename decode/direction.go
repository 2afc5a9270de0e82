package decode

// Direction is the rotation sense reported by a single decode call.
//
// A Direction is produced fresh on every Update; the decoder never
// accumulates rotation itself. Accumulation, if desired, is the caller's
// responsibility.
type Direction uint8

const (
	// None reports that the sample did not complete a rotation event.
	None Direction = iota
	// Clockwise reports one clockwise rotation event.
	Clockwise
	// Anticlockwise reports one anticlockwise rotation event.
	Anticlockwise
)

func (d Direction) String() string {
	switch d {
	case None:
		return "None"
	case Clockwise:
		return "Clockwise"
	case Anticlockwise:
		return "Anticlockwise"
	default:
		return "Unknown"
	}
}
