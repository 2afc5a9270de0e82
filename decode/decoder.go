package decode

// Mode identifies the decoding strategy bound to a Decoder. The set of
// modes is closed: every Decoder holds exactly one strategy for its whole
// lifetime, and all strategy state lives inside the Decoder itself.
type Mode uint8

const (
	// ModeFullStep decodes one event per full mechanical detent using the
	// 7-state transition table.
	ModeFullStep Mode = iota + 1
	// ModeHalfStepDebounce runs the full-step and half-step tables in
	// parallel behind dual time-window debouncing.
	ModeHalfStepDebounce
	// ModeEdge uses the shift-register falling-edge heuristic.
	ModeEdge
	// ModeThreshold accumulates signed quadrature deltas until a
	// configurable threshold is crossed.
	ModeThreshold
)

func (m Mode) String() string {
	switch m {
	case ModeFullStep:
		return "FullStep"
	case ModeHalfStepDebounce:
		return "HalfStepDebounce"
	case ModeEdge:
		return "Edge"
	case ModeThreshold:
		return "Threshold"
	default:
		return "Unknown"
	}
}

// Debounce window defaults for ModeHalfStepDebounce, in milliseconds.
const (
	DefaultFullWindowMillis uint64 = 80
	DefaultHalfWindowMillis uint64 = 50
)

// DefaultThreshold is the delta count required before ModeThreshold
// reports an event; 1 is maximum sensitivity.
const DefaultThreshold uint8 = 1

// Decoder decodes a stream of line samples into rotation events using
// one strategy selected at construction time.
//
// A Decoder performs no locking and expects at most one concurrent
// mutator (typically a single interrupt vector or one polling loop).
// Update is constant time and allocation free.
type Decoder struct {
	mode      Mode
	direction Direction

	// Table cursors for the full-step and half-step machines.
	fullState uint8
	halfState uint8

	// Debounce bookkeeping for ModeHalfStepDebounce.
	lastFullMillis uint64
	lastHalfMillis uint64
	fullWindow     uint64
	halfWindow     uint64

	// Line histories for ModeEdge.
	dtHistory  uint8
	clkHistory uint8

	// Delta aggregation for ModeThreshold.
	prevBits  uint8
	count     int8
	threshold uint8
}

// NewFullStep creates a Decoder in ModeFullStep.
func NewFullStep() *Decoder {
	return &Decoder{mode: ModeFullStep}
}

// NewHalfStepDebounce creates a Decoder in ModeHalfStepDebounce with the
// default 80 ms/50 ms quiet windows.
func NewHalfStepDebounce() *Decoder {
	return &Decoder{
		mode:       ModeHalfStepDebounce,
		fullWindow: DefaultFullWindowMillis,
		halfWindow: DefaultHalfWindowMillis,
	}
}

// NewEdge creates a Decoder in ModeEdge.
func NewEdge() *Decoder {
	return &Decoder{mode: ModeEdge}
}

// NewThreshold creates a Decoder in ModeThreshold.
//
// threshold is the number of consistent same-sign deltas required before
// an event is reported; values below 1 are clamped to 1.
func NewThreshold(threshold uint8) *Decoder {
	d := &Decoder{mode: ModeThreshold}
	d.SetThreshold(threshold)

	return d
}

// Mode returns the strategy the Decoder was constructed with.
func (d *Decoder) Mode() Mode {
	return d.mode
}

// Direction returns the result of the most recent Update call. It is an
// idempotent read and never mutates decoder state.
func (d *Decoder) Direction() Direction {
	return d.direction
}

// SetDebounceWindows configures the ModeHalfStepDebounce quiet windows:
// fullMillis guards acceptance across the two tables, halfMillis guards
// consecutive half-step acceptances. The setter only stores the values;
// other modes ignore them.
func (d *Decoder) SetDebounceWindows(fullMillis, halfMillis uint64) {
	d.fullWindow = fullMillis
	d.halfWindow = halfMillis
}

// SetThreshold configures the ModeThreshold sensitivity. Values are
// clamped to [1, 127] so the signed running count cannot overflow. The
// running delta count is retained.
func (d *Decoder) SetThreshold(threshold uint8) {
	if threshold < 1 {
		threshold = 1
	}
	if threshold > 127 {
		threshold = 127
	}
	d.threshold = threshold
}

// Reset returns all strategy state to its initial value, keeping the
// mode and configured windows/threshold.
func (d *Decoder) Reset() {
	d.direction = None
	d.fullState = 0
	d.halfState = 0
	d.lastFullMillis = 0
	d.lastHalfMillis = 0
	d.dtHistory = 0
	d.clkHistory = 0
	d.prevBits = 0
	d.count = 0
}

// Update consumes one sample and returns the rotation event it completes,
// if any. nowMillis is the caller's monotonically non-decreasing
// millisecond clock; only ModeHalfStepDebounce consults it, the other
// modes accept and ignore it so that all strategies share one signature.
//
// Update also records its result, readable afterwards via Direction.
func (d *Decoder) Update(s Sample, nowMillis uint64) Direction {
	switch d.mode {
	case ModeFullStep:
		d.fullState, d.direction = FullStepAdvance(d.fullState, s)
	case ModeHalfStepDebounce:
		d.direction = d.updateDebounced(s, nowMillis)
	case ModeEdge:
		d.dtHistory = shiftLevel(d.dtHistory, s.DT)
		d.clkHistory = shiftLevel(d.clkHistory, s.CLK)
		d.direction = EdgeDetect(d.dtHistory, d.clkHistory)
	case ModeThreshold:
		d.direction = d.updateThreshold(s)
	default:
		d.direction = None
	}

	return d.direction
}

// updateDebounced runs the full-step and half-step tables in parallel.
//
// A full-step hit is accepted immediately when the half machine has been
// quiet for the full window (clean fast spinning). Otherwise a half-step
// hit is accepted only when both quiet windows have elapsed (slow,
// bounce-prone spinning). Raw table hits inside a window are suppressed
// as bounce and reported as None.
func (d *Decoder) updateDebounced(s Sample, nowMillis uint64) Direction {
	var dir Direction
	d.fullState, dir = FullStepAdvance(d.fullState, s)

	if dir != None && elapsedMillis(nowMillis, d.lastHalfMillis) >= d.fullWindow {
		d.lastFullMillis = nowMillis

		return dir
	}

	d.halfState, dir = HalfStepAdvance(d.halfState, s)

	if dir != None &&
		elapsedMillis(nowMillis, d.lastFullMillis) >= d.fullWindow &&
		elapsedMillis(nowMillis, d.lastHalfMillis) >= d.halfWindow {
		d.lastHalfMillis = nowMillis

		return dir
	}

	return None
}

// updateThreshold accumulates signed quadrature deltas and fires once the
// magnitude reaches the configured threshold, then resets the counter.
// Invalid transitions contribute no delta but still advance the previous
// line state.
func (d *Decoder) updateThreshold(s Sample) Direction {
	curr := s.Bits()
	d.count += QuadDelta(d.prevBits, curr)
	d.prevBits = curr

	if d.count >= int8(d.threshold) {
		d.count = 0

		return Clockwise
	}
	if -d.count >= int8(d.threshold) {
		d.count = 0

		return Anticlockwise
	}

	return None
}

// elapsedMillis is a saturating subtraction: a caller clock that moves
// backwards reads as zero elapsed time instead of wrapping to a huge
// unsigned value.
func elapsedMillis(now, prev uint64) uint64 {
	if now < prev {
		return 0
	}

	return now - prev
}

// State is a diagnostic snapshot of a Decoder's internal strategy state.
// Fields that do not belong to the active mode hold their zero values.
type State struct {
	Mode       Mode
	Direction  Direction
	FullState  uint8
	HalfState  uint8
	LastFull   uint64
	LastHalf   uint64
	DTHistory  uint8
	CLKHistory uint8
	PrevBits   uint8
	Count      int8
	Threshold  uint8
}

// Snapshot returns a copy of the decoder's internal state for debugging
// and diagnostics. The returned value is detached from the Decoder.
func (d *Decoder) Snapshot() State {
	return State{
		Mode:       d.mode,
		Direction:  d.direction,
		FullState:  d.fullState,
		HalfState:  d.halfState,
		LastFull:   d.lastFullMillis,
		LastHalf:   d.lastHalfMillis,
		DTHistory:  d.dtHistory,
		CLKHistory: d.clkHistory,
		PrevBits:   d.prevBits,
		Count:      d.count,
		Threshold:  d.threshold,
	}
}
