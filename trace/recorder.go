package trace

import "github.com/ost-ing/rotary/decode"

// Record is one captured line sample with its caller-supplied timestamp.
type Record struct {
	Millis uint64
	Sample decode.Sample
}

// DefaultRecorderCapacity holds two to three seconds of samples at the
// ≈900 Hz polling rate the edge decoder is designed for.
const DefaultRecorderCapacity = 2048

// Recorder is a fixed-capacity ring buffer of Records. Once full, the
// oldest record is overwritten, so a Recorder always holds the most
// recent window of activity.
//
// Record is constant time and allocation free and may be called from the
// same interrupt or polling context that drives the decoder. Like the
// decoder, a Recorder assumes a single concurrent mutator.
type Recorder struct {
	records []Record
	next    int
	full    bool
}

// NewRecorder creates a Recorder holding up to capacity records.
// Capacities below 1 fall back to DefaultRecorderCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity < 1 {
		capacity = DefaultRecorderCapacity
	}

	return &Recorder{records: make([]Record, capacity)}
}

// Record appends one sample to the ring, overwriting the oldest record
// when the ring is full.
func (r *Recorder) Record(s decode.Sample, nowMillis uint64) {
	r.records[r.next] = Record{Millis: nowMillis, Sample: s}
	r.next++
	if r.next == len(r.records) {
		r.next = 0
		r.full = true
	}
}

// Len returns the number of records currently held.
func (r *Recorder) Len() int {
	if r.full {
		return len(r.records)
	}

	return r.next
}

// Cap returns the ring capacity.
func (r *Recorder) Cap() int {
	return len(r.records)
}

// Records returns the held records in chronological order. The returned
// slice is a copy; it allocates and must not be called from interrupt
// context.
func (r *Recorder) Records() []Record {
	out := make([]Record, 0, r.Len())
	if r.full {
		out = append(out, r.records[r.next:]...)
	}
	out = append(out, r.records[:r.next]...)

	return out
}

// Reset empties the ring, retaining its capacity.
func (r *Recorder) Reset() {
	r.next = 0
	r.full = false
}
