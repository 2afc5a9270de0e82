package pool

import "sync"

// Trace payloads are small: a few bytes of header plus one varint and a
// quarter byte per record. 4KiB covers captures of several thousand
// samples without growing.
const (
	TraceBufferDefaultSize  = 4 * 1024
	TraceBufferMaxThreshold = 64 * 1024
)

// ByteBuffer is a reusable append-only byte buffer.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, retaining allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

var traceBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, TraceBufferDefaultSize)}
	},
}

// GetTraceBuffer obtains a reset ByteBuffer from the pool.
func GetTraceBuffer() *ByteBuffer {
	bb, _ := traceBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutTraceBuffer returns a ByteBuffer to the pool. Oversized buffers are
// dropped so a single huge capture does not pin memory forever.
func PutTraceBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > TraceBufferMaxThreshold {
		return
	}
	traceBufferPool.Put(bb)
}
