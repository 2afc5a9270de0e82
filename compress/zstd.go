package compress

// ZstdCompressor provides Zstandard compression, the best-ratio codec.
// Use it for captures that leave the device, e.g. attached to a bug
// report.
//
// Two implementations exist behind build tags: the cgo gozstd bindings
// when cgo is available, and the pure-Go klauspost implementation
// otherwise. Both produce standard zstd frames and interoperate freely.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
