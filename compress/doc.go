// Package compress provides the compression codecs available for trace
// blob payloads.
//
// Trace payloads are small (typically well under 64KiB) and consist of
// varint-packed timestamps followed by 2-bit packed line samples, which
// compress well under every supported algorithm. Four codecs are
// offered:
//
//   - Zstd: best ratio, for captures attached to bug reports. Uses the
//     cgo gozstd bindings when cgo is available and the pure-Go
//     klauspost implementation otherwise.
//   - S2: fastest, for captures taken on the hot path.
//   - LZ4: balanced block compression.
//   - NoOp: passthrough, for debugging and baseline measurements.
//
// Codecs are selected through format.CompressionType via CreateCodec.
package compress
