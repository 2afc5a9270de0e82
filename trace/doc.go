// Package trace captures raw encoder line samples for offline
// diagnostics and replay.
//
// Mechanical encoder bugs are timing bugs: a knob that double-counts on
// one device at one spin speed is nearly impossible to reproduce at a
// desk. The trace package closes that loop. A fixed-size Recorder runs
// next to the decoder and keeps the most recent timestamped samples;
// when something misbehaves, the capture is encoded into a compact
// self-describing blob that can be attached to a bug report and later
// replayed, sample by sample and with original timing, through any
// decoding mode.
//
// # Blob format
//
// A blob is a 24-byte little-endian header followed by a payload that
// may be compressed with any codec from the compress package:
//
//	magic "TRC0" | version | encoding | compression | reserved
//	record count | xxHash64 source ID | CRC32 of the encoded payload
//
// The payload stores all timestamps first, then all samples packed four
// per byte (2 bits each). Timestamps are either fixed-width
// (format.TypeRaw) or delta-of-delta varints (format.TypeDelta), the
// latter shrinking regular polling intervals to about one byte per
// record. The CRC32 covers the payload before compression, so it also
// verifies the decompression step.
//
// Everything here produces and consumes byte slices in memory; storing
// or transmitting a blob is the caller's concern.
package trace
