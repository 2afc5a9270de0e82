// Package endian provides byte order utilities for binary encoding and
// decoding of trace blobs.
//
// It combines the ByteOrder and AppendByteOrder interfaces from the
// standard encoding/binary package into a single EndianEngine interface,
// which lets encoders append fixed-width values without intermediate
// scratch buffers. Trace blobs are little-endian on the wire; the
// big-endian engine exists for interoperability tests.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from
// encoding/binary into one interface. It is satisfied by
// binary.LittleEndian and binary.BigEndian, so it composes with any
// existing code using the standard interfaces.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the standard
// byte order for trace blobs.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
