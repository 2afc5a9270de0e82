package compress

import (
	"fmt"

	"github.com/ost-ing/rotary/format"
)

// Compressor compresses a complete trace payload.
//
// The returned slice is newly allocated and owned by the caller (except
// for NoOpCompressor, which returns the input as-is); the input slice is
// never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor for the same algorithm. It validates
// the compressed format and returns an error on corrupted or
// incompatible input.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates the Codec for the given compression type. target
// names the payload being processed and is used in error messages only.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}
