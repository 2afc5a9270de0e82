//go:build !cgo

package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Pooled encoder/decoder instances; klauspost/compress/zstd is designed
// to be reused and operates without allocations after warmup.
var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			encoder, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.SpeedDefault),
				zstd.WithEncoderConcurrency(1),
			)
			if err != nil {
				return nil
			}

			return encoder
		},
	}

	zstdDecoderPool = sync.Pool{
		New: func() any {
			decoder, err := zstd.NewReader(nil,
				zstd.WithDecoderConcurrency(1),
			)
			if err != nil {
				return nil
			}

			return decoder
		},
	}
)

// Compress compresses the input data using Zstandard.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses a Zstandard frame.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	return decoder.DecodeAll(data, nil)
}
