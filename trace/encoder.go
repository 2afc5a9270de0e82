package trace

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/ost-ing/rotary/compress"
	"github.com/ost-ing/rotary/endian"
	"github.com/ost-ing/rotary/format"
	"github.com/ost-ing/rotary/internal/hash"
	"github.com/ost-ing/rotary/internal/options"
	"github.com/ost-ing/rotary/internal/pool"
)

// Blob header layout, little endian:
//
//	offset 0  magic      uint32  "TRC0"
//	offset 4  version    uint8
//	offset 5  encoding   uint8   format.EncodingType
//	offset 6  compression uint8  format.CompressionType
//	offset 7  reserved   uint8
//	offset 8  count      uint32
//	offset 12 source ID  uint64
//	offset 20 payload CRC32 (IEEE, over the pre-compression payload)
const (
	headerSize   = 24
	traceMagic   = uint32('T') | uint32('R')<<8 | uint32('C')<<16 | uint32('0')<<24
	traceVersion = 1
)

type encoderConfig struct {
	encoding    format.EncodingType
	compression format.CompressionType
	sourceID    uint64
	engine      endian.EndianEngine
}

// EncoderOption configures Encode.
type EncoderOption = options.Option[*encoderConfig]

// WithEncoding selects the timestamp encoding. The default is
// format.TypeDelta.
func WithEncoding(enc format.EncodingType) EncoderOption {
	return options.New(func(cfg *encoderConfig) error {
		if enc != format.TypeRaw && enc != format.TypeDelta {
			return fmt.Errorf("invalid timestamp encoding: %s", enc)
		}
		cfg.encoding = enc

		return nil
	})
}

// WithCompression selects the payload codec. The default is
// format.CompressionNone.
func WithCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(cfg *encoderConfig) error {
		if _, err := compress.CreateCodec(comp, "trace payload"); err != nil {
			return err
		}
		cfg.compression = comp

		return nil
	})
}

// WithSource tags the blob with the xxHash64 ID of a source label, e.g.
// "front-panel/volume". The default source ID is 0 (untagged).
func WithSource(label string) EncoderOption {
	return options.NoError(func(cfg *encoderConfig) {
		cfg.sourceID = hash.SourceID(label)
	})
}

// WithSourceID tags the blob with a precomputed source ID.
func WithSourceID(id uint64) EncoderOption {
	return options.NoError(func(cfg *encoderConfig) {
		cfg.sourceID = id
	})
}

// Encode serializes records into a self-describing trace blob.
//
// Records are expected in chronological order, as produced by
// Recorder.Records; timestamps only need to be non-decreasing for the
// delta encoding to be compact, not for it to be correct.
func Encode(records []Record, opts ...EncoderOption) ([]byte, error) {
	cfg := &encoderConfig{
		encoding:    format.TypeDelta,
		compression: format.CompressionNone,
		engine:      endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	payloadBuf := pool.GetTraceBuffer()
	defer pool.PutTraceBuffer(payloadBuf)

	payloadBuf.B = appendTimestamps(payloadBuf.B, records, cfg)
	payloadBuf.B = appendSamples(payloadBuf.B, records)

	crc := crc32.ChecksumIEEE(payloadBuf.Bytes())

	codec, err := compress.CreateCodec(cfg.compression, "trace payload")
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(payloadBuf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress trace payload: %w", err)
	}

	// LZ4 block compression reports incompressible input by producing no
	// output at all. Store such payloads uncompressed and stamp the
	// header with what was actually used.
	compression := cfg.compression
	if len(payload) == 0 && payloadBuf.Len() > 0 {
		compression = format.CompressionNone
		payload = payloadBuf.Bytes()
	}

	blob := make([]byte, 0, headerSize+len(payload))
	blob = cfg.engine.AppendUint32(blob, traceMagic)
	blob = append(blob, traceVersion, uint8(cfg.encoding), uint8(compression), 0)
	blob = cfg.engine.AppendUint32(blob, uint32(len(records)))
	blob = cfg.engine.AppendUint64(blob, cfg.sourceID)
	blob = cfg.engine.AppendUint32(blob, crc)
	blob = append(blob, payload...)

	return blob, nil
}

// appendTimestamps writes all record timestamps.
//
// TypeRaw stores each as a fixed-width uint64. TypeDelta stores the
// first as a uvarint and every subsequent one as the signed
// delta-of-delta varint; regular polling intervals collapse to a single
// zero byte per record.
func appendTimestamps(buf []byte, records []Record, cfg *encoderConfig) []byte {
	if cfg.encoding == format.TypeRaw {
		for _, rec := range records {
			buf = cfg.engine.AppendUint64(buf, rec.Millis)
		}

		return buf
	}

	var prevTS, prevDelta int64
	for i, rec := range records {
		ts := int64(rec.Millis)
		switch i {
		case 0:
			buf = binary.AppendUvarint(buf, rec.Millis)
		default:
			delta := ts - prevTS
			buf = binary.AppendVarint(buf, delta-prevDelta)
			prevDelta = delta
		}
		prevTS = ts
	}

	return buf
}

// appendSamples packs the 2-bit line states four per byte, record i at
// bit offset 2*(i%4) of byte i/4.
func appendSamples(buf []byte, records []Record) []byte {
	var packed uint8
	for i, rec := range records {
		packed |= rec.Sample.Bits() << (2 * (i % 4))
		if i%4 == 3 {
			buf = append(buf, packed)
			packed = 0
		}
	}
	if len(records)%4 != 0 {
		buf = append(buf, packed)
	}

	return buf
}
