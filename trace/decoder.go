package trace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"iter"

	"github.com/ost-ing/rotary/compress"
	"github.com/ost-ing/rotary/decode"
	"github.com/ost-ing/rotary/endian"
	"github.com/ost-ing/rotary/format"
)

var (
	// ErrTooShort reports a blob smaller than the fixed header.
	ErrTooShort = errors.New("trace blob shorter than header")
	// ErrBadMagic reports a blob that does not start with the trace magic.
	ErrBadMagic = errors.New("not a trace blob")
	// ErrVersion reports an unsupported trace format version.
	ErrVersion = errors.New("unsupported trace version")
	// ErrChecksum reports a payload whose CRC32 does not match the header.
	ErrChecksum = errors.New("trace payload checksum mismatch")
	// ErrTruncated reports a payload too short for its record count.
	ErrTruncated = errors.New("trace payload truncated")
)

// Trace is a decoded capture.
type Trace struct {
	sourceID    uint64
	encoding    format.EncodingType
	compression format.CompressionType
	records     []Record
}

// Decode parses and verifies a trace blob produced by Encode.
func Decode(blob []byte) (*Trace, error) {
	if len(blob) < headerSize {
		return nil, ErrTooShort
	}

	engine := endian.GetLittleEndianEngine()

	if engine.Uint32(blob[0:4]) != traceMagic {
		return nil, ErrBadMagic
	}
	if blob[4] != traceVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, blob[4])
	}

	t := &Trace{
		encoding:    format.EncodingType(blob[5]),
		compression: format.CompressionType(blob[6]),
		sourceID:    engine.Uint64(blob[12:20]),
	}
	count := int(engine.Uint32(blob[8:12]))
	crc := engine.Uint32(blob[20:24])

	codec, err := compress.CreateCodec(t.compression, "trace payload")
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(blob[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("decompress trace payload: %w", err)
	}

	if crc32.ChecksumIEEE(payload) != crc {
		return nil, ErrChecksum
	}

	// Cheap sanity bound before allocating per-record slices: every
	// record occupies at least a quarter byte of packed samples.
	if (count+3)/4 > len(payload) {
		return nil, ErrTruncated
	}

	millis, rest, err := parseTimestamps(payload, count, t.encoding, engine)
	if err != nil {
		return nil, err
	}
	samples, err := parseSamples(rest, count)
	if err != nil {
		return nil, err
	}

	t.records = make([]Record, count)
	for i := range t.records {
		t.records[i] = Record{Millis: millis[i], Sample: samples[i]}
	}

	return t, nil
}

// SourceID returns the xxHash64 source tag, 0 if untagged.
func (t *Trace) SourceID() uint64 {
	return t.sourceID
}

// Encoding returns the timestamp encoding the blob was written with.
func (t *Trace) Encoding() format.EncodingType {
	return t.encoding
}

// Compression returns the payload codec the blob was written with.
func (t *Trace) Compression() format.CompressionType {
	return t.compression
}

// Len returns the number of captured records.
func (t *Trace) Len() int {
	return len(t.records)
}

// Records returns a copy of the captured records in chronological order.
func (t *Trace) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)

	return out
}

// All iterates the captured records in chronological order.
func (t *Trace) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range t.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Replay drives every captured sample, with its original timestamp,
// through the given decoder and returns the non-None directions in
// order. The decoder is not reset first, so a replay can continue from
// live state if desired.
func (t *Trace) Replay(d *decode.Decoder) []decode.Direction {
	var out []decode.Direction
	for _, rec := range t.records {
		if dir := d.Update(rec.Sample, rec.Millis); dir != decode.None {
			out = append(out, dir)
		}
	}

	return out
}

func parseTimestamps(payload []byte, count int, enc format.EncodingType, engine endian.EndianEngine) ([]uint64, []byte, error) {
	millis := make([]uint64, count)

	if enc == format.TypeRaw {
		need := count * 8
		if len(payload) < need {
			return nil, nil, ErrTruncated
		}
		for i := range millis {
			millis[i] = engine.Uint64(payload[i*8:])
		}

		return millis, payload[need:], nil
	}

	var prevTS, prevDelta int64
	for i := range millis {
		switch i {
		case 0:
			v, n := binary.Uvarint(payload)
			if n <= 0 {
				return nil, nil, ErrTruncated
			}
			payload = payload[n:]
			prevTS = int64(v)
		default:
			dod, n := binary.Varint(payload)
			if n <= 0 {
				return nil, nil, ErrTruncated
			}
			payload = payload[n:]
			prevDelta += dod
			prevTS += prevDelta
		}
		millis[i] = uint64(prevTS)
	}

	return millis, payload, nil
}

func parseSamples(payload []byte, count int) ([]decode.Sample, error) {
	need := (count + 3) / 4
	if len(payload) < need {
		return nil, ErrTruncated
	}

	samples := make([]decode.Sample, count)
	for i := range samples {
		bits := payload[i/4] >> (2 * (i % 4))
		samples[i] = decode.SampleFromBits(bits)
	}

	return samples, nil
}
