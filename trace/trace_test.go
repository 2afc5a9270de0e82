package trace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ost-ing/rotary/decode"
	"github.com/ost-ing/rotary/format"
	"github.com/ost-ing/rotary/internal/hash"
)

// cwDetent is one clean clockwise detent at a 2 ms polling interval.
func cwDetent(start uint64) []Record {
	bits := []uint8{0b00, 0b01, 0b11, 0b10, 0b00}
	records := make([]Record, len(bits))
	for i, b := range bits {
		records[i] = Record{
			Millis: start + uint64(i)*2,
			Sample: decode.SampleFromBits(b),
		}
	}

	return records
}

func TestRecorder_KeepsMostRecentWindow(t *testing.T) {
	r := NewRecorder(4)
	require.Equal(t, 4, r.Cap())
	require.Equal(t, 0, r.Len())

	for i := range 6 {
		r.Record(decode.SampleFromBits(uint8(i)%4), uint64(i))
	}

	require.Equal(t, 4, r.Len())

	records := r.Records()
	require.Len(t, records, 4)
	for i, rec := range records {
		require.Equal(t, uint64(i+2), rec.Millis, "oldest two records were overwritten")
	}
}

func TestRecorder_ChronologicalBeforeWrap(t *testing.T) {
	r := NewRecorder(8)
	r.Record(decode.Sample{DT: true}, 10)
	r.Record(decode.Sample{CLK: true}, 20)

	records := r.Records()
	require.Len(t, records, 2)
	require.Equal(t, uint64(10), records[0].Millis)
	require.True(t, records[0].Sample.DT)
	require.Equal(t, uint64(20), records[1].Millis)
	require.True(t, records[1].Sample.CLK)
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder(4)
	r.Record(decode.Sample{}, 1)
	r.Reset()

	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Records())
}

func TestRecorder_DefaultCapacity(t *testing.T) {
	require.Equal(t, DefaultRecorderCapacity, NewRecorder(0).Cap())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	// Enough detents that every codec has real runs to compress; LZ4
	// refuses payloads shorter than its match window.
	var records []Record
	for i := range 50 {
		records = append(records, cwDetent(1000+uint64(i)*10)...)
	}

	encodings := []format.EncodingType{format.TypeRaw, format.TypeDelta}
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, enc := range encodings {
		for _, comp := range compressions {
			t.Run(enc.String()+"_"+comp.String(), func(t *testing.T) {
				blob, err := Encode(records, WithEncoding(enc), WithCompression(comp))
				require.NoError(t, err)

				decoded, err := Decode(blob)
				require.NoError(t, err)
				require.Equal(t, enc, decoded.Encoding())
				require.Equal(t, comp, decoded.Compression())
				require.Equal(t, records, decoded.Records())
			})
		}
	}
}

func TestEncode_IncompressiblePayloadStoredRaw(t *testing.T) {
	// A single detent is a handful of bytes, below what an LZ4 block can
	// represent. The blob must still decode, with the header reflecting
	// the uncompressed fallback.
	blob, err := Encode(cwDetent(100), WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, decoded.Compression())
	require.Equal(t, cwDetent(100), decoded.Records())
}

func TestEncodeDecode_EmptyCapture(t *testing.T) {
	blob, err := Encode(nil)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, 0, decoded.Len())
	require.Empty(t, decoded.Records())
}

func TestEncodeDecode_IrregularTimestamps(t *testing.T) {
	// Jittered and stalled intervals exercise the delta-of-delta path
	// beyond the regular-interval fast case.
	records := []Record{
		{Millis: 5, Sample: decode.Sample{}},
		{Millis: 6, Sample: decode.Sample{DT: true}},
		{Millis: 1000, Sample: decode.Sample{DT: true, CLK: true}},
		{Millis: 1001, Sample: decode.Sample{CLK: true}},
		{Millis: 1001, Sample: decode.Sample{}},
	}

	blob, err := Encode(records)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, records, decoded.Records())
}

func TestEncode_SourceTagging(t *testing.T) {
	records := cwDetent(0)

	blob, err := Encode(records, WithSource("front-panel/volume"))
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, hash.SourceID("front-panel/volume"), decoded.SourceID())

	blob, err = Encode(records, WithSourceID(42))
	require.NoError(t, err)

	decoded, err = Decode(blob)
	require.NoError(t, err)
	require.Equal(t, uint64(42), decoded.SourceID())
}

func TestEncode_RejectsInvalidConfig(t *testing.T) {
	_, err := Encode(nil, WithEncoding(format.EncodingType(0x7F)))
	require.Error(t, err)

	_, err = Encode(nil, WithCompression(format.CompressionType(0x7F)))
	require.Error(t, err)
}

func TestDecode_RejectsCorruptBlobs(t *testing.T) {
	blob, err := Encode(cwDetent(0), WithCompression(format.CompressionS2))
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := Decode(blob[:headerSize-1])
		require.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), blob...)
		bad[0] ^= 0xFF
		_, err := Decode(bad)
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := append([]byte(nil), blob...)
		bad[4] = 0x7F
		_, err := Decode(bad)
		require.ErrorIs(t, err, ErrVersion)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		bad := append([]byte(nil), blob...)
		bad[len(bad)-1] ^= 0x01
		_, err := Decode(bad)
		require.Error(t, err, "either the codec or the checksum must catch it")
	})

	t.Run("count exceeds payload", func(t *testing.T) {
		// The CRC covers the payload only, so an inflated record count
		// must be caught by the payload bounds checks.
		plain, err := Encode(cwDetent(0))
		require.NoError(t, err)

		bad := append([]byte(nil), plain...)
		bad[8] = 0xFF
		bad[9] = 0xFF
		_, err = Decode(bad)
		require.ErrorIs(t, err, ErrTruncated)
	})
}

func TestTrace_All(t *testing.T) {
	blob, err := Encode(cwDetent(100))
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	var millis []uint64
	for rec := range decoded.All() {
		millis = append(millis, rec.Millis)
	}
	require.Equal(t, []uint64{100, 102, 104, 106, 108}, millis)
}

func TestTrace_ReplayThroughFullStep(t *testing.T) {
	blob, err := Encode(cwDetent(100), WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	dirs := decoded.Replay(decode.NewFullStep())
	require.Equal(t, []decode.Direction{decode.Clockwise}, dirs)
}

func TestTrace_ReplayPreservesTiming(t *testing.T) {
	// A detent captured with a debounced decoder in mind: replay through
	// ModeHalfStepDebounce honors the original quiet windows.
	records := append(cwDetent(100), cwDetent(110)...)

	blob, err := Encode(records)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	dirs := decoded.Replay(decode.NewHalfStepDebounce())
	require.Len(t, dirs, 1, "second detent falls inside the half quiet window")
	require.Equal(t, decode.Clockwise, dirs[0])
}
