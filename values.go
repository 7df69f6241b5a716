package plour

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/diana-hep/plour/format"
)

// Values produced by the decoder are dense typed slices: []bool,
// []int32, []int64, [][12]byte, []float32, []float64 or [][]byte
// (BYTE_ARRAY and FIXED_LEN_BYTE_ARRAY both yield [][]byte).

// decodePlain reinterprets a PLAIN-encoded value segment. Fixed-width
// types consume the whole segment as a packed little-endian array;
// booleans consume count bits LSB-first; byte arrays walk 4-byte
// length prefixes. count is the number of non-null slots in the page
// (only present values occupy storage).
func decodePlain(data []byte, typ format.Type, count int, typeLength int32) (any, error) {
	switch typ {
	case format.TypeBoolean:
		if need := (count + 7) / 8; len(data) < need {
			return nil, fmt.Errorf("boolean segment holds %d bytes, %d values need %d: %w", len(data), count, need, io.ErrUnexpectedEOF)
		}
		out := make([]bool, count)
		for i := range out {
			out[i] = data[i/8]>>(i%8)&1 == 1
		}
		return out, nil

	case format.TypeInt32:
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("INT32 segment of %d bytes is not a whole number of values: %w", len(data), ErrInvalidFormat)
		}
		out := make([]int32, len(data)/4)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil

	case format.TypeInt64:
		if len(data)%8 != 0 {
			return nil, fmt.Errorf("INT64 segment of %d bytes is not a whole number of values: %w", len(data), ErrInvalidFormat)
		}
		out := make([]int64, len(data)/8)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return out, nil

	case format.TypeInt96:
		// Opaque 12-byte records (legacy timestamps); calendar
		// interpretation is the caller's business.
		if len(data)%12 != 0 {
			return nil, fmt.Errorf("INT96 segment of %d bytes is not a whole number of values: %w", len(data), ErrInvalidFormat)
		}
		out := make([][12]byte, len(data)/12)
		for i := range out {
			copy(out[i][:], data[i*12:])
		}
		return out, nil

	case format.TypeFloat:
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("FLOAT segment of %d bytes is not a whole number of values: %w", len(data), ErrInvalidFormat)
		}
		out := make([]float32, len(data)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil

	case format.TypeDouble:
		if len(data)%8 != 0 {
			return nil, fmt.Errorf("DOUBLE segment of %d bytes is not a whole number of values: %w", len(data), ErrInvalidFormat)
		}
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return out, nil

	case format.TypeByteArray:
		out := make([][]byte, 0, count)
		for offset := 0; offset < len(data); {
			if offset+4 > len(data) {
				return nil, fmt.Errorf("byte array length prefix truncated at offset %d: %w", offset, io.ErrUnexpectedEOF)
			}
			n := int(int32(binary.LittleEndian.Uint32(data[offset:])))
			offset += 4
			if n < 0 || offset+n > len(data) {
				return nil, fmt.Errorf("byte array of %d bytes overruns segment at offset %d: %w", n, offset, ErrInvalidFormat)
			}
			// Copy into a fresh non-nil slice; nil is reserved for
			// absent, and a zero-length value is not absent.
			val := make([]byte, n)
			copy(val, data[offset:offset+n])
			out = append(out, val)
			offset += n
		}
		return out, nil

	case format.TypeFixedLenByteArray:
		w := int(typeLength)
		if w <= 0 {
			return nil, fmt.Errorf("FIXED_LEN_BYTE_ARRAY column declares no type length: %w", ErrInvalidFormat)
		}
		if len(data)%w != 0 {
			return nil, fmt.Errorf("fixed width %d segment of %d bytes is not a whole number of values: %w", w, len(data), ErrInvalidFormat)
		}
		out := make([][]byte, len(data)/w)
		for i := range out {
			out[i] = append([]byte(nil), data[i*w:(i+1)*w]...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unrecognized column type %d: %w", int32(typ), ErrInvalidFormat)
	}
}

// dictionary holds the decoded values of a chunk's dictionary page.
type dictionary struct {
	typ    format.Type
	values any
	size   int
}

func newDictionary(header *format.DictionaryPageHeader, data []byte, typ format.Type, typeLength int32) (*dictionary, error) {
	switch header.Encoding {
	case format.EncodingPlain, format.EncodingPlainDictionary:
		// Dictionary values are stored PLAIN either way.
	default:
		return nil, fmt.Errorf("dictionary page encoding %s: %w", header.Encoding, ErrNotSupported)
	}
	values, err := decodePlain(data, typ, int(header.NumValues), typeLength)
	if err != nil {
		return nil, fmt.Errorf("decoding dictionary page: %w", err)
	}
	return &dictionary{typ: typ, values: values, size: valueCount(values)}, nil
}

// decodeDictionaryIndices reads the index stream of a
// PLAIN_DICTIONARY data page: a one-byte bit width followed by
// hybrid-coded indices, one per present value.
func decodeDictionaryIndices(data []byte, count int) ([]uint8, error) {
	if len(data) == 0 {
		if count == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("dictionary index stream is empty: %w", io.ErrUnexpectedEOF)
	}
	width := uint(data[0])
	if width > maxLevelBitWidth {
		return nil, fmt.Errorf("dictionary index bit width %d (dictionary of more than %d entries): %w",
			width, 1<<maxLevelBitWidth, ErrNotSupported)
	}
	return decodeHybrid(data[1:], count, width)
}

// lookup resolves indices against the dictionary, producing a typed
// slice in index order.
func (d *dictionary) lookup(indices []uint8) (any, error) {
	for _, ix := range indices {
		if int(ix) >= d.size {
			return nil, fmt.Errorf("dictionary index %d out of range for %d entries: %w", ix, d.size, ErrInvalidFormat)
		}
	}
	switch values := d.values.(type) {
	case []bool:
		out := make([]bool, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	case []int32:
		out := make([]int32, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	case []int64:
		out := make([]int64, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	case [][12]byte:
		out := make([][12]byte, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	case []float32:
		out := make([]float32, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	case []float64:
		out := make([]float64, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	case [][]byte:
		out := make([][]byte, len(indices))
		for i, ix := range indices {
			out[i] = values[ix]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unrecognized dictionary value type %T: %w", d.values, ErrInvalidFormat)
	}
}

func valueCount(values any) int {
	switch v := values.(type) {
	case []bool:
		return len(v)
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	case [][12]byte:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case [][]byte:
		return len(v)
	default:
		return 0
	}
}

// emptyValues returns the zero-length typed slice for a column type,
// or nil for an unrecognized type tag.
func emptyValues(typ format.Type) any {
	switch typ {
	case format.TypeBoolean:
		return []bool{}
	case format.TypeInt32:
		return []int32{}
	case format.TypeInt64:
		return []int64{}
	case format.TypeInt96:
		return [][12]byte{}
	case format.TypeFloat:
		return []float32{}
	case format.TypeDouble:
		return []float64{}
	case format.TypeByteArray, format.TypeFixedLenByteArray:
		return [][]byte{}
	default:
		return nil
	}
}

// concatValues joins per-page value segments in page order. All
// segments of one column share a concrete type.
func concatValues(segs []any) (any, error) {
	switch segs[0].(type) {
	case []bool:
		var out []bool
		for _, s := range segs {
			out = append(out, s.([]bool)...)
		}
		return out, nil
	case []int32:
		var out []int32
		for _, s := range segs {
			out = append(out, s.([]int32)...)
		}
		return out, nil
	case []int64:
		var out []int64
		for _, s := range segs {
			out = append(out, s.([]int64)...)
		}
		return out, nil
	case [][12]byte:
		var out [][12]byte
		for _, s := range segs {
			out = append(out, s.([][12]byte)...)
		}
		return out, nil
	case []float32:
		var out []float32
		for _, s := range segs {
			out = append(out, s.([]float32)...)
		}
		return out, nil
	case []float64:
		var out []float64
		for _, s := range segs {
			out = append(out, s.([]float64)...)
		}
		return out, nil
	case [][]byte:
		var out [][]byte
		for _, s := range segs {
			out = append(out, s.([][]byte)...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unrecognized value segment type %T: %w", segs[0], ErrInvalidFormat)
	}
}
