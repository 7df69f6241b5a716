package plour

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// Definition and repetition levels are stored as an RLE/bit-packed
// hybrid stream over bit width ceil(log2(max+1)). Inside a data page
// the stream is preceded by a 4-byte little-endian byte length.

// maxLevelBitWidth bounds the widths this decoder handles; levels are
// produced as uint8, which covers schemas nested up to 255 deep.
const maxLevelBitWidth = 8

const maxRunLength = 16 * 1024 * 1024

// bitWidth returns the number of bits needed for values in [0, max],
// 0 when max is 0 (nothing is physically stored in that case).
func bitWidth(max int) uint {
	if max <= 0 {
		return 0
	}
	return uint(bits.Len(uint(max)))
}

// decodeLevelRun decodes one level section from the front of a page:
// the 4-byte length prefix, then exactly numValues hybrid-coded
// levels. It returns the levels and the bytes remaining after the
// section.
func decodeLevelRun(data []byte, numValues int, width uint) ([]uint8, []byte, error) {
	if len(data) < 4 {
		return nil, data, fmt.Errorf("level section truncated: %w", io.ErrUnexpectedEOF)
	}
	n := int(int32(binary.LittleEndian.Uint32(data[:4])))
	if n < 0 || 4+n > len(data) {
		return nil, data, fmt.Errorf("level section length %d exceeds page with %d bytes: %w", n, len(data)-4, ErrInvalidFormat)
	}
	levels, err := decodeHybrid(data[4:4+n], numValues, width)
	if err != nil {
		return nil, data, err
	}
	return levels, data[4+n:], nil
}

// decodeHybrid decodes numValues values from an RLE/bit-packed hybrid
// stream. Each run starts with a uvarint header whose low bit selects
// the mode: bit-packed runs hold count*8 literal values of width bits;
// RLE runs repeat one width-bit value count times.
func decodeHybrid(src []byte, numValues int, width uint) ([]uint8, error) {
	if width > maxLevelBitWidth {
		return nil, fmt.Errorf("hybrid run bit width %d exceeds %d: %w", width, maxLevelBitWidth, ErrNotSupported)
	}

	dst := make([]uint8, 0, numValues)
	for i := 0; i < len(src) && len(dst) < numValues; {
		u, n := binary.Uvarint(src[i:])
		if n == 0 {
			return dst, fmt.Errorf("decoding run header: %w", io.ErrUnexpectedEOF)
		}
		if n < 0 {
			return dst, fmt.Errorf("run header overflows after %d/%d bytes: %w", i-n, len(src), ErrInvalidFormat)
		}
		i += n

		count := uint(u >> 1)
		if count > maxRunLength {
			return dst, fmt.Errorf("run of %d values exceeds the %d value limit: %w", count, maxRunLength, ErrInvalidFormat)
		}

		if u&1 != 0 {
			// Bit-packed run: count groups of 8 values.
			count *= 8
			byteCount := (count*width + 7) / 8
			j := i + int(byteCount)
			if j > len(src) {
				return dst, fmt.Errorf("bit-packed run of %d values truncated: %w", count, io.ErrUnexpectedEOF)
			}
			dst = append(dst, unpackBits(src[i:j], count, width)...)
			i = j
		} else {
			// RLE run: one value repeated count times.
			var word uint8
			if width != 0 {
				if i >= len(src) {
					return dst, fmt.Errorf("run of %d repeated values truncated: %w", count, io.ErrUnexpectedEOF)
				}
				word = src[i]
				i++
			}
			for k := uint(0); k < count && len(dst) < numValues; k++ {
				dst = append(dst, word)
			}
		}
	}

	if len(dst) < numValues {
		return dst, fmt.Errorf("hybrid stream held %d of %d values: %w", len(dst), numValues, io.ErrUnexpectedEOF)
	}
	if len(dst) > numValues {
		dst = dst[:numValues]
	}
	return dst, nil
}

// unpackBits extracts count little-endian width-bit values. Values may
// straddle a byte boundary but never exceed 8 bits.
func unpackBits(src []byte, count, width uint) []uint8 {
	if width == 0 {
		return make([]uint8, count)
	}

	dst := make([]uint8, 0, count)
	for i := uint(0); i < count; i++ {
		byteIndex := (i * width) / 8
		bitIndex := (i * width) % 8
		if byteIndex >= uint(len(src)) {
			break
		}

		take := width
		if 8-bitIndex < take {
			take = 8 - bitIndex
		}
		value := (src[byteIndex] >> bitIndex) & byte((1<<take)-1)

		if rest := width - take; rest > 0 && byteIndex+1 < uint(len(src)) {
			value |= (src[byteIndex+1] & byte((1<<rest)-1)) << take
		}
		dst = append(dst, value)
	}
	return dst
}
