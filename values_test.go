package plour

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diana-hep/plour/format"
)

func TestDecodePlainFixedWidthRoundTrips(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		src := plainInt32(1, -2, 3, math.MaxInt32)
		got, err := decodePlain(src, format.TypeInt32, 4, 0)
		require.NoError(t, err)
		assert.Equal(t, []int32{1, -2, 3, math.MaxInt32}, got)
	})

	t.Run("int64", func(t *testing.T) {
		src := plainInt64(math.MinInt64, 0, 42)
		got, err := decodePlain(src, format.TypeInt64, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{math.MinInt64, 0, 42}, got)
	})

	t.Run("float", func(t *testing.T) {
		var src []byte
		for _, v := range []float32{1.5, -0.25} {
			src = binary.LittleEndian.AppendUint32(src, math.Float32bits(v))
		}
		got, err := decodePlain(src, format.TypeFloat, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, []float32{1.5, -0.25}, got)
	})

	t.Run("double", func(t *testing.T) {
		src := plainFloat64(3.5, -1e300)
		got, err := decodePlain(src, format.TypeDouble, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, []float64{3.5, -1e300}, got)
	})
}

func TestDecodePlainRejectsMisalignedSegments(t *testing.T) {
	for _, typ := range []format.Type{format.TypeInt32, format.TypeInt64, format.TypeFloat, format.TypeDouble, format.TypeInt96} {
		_, err := decodePlain(make([]byte, 5), typ, 1, 0)
		require.ErrorIs(t, err, ErrInvalidFormat, "type %s", typ)
	}
}

func TestDecodePlainInt96(t *testing.T) {
	src := make([]byte, 24)
	for i := range src {
		src[i] = byte(i)
	}
	got, err := decodePlain(src, format.TypeInt96, 2, 0)
	require.NoError(t, err)
	records := got.([][12]byte)
	require.Len(t, records, 2)
	assert.Equal(t, src[:12], records[0][:])
	assert.Equal(t, src[12:], records[1][:])
}

func TestDecodePlainBooleanBits(t *testing.T) {
	// 10 values across two bytes, LSB-first.
	got, err := decodePlain([]byte{0x0D, 0x02}, format.TypeBoolean, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true, false, false, false, false, false, true}, got)
}

func TestDecodePlainBooleanTruncated(t *testing.T) {
	_, err := decodePlain([]byte{0x0D}, format.TypeBoolean, 10, 0)
	require.Error(t, err)
}

func TestDecodePlainByteArray(t *testing.T) {
	src := append(plainInt32(3), []byte("abc")...)
	src = append(src, plainInt32(0)...)
	src = append(src, plainInt32(2)...)
	src = append(src, []byte("xy")...)

	got, err := decodePlain(src, format.TypeByteArray, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("abc"), {}, []byte("xy")}, got)
	assert.NotNil(t, got.([][]byte)[1], "empty byte string is present, not absent")
}

func TestDecodePlainByteArrayOverrun(t *testing.T) {
	src := plainInt32(100)
	_, err := decodePlain(src, format.TypeByteArray, 1, 0)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodePlainFixedLenByteArray(t *testing.T) {
	src := []byte("abcdef")
	got, err := decodePlain(src, format.TypeFixedLenByteArray, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("def")}, got)

	_, err = decodePlain(src, format.TypeFixedLenByteArray, 2, 0)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodePlainUnknownType(t *testing.T) {
	_, err := decodePlain(nil, format.Type(12), 0, 0)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDictionaryLookup(t *testing.T) {
	dict := &dictionary{typ: format.TypeInt32, values: []int32{10, 20, 30}, size: 3}
	got, err := dict.lookup([]uint8{2, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int32{30, 10, 20, 20}, got)
}

func TestDictionaryLookupIndexOutOfRange(t *testing.T) {
	dict := &dictionary{typ: format.TypeInt32, values: []int32{10}, size: 1}
	_, err := dict.lookup([]uint8{1})
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeDictionaryIndices(t *testing.T) {
	got, err := decodeDictionaryIndices(dictIndexStream(2, 1, 0, 2), 3)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 2}, got)
}

func TestDecodeDictionaryIndicesWidthTooLarge(t *testing.T) {
	_, err := decodeDictionaryIndices([]byte{16, 0}, 1)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestConcatValuesKeepsOrder(t *testing.T) {
	got, err := concatValues([]any{[]int32{1, 2}, []int32{3}})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, got)

	reordered, err := concatValues([]any{[]int32{3}, []int32{1, 2}})
	require.NoError(t, err)
	assert.NotEqual(t, got, reordered, "page order is significant")
}
