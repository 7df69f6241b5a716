package plour

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"

	"github.com/diana-hep/plour/format"
)

// DecompressFunc inflates one page payload.
type DecompressFunc func(compressed []byte) ([]byte, error)

// codecs maps supported codec tags to their decompressors. Entries
// can be replaced or removed through RegisterCodec; a supported codec
// left without an entry reports ErrMissingCapability at first use.
var codecs = map[format.CompressionCodec]DecompressFunc{
	format.CodecUncompressed: func(compressed []byte) ([]byte, error) {
		return compressed, nil
	},
	format.CodecSnappy: func(compressed []byte) ([]byte, error) {
		return snappy.Decode(nil, compressed)
	},
	format.CodecGzip: gunzip,
}

// RegisterCodec installs fn as the decompressor for codec. Passing a
// nil fn removes the current one.
func RegisterCodec(codec format.CompressionCodec, fn DecompressFunc) {
	if fn == nil {
		delete(codecs, codec)
		return
	}
	codecs[codec] = fn
}

func gunzip(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// decompressor resolves a codec tag once per column chunk. The three
// failure kinds stay distinct: a recognized codec this decoder does
// not implement is not supported, a recognized codec whose
// decompressor was unregistered is a missing capability, and an
// unknown tag means the input cannot be trusted at all.
func decompressor(codec format.CompressionCodec) (DecompressFunc, error) {
	switch codec {
	case format.CodecUncompressed, format.CodecSnappy, format.CodecGzip:
		fn, ok := codecs[codec]
		if !ok {
			return nil, fmt.Errorf("no decompressor registered for %s; install one with RegisterCodec: %w",
				codec, ErrMissingCapability)
		}
		return fn, nil
	case format.CodecLZO, format.CodecBrotli, format.CodecLZ4, format.CodecZstd:
		return nil, fmt.Errorf("%s decompression: %w", codec, ErrNotSupported)
	default:
		return nil, fmt.Errorf("unrecognized compression codec %d: %w", int32(codec), ErrInvalidFormat)
	}
}
