package plour

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/stretchr/testify/require"

	"github.com/diana-hep/plour/format"
)

// Test fixtures are complete Parquet byte images assembled with the
// format package's writers, so every test travels the real framing,
// footer, page-header and payload layout.

func ptr[T any](v T) *T { return &v }

type testPage struct {
	dict      bool
	numValues int32
	encoding  format.Encoding
	body      []byte // uncompressed page body: [rep levels][def levels][values]
}

type testChunk struct {
	path      []string
	typ       format.Type
	codec     format.CompressionCodec
	numValues int64
	pages     []testPage
}

func leafElement(name string, typ format.Type, rep format.FieldRepetitionType) *format.SchemaElement {
	return &format.SchemaElement{Name: name, Type: ptr(typ), RepetitionType: ptr(rep)}
}

func flatSchema(fields ...*format.SchemaElement) []*format.SchemaElement {
	root := &format.SchemaElement{Name: "schema", NumChildren: ptr(int32(len(fields)))}
	return append([]*format.SchemaElement{root}, fields...)
}

// schemaWithRoot builds a pre-order element run whose root declares
// numTopLevel direct children; elems must already be in pre-order.
func schemaWithRoot(numTopLevel int32, elems ...*format.SchemaElement) []*format.SchemaElement {
	root := &format.SchemaElement{Name: "schema", NumChildren: ptr(numTopLevel)}
	return append([]*format.SchemaElement{root}, elems...)
}

func compressBody(t *testing.T, codec format.CompressionCodec, body []byte) []byte {
	t.Helper()
	switch codec {
	case format.CodecSnappy:
		return snappy.Encode(nil, body)
	case format.CodecGzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(body)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		return buf.Bytes()
	default:
		// Uncompressed, and codecs the decoder rejects before ever
		// touching the payload.
		return body
	}
}

func buildFile(t *testing.T, schema []*format.SchemaElement, numRows int64, chunks []testChunk) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString(magic)

	rg := &format.RowGroup{NumRows: numRows}
	for _, c := range chunks {
		md := &format.ColumnMetaData{
			Type:         c.typ,
			Encodings:    []format.Encoding{format.EncodingPlain},
			PathInSchema: c.path,
			Codec:        c.codec,
			NumValues:    c.numValues,
		}
		first := int64(buf.Len())
		for _, p := range c.pages {
			comp := compressBody(t, c.codec, p.body)
			off := int64(buf.Len())
			header := &format.PageHeader{
				UncompressedPageSize: int32(len(p.body)),
				CompressedPageSize:   int32(len(comp)),
			}
			if p.dict {
				header.Type = format.PageTypeDictionary
				header.DictionaryPageHeader = &format.DictionaryPageHeader{
					NumValues: p.numValues,
					Encoding:  format.EncodingPlain,
				}
				md.DictionaryPageOffset = ptr(off)
			} else {
				header.Type = format.PageTypeData
				header.DataPageHeader = &format.DataPageHeader{
					NumValues:               p.numValues,
					Encoding:                p.encoding,
					DefinitionLevelEncoding: format.EncodingRLE,
					RepetitionLevelEncoding: format.EncodingRLE,
				}
				if md.DataPageOffset == 0 {
					md.DataPageOffset = off
				}
			}
			hb, err := format.Marshal(header)
			require.NoError(t, err)
			buf.Write(hb)
			buf.Write(comp)
			md.TotalUncompressedSize += int64(len(hb) + len(p.body))
		}
		md.TotalCompressedSize = int64(buf.Len()) - first
		rg.Columns = append(rg.Columns, &format.ColumnChunk{FileOffset: first, MetaData: md})
	}

	meta := &format.FileMetaData{
		Version:   1,
		Schema:    schema,
		NumRows:   numRows,
		RowGroups: []*format.RowGroup{rg},
	}
	fb, err := format.Marshal(meta)
	require.NoError(t, err)
	buf.Write(fb)

	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(fb)))
	buf.Write(lenBytes[:])
	buf.WriteString(magic)
	return buf.Bytes()
}

func plainInt32(vals ...int32) []byte {
	var out []byte
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out
}

func plainInt64(vals ...int64) []byte {
	var out []byte
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint64(out, uint64(v))
	}
	return out
}

func plainFloat64(vals ...float64) []byte {
	var out []byte
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
	}
	return out
}

// appendRLERun appends one RLE run (uvarint header, one value byte).
func appendRLERun(dst []byte, value uint8, count int) []byte {
	dst = binary.AppendUvarint(dst, uint64(count)<<1)
	return append(dst, value)
}

// appendLevelSection wraps encoded runs in the 4-byte length prefix.
func appendLevelSection(dst, runs []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(runs)))
	return append(dst, runs...)
}

// rleLevelSection encodes one level section as a single RLE run:
// 4-byte length prefix, uvarint run header, one value byte.
func rleLevelSection(value uint8, count int) []byte {
	run := binary.AppendUvarint(nil, uint64(count)<<1)
	run = append(run, value)
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(run)))
	return append(out, run...)
}

// dictIndexStream encodes a dictionary-page index stream: a one-byte
// bit width followed by one single-value RLE run per index.
func dictIndexStream(width uint8, indices ...uint8) []byte {
	out := []byte{width}
	for _, ix := range indices {
		out = binary.AppendUvarint(out, 1<<1)
		out = append(out, ix)
	}
	return out
}
