// Package format holds the subset of the Parquet Thrift definitions
// this module needs to read files: the footer FileMetaData tree and
// the per-page PageHeader, together with their enum tags. The structs
// are serialized with the Thrift Compact Protocol (see thrift.go).
//
// Field IDs follow parquet-format's parquet.thrift. Optional fields
// are pointers; absent means the writer did not emit the field.
package format

// Type identifies the physical type of column values.
type Type int32

const (
	TypeBoolean           Type = 0
	TypeInt32             Type = 1
	TypeInt64             Type = 2
	TypeInt96             Type = 3
	TypeFloat             Type = 4
	TypeDouble            Type = 5
	TypeByteArray         Type = 6
	TypeFixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeInt96:
		return "INT96"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeByteArray:
		return "BYTE_ARRAY"
	case TypeFixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType says how often a schema field may appear.
type FieldRepetitionType int32

const (
	RepetitionRequired FieldRepetitionType = 0
	RepetitionOptional FieldRepetitionType = 1
	RepetitionRepeated FieldRepetitionType = 2
)

func (r FieldRepetitionType) String() string {
	switch r {
	case RepetitionRequired:
		return "REQUIRED"
	case RepetitionOptional:
		return "OPTIONAL"
	case RepetitionRepeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// Encoding identifies how values (or levels) are encoded on the wire.
type Encoding int32

const (
	EncodingPlain                Encoding = 0
	EncodingPlainDictionary      Encoding = 2
	EncodingRLE                  Encoding = 3
	EncodingBitPacked            Encoding = 4
	EncodingDeltaBinaryPacked    Encoding = 5
	EncodingDeltaLengthByteArray Encoding = 6
	EncodingDeltaByteArray       Encoding = 7
	EncodingRLEDictionary        Encoding = 8
	EncodingByteStreamSplit      Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case EncodingPlain:
		return "PLAIN"
	case EncodingPlainDictionary:
		return "PLAIN_DICTIONARY"
	case EncodingRLE:
		return "RLE"
	case EncodingBitPacked:
		return "BIT_PACKED"
	case EncodingDeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case EncodingDeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case EncodingDeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case EncodingRLEDictionary:
		return "RLE_DICTIONARY"
	case EncodingByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the per-page compression scheme.
type CompressionCodec int32

const (
	CodecUncompressed CompressionCodec = 0
	CodecSnappy       CompressionCodec = 1
	CodecGzip         CompressionCodec = 2
	CodecLZO          CompressionCodec = 3
	CodecBrotli       CompressionCodec = 4
	CodecLZ4          CompressionCodec = 5
	CodecZstd         CompressionCodec = 6
)

func (c CompressionCodec) String() string {
	switch c {
	case CodecUncompressed:
		return "UNCOMPRESSED"
	case CodecSnappy:
		return "SNAPPY"
	case CodecGzip:
		return "GZIP"
	case CodecLZO:
		return "LZO"
	case CodecBrotli:
		return "BROTLI"
	case CodecLZ4:
		return "LZ4"
	case CodecZstd:
		return "ZSTD"
	default:
		return "UNKNOWN"
	}
}

// PageType identifies the kind of page a PageHeader describes.
type PageType int32

const (
	PageTypeData       PageType = 0
	PageTypeIndex      PageType = 1
	PageTypeDictionary PageType = 2
	PageTypeDataV2     PageType = 3
)

// FileMetaData is the footer of a Parquet file.
type FileMetaData struct {
	Version   int32            // 1
	Schema    []*SchemaElement // 2, flattened pre-order
	NumRows   int64            // 3
	RowGroups []*RowGroup      // 4
	CreatedBy *string          // 6
}

// SchemaElement is one node of the flattened schema tree. Interior
// nodes carry NumChildren; leaves carry Type (and TypeLength for
// FIXED_LEN_BYTE_ARRAY).
type SchemaElement struct {
	Type           *Type                // 1
	TypeLength     *int32               // 2
	RepetitionType *FieldRepetitionType // 3
	Name           string               // 4
	NumChildren    *int32               // 5
	ConvertedType  *int32               // 6
	Scale          *int32               // 7
	Precision      *int32               // 8
	FieldID        *int32               // 9
}

// RowGroup groups one horizontal slice of the table.
type RowGroup struct {
	Columns             []*ColumnChunk // 1
	TotalByteSize       int64          // 2
	NumRows             int64          // 3
	FileOffset          *int64         // 5
	TotalCompressedSize *int64         // 6
}

// ColumnChunk locates one column's pages within a row group.
type ColumnChunk struct {
	FilePath   *string         // 1
	FileOffset int64           // 2
	MetaData   *ColumnMetaData // 3
}

// ColumnMetaData describes the pages of a column chunk.
type ColumnMetaData struct {
	Type                  Type             // 1
	Encodings             []Encoding       // 2
	PathInSchema          []string         // 3
	Codec                 CompressionCodec // 4
	NumValues             int64            // 5
	TotalUncompressedSize int64            // 6
	TotalCompressedSize   int64            // 7
	DataPageOffset        int64            // 9
	IndexPageOffset       *int64           // 10
	DictionaryPageOffset  *int64           // 11
}

// PageHeader precedes every page's payload.
type PageHeader struct {
	Type                 PageType              // 1
	UncompressedPageSize int32                 // 2
	CompressedPageSize   int32                 // 3
	DataPageHeader       *DataPageHeader       // 5
	DictionaryPageHeader *DictionaryPageHeader // 7
}

// DataPageHeader is the sub-record of PageHeader for data pages.
type DataPageHeader struct {
	NumValues               int32    // 1
	Encoding                Encoding // 2
	DefinitionLevelEncoding Encoding // 3
	RepetitionLevelEncoding Encoding // 4
}

// DictionaryPageHeader is the sub-record of PageHeader for dictionary
// pages.
type DictionaryPageHeader struct {
	NumValues int32    // 1
	Encoding  Encoding // 2
	IsSorted  *bool    // 3
}
