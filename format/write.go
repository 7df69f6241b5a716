package format

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// The Write methods mirror the Read methods and emit only the fields
// this module models. They exist because the compact-protocol contract
// is a serializer/deserializer pair, and because the tests build real
// file images with them.

func writeI32Field(ctx context.Context, p thrift.TProtocol, name string, id int16, v int32) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.I32, id); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeI64Field(ctx context.Context, p thrift.TProtocol, name string, id int16, v int64) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.I64, id); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeStringField(ctx context.Context, p thrift.TProtocol, name string, id int16, v string) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return err
	}
	if err := p.WriteString(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeStructField(ctx context.Context, p thrift.TProtocol, name string, id int16, msg WritableMessage) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.STRUCT, id); err != nil {
		return err
	}
	if err := msg.Write(ctx, p); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func endStruct(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (m *FileMetaData) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "FileMetaData"); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "version", 1, m.Version); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "schema", thrift.LIST, 2); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(m.Schema)); err != nil {
		return err
	}
	for _, elem := range m.Schema {
		if err := elem.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "num_rows", 3, m.NumRows); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "row_groups", thrift.LIST, 4); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(m.RowGroups)); err != nil {
		return err
	}
	for _, rg := range m.RowGroups {
		if err := rg.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if m.CreatedBy != nil {
		if err := writeStringField(ctx, p, "created_by", 6, *m.CreatedBy); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}

func (m *SchemaElement) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "SchemaElement"); err != nil {
		return err
	}
	if m.Type != nil {
		if err := writeI32Field(ctx, p, "type", 1, int32(*m.Type)); err != nil {
			return err
		}
	}
	if m.TypeLength != nil {
		if err := writeI32Field(ctx, p, "type_length", 2, *m.TypeLength); err != nil {
			return err
		}
	}
	if m.RepetitionType != nil {
		if err := writeI32Field(ctx, p, "repetition_type", 3, int32(*m.RepetitionType)); err != nil {
			return err
		}
	}
	if err := writeStringField(ctx, p, "name", 4, m.Name); err != nil {
		return err
	}
	if m.NumChildren != nil {
		if err := writeI32Field(ctx, p, "num_children", 5, *m.NumChildren); err != nil {
			return err
		}
	}
	if m.ConvertedType != nil {
		if err := writeI32Field(ctx, p, "converted_type", 6, *m.ConvertedType); err != nil {
			return err
		}
	}
	if m.Scale != nil {
		if err := writeI32Field(ctx, p, "scale", 7, *m.Scale); err != nil {
			return err
		}
	}
	if m.Precision != nil {
		if err := writeI32Field(ctx, p, "precision", 8, *m.Precision); err != nil {
			return err
		}
	}
	if m.FieldID != nil {
		if err := writeI32Field(ctx, p, "field_id", 9, *m.FieldID); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}

func (m *RowGroup) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "RowGroup"); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "columns", thrift.LIST, 1); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(m.Columns)); err != nil {
		return err
	}
	for _, cc := range m.Columns {
		if err := cc.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "total_byte_size", 2, m.TotalByteSize); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "num_rows", 3, m.NumRows); err != nil {
		return err
	}
	if m.FileOffset != nil {
		if err := writeI64Field(ctx, p, "file_offset", 5, *m.FileOffset); err != nil {
			return err
		}
	}
	if m.TotalCompressedSize != nil {
		if err := writeI64Field(ctx, p, "total_compressed_size", 6, *m.TotalCompressedSize); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}

func (m *ColumnChunk) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "ColumnChunk"); err != nil {
		return err
	}
	if m.FilePath != nil {
		if err := writeStringField(ctx, p, "file_path", 1, *m.FilePath); err != nil {
			return err
		}
	}
	if err := writeI64Field(ctx, p, "file_offset", 2, m.FileOffset); err != nil {
		return err
	}
	if m.MetaData != nil {
		if err := writeStructField(ctx, p, "meta_data", 3, m.MetaData); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}

func (m *ColumnMetaData) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "ColumnMetaData"); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "type", 1, int32(m.Type)); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "encodings", thrift.LIST, 2); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.I32, len(m.Encodings)); err != nil {
		return err
	}
	for _, enc := range m.Encodings {
		if err := p.WriteI32(ctx, int32(enc)); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "path_in_schema", thrift.LIST, 3); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRING, len(m.PathInSchema)); err != nil {
		return err
	}
	for _, name := range m.PathInSchema {
		if err := p.WriteString(ctx, name); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "codec", 4, int32(m.Codec)); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "num_values", 5, m.NumValues); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "total_uncompressed_size", 6, m.TotalUncompressedSize); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "total_compressed_size", 7, m.TotalCompressedSize); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "data_page_offset", 9, m.DataPageOffset); err != nil {
		return err
	}
	if m.IndexPageOffset != nil {
		if err := writeI64Field(ctx, p, "index_page_offset", 10, *m.IndexPageOffset); err != nil {
			return err
		}
	}
	if m.DictionaryPageOffset != nil {
		if err := writeI64Field(ctx, p, "dictionary_page_offset", 11, *m.DictionaryPageOffset); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}

func (m *PageHeader) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "PageHeader"); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "type", 1, int32(m.Type)); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "uncompressed_page_size", 2, m.UncompressedPageSize); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "compressed_page_size", 3, m.CompressedPageSize); err != nil {
		return err
	}
	if m.DataPageHeader != nil {
		if err := writeStructField(ctx, p, "data_page_header", 5, m.DataPageHeader); err != nil {
			return err
		}
	}
	if m.DictionaryPageHeader != nil {
		if err := writeStructField(ctx, p, "dictionary_page_header", 7, m.DictionaryPageHeader); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}

func (m *DataPageHeader) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "DataPageHeader"); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "num_values", 1, m.NumValues); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "encoding", 2, int32(m.Encoding)); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "definition_level_encoding", 3, int32(m.DefinitionLevelEncoding)); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "repetition_level_encoding", 4, int32(m.RepetitionLevelEncoding)); err != nil {
		return err
	}
	return endStruct(ctx, p)
}

func (m *DictionaryPageHeader) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "DictionaryPageHeader"); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "num_values", 1, m.NumValues); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "encoding", 2, int32(m.Encoding)); err != nil {
		return err
	}
	if m.IsSorted != nil {
		if err := p.WriteFieldBegin(ctx, "is_sorted", thrift.BOOL, 3); err != nil {
			return err
		}
		if err := p.WriteBool(ctx, *m.IsSorted); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	return endStruct(ctx, p)
}
