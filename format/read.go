package format

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// The Read methods below follow the shape of thrift-generated code:
// iterate fields, switch on field ID, skip anything unknown. Only the
// fields this module consumes are decoded; everything else in the
// footer (statistics, key/value metadata, column orders, ...) is
// skipped structurally.

func readI32(ctx context.Context, p thrift.TProtocol, ft thrift.TType) (int32, error) {
	if ft != thrift.I32 {
		return 0, fmt.Errorf("expected i32 field, got thrift type %d", ft)
	}
	return p.ReadI32(ctx)
}

func readI64(ctx context.Context, p thrift.TProtocol, ft thrift.TType) (int64, error) {
	if ft != thrift.I64 {
		return 0, fmt.Errorf("expected i64 field, got thrift type %d", ft)
	}
	return p.ReadI64(ctx)
}

func readString(ctx context.Context, p thrift.TProtocol, ft thrift.TType) (string, error) {
	if ft != thrift.STRING {
		return "", fmt.Errorf("expected string field, got thrift type %d", ft)
	}
	return p.ReadString(ctx)
}

// readFields drives the field loop for one struct; decode handles a
// single field and reports whether it consumed it.
func readFields(ctx context.Context, p thrift.TProtocol, decode func(id int16, ft thrift.TType) (bool, error)) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, ft, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if ft == thrift.STOP {
			break
		}
		handled, err := decode(id, ft)
		if err != nil {
			return err
		}
		if !handled {
			if err := p.Skip(ctx, ft); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func (m *FileMetaData) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Version = v
		case 2:
			if ft != thrift.LIST {
				return false, nil
			}
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return false, err
			}
			m.Schema = make([]*SchemaElement, 0, size)
			for i := 0; i < size; i++ {
				elem := &SchemaElement{}
				if err := elem.Read(ctx, p); err != nil {
					return false, err
				}
				m.Schema = append(m.Schema, elem)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return false, err
			}
		case 3:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.NumRows = v
		case 4:
			if ft != thrift.LIST {
				return false, nil
			}
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return false, err
			}
			m.RowGroups = make([]*RowGroup, 0, size)
			for i := 0; i < size; i++ {
				rg := &RowGroup{}
				if err := rg.Read(ctx, p); err != nil {
					return false, err
				}
				m.RowGroups = append(m.RowGroups, rg)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return false, err
			}
		case 6:
			v, err := readString(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.CreatedBy = &v
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *SchemaElement) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			t := Type(v)
			m.Type = &t
		case 2:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.TypeLength = &v
		case 3:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			r := FieldRepetitionType(v)
			m.RepetitionType = &r
		case 4:
			v, err := readString(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Name = v
		case 5:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.NumChildren = &v
		case 6:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.ConvertedType = &v
		case 7:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Scale = &v
		case 8:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Precision = &v
		case 9:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.FieldID = &v
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *RowGroup) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			if ft != thrift.LIST {
				return false, nil
			}
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return false, err
			}
			m.Columns = make([]*ColumnChunk, 0, size)
			for i := 0; i < size; i++ {
				cc := &ColumnChunk{}
				if err := cc.Read(ctx, p); err != nil {
					return false, err
				}
				m.Columns = append(m.Columns, cc)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return false, err
			}
		case 2:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.TotalByteSize = v
		case 3:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.NumRows = v
		case 5:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.FileOffset = &v
		case 6:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.TotalCompressedSize = &v
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *ColumnChunk) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readString(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.FilePath = &v
		case 2:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.FileOffset = v
		case 3:
			if ft != thrift.STRUCT {
				return false, nil
			}
			md := &ColumnMetaData{}
			if err := md.Read(ctx, p); err != nil {
				return false, err
			}
			m.MetaData = md
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *ColumnMetaData) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Type = Type(v)
		case 2:
			if ft != thrift.LIST {
				return false, nil
			}
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return false, err
			}
			m.Encodings = make([]Encoding, 0, size)
			for i := 0; i < size; i++ {
				v, err := p.ReadI32(ctx)
				if err != nil {
					return false, err
				}
				m.Encodings = append(m.Encodings, Encoding(v))
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return false, err
			}
		case 3:
			if ft != thrift.LIST {
				return false, nil
			}
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return false, err
			}
			m.PathInSchema = make([]string, 0, size)
			for i := 0; i < size; i++ {
				v, err := p.ReadString(ctx)
				if err != nil {
					return false, err
				}
				m.PathInSchema = append(m.PathInSchema, v)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return false, err
			}
		case 4:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Codec = CompressionCodec(v)
		case 5:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.NumValues = v
		case 6:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.TotalUncompressedSize = v
		case 7:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.TotalCompressedSize = v
		case 9:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.DataPageOffset = v
		case 10:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.IndexPageOffset = &v
		case 11:
			v, err := readI64(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.DictionaryPageOffset = &v
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *PageHeader) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Type = PageType(v)
		case 2:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.UncompressedPageSize = v
		case 3:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.CompressedPageSize = v
		case 5:
			if ft != thrift.STRUCT {
				return false, nil
			}
			h := &DataPageHeader{}
			if err := h.Read(ctx, p); err != nil {
				return false, err
			}
			m.DataPageHeader = h
		case 7:
			if ft != thrift.STRUCT {
				return false, nil
			}
			h := &DictionaryPageHeader{}
			if err := h.Read(ctx, p); err != nil {
				return false, err
			}
			m.DictionaryPageHeader = h
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *DataPageHeader) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.NumValues = v
		case 2:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Encoding = Encoding(v)
		case 3:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.DefinitionLevelEncoding = Encoding(v)
		case 4:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.RepetitionLevelEncoding = Encoding(v)
		default:
			return false, nil
		}
		return true, nil
	})
}

func (m *DictionaryPageHeader) Read(ctx context.Context, p thrift.TProtocol) error {
	return readFields(ctx, p, func(id int16, ft thrift.TType) (bool, error) {
		switch id {
		case 1:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.NumValues = v
		case 2:
			v, err := readI32(ctx, p, ft)
			if err != nil {
				return false, err
			}
			m.Encoding = Encoding(v)
		case 3:
			if ft != thrift.BOOL {
				return false, nil
			}
			v, err := p.ReadBool(ctx)
			if err != nil {
				return false, err
			}
			m.IsSorted = &v
		default:
			return false, nil
		}
		return true, nil
	})
}
