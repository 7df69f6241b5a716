package plour

import (
	"fmt"
	"slices"
	"strings"

	"github.com/diana-hep/plour/format"
)

// ColumnRequest selects which segments of a column to materialize.
// The zero value materializes nothing; most callers want ReadAll.
type ColumnRequest struct {
	DefinitionLevels bool
	RepetitionLevels bool
	Values           bool

	// Parallel reserves a multi-handle decode path that does not
	// exist yet; setting it fails rather than risking interleaved
	// output from a shared cursor.
	Parallel bool
}

// ReadAll requests every segment applicable to the column.
var ReadAll = ColumnRequest{DefinitionLevels: true, RepetitionLevels: true, Values: true}

// ColumnResult carries the decoded segments. A nil field is the
// explicit absent marker: either the segment was not requested or the
// leaf does not have it (a required leaf stores no definition levels,
// a top-level leaf no repetition levels). An empty column with the
// segment applicable still yields a non-nil empty slice, so "no levels
// needed" and "no rows" stay distinguishable.
type ColumnResult struct {
	DefinitionLevels []uint8
	RepetitionLevels []uint8

	// Values is one of []bool, []int32, []int64, [][12]byte,
	// []float32, []float64 or [][]byte.
	Values any
}

// Column decodes one leaf column of one row group. Pages are consumed
// in file order and their segments concatenated, so the result is
// exactly the chunk's values in storage order. All failures surface
// immediately; there is no silent skipping of unreadable pages.
func (f *File) Column(rowGroup int, leaf *SchemaNode, req ColumnRequest) (ColumnResult, error) {
	var out ColumnResult

	// The parallel path fails outright for both transports: a buffer
	// could serve concurrent sections today, but nothing schedules
	// them yet, and a shared stream cursor must never be interleaved.
	if req.Parallel {
		if f.src.concurrent() {
			return out, fmt.Errorf("parallel column decode: %w", ErrNotSupported)
		}
		return out, fmt.Errorf("parallel column decode over a shared stream cursor (open one handle per task instead): %w", ErrNotSupported)
	}
	if rowGroup < 0 || rowGroup >= len(f.meta.RowGroups) {
		return out, fmt.Errorf("row group %d out of range, file has %d: %w", rowGroup, len(f.meta.RowGroups), ErrInvalidFormat)
	}

	chunk, err := locateChunk(f.meta.RowGroups[rowGroup], rowGroup, leaf)
	if err != nil {
		return out, err
	}
	meta := chunk.MetaData

	decompress, err := decompressor(meta.Codec)
	if err != nil {
		return out, fmt.Errorf("column %s: %w", strings.Join(leaf.Path, "."), err)
	}

	var typeLength int32
	if leaf.Element != nil && leaf.Element.TypeLength != nil {
		typeLength = *leaf.Element.TypeLength
	}

	// Repetition levels exist only under a nested path; definition
	// levels only when the leaf is not required.
	nested := len(leaf.Path) > 1
	optional := !leaf.Required

	var (
		defSegs, repSegs [][]uint8
		valueSegs        []any
		dict             *dictionary
	)

	pages, err := newPageReader(f.src, chunk)
	if err != nil {
		return out, fmt.Errorf("column %s: %w", strings.Join(leaf.Path, "."), err)
	}
	for pages.Next() {
		page := pages.Page()
		data, err := decompress(page.Compressed)
		if err != nil {
			return out, fmt.Errorf("decompressing %s page covering values [%d,%d) of column %s: %w",
				meta.Codec, page.Start, page.Stop, strings.Join(leaf.Path, "."), err)
		}

		switch page.Header.Type {
		case format.PageTypeDictionary:
			if page.Header.DictionaryPageHeader == nil {
				return out, fmt.Errorf("dictionary page of column %s has no dictionary header: %w",
					strings.Join(leaf.Path, "."), ErrInvalidFormat)
			}
			dict, err = newDictionary(page.Header.DictionaryPageHeader, data, meta.Type, typeLength)
			if err != nil {
				return out, fmt.Errorf("column %s: %w", strings.Join(leaf.Path, "."), err)
			}
			continue
		case format.PageTypeData:
			// handled below
		case format.PageTypeDataV2:
			return out, fmt.Errorf("data page v2 in column %s: %w", strings.Join(leaf.Path, "."), ErrNotSupported)
		default:
			// Index pages and other non-value pages carry nothing we
			// need.
			continue
		}
		if page.Header.DataPageHeader == nil {
			return out, fmt.Errorf("data page covering values [%d,%d) of column %s has no data header: %w",
				page.Start, page.Stop, strings.Join(leaf.Path, "."), ErrInvalidFormat)
		}
		numValues := int(page.Header.DataPageHeader.NumValues)

		// Page layout is [repetition levels][definition levels][values].
		var repSeg, defSeg []uint8
		if nested {
			if w := bitWidth(leaf.MaxRep); w > 0 {
				repSeg, data, err = decodeLevelRun(data, numValues, w)
				if err != nil {
					return out, fmt.Errorf("repetition levels of values [%d,%d) in column %s: %w",
						page.Start, page.Stop, strings.Join(leaf.Path, "."), err)
				}
			} else {
				repSeg = make([]uint8, numValues)
			}
		}
		if optional {
			if w := bitWidth(leaf.MaxDef); w > 0 {
				defSeg, data, err = decodeLevelRun(data, numValues, w)
				if err != nil {
					return out, fmt.Errorf("definition levels of values [%d,%d) in column %s: %w",
						page.Start, page.Stop, strings.Join(leaf.Path, "."), err)
				}
			} else {
				defSeg = make([]uint8, numValues)
			}
		}

		// Only non-null slots consume value storage.
		present := numValues
		if defSeg != nil {
			present = 0
			for _, level := range defSeg {
				if int(level) == leaf.MaxDef {
					present++
				}
			}
		}

		var valueSeg any
		switch enc := page.Header.DataPageHeader.Encoding; enc {
		case format.EncodingPlain:
			valueSeg, err = decodePlain(data, meta.Type, present, typeLength)
			if err != nil {
				return out, fmt.Errorf("values [%d,%d) of column %s: %w",
					page.Start, page.Stop, strings.Join(leaf.Path, "."), err)
			}
		case format.EncodingPlainDictionary:
			if dict == nil {
				return out, fmt.Errorf("dictionary-encoded page with no preceding dictionary page in column %s: %w",
					strings.Join(leaf.Path, "."), ErrInvalidFormat)
			}
			indices, err := decodeDictionaryIndices(data, present)
			if err != nil {
				return out, fmt.Errorf("dictionary indices of values [%d,%d) in column %s: %w",
					page.Start, page.Stop, strings.Join(leaf.Path, "."), err)
			}
			valueSeg, err = dict.lookup(indices)
			if err != nil {
				return out, fmt.Errorf("values [%d,%d) of column %s: %w",
					page.Start, page.Stop, strings.Join(leaf.Path, "."), err)
			}
		case format.EncodingRLE, format.EncodingBitPacked, format.EncodingDeltaBinaryPacked,
			format.EncodingDeltaLengthByteArray, format.EncodingDeltaByteArray,
			format.EncodingRLEDictionary, format.EncodingByteStreamSplit:
			return out, fmt.Errorf("%s value encoding in column %s: %w", enc, strings.Join(leaf.Path, "."), ErrNotSupported)
		default:
			return out, fmt.Errorf("unrecognized value encoding %d in column %s: %w",
				int32(enc), strings.Join(leaf.Path, "."), ErrInvalidFormat)
		}

		if req.RepetitionLevels && repSeg != nil {
			repSegs = append(repSegs, repSeg)
		}
		if req.DefinitionLevels && defSeg != nil {
			defSegs = append(defSegs, defSeg)
		}
		if req.Values {
			valueSegs = append(valueSegs, valueSeg)
		}
	}
	if err := pages.Err(); err != nil {
		return out, fmt.Errorf("column %s: %w", strings.Join(leaf.Path, "."), err)
	}

	if req.DefinitionLevels && optional {
		out.DefinitionLevels = concatLevels(defSegs)
	}
	if req.RepetitionLevels && nested {
		out.RepetitionLevels = concatLevels(repSegs)
	}
	if req.Values {
		if len(valueSegs) == 0 {
			// A chunk with zero values still reports its type, so "no
			// rows" is an empty typed slice, not absent.
			out.Values = emptyValues(meta.Type)
		} else {
			out.Values, err = concatValues(valueSegs)
			if err != nil {
				return out, fmt.Errorf("column %s: %w", strings.Join(leaf.Path, "."), err)
			}
		}
	}
	return out, nil
}

// locateChunk finds the column chunk whose path matches the leaf,
// comparing the full name sequence in order.
func locateChunk(rg *format.RowGroup, rowGroup int, leaf *SchemaNode) (*format.ColumnChunk, error) {
	for _, chunk := range rg.Columns {
		if chunk.MetaData != nil && slices.Equal(chunk.MetaData.PathInSchema, leaf.Path) {
			return chunk, nil
		}
	}
	return nil, fmt.Errorf("column path %s not found in row group %d: %w",
		strings.Join(leaf.Path, "."), rowGroup, ErrInvalidFormat)
}

func concatLevels(segs [][]uint8) []uint8 {
	out := make([]uint8, 0)
	for _, s := range segs {
		out = append(out, s...)
	}
	return out
}
