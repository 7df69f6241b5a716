package plour

import (
	"context"
	"fmt"
	"io"

	"github.com/diana-hep/plour/format"
)

// Page is one step of a column chunk's page stream: the decoded
// header, the raw (still compressed) payload, and the half-open value
// range [Start, Stop) the page covers within the chunk. Dictionary
// pages cover no values, so Start == Stop for them.
type Page struct {
	Header     *format.PageHeader
	Compressed []byte
	Start      int64
	Stop       int64
}

// pageReader lazily walks the pages of one column chunk in file
// order. It is forward-only, single-consumer and not restartable; the
// usual loop is
//
//	for pr.Next() { use(pr.Page()) }
//	if err := pr.Err(); err != nil { ... }
//
// Page boundaries are discovered from the embedded headers: each
// header says how many payload bytes follow it, and the next header
// starts right after. The stream ends when the running data-value
// count reaches the chunk's total.
type pageReader struct {
	r     io.Reader
	total int64
	start int64
	page  Page
	err   error
}

func newPageReader(src transport, chunk *format.ColumnChunk) (*pageReader, error) {
	meta := chunk.MetaData
	if meta == nil {
		return nil, fmt.Errorf("column chunk at offset %d carries no metadata: %w", chunk.FileOffset, ErrInvalidFormat)
	}
	sec, err := src.section(firstPageOffset(chunk))
	if err != nil {
		return nil, err
	}
	return &pageReader{r: sec, total: meta.NumValues}, nil
}

// firstPageOffset finds where the chunk's first page begins. Writers
// that emit a dictionary page put it first and record its offset
// separately; otherwise the first data page is the start. The chunk's
// own file offset is the fallback.
func firstPageOffset(chunk *format.ColumnChunk) int64 {
	meta := chunk.MetaData
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset != 0 {
		return *meta.DictionaryPageOffset
	}
	if meta.DataPageOffset != 0 {
		return meta.DataPageOffset
	}
	return chunk.FileOffset
}

// Next advances to the next page. It returns false at the end of the
// chunk or on error; Err distinguishes the two.
func (pr *pageReader) Next() bool {
	if pr.err != nil || pr.start >= pr.total {
		return false
	}

	header := &format.PageHeader{}
	if _, err := format.ReadFrom(context.Background(), pr.r, header); err != nil {
		pr.err = fmt.Errorf("reading page header after value %d of %d: %w", pr.start, pr.total, err)
		return false
	}

	var payload []byte
	if n := int(header.CompressedPageSize); n > 0 {
		payload = make([]byte, n)
		if _, err := io.ReadFull(pr.r, payload); err != nil {
			pr.err = fmt.Errorf("reading %d byte page payload after value %d: %w", n, pr.start, err)
			return false
		}
	}

	stop := pr.start
	if header.DataPageHeader != nil {
		stop += int64(header.DataPageHeader.NumValues)
	}
	pr.page = Page{Header: header, Compressed: payload, Start: pr.start, Stop: stop}
	pr.start = stop
	return true
}

// Page returns the page Next positioned on.
func (pr *pageReader) Page() Page { return pr.page }

// Err returns the first failure encountered, if any.
func (pr *pageReader) Err() error { return pr.err }
