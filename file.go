// Package plour reads the Apache Parquet columnar file format. It
// validates file framing, decodes the self-describing footer, flattens
// the nested schema into leaf columns, and streams, decompresses and
// decodes column-chunk pages into dense typed arrays.
//
// A File opened over an in-memory buffer is safe for concurrent column
// reads; a File opened over an io.ReadSeeker owns a single read cursor
// and must not be shared across concurrent operations.
package plour

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/diana-hep/plour/format"
)

const magic = "PAR1"

// transport reads raw bytes from the underlying file. It is the only
// seam between the decoder and its byte source: section positions the
// transport at an absolute offset and returns a reader for forward
// reads from there.
type transport interface {
	section(off int64) (io.Reader, error)
	size() int64
	// concurrent reports whether independent sections may be read at
	// the same time.
	concurrent() bool
}

// bufferTransport serves reads from a flat in-memory byte buffer.
// Sections are independent readers over shared immutable bytes, so any
// number may be live at once.
type bufferTransport struct {
	data []byte
}

func (t *bufferTransport) section(off int64) (io.Reader, error) {
	if off < 0 || off > int64(len(t.data)) {
		return nil, fmt.Errorf("seek point %d is beyond buffer with %d bytes", off, len(t.data))
	}
	return bytes.NewReader(t.data[off:]), nil
}

func (t *bufferTransport) size() int64      { return int64(len(t.data)) }
func (t *bufferTransport) concurrent() bool { return true }

// streamTransport serves reads from a seekable stream. There is one
// shared cursor: taking a new section invalidates the previous one.
type streamTransport struct {
	r   io.ReadSeeker
	end int64
}

func (t *streamTransport) section(off int64) (io.Reader, error) {
	if _, err := t.r.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to offset %d: %w", off, err)
	}
	return t.r, nil
}

func (t *streamTransport) size() int64      { return t.end }
func (t *streamTransport) concurrent() bool { return false }

func readAt(t transport, off int64, n int) ([]byte, error) {
	sec, err := t.section(off)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(sec, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// File is an open Parquet file: validated framing, decoded footer
// metadata, and the flattened schema tree. The metadata and schema are
// immutable after Open and safe to share across readers.
type File struct {
	src    transport
	meta   *format.FileMetaData
	fields []*SchemaNode
	closer io.Closer
}

// OpenBuffer opens a Parquet file held entirely in memory. The buffer
// is not copied; it must stay unmodified for the lifetime of the File.
func OpenBuffer(data []byte) (*File, error) {
	return open(&bufferTransport{data: data})
}

// Open opens a Parquet file backed by a seekable stream. The stream's
// single cursor is owned by the returned File.
func Open(r io.ReadSeeker) (*File, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("finding stream size: %w", err)
	}
	return open(&streamTransport{r: r, end: end})
}

// OpenFile opens the named file from disk. Close releases the handle.
func OpenFile(path string) (*File, error) {
	h, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := Open(h)
	if err != nil {
		h.Close()
		return nil, err
	}
	f.closer = h
	return f, nil
}

func open(src transport) (*File, error) {
	size := src.size()
	if size < 12 {
		return nil, fmt.Errorf("file of %d bytes is too short to be a parquet file: %w", size, ErrInvalidFormat)
	}

	head, err := readAt(src, 0, 4)
	if err != nil {
		return nil, fmt.Errorf("reading header magic: %w", err)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("not a parquet file: header magic is %q: %w", head, ErrInvalidFormat)
	}

	// Trailer layout is [footer][4-byte length][4-byte magic].
	tail, err := readAt(src, size-8, 8)
	if err != nil {
		return nil, fmt.Errorf("reading trailer: %w", err)
	}
	if string(tail[4:]) != magic {
		return nil, fmt.Errorf("not a parquet file: footer magic is %q: %w", tail[4:], ErrInvalidFormat)
	}
	footerLen := int64(int32(binary.LittleEndian.Uint32(tail[:4])))
	if footerLen <= 0 || footerLen > size-8 {
		return nil, fmt.Errorf("footer length %d does not fit a %d byte file: %w", footerLen, size, ErrInvalidFormat)
	}

	footer, err := readAt(src, size-8-footerLen, int(footerLen))
	if err != nil {
		return nil, fmt.Errorf("reading footer: %w", err)
	}
	meta := &format.FileMetaData{}
	if err := format.Unmarshal(footer, meta); err != nil {
		return nil, fmt.Errorf("decoding footer metadata: %w", err)
	}

	fields, err := flattenSchema(meta.Schema)
	if err != nil {
		return nil, err
	}

	return &File{src: src, meta: meta, fields: fields}, nil
}

// Close releases the underlying handle when the File owns one.
func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// Metadata returns the decoded footer. Read-only.
func (f *File) Metadata() *format.FileMetaData { return f.meta }

// Fields returns the top-level schema fields (the direct children of
// the file root), each the root of its own subtree.
func (f *File) Fields() []*SchemaNode { return f.fields }

// NumRowGroups returns the number of row groups in the file.
func (f *File) NumRowGroups() int { return len(f.meta.RowGroups) }

// Leaf resolves a leaf column by its full name path from the root.
func (f *File) Leaf(path ...string) (*SchemaNode, error) {
	nodes := f.fields
	var node *SchemaNode
	for _, name := range path {
		node = nil
		for _, n := range nodes {
			if n.Name == name {
				node = n
				break
			}
		}
		if node == nil {
			return nil, fmt.Errorf("schema has no field %q: %w", strings.Join(path, "."), ErrInvalidFormat)
		}
		nodes = node.Children
	}
	if node == nil {
		return nil, fmt.Errorf("empty column path: %w", ErrInvalidFormat)
	}
	if !node.Leaf() {
		return nil, fmt.Errorf("field %q is a group, not a leaf column: %w", strings.Join(path, "."), ErrInvalidFormat)
	}
	return node, nil
}

// Leaves returns every leaf column in schema order.
func (f *File) Leaves() []*SchemaNode {
	var out []*SchemaNode
	var walk func(nodes []*SchemaNode)
	walk = func(nodes []*SchemaNode) {
		for _, n := range nodes {
			if n.Leaf() {
				out = append(out, n)
				continue
			}
			walk(n.Children)
		}
	}
	walk(f.fields)
	return out
}
