package format

import (
	"context"
	"io"

	"github.com/apache/thrift/lib/go/thrift"
)

// Message is a structure that can be deserialized from the Thrift
// Compact Protocol.
type Message interface {
	Read(ctx context.Context, p thrift.TProtocol) error
}

// WritableMessage is a structure that can be serialized with the
// Thrift Compact Protocol.
type WritableMessage interface {
	Write(ctx context.Context, p thrift.TProtocol) error
}

// countingReader wraps a reader and records how many bytes have been
// consumed through it.
type countingReader struct {
	r        io.Reader
	consumed int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.consumed += int64(n)
	return n, err
}

// readTransport is a minimal read-only thrift.TTransport with no
// internal buffering, so the byte count seen by the underlying reader
// is exactly what the protocol consumed. thrift.StreamTransport is not
// usable here: it buffers reads and would overshoot past the end of a
// page header into the page payload.
type readTransport struct {
	r io.Reader
}

func (t *readTransport) Read(p []byte) (int, error) { return t.r.Read(p) }

func (t *readTransport) Write(p []byte) (int, error) {
	return 0, thrift.NewTTransportException(thrift.UNKNOWN_TRANSPORT_EXCEPTION, "transport is read-only")
}

func (t *readTransport) Close() error { return nil }

func (t *readTransport) Flush(ctx context.Context) error { return nil }

func (t *readTransport) Open() error { return nil }

func (t *readTransport) IsOpen() bool { return true }

func (t *readTransport) RemainingBytes() uint64 { return ^uint64(0) }

// ReadFrom deserializes msg from r using the compact protocol and
// returns the exact number of bytes consumed. The reader is left
// positioned on the first byte after the encoded structure, which is
// what page-header parsing depends on.
func ReadFrom(ctx context.Context, r io.Reader, msg Message) (int64, error) {
	cr := &countingReader{r: r}
	proto := thrift.NewTCompactProtocolConf(&readTransport{r: cr}, &thrift.TConfiguration{})
	if err := msg.Read(ctx, proto); err != nil {
		return cr.consumed, err
	}
	return cr.consumed, nil
}

// Unmarshal deserializes msg from an in-memory compact-protocol
// encoding.
func Unmarshal(data []byte, msg Message) error {
	buf := thrift.NewTMemoryBufferLen(len(data))
	if _, err := buf.Write(data); err != nil {
		return err
	}
	proto := thrift.NewTCompactProtocolConf(buf, &thrift.TConfiguration{})
	return msg.Read(context.Background(), proto)
}

// Marshal serializes msg with the compact protocol.
func Marshal(msg WritableMessage) ([]byte, error) {
	ctx := context.Background()
	buf := thrift.NewTMemoryBuffer()
	proto := thrift.NewTCompactProtocolConf(buf, &thrift.TConfiguration{})
	if err := msg.Write(ctx, proto); err != nil {
		return nil, err
	}
	if err := proto.Flush(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
