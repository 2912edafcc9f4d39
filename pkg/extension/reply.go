package extension

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/joeydtaylor/steeze-extension/pkg/codec"
)

// ErrLimitExceeded is returned by a BoundedBuffer once its limit is crossed.
var ErrLimitExceeded = errors.New("extension: response limit exceeded")

// NotSerializableError wraps a failure to encode a reply value.
type NotSerializableError struct{ Err error }

func (e *NotSerializableError) Error() string { return fmt.Sprintf("reply not serializable: %v", e.Err) }
func (e *NotSerializableError) Unwrap() error { return e.Err }

// ValueReply is an in-process reply. It is encoded when written.
type ValueReply struct{ Value any }

func (r ValueReply) WriteTo(w io.Writer) (int64, error) {
	b, err := codec.JSON.Marshal(r.Value)
	if err != nil {
		return 0, &NotSerializableError{Err: err}
	}
	n, err := w.Write(b)
	return int64(n), err
}

func (ValueReply) Close() error { return nil }

// RawReply is an already encoded reply.
type RawReply json.RawMessage

func (r RawReply) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r)
	return int64(n), err
}

func (RawReply) Close() error { return nil }

// StreamReply is a remote reply read from Body as it arrives.
type StreamReply struct{ Body io.ReadCloser }

func (r StreamReply) WriteTo(w io.Writer) (int64, error) { return io.Copy(w, r.Body) }
func (r StreamReply) Close() error                       { return r.Body.Close() }

// BoundedBuffer collects bytes and fails the first write that takes the total
// past Limit. A non-positive Limit means unbounded.
type BoundedBuffer struct {
	Limit int64
	buf   []byte
}

func NewBoundedBuffer(limit int64) *BoundedBuffer { return &BoundedBuffer{Limit: limit} }

func (b *BoundedBuffer) Write(p []byte) (int, error) {
	if b.Limit > 0 && int64(len(b.buf))+int64(len(p)) > b.Limit {
		room := b.Limit - int64(len(b.buf))
		b.buf = append(b.buf, p[:room]...)
		return int(room), ErrLimitExceeded
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *BoundedBuffer) Bytes() []byte { return b.buf }
func (b *BoundedBuffer) Len() int      { return len(b.buf) }
