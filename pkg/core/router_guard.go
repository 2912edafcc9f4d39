package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

var emptyObject = []byte(`{}`)

// Guard enforces the reply size limit while the reply is read, then checks
// the reply is a single JSON value.
type Guard struct {
	DefaultLimit int64 // 0 means unbounded
}

// Limit is the request's own limit when given, else the default.
func (g Guard) Limit(req *InvocationRequest) int64 {
	if req.MaxResponseSize > 0 {
		return req.MaxResponseSize
	}
	return g.DefaultLimit
}

// Consume drains reply into a bounded buffer. Reading stops at the first
// byte past limit; the rest of the stream is never pulled.
func (g Guard) Consume(reply extension.Reply, limit int64, function string) ([]byte, *envelope.Error) {
	defer reply.Close()

	buf := extension.NewBoundedBuffer(limit)
	_, err := reply.WriteTo(buf)
	var nse *extension.NotSerializableError
	switch {
	case err == nil:
	case errors.As(err, &nse):
		return nil, envelope.NotSerializable()
	case errors.Is(err, extension.ErrLimitExceeded):
		return nil, envelope.SizeExceeded(limit)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, envelope.FunctionTimeout(function)
	default:
		return nil, envelope.NotSerializable()
	}

	out := bytes.TrimSpace(buf.Bytes())
	if len(out) == 0 {
		return emptyObject, nil
	}
	if !json.Valid(out) {
		return nil, envelope.NotSerializable()
	}
	return out, nil
}
