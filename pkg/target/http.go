package target

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-extension/pkg/codec"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

// maxErrorBody caps how much of a failed reply is read to find its error.
const maxErrorBody = 64 << 10

// HTTP posts calls as JSON to a remote extension server.
type HTTP struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

// Invoke sends {function, ...options}. A 2xx reply is returned unread so the
// caller can bound it while streaming; other statuses become a FunctionError.
func (h HTTP) Invoke(ctx context.Context, call extension.Call) (extension.Reply, error) {
	body, err := codec.JSON.Marshal(call.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode call: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", codec.JSON.ContentType())
	req.Header.Set("Accept", "application/json")
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range call.Headers {
		req.Header.Set(k, v)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", h.URL, err)
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return extension.StreamReply{Body: res.Body}, nil
	}
	defer res.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return nil, parseFailure(data)
}

// parseFailure accepts {"errors":[{code,message}]}, {code,message} or {message}.
func parseFailure(data []byte) *extension.FunctionError {
	var shaped struct {
		Errors  []extension.FunctionError `json:"errors"`
		Code    string                    `json:"code"`
		Message string                    `json:"message"`
	}
	if err := json.Unmarshal(data, &shaped); err != nil {
		return &extension.FunctionError{}
	}
	if len(shaped.Errors) > 0 {
		fe := shaped.Errors[0]
		return &extension.FunctionError{Code: strings.TrimSpace(fe.Code), Message: fe.Message}
	}
	return &extension.FunctionError{Code: strings.TrimSpace(shaped.Code), Message: shaped.Message}
}
