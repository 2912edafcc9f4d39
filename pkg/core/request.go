package core

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/joeydtaylor/steeze-extension/pkg/envelope"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
)

// TargetKind tells DIY routing apart from connector routing.
type TargetKind string

const (
	TargetDIY       TargetKind = "diy"
	TargetConnector TargetKind = "connector"
)

// TargetSpec is where a request asks to be routed. ConnectorID is set only
// for TargetConnector.
type TargetSpec struct {
	Kind        TargetKind
	ConnectorID string
}

func DiyTarget() TargetSpec { return TargetSpec{Kind: TargetDIY} }

func ConnectorTarget(id string) TargetSpec {
	return TargetSpec{Kind: TargetConnector, ConnectorID: id}
}

func (t TargetSpec) String() string {
	if t.Kind == TargetConnector {
		return "connector:" + t.ConnectorID
	}
	return string(t.Kind)
}

// InvocationRequest is a validated /function body.
type InvocationRequest struct {
	Type            extension.Category
	Function        string
	Options         map[string]json.RawMessage
	Target          TargetSpec
	MaxResponseSize int64 // 0 means use the policy default
}

// rawRequest keeps every field undecoded so presence and type can be
// checked in a fixed order.
type rawRequest struct {
	Type            json.RawMessage `json:"type"`
	Function        json.RawMessage `json:"function"`
	Options         json.RawMessage `json:"options"`
	DIY             json.RawMessage `json:"diy"`
	ConnectorID     json.RawMessage `json:"_connectorId"`
	ConnectorIDAlt  json.RawMessage `json:"connectorId"`
	MaxResponseSize json.RawMessage `json:"maxResponseSize"`
}

// DecodeRequest reads and validates an invocation body. The first failing
// check wins, in the order type, function, options, routing.
func DecodeRequest(body io.Reader) (*InvocationRequest, *envelope.Error) {
	var raw rawRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		return nil, envelope.InvalidJSON()
	}
	if dec.More() {
		return nil, envelope.InvalidJSON()
	}
	return validate(raw)
}

func validate(raw rawRequest) (*InvocationRequest, *envelope.Error) {
	req := &InvocationRequest{}

	typ, e := requiredString(raw.Type, "type")
	if e != nil {
		return nil, e
	}
	req.Type = extension.Category(typ)

	if req.Function, e = requiredString(raw.Function, "function"); e != nil {
		return nil, e
	}

	if absent(raw.Options) {
		return nil, envelope.MissingField("options")
	}
	if err := json.Unmarshal(raw.Options, &req.Options); err != nil || req.Options == nil {
		return nil, envelope.InvalidField("options", "an object")
	}

	if req.Target, e = routing(raw); e != nil {
		return nil, e
	}

	if req.MaxResponseSize, e = maxResponseSize(raw.MaxResponseSize); e != nil {
		return nil, e
	}
	return req, nil
}

func absent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// requiredString treats null and "" as missing.
func requiredString(raw json.RawMessage, name string) (string, *envelope.Error) {
	if absent(raw) {
		return "", envelope.MissingField(name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", envelope.InvalidField(name, "a string")
	}
	if s == "" {
		return "", envelope.MissingField(name)
	}
	return s, nil
}

// routing requires exactly one of diy=true or a connector id.
func routing(raw rawRequest) (TargetSpec, *envelope.Error) {
	var diy bool
	if !absent(raw.DIY) {
		// Anything other than a JSON true does not select DIY.
		_ = json.Unmarshal(raw.DIY, &diy)
	}

	idRaw := raw.ConnectorID
	if absent(idRaw) {
		idRaw = raw.ConnectorIDAlt
	}
	var id string
	if !absent(idRaw) {
		if err := json.Unmarshal(idRaw, &id); err != nil {
			return TargetSpec{}, envelope.InvalidField("_connectorId", "a string")
		}
	}

	switch {
	case diy && id == "":
		return DiyTarget(), nil
	case !diy && id != "":
		return ConnectorTarget(id), nil
	default:
		return TargetSpec{}, envelope.MissingRouting()
	}
}

// maxResponseSize accepts a non-negative integer. Zero and negative values
// are treated as unset.
func maxResponseSize(raw json.RawMessage) (int64, *envelope.Error) {
	if absent(raw) {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, envelope.InvalidField("maxResponseSize", "an integer")
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, envelope.InvalidField("maxResponseSize", "an integer")
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}
