package codec

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/agentstation/nbctx/pkg/errors"
)

// JSON renders contexts as two-space indented JSON with sorted keys and
// a trailing newline.
type JSON struct{}

// Name implements Codec.
func (JSON) Name() string { return "json" }

// Extension implements Codec.
func (JSON) Extension() string { return "json" }

// Encode implements Codec.
func (JSON) Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Normalize(v)); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return buf.Bytes(), nil
}

// Decode implements Codec.
func (JSON) Decode(data []byte) (Value, error) {
	return DecodeJSON(bytes.NewReader(data))
}

// DecodeJSON reads exactly one JSON document from r, keeping integral
// numbers as int64.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewParseError("json", "", "unexpected data after top-level value", err)
	}
	return Normalize(v), nil
}
