package codec

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/agentstation/nbctx/pkg/errors"
)

// YAML renders contexts as block-style YAML with sorted keys.
//
// Strings plain YAML would misread are double-quoted. When the block
// rendering still does not decode back to the input, Encode falls back
// to quoting every multi-line string and then to JSON-style flow YAML.
type YAML struct{}

// Name implements Codec.
func (YAML) Name() string { return "yaml" }

// Extension implements Codec.
func (YAML) Extension() string { return "yml" }

type yamlStyle int

const (
	styleBlock yamlStyle = iota
	styleQuotedMultiline
	styleFlow
)

// Encode implements Codec.
func (c YAML) Encode(v Value) ([]byte, error) {
	want := Normalize(v)
	if err := checkFinite(want); err != nil {
		return nil, err
	}

	var lastErr error
	for _, style := range []yamlStyle{styleBlock, styleQuotedMultiline, styleFlow} {
		data, err := marshalYAML(want, style)
		if err != nil {
			lastErr = err
			continue
		}
		got, err := c.Decode(data)
		if err == nil && reflect.DeepEqual(got, want) {
			return data, nil
		}
		lastErr = err
	}
	return nil, errors.NewParseError("yaml", "", "value has no lossless YAML rendering", lastErr)
}

// Decode implements Codec. Input holding more than one document is
// rejected.
func (YAML) Decode(data []byte) (Value, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, errors.NewParseError("yaml", "", yaml.FormatError(err, false, true), err)
	}

	var body ast.Node
	for _, doc := range file.Docs {
		if doc.Body == nil {
			continue
		}
		if body != nil {
			return nil, errors.NewParseError("yaml", "", "unexpected document after the first one", nil)
		}
		body = doc.Body
	}
	if body == nil {
		return nil, nil
	}

	var v any
	if err := yaml.NodeToValue(body, &v); err != nil {
		return nil, errors.NewParseError("yaml", "", yaml.FormatError(err, false, true), err)
	}
	return Normalize(v), nil
}

func marshalYAML(v Value, style yamlStyle) ([]byte, error) {
	opts := []yaml.EncodeOption{
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.CustomMarshaler[float64](marshalFloat),
	}
	if style == styleFlow {
		opts = append(opts, yaml.JSON())
	}
	data, err := yaml.MarshalWithOptions(quoteStrings(v, style == styleQuotedMultiline), opts...)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}

// quotedString is a string rendered as a double-quoted scalar.
type quotedString string

// MarshalYAML implements yaml.BytesMarshaler.
func (s quotedString) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

// quoteStrings copies v, wrapping the strings that need quoting.
func quoteStrings(v Value, multiline bool) Value {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = quoteStrings(val, multiline)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = quoteStrings(val, multiline)
		}
		return out
	case string:
		if needsQuotes(t) || (multiline && strings.Contains(t, "\n")) {
			return quotedString(t)
		}
		return t
	default:
		return v
	}
}

// needsQuotes reports whether a plain rendering of s could decode to a
// different value.
func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case ".inf", ".nan":
		return true
	}
	if strings.ContainsRune("-?:,[]{}#&*!|>'\"%@` ", rune(s[0])) {
		return true
	}
	if strings.HasSuffix(s, " ") {
		return true
	}
	for _, r := range s {
		if r == '\n' {
			continue
		}
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

// marshalFloat renders f with a decimal point so it decodes as a float.
func marshalFloat(f float64) ([]byte, error) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsRune(s, '.') {
		if i := strings.IndexByte(s, 'e'); i >= 0 {
			s = s[:i] + ".0" + s[i:]
		} else {
			s += ".0"
		}
	}
	return []byte(s), nil
}

// checkFinite rejects NaN and infinities, which have no JSON form either.
func checkFinite(v Value) error {
	switch t := v.(type) {
	case map[string]any:
		for _, k := range SortedKeys(t) {
			if err := checkFinite(t[k]); err != nil {
				return err
			}
		}
	case []any:
		for _, val := range t {
			if err := checkFinite(val); err != nil {
				return err
			}
		}
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return errors.NewParseError("yaml", "", "unsupported value "+strconv.FormatFloat(t, 'g', -1, 64), nil)
		}
	}
	return nil
}
