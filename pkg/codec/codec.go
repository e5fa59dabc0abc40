// Package codec renders object contexts to text and back.
//
// A Codec is a reversible encode/decode pair for one text format. Encode
// output is canonical: encoding the decoded form of an encoded value
// yields the same bytes again, which is what change detection relies on.
package codec

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/agentstation/nbctx/pkg/errors"
)

// Value is an arbitrary context tree made of map[string]any, []any,
// string, bool, int64, float64 and nil.
type Value = any

// Codec encodes and decodes context values for one text format.
type Codec interface {
	// Name is the format name used on the command line ("yaml", "json").
	Name() string
	// Extension is the file extension without the dot.
	Extension() string
	// Encode renders v in canonical form.
	Encode(v Value) ([]byte, error)
	// Decode parses text produced by Encode or edited by hand.
	Decode(data []byte) (Value, error)
}

var registry = map[string]func() Codec{
	"yaml": func() Codec { return YAML{} },
	"yml":  func() Codec { return YAML{} },
	"json": func() Codec { return JSON{} },
}

// New returns the codec registered under name.
func New(name string) (Codec, error) {
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.NewConfigError("codec",
			"unknown codec "+name+" (supported: "+strings.Join(Names(), ", ")+")", nil)
	}
	return factory(), nil
}

// Names lists the supported codec names.
func Names() []string {
	return []string{"json", "yaml"}
}

// Normalize converts a decoded tree into the canonical Value shapes so
// that values from different decoders compare equal and encode the same.
// Integral numbers become int64, other numbers float64, and maps with
// non-string keys are keyed by their string form.
func Normalize(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[keyString(k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return Normalize(f)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return Normalize(uint64(t))
	case uint32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return float64(t)
	case float32:
		return Normalize(float64(t))
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	default:
		return v
	}
}

func keyString(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// SortedKeys returns the keys of a mapping value in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
