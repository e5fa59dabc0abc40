package codec_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/errors"
)

func sampleValues() map[string]codec.Value {
	return map[string]codec.Value{
		"empty map": map[string]any{},
		"flat":      map[string]any{"role": "web"},
		"nested": map[string]any{
			"role":  "db",
			"ports": []any{int64(5432), int64(6432)},
			"tuning": map[string]any{
				"shared_buffers": "4GB",
				"ratio":          0.25,
				"enabled":        true,
				"replica":        nil,
			},
		},
		"tricky strings": map[string]any{
			"numeric": "123",
			"boolish": "true",
			"colon":   "a: b",
			"empty":   "",
			"unicode": "héllo <wörld>",
		},
		"list root": []any{"a", int64(-3), map[string]any{"k": "v"}},
		"negative":  map[string]any{"offset": int64(-42), "big": int64(1) << 40},
		"control characters": map[string]any{
			"tab":            "a\tb",
			"crlf":           "a\r\nb",
			"carriage":       "a\rb",
			"bell":           "x\ay",
			"nul":            "\x00",
			"del":            "\x7f",
			"line separator": "a\u2028b",
			"bom":            "\ufeffx",
		},
		"indicator strings": map[string]any{
			"qmark":      "? x",
			"qmark bare": "?x",
			"dash":       "- x",
			"separator":  "---",
			"colon":      ": x",
			"hash":       "# x",
			"anchor":     "&a",
			"alias":      "*a",
			"tag":        "!tag",
			"literal":    "| x",
			"folded":     "> x",
			"directive":  "%YAML",
			"at":         "@x",
			"backtick":   "`x`",
			"flow seq":   "[a]",
			"flow map":   "{a: b}",
			"single":     "'x'",
			"double":     "\"x\"",
			"comma":      ", x",
			"leading":    " x",
			"trailing":   "x ",
			"comment":    "a #b",
		},
		"special float strings": map[string]any{
			"nan":      ".nan",
			"NaN":      ".NaN",
			"inf":      ".inf",
			"neg inf":  "-.Inf",
			"plus inf": "+.inf",
			"exponent": "1e300",
		},
		"floats": map[string]any{
			"huge":     1e300,
			"tiny":     1e-7,
			"negative": -2.5e200,
		},
		"multiline": map[string]any{
			"script":         "#!/bin/sh\necho hi\n",
			"two lines":      "a\nb",
			"indented first": "  a\nb",
			"blank tail":     "a\n\n",
			"trailing space": "a \nb",
		},
		"odd keys": map[string]any{
			"a\tb": "x",
			"? k":  "y",
			"":     "empty key",
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, name := range codec.Names() {
		c, err := codec.New(name)
		require.NoError(t, err)

		for label, v := range sampleValues() {
			t.Run(name+"/"+label, func(t *testing.T) {
				encoded, err := c.Encode(v)
				require.NoError(t, err)

				decoded, err := c.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, v, decoded)

				again, err := c.Encode(decoded)
				require.NoError(t, err)
				assert.Equal(t, string(encoded), string(again), "canonical form must be a fixed point")
			})
		}
	}
}

func TestYAMLRendering(t *testing.T) {
	c := codec.YAML{}
	assert.Equal(t, "yaml", c.Name())
	assert.Equal(t, "yml", c.Extension())

	out, err := c.Encode(map[string]any{"role": "web"})
	require.NoError(t, err)
	assert.Equal(t, "role: web\n", string(out))

	out, err = c.Encode(map[string]any{"b": int64(1), "a": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, "a: 2\nb: 1\n", string(out), "keys are sorted")
}

func TestYAMLDecodeHandEdits(t *testing.T) {
	c := codec.YAML{}

	v, err := c.Decode([]byte("role:   db\nnote: x\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "db", "note": "x"}, v)

	v, err = c.Decode([]byte("count: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": int64(3)}, v, "integers decode as int64")

	_, err = c.Decode([]byte("role: [unterminated\n"))
	require.Error(t, err)
	assert.True(t, errors.IsSerialization(err))

	v, err = c.Decode([]byte("---\nrole: db\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"role": "db"}, v, "a leading document marker is accepted")

	v, err = c.Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestYAMLDecodeRejectsMultipleDocuments(t *testing.T) {
	c := codec.YAML{}

	for _, text := range []string{
		"role: db\n---\nnote: x\n",
		"---\nrole: db\n---\nrole: web\n",
		"- a\n---\n- b\n",
	} {
		_, err := c.Decode([]byte(text))
		require.Error(t, err, text)
		assert.True(t, errors.IsSerialization(err), text)
		assert.Contains(t, err.Error(), "document")
	}
}

func TestYAMLQuotesAmbiguousStrings(t *testing.T) {
	c := codec.YAML{}

	out, err := c.Encode(map[string]any{"cmd": "a\tb", "role": "web"})
	require.NoError(t, err)
	assert.Equal(t, "cmd: \"a\\tb\"\nrole: web\n", string(out))

	for _, s := range []string{"? x", ".nan", ".inf", "a\r\nb"} {
		out, err := c.Encode(map[string]any{"k": s})
		require.NoError(t, err, s)
		v, err := c.Decode(out)
		require.NoError(t, err, string(out))
		assert.Equal(t, map[string]any{"k": s}, v)
	}
}

func TestYAMLKeepsLiteralBlocks(t *testing.T) {
	out, err := codec.YAML{}.Encode(map[string]any{"script": "echo a\necho b\n"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "script: |"), string(out))
}

func TestYAMLFloats(t *testing.T) {
	c := codec.YAML{}

	out, err := c.Encode(map[string]any{"f": 1e300})
	require.NoError(t, err)
	assert.Equal(t, "f: 1.0e+300\n", string(out))

	out, err = c.Encode(map[string]any{"f": 0.25})
	require.NoError(t, err)
	assert.Equal(t, "f: 0.25\n", string(out))

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := c.Encode(map[string]any{"f": f})
		require.Error(t, err)
		assert.True(t, errors.IsSerialization(err))
	}
}

func TestJSONRendering(t *testing.T) {
	c := codec.JSON{}
	assert.Equal(t, "json", c.Name())
	assert.Equal(t, "json", c.Extension())

	out, err := c.Encode(map[string]any{"role": "web", "id": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1,\n  \"role\": \"web\"\n}\n", string(out))

	out, err = c.Encode(map[string]any{"html": "<b>"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"<b>"`)
}

func TestJSONDecodeErrors(t *testing.T) {
	c := codec.JSON{}

	_, err := c.Decode([]byte(`{"role": `))
	assert.True(t, errors.IsSerialization(err))

	_, err = c.Decode([]byte(`{"a": 1} {"b": 2}`))
	assert.True(t, errors.IsSerialization(err))

	_, err = c.Decode(nil)
	assert.True(t, errors.IsSerialization(err))
}

func TestNew(t *testing.T) {
	for _, name := range []string{"yaml", "YML", "json"} {
		c, err := codec.New(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c)
	}

	_, err := codec.New("toml")
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "json, yaml")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want codec.Value
	}{
		{"int", 7, int64(7)},
		{"uint64", uint64(9), int64(9)},
		{"integral float", 3.0, int64(3)},
		{"fraction", 1.5, 1.5},
		{"json integer", json.Number("12"), int64(12)},
		{"json float", json.Number("0.5"), 0.5},
		{"json integral float", json.Number("2.0"), int64(2)},
		{"any-keyed map", map[any]any{"a": 1, 2: "b"}, map[string]any{"a": int64(1), "2": "b"}},
		{"nested", []any{map[string]any{"n": 1.0}}, []any{map[string]any{"n": int64(1)}}},
		{"nil", nil, nil},
		{"string", "x", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codec.Normalize(tt.in))
		})
	}
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, codec.SortedKeys(map[string]any{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, codec.SortedKeys(nil))
}
