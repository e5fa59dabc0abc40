package output

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbctx/internal/cmd/table"
	"github.com/agentstation/nbctx/pkg/errors"
)

type greeting struct {
	Name string `json:"name"`
}

func (g greeting) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "hello %s\n", g.Name)
	return err
}

type file struct {
	Name      string `json:"name"`
	FullPath  string `json:"full_path,omitempty"`
	Untagged  int
	unchecked bool
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, greeting{Name: "vm-a"}))
	assert.Equal(t, "hello vm-a\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatText, "plain"))
	assert.Equal(t, "plain\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, map[string]any{"path": "<dir>/vm-a.yml"}))
	assert.Equal(t, "{\n  \"path\": \"<dir>/vm-a.yml\"\n}\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, map[string]any{"changed": []string{"a.yml"}}))
	assert.Equal(t, "changed:\n- a.yml\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	t.Run("explicit data", func(t *testing.T) {
		var buf bytes.Buffer
		data := table.Data{
			Headers:         []string{"Name", "Path"},
			Rows:            [][]string{{"vm-a", "/tmp/vm-a.yml"}},
			ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
		}
		require.NoError(t, Write(&buf, FormatTable, data))
		out := buf.String()
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "vm-a")
		assert.Contains(t, out, "/tmp/vm-a.yml")
	})

	t.Run("struct slice via reflection", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FormatTable, []file{{Name: "vm-b", FullPath: "/x/vm-b.yml", Untagged: 3}}))
		out := buf.String()
		assert.Contains(t, out, "FULL PATH")
		assert.Contains(t, out, "UNTAGGED")
		assert.Contains(t, out, "/x/vm-b.yml")
		assert.NotContains(t, out, "UNCHECKED")
	})

	t.Run("single struct pointer", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FormatTable, &file{Name: "vm-c"}))
		assert.Contains(t, buf.String(), "PROPERTY")
		assert.Contains(t, buf.String(), "vm-c")
	})

	t.Run("fallback to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FormatTable, []string{"a"}))
		assert.Equal(t, "[\n  \"a\"\n]\n", buf.String())
	})
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"text", "TABLE", "json", "yaml", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("wide")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
	assert.Equal(t, FormatText, DetectFormat(""))
}
