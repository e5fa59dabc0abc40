package pull

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbctx/internal/cmd/application"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/inventory/memory"
)

func newMock() *application.Mock {
	return application.NewMock(memory.FromSnapshot(inventory.Snapshot{
		"vm-a": map[string]any{"role": "web"},
		"vm-b": map[string]any{"role": "db"},
	}))
}

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPull(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, newMock(), dir)
	require.NoError(t, err)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, "Wrote virtual machine contexts to "+abs+".\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "vm-a.yml"))
	require.NoError(t, err)
	assert.Equal(t, "role: web\n", string(data))
	assert.FileExists(t, filepath.Join(dir, "vm-b.yml"))
}

func TestPullJSONCodecAndOutput(t *testing.T) {
	dir := t.TempDir()
	app := newMock()
	app.CodecFunc = func() (codec.Codec, error) { return codec.JSON{}, nil }
	app.OutputFormatFunc = func() string { return "json" }

	out, err := execute(t, app, dir)
	require.NoError(t, err)

	var result Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "vm", result.Kind)
	require.Len(t, result.Written, 2)
	assert.Equal(t, "vm-a", result.Written[0].Name)
	assert.Equal(t, filepath.Join(dir, "vm-a.json"), result.Written[0].Path)
	assert.FileExists(t, filepath.Join(dir, "vm-b.json"))
}

func TestPullReportsSkippedNames(t *testing.T) {
	inv := memory.New()
	inv.Add("vm-a", nil)
	inv.Add("bad/name", map[string]any{"x": 1})

	out, err := execute(t, application.NewMock(inv), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped 1 objects whose names cannot be used as file names: bad/name\n")
	assert.Contains(t, out, "Wrote virtual machine contexts to ")
}

func TestResultTextListsSharedNames(t *testing.T) {
	r := &Result{Directory: "/srv/contexts", Ambiguous: []string{"sw1", "vm-a"}, singular: "device"}

	var out bytes.Buffer
	require.NoError(t, r.WriteText(&out))
	assert.Equal(t, "Skipped 2 names shared by several objects: sw1, vm-a\n"+
		"Wrote device contexts to /srv/contexts.\n", out.String())
}

func TestPullMissingDirectory(t *testing.T) {
	_, err := execute(t, newMock(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestPullRequiresDirectory(t *testing.T) {
	_, err := execute(t, newMock())
	assert.Error(t, err)
}

func TestResultTableData(t *testing.T) {
	r := &Result{}
	assert.Empty(t, r.TableData().Rows)

	dir := t.TempDir()
	var out bytes.Buffer
	app := newMock()
	app.OutputFormatFunc = func() string { return "table" }
	require.NoError(t, Run(context.Background(), app, dir, &out))
	assert.Contains(t, out.String(), "vm-a")
	assert.Contains(t, out.String(), filepath.Join(dir, "vm-b.yml"))
}
