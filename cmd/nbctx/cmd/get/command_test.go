package get

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbctx/internal/cmd/application"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/inventory/memory"
)

func newMock() (*application.Mock, int) {
	inv := memory.New()
	inv.Add("vm-a", map[string]any{"role": "web", "ports": []any{80, 443}})
	id := inv.Add("vm-b", nil)
	return application.NewMock(inv), id
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

func TestGetByName(t *testing.T) {
	app, _ := newMock()
	out, err := execute(t, app, "vm-a")
	require.NoError(t, err)
	assert.Equal(t, "ports:\n- 80\n- 443\nrole: web\n", out)
}

func TestGetByID(t *testing.T) {
	app, id := newMock()
	app.CodecFunc = func() (codec.Codec, error) { return codec.JSON{}, nil }

	out, err := execute(t, app, "--id", strconv.Itoa(id))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)
}

func TestGetJSONOutput(t *testing.T) {
	app, _ := newMock()
	app.OutputFormatFunc = func() string { return "json" }

	out, err := execute(t, app, "vm-a")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "vm", got["kind"])
	assert.Equal(t, "vm-a", got["name"])
	assert.Equal(t, map[string]any{"role": "web", "ports": []any{80.0, 443.0}}, got["context"])
}

func TestGetTableOutput(t *testing.T) {
	app, _ := newMock()
	app.OutputFormatFunc = func() string { return "table" }

	out, err := execute(t, app, "vm-a")
	require.NoError(t, err)
	assert.Contains(t, out, "[80,443]")
	assert.Contains(t, out, "role")
}

func TestGetSelectorErrors(t *testing.T) {
	app, _ := newMock()

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{name: "nothing selected", args: nil, check: errors.IsValidationError},
		{name: "name and id", args: []string{"vm-a", "--id", "1"}, check: errors.IsValidationError},
		{name: "zero id", args: []string{"--id", "0"}, check: errors.IsValidationError},
		{name: "unknown name", args: []string{"vm-x"}, check: errors.IsNotFound},
		{name: "unknown id", args: []string{"--id", "999"}, check: errors.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, app, tt.args...)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}
