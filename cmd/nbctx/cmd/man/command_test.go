package man

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbctx/internal/cmd/application"
)

func TestManPage(t *testing.T) {
	root := &cobra.Command{Use: "nbctx", Short: "Sync NetBox config contexts"}
	root.AddCommand(&cobra.Command{Use: "pull <dir>", Short: "Write contexts", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(NewCommand(&application.Mock{VersionFunc: func() string { return "1.2.3" }}))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"man"})
	require.NoError(t, root.Execute())

	page := out.String()
	assert.Contains(t, page, ".TH ")
	assert.Contains(t, page, "NBCTX")
	assert.Contains(t, page, "nbctx 1.2.3")
	assert.Contains(t, page, "Sync NetBox config contexts")
}
