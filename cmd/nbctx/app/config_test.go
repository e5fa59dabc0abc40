package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbctx/pkg/errors"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nbctx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	unsetEnv(t, "NETBOX_URL")
	unsetEnv(t, "NETBOX_API_TOKEN")
	unsetEnv(t, "NBCTX_KIND")
	path := writeConfig(t, "url: https://netbox.example.com\ntoken: file-token\nkind: device\ncodec: json\n")

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://netbox.example.com", config.URL)
	assert.Equal(t, "file-token", config.Token)
	assert.Equal(t, "device", config.Kind)
	assert.Equal(t, "json", config.Codec)
	assert.Equal(t, path, config.ConfigFile)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("NETBOX_URL", "https://env.example.com")
	t.Setenv("NETBOX_API_TOKEN", " env-token ")
	path := writeConfig(t, "url: https://file.example.com\ntoken: file-token\n")

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", config.URL)
	assert.Equal(t, "env-token", config.Token)
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "NBCTX_KIND")
	unsetEnv(t, "NBCTX_CODEC")
	unsetEnv(t, "LOG_FORMAT")
	path := writeConfig(t, "{}\n")

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "vm", config.Kind)
	assert.Equal(t, "yaml", config.Codec)
	assert.Equal(t, "auto", config.LogFormat)
	assert.False(t, config.SkipStatus)
}

func TestLoadConfigDotEnv(t *testing.T) {
	unsetEnv(t, "NETBOX_URL")
	unsetEnv(t, "NETBOX_API_TOKEN")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("NETBOX_URL=https://dotenv.example.com\nNETBOX_API_TOKEN=dotenv-token\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"),
		[]byte("NETBOX_API_TOKEN=local-token\n"), 0o600))
	t.Chdir(dir)

	config, err := loadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example.com", config.URL)
	assert.Equal(t, "local-token", config.Token)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, "url: [unterminated\n"))
		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
	})
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "complete", config: Config{URL: "https://nb", Token: "x"}},
		{name: "no url", config: Config{Token: "x"}, wantErr: "no NetBox URL found; pass --url, set NETBOX_URL"},
		{name: "no token", config: Config{URL: "https://nb"}, wantErr: "no NetBox API token found; pass --token, set NETBOX_API_TOKEN"},
		{name: "nothing", config: Config{}, wantErr: "no NetBox URL found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, token, err := tt.config.Credentials()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.config.URL, url)
				assert.Equal(t, tt.config.Token, token)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
