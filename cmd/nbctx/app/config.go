package app

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/nbctx/pkg/constants"
	"github.com/agentstation/nbctx/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// NetBox connection
	URL        string
	Token      string
	Kind       string
	Codec      string
	SkipStatus bool

	// Logging configuration. LogLevel is only set by --log-level; the
	// LOG_LEVEL environment variable lands in EnvLogLevel.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"url":         constants.EnvNetboxURL,
	"token":       constants.EnvNetboxToken,
	"kind":        "NBCTX_KIND",
	"codec":       "NBCTX_CODEC",
	"skip_status": "NBCTX_SKIP_STATUS",
	"format":      "NBCTX_FORMAT",
	"log_level":   "LOG_LEVEL",
	"log_format":  "LOG_FORMAT",
	"log_output":  "LOG_OUTPUT",
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by setupCommand)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.nbctx.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// loadConfig reads configuration, using file instead of the default
// search locations when it is not empty.
func loadConfig(file string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.NewConfigError("environment", "binding "+env, err)
		}
	}

	v.SetDefault("kind", constants.DefaultKind)
	v.SetDefault("codec", constants.DefaultCodec)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)
	}

	// A missing default config file is fine; an explicit or broken one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", "cannot read configuration", err)
		}
	}

	return &Config{
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		URL:        strings.TrimSpace(v.GetString("url")),
		Token:      strings.TrimSpace(v.GetString("token")),
		Kind:       v.GetString("kind"),
		Codec:      v.GetString("codec"),
		SkipStatus: v.GetBool("skip_status"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}, nil
}

// Credentials returns the NetBox URL and token, or a ConfigError naming
// the first missing value and how to supply it.
func (c *Config) Credentials() (url, token string, err error) {
	if c.URL == "" {
		return "", "", errors.NewConfigError("credentials",
			"no NetBox URL found; pass --url, set "+constants.EnvNetboxURL+", or add url to ~/"+constants.ConfigFileName+".yaml", nil)
	}
	if c.Token == "" {
		return "", "", errors.NewConfigError("credentials",
			"no NetBox API token found; pass --token, set "+constants.EnvNetboxToken+", or add token to ~/"+constants.ConfigFileName+".yaml", nil)
	}
	return c.URL, c.Token, nil
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set in the environment are not overridden.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
