package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/binctl/internal/paths"
	"github.com/mesh-intelligence/binctl/pkg/types"
)

// Keys read from config.yaml.
const (
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyBusyTimeout = "busy_timeout"
	cfgKeyLogLevel    = "log_level"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	defaultLogLevel = "warn"
)

// defaultConfigYAML is written to config.yaml the first time binctl runs
// with a given config directory.
const defaultConfigYAML = `# binctl configuration

# Storage backend
backend: sqlite

# Data directory (overridden by --data-dir)
# data_dir:

# How long a writer waits for a competing writer before failing
# busy_timeout: 5s

# debug, info, warn or error (overridden by --log-level)
# log_level: warn
`

// loadConfig reads config.yaml from configDir. It creates the directory
// and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyBusyTimeout, types.DefaultBusyTimeout)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.BindEnv(cfgKeyLogLevel, "BINCTL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
