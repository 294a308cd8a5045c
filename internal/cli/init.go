package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/binctl/internal/paths"
	"github.com/mesh-intelligence/binctl/pkg/types"
)

// configFile is the structure of config.yaml as written by init.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	BusyTimeout string `yaml:"busy_timeout,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize binctl storage",
		Long: "Create the data directory and the database schema. With --data-dir the\n" +
			"directory is also recorded in config.yaml so later commands find it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
}

func runInit(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.storeConfig()
	if err != nil {
		return err
	}

	if opts.dataDir != "" {
		configDir, err := paths.ResolveConfigDir(opts.configDir)
		if err != nil {
			return sysErrorf("resolve config dir: %w", err)
		}
		if err := recordDataDir(paths.ConfigFile(configDir), cfg.DataDir); err != nil {
			return sysErrorf("write config: %w", err)
		}
	}

	err = opts.withStore(func(types.Store) error { return nil })
	if err != nil {
		return err
	}

	opts.logger.Info("initialized", "data_dir", cfg.DataDir)
	fmt.Fprintf(cmd.OutOrStdout(), "binctl initialized in %s\n", cfg.DataDir)
	return nil
}

// recordDataDir stores dataDir in the config.yaml at path, keeping the other
// keys already present.
func recordDataDir(path, dataDir string) error {
	cfg := configFile{Backend: types.BackendSQLite}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return err
	}

	if cfg.DataDir == dataDir {
		return nil
	}
	cfg.DataDir = dataDir

	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
