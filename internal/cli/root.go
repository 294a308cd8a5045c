// Package cli implements the binctl command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/binctl/internal/paths"
	"github.com/mesh-intelligence/binctl/pkg/sqlite"
	"github.com/mesh-intelligence/binctl/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootOptions holds the global flag values and the state loaded before a
// subcommand runs. One instance is shared by every command of a tree.
type rootOptions struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	config *viper.Viper
	logger *slog.Logger
}

// NewRootCmd creates the top-level "binctl" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "binctl",
		Short: "Organize bins, items and tags",
		Long: "binctl stores a hierarchy of nodes (containers and items) and a set of\n" +
			"tags attached to them, keeping parent links and tag sets consistent.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default: $(CWD)/.binctl-db)")
	root.PersistentFlags().BoolVar(&opts.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newNodeCmd(opts))
	root.AddCommand(newTagCmd(opts))

	return root
}

// Execute runs the root command against the process arguments and returns
// the exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(root.ErrOrStderr(), "binctl:", err)
	return exitCode(err)
}

// exitCode maps an error to the process exit code. Store failures and
// environment failures are system errors; everything else, including
// usage errors reported by cobra, is the caller's to fix.
func exitCode(err error) int {
	var sys *systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrStore), errors.As(err, &sys):
		return exitSysError
	default:
		return exitUserError
	}
}

// systemError marks a failure outside the caller's control.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return &systemError{err: fmt.Errorf(format, args...)}
}

// load reads config.yaml and configures the logger. It runs before every
// subcommand.
func (o *rootOptions) load(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return sysErrorf("resolve config dir: %w", err)
	}

	o.config, err = loadConfig(configDir)
	if err != nil {
		return sysErrorf("%w", err)
	}

	level := o.config.GetString(cfgKeyLogLevel)
	if cmd.Flags().Changed("log-level") {
		level = o.logLevel
	}
	o.logger, err = newLogger(cmd.ErrOrStderr(), level)
	return err
}

// storeConfig builds the Store configuration from flags and config.yaml.
func (o *rootOptions) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(o.dataDir, o.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysErrorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:     o.config.GetString(cfgKeyBackend),
		DataDir:     dataDir,
		BusyTimeout: o.config.GetDuration(cfgKeyBusyTimeout),
	}, nil
}

// withStore attaches a Store, runs fn and detaches it again.
func (o *rootOptions) withStore(fn func(store types.Store) error) error {
	cfg, err := o.storeConfig()
	if err != nil {
		return err
	}

	store := sqlite.NewBackend(o.logger)
	if err := store.Attach(cfg); err != nil {
		return sysErrorf("attach store: %w", err)
	}
	defer func() {
		if err := store.Detach(); err != nil {
			o.logger.Warn("detach failed", "error", err)
		}
	}()

	return fn(store)
}
