// Package main is the entry point for the hoist action runner.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/host"
	"github.com/cbarrett/hoist/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagWorkspace string
	flagUserDir   string
	flagLogLevel  string
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		// Run errors already printed their causal chain; cobra prints
		// usage errors itself.
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hoist",
		Short:         "Run pluggable project actions",
		Long:          "hoist discovers actions from the project, the user-global directory, and installed plugins, and runs them under a two-layer configuration.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "workspace root (default: current directory)")
	root.PersistentFlags().StringVar(&flagUserDir, "user-dir", "", "user-global hoist directory (default: ~/.config/hoist)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPluginsCmd(),
		newConfigCmd(),
		newWatchCmd(),
	)
	return root
}

// newLogger builds the process logger from the log-level flag.
func newLogger() *zap.Logger {
	return logging.New(flagLogLevel)
}

// newHost assembles a host from the global flags.
func newHost(logger *zap.Logger, sink func(string)) *host.Host {
	return host.New(host.Options{
		WorkspaceRoot: flagWorkspace,
		UserDir:       flagUserDir,
		Logger:        logger,
		Sink:          sink,
	})
}
