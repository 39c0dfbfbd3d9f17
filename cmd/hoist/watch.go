package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the host and reload on configuration changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			h := newHost(logger, func(msg string) {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			})
			defer h.Close()
			h.Start(ctx)

			if err := h.WatchConfig(ctx); err != nil {
				return fmt.Errorf("start config watch: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "watching configuration; press Ctrl-C to exit")
			<-ctx.Done()
			return nil
		},
	}
}
