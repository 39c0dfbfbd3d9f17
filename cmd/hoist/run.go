package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <action> [args...]",
		Short: "Run an action by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			// Stream output lines as the action emits them.
			h := newHost(logger, func(msg string) {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			})
			defer h.Close()
			h.Start(cmd.Context())

			result := h.RunAction(args[0], args[1:])
			if result.Success {
				return nil
			}

			// Print the causal chain, outermost first.
			fmt.Fprintf(os.Stderr, "action %q failed:\n", result.ActionName)
			for err := result.Err; err != nil; err = errors.Unwrap(err) {
				fmt.Fprintf(os.Stderr, "  %v\n", err)
			}
			return fmt.Errorf("action %q failed", result.ActionName)
		},
	}
}
