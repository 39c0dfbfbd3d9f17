package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbarrett/hoist/internal/config"
)

func newConfigCmd() *cobra.Command {
	var layerName string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the layered configuration",
	}
	cmd.PersistentFlags().StringVar(&layerName, "layer", "workspace",
		"layer to edit: user or workspace")

	get := &cobra.Command{
		Use:   "get <path>",
		Short: "Print a merged configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			h := newHost(logger, nil)
			defer h.Close()

			value, ok := h.Store().Get(args[0])
			if !ok {
				return fmt.Errorf("no value at %q", args[0])
			}
			out, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a configuration value in one layer",
		Long:  "The value is parsed as JSON when possible (numbers, booleans, objects, arrays) and stored as a string otherwise.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := config.ParseLayer(layerName)
			if err != nil {
				return err
			}
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			h := newHost(logger, nil)
			defer h.Close()
			return h.Store().Save(layer, args[0], parseValue(args[1]))
		},
	}

	unset := &cobra.Command{
		Use:   "unset <path>",
		Short: "Remove a configuration value from one layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			layer, err := config.ParseLayer(layerName)
			if err != nil {
				return err
			}
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			h := newHost(logger, nil)
			defer h.Close()
			return h.Store().Delete(layer, args[0])
		},
	}

	cmd.AddCommand(get, set, unset)
	return cmd
}

// parseValue interprets a CLI value: JSON when it decodes, raw string
// otherwise, so `set ui.compactList true` stores a boolean while
// `set theme.primaryColor cyan` stores a string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
