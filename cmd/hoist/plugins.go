package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List installed plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			h := newHost(logger, nil)
			defer h.Close()
			h.Start(cmd.Context())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tENABLED\tACTIONS\tDESCRIPTION")
			for _, p := range h.Plugins() {
				version := p.Meta.Version
				if version == "" {
					version = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%s\n",
					p.Name(), version, p.Enabled, len(p.Actions()), p.Meta.Description)
			}
			return w.Flush()
		},
	}
}
