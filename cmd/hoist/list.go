package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			h := newHost(logger, nil)
			defer h.Close()
			h.Start(cmd.Context())

			records := h.Actions()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tSOURCE\tDESCRIPTION")
			for _, rec := range records {
				if category != "" && rec.Category != category {
					continue
				}
				desc, err := h.DescribeAction(rec.Name, nil)
				if err != nil {
					desc = rec.Description
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Name, rec.Category, rec.Source, desc)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show actions in this category")
	return cmd
}
