package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rulings-crawler/internal/sets"
)

// newSetsCmd печатает таблицу сетов в порядке обхода --scrape-all
func newSetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List known sets in --scrape-all crawl order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			path := opts.setsPath
			if path == "" && opts.configPath != "" {
				cfg, err := loadConfig(cmd, opts)
				if err != nil {
					return err
				}
				path = cfg.Sets.File
			}

			registry, err := sets.Load(path)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Set", "Kind", "Cards", "First", "Last"})
			for i, l := range registry.Listings() {
				t.AppendRow(table.Row{
					i + 1,
					l.ID,
					l.Kind,
					l.Count,
					registry.FormatCardID(l.ID, 1),
					registry.FormatCardID(l.ID, l.Count),
				})
			}
			t.SetStyle(table.StyleLight)
			t.Render()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d sets\n", len(registry.Listings()))
			return err
		},
	}
}
