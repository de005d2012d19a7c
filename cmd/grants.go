package cmd

import (
	"fmt"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/feed"
	"scholarfeed/internal/render"

	"github.com/spf13/cobra"
)

var (
	grantsStatus string
	grantsPages  int
	grantsOutput string
)

// grantsCmd lists funding opportunities.
var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "List grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cache, closeCache := newCache(cfg)
		defer closeCache()
		client := newBackendClient(cfg, cache)

		pager := feed.NewPager(cfg.Feed.PageSize)
		src := &feed.GrantSource{
			Client:  client,
			Filters: backend.GrantFilters{Status: grantsStatus},
		}
		if err := fetchPages(cmd.Context(), pager, src, grantsPages); err != nil {
			return err
		}
		entries := pager.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No grants.")
			return nil
		}
		return render.Write(cmd.OutOrStdout(), grantsOutput, entries)
	},
}

func init() {
	grantsCmd.Flags().StringVar(&grantsStatus, "status", "", "grant status: OPEN or CLOSED")
	grantsCmd.Flags().IntVar(&grantsPages, "pages", 1, "number of pages to fetch")
	grantsCmd.Flags().StringVarP(&grantsOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(grantsCmd)
}
