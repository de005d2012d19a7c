package cmd

import (
	"fmt"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/feed"
	"scholarfeed/internal/render"

	"github.com/spf13/cobra"
)

var (
	earnStatus string
	earnSort   string
	earnPages  int
	earnOutput string
)

// earnCmd lists bounties open for work.
var earnCmd = &cobra.Command{
	Use:   "earn",
	Short: "List bounties",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cache, closeCache := newCache(cfg)
		defer closeCache()
		client := newBackendClient(cfg, cache)

		pager := feed.NewPager(cfg.Feed.PageSize)
		src := &feed.BountySource{
			Client:  client,
			Filters: backend.BountyFilters{Status: earnStatus, Sort: earnSort},
		}
		if err := fetchPages(cmd.Context(), pager, src, earnPages); err != nil {
			return err
		}
		entries := pager.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No bounties.")
			return nil
		}
		if total := pager.Total(); total > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d bounties:\n", len(entries), total)
		}
		return render.Write(cmd.OutOrStdout(), earnOutput, entries)
	},
}

func init() {
	earnCmd.Flags().StringVar(&earnStatus, "status", "OPEN", "bounty status: OPEN, CLOSED or EXPIRED")
	earnCmd.Flags().StringVar(&earnSort, "sort", "", "sort key, e.g. -created_date or expiration_date")
	earnCmd.Flags().IntVar(&earnPages, "pages", 1, "number of pages to fetch")
	earnCmd.Flags().StringVarP(&earnOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(earnCmd)
}
