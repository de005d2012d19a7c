package cmd

import (
	"fmt"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/feed"
	"scholarfeed/internal/render"

	"github.com/spf13/cobra"
)

var (
	fundStatus string
	fundHub    string
	fundPages  int
	fundOutput string
)

// fundCmd lists fundraising proposals from the marketplace.
var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "List fundraising proposals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cache, closeCache := newCache(cfg)
		defer closeCache()
		client := newBackendClient(cfg, cache)
		ctx := cmd.Context()

		filters := backend.DocumentFilters{
			DocType:         "PREREGISTRATION",
			FundraiseStatus: fundStatus,
		}
		if fundHub != "" {
			id, err := client.HubIDBySlug(ctx, fundHub)
			if err != nil {
				return err
			}
			filters.HubID = id
		}

		pager := feed.NewPager(cfg.Feed.PageSize)
		src := &feed.DocumentSource{Client: client, Filters: filters}
		if err := fetchPages(ctx, pager, src, fundPages); err != nil {
			return err
		}
		entries := pager.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No proposals.")
			return nil
		}
		return render.Write(cmd.OutOrStdout(), fundOutput, entries)
	},
}

func init() {
	fundCmd.Flags().StringVar(&fundStatus, "status", "OPEN", "fundraise status: OPEN, CLOSED or COMPLETED")
	fundCmd.Flags().StringVar(&fundHub, "hub", "", "restrict to a hub by slug")
	fundCmd.Flags().IntVar(&fundPages, "pages", 1, "number of pages to fetch")
	fundCmd.Flags().StringVarP(&fundOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(fundCmd)
}
