package cmd

import (
	"fmt"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/feed"
	"scholarfeed/internal/render"

	"github.com/spf13/cobra"
)

var (
	feedTab          string
	feedHub          string
	feedWithBounties bool
	feedPages        int
	feedOutput       string
)

// feedCmd shows the home feed.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the home feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cache, closeCache := newCache(cfg)
		defer closeCache()
		client := newBackendClient(cfg, cache)
		ctx := cmd.Context()

		var hubIDs []string
		if feedHub != "" {
			id, err := client.HubIDBySlug(ctx, feedHub)
			if err != nil {
				return err
			}
			hubIDs = []string{id}
		}

		var src feed.Source = &feed.FeedSource{
			Client:  client,
			Filters: backend.FeedFilters{Tab: feedTab, HubIDs: hubIDs},
		}
		if feedWithBounties {
			src = feed.NewMultiSource(src, &feed.BountySource{
				Client:  client,
				Filters: backend.BountyFilters{Status: "OPEN"},
			})
		}

		pager := feed.NewPager(cfg.Feed.PageSize)
		if err := fetchPages(ctx, pager, src, feedPages); err != nil {
			return err
		}
		entries := pager.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
			return nil
		}
		return render.Write(cmd.OutOrStdout(), feedOutput, entries)
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedTab, "tab", "latest", "feed tab: latest, popular or following")
	feedCmd.Flags().StringVar(&feedHub, "hub", "", "restrict to a hub by slug")
	feedCmd.Flags().BoolVar(&feedWithBounties, "with-bounties", false, "interleave open bounties into the feed")
	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "number of pages to fetch")
	feedCmd.Flags().StringVarP(&feedOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(feedCmd)
}
