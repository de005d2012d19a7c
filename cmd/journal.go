package cmd

import (
	"fmt"

	"scholarfeed/internal/feed"
	"scholarfeed/internal/render"

	"github.com/spf13/cobra"
)

var (
	journalPages  int
	journalOutput string
)

// journalCmd lists a journal's published papers.
var journalCmd = &cobra.Command{
	Use:   "journal <slug>",
	Short: "Show a journal's published papers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cache, closeCache := newCache(cfg)
		defer closeCache()
		client := newBackendClient(cfg, cache)
		ctx := cmd.Context()

		id, err := client.JournalIDBySlug(ctx, args[0])
		if err != nil {
			return err
		}

		pager := feed.NewPager(cfg.Feed.PageSize)
		src := &feed.JournalSource{Client: client, JournalID: id}
		if err := fetchPages(ctx, pager, src, journalPages); err != nil {
			return err
		}
		entries := pager.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No papers.")
			return nil
		}
		return render.Write(cmd.OutOrStdout(), journalOutput, entries)
	},
}

func init() {
	journalCmd.Flags().IntVar(&journalPages, "pages", 1, "number of pages to fetch")
	journalCmd.Flags().StringVarP(&journalOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(journalCmd)
}
