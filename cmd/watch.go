package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/feed"
	"scholarfeed/internal/render"

	"github.com/spf13/cobra"
)

var (
	watchTab      string
	watchInterval string
)

// watchCmd polls the feed on an interval and prints entries not seen in
// earlier polls.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the feed and print new entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cache, closeCache := newCache(cfg)
		defer closeCache()
		client := newBackendClient(cfg, cache)

		iv := watchInterval
		if iv == "" {
			iv = cfg.Feed.WatchInterval
		}
		interval, err := time.ParseDuration(iv)
		if err != nil {
			return fmt.Errorf("invalid watch interval %q: %w", iv, err)
		}

		src := &feed.FeedSource{
			Client:  client,
			Filters: backend.FeedFilters{Tab: watchTab},
		}
		pager := feed.NewPager(cfg.Feed.PageSize)
		seen := make(map[string]struct{})

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		runOnce := func() {
			if err := pager.Load(ctx, src); err != nil {
				slog.Error("watch: load failed", "error", err)
				return
			}
			fresh := 0
			for _, e := range pager.Entries() {
				if _, ok := seen[e.Key()]; ok {
					continue
				}
				seen[e.Key()] = struct{}{}
				fmt.Fprintln(cmd.OutOrStdout(), render.Line(e))
				fresh++
			}
			slog.Debug("watch: poll complete", "new", fresh)
		}

		// initial run, then on interval
		runOnce()

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				runOnce()
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchTab, "tab", "latest", "feed tab to poll")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "poll interval (default from config, e.g. 5m)")
	rootCmd.AddCommand(watchCmd)
}
