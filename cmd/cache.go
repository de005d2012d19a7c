package cmd

import (
	"context"
	"fmt"
	"time"

	"scholarfeed/internal/refcache"

	"github.com/spf13/cobra"
)

// cacheCmd groups reference-cache utilities.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Reference cache utilities",
}

// cachePingCmd pings the configured redis server.
var cachePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("no redis address configured")
		}

		rdb := refcache.NewRedisClient(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePingCmd)
	rootCmd.AddCommand(cacheCmd)
}
