package cmd

import (
	"context"
	"log/slog"
	"time"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/config"
	"scholarfeed/internal/feed"
	"scholarfeed/internal/refcache"
)

// newCache picks the reference-data cache: redis when configured,
// otherwise in-process. The returned func releases it.
func newCache(cfg config.Config) (refcache.Cache, func()) {
	if cfg.Redis.Addr != "" {
		r := refcache.NewRedis(cfg.Redis)
		return r, func() { _ = r.Close() }
	}
	return refcache.NewMemory(), func() {}
}

func newBackendClient(cfg config.Config, cache refcache.Cache) *backend.Client {
	timeout, err := time.ParseDuration(cfg.Backend.Timeout)
	if err != nil {
		timeout = 0
	}
	return backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, timeout, cache)
}

// fetchPages loads the first page and keeps loading more until pages
// are exhausted or the requested count is reached. A failed later page
// stops fetching but keeps the pages already accumulated, so commands
// still render what they have.
func fetchPages(ctx context.Context, pager *feed.Pager, src feed.Source, pages int) error {
	if err := pager.Load(ctx, src); err != nil {
		return err
	}
	for i := 1; i < pages && pager.HasMore(); i++ {
		if err := pager.LoadMore(ctx); err != nil {
			slog.Warn("fetch: next page failed, showing partial results", "source", src.Name(), "error", err)
			break
		}
	}
	return nil
}
