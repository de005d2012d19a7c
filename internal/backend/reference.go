package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"scholarfeed/internal/refcache"
)

// Hub is a topic hub from the reference list.
type Hub struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

// Journal is a journal from the reference list.
type Journal struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

// Hubs returns the hub list, read through the reference cache. The
// list changes rarely; a cached copy no older than the cache TTL is
// served without a network call.
func (c *Client) Hubs(ctx context.Context) ([]Hub, error) {
	const key = "hubs"
	if b, ok := c.cache.Get(ctx, key); ok {
		var hubs []Hub
		if err := json.Unmarshal(b, &hubs); err == nil {
			return hubs, nil
		}
		slog.Debug("backend: discarding undecodable cached hub list")
	}
	var env struct {
		Results []Hub `json:"results"`
	}
	q := url.Values{"page_size": {"1000"}, "ordering": {"name"}}
	if err := c.getJSON(ctx, "/hub/", q, &env); err != nil {
		return nil, err
	}
	if b, err := json.Marshal(env.Results); err == nil {
		c.cache.Set(ctx, key, b, refcache.DefaultTTL)
	}
	return env.Results, nil
}

// HubIDBySlug resolves a hub slug to its id via the cached hub list.
func (c *Client) HubIDBySlug(ctx context.Context, slug string) (string, error) {
	hubs, err := c.Hubs(ctx)
	if err != nil {
		return "", err
	}
	for _, h := range hubs {
		if strings.EqualFold(h.Slug, slug) {
			return h.ID.String(), nil
		}
	}
	return "", fmt.Errorf("backend: unknown hub slug %q", slug)
}

// Journals returns the journal list, read through the reference cache.
func (c *Client) Journals(ctx context.Context) ([]Journal, error) {
	const key = "journals"
	if b, ok := c.cache.Get(ctx, key); ok {
		var journals []Journal
		if err := json.Unmarshal(b, &journals); err == nil {
			return journals, nil
		}
		slog.Debug("backend: discarding undecodable cached journal list")
	}
	var env struct {
		Results []Journal `json:"results"`
	}
	q := url.Values{"page_size": {"100"}, "ordering": {"name"}}
	if err := c.getJSON(ctx, "/journal/", q, &env); err != nil {
		return nil, err
	}
	if b, err := json.Marshal(env.Results); err == nil {
		c.cache.Set(ctx, key, b, refcache.DefaultTTL)
	}
	return env.Results, nil
}

// JournalIDBySlug resolves a journal slug to its id via the cached
// journal list.
func (c *Client) JournalIDBySlug(ctx context.Context, slug string) (string, error) {
	journals, err := c.Journals(ctx)
	if err != nil {
		return "", err
	}
	for _, j := range journals {
		if strings.EqualFold(j.Slug, slug) {
			return j.ID.String(), nil
		}
	}
	return "", fmt.Errorf("backend: unknown journal slug %q", slug)
}
