// Package feed aggregates normalized entries from one or more backend
// resources and exposes the incremental-loading state a list view holds
// onto: entries, hasMore, total, loading and error flags.
package feed

import (
	"context"
	"time"

	"scholarfeed/internal/backend"
	"scholarfeed/internal/model"
	"scholarfeed/internal/normalize"
)

// Query selects one page from a source.
type Query struct {
	Page     int
	PageSize int
	Cursor   string
}

// Result is one fetched, normalized page.
type Result struct {
	Entries []model.FeedEntry
	HasMore bool
	Total   int
	Next    string
	Dropped int
}

// Source produces normalized pages for one backend resource. A fetch
// failure is reported as an error result; sources never panic across
// this boundary.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) (Result, error)
}

func params(q Query) backend.PageParams {
	return backend.PageParams{Page: q.Page, PageSize: q.PageSize, Cursor: q.Cursor}
}

// resultFrom derives pagination state: a next cursor means more pages,
// and with count-style metadata the page arithmetic decides.
func resultFrom(page backend.RawPage, q Query, entries []model.FeedEntry, dropped int) Result {
	hasMore := page.Next != ""
	if !hasMore && page.Count > 0 && q.Page > 0 && q.PageSize > 0 {
		hasMore = q.Page*q.PageSize < page.Count
	}
	return Result{
		Entries: entries,
		HasMore: hasMore,
		Total:   page.Count,
		Next:    page.Next,
		Dropped: dropped,
	}
}

func clockNow(clock func() time.Time) time.Time {
	if clock != nil {
		return clock()
	}
	return time.Now()
}

// FeedSource serves the main activity feed.
type FeedSource struct {
	Client  *backend.Client
	Filters backend.FeedFilters
	Clock   func() time.Time
}

func (s *FeedSource) Name() string { return normalize.SourceFeed }

func (s *FeedSource) Fetch(ctx context.Context, q Query) (Result, error) {
	page, err := s.Client.Feed(ctx, params(q), s.Filters)
	if err != nil {
		return Result{}, err
	}
	entries, dropped := normalize.FeedPage(page.Items, clockNow(s.Clock))
	return resultFrom(page, q, entries, dropped), nil
}

// BountySource serves the bounty list.
type BountySource struct {
	Client  *backend.Client
	Filters backend.BountyFilters
}

func (s *BountySource) Name() string { return normalize.SourceBounty }

func (s *BountySource) Fetch(ctx context.Context, q Query) (Result, error) {
	page, err := s.Client.Bounties(ctx, params(q), s.Filters)
	if err != nil {
		return Result{}, err
	}
	entries, dropped := normalize.BountyPage(page.Items)
	return resultFrom(page, q, entries, dropped), nil
}

// DocumentSource serves the unified-document list.
type DocumentSource struct {
	Client  *backend.Client
	Filters backend.DocumentFilters
	Clock   func() time.Time
}

func (s *DocumentSource) Name() string { return normalize.SourceDocument }

func (s *DocumentSource) Fetch(ctx context.Context, q Query) (Result, error) {
	page, err := s.Client.UnifiedDocuments(ctx, params(q), s.Filters)
	if err != nil {
		return Result{}, err
	}
	entries, dropped := normalize.DocumentPage(page.Items, clockNow(s.Clock))
	return resultFrom(page, q, entries, dropped), nil
}

// GrantSource serves the grant feed.
type GrantSource struct {
	Client  *backend.Client
	Filters backend.GrantFilters
	Clock   func() time.Time
}

func (s *GrantSource) Name() string { return normalize.SourceGrant }

func (s *GrantSource) Fetch(ctx context.Context, q Query) (Result, error) {
	page, err := s.Client.Grants(ctx, params(q), s.Filters)
	if err != nil {
		return Result{}, err
	}
	entries, dropped := normalize.GrantPage(page.Items, clockNow(s.Clock))
	return resultFrom(page, q, entries, dropped), nil
}

// JournalSource serves one journal's published papers.
type JournalSource struct {
	Client    *backend.Client
	JournalID string
	Filters   backend.JournalFilters
}

func (s *JournalSource) Name() string { return normalize.SourceJournal }

func (s *JournalSource) Fetch(ctx context.Context, q Query) (Result, error) {
	page, err := s.Client.JournalFeed(ctx, s.JournalID, params(q), s.Filters)
	if err != nil {
		return Result{}, err
	}
	entries, dropped := normalize.JournalPage(page.Items)
	return resultFrom(page, q, entries, dropped), nil
}
