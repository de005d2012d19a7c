package feed

import (
	"context"
	"log/slog"
	"sync"

	"scholarfeed/internal/model"
)

// Pager owns the accumulated entry list and loading state for one list
// view. Load supersedes any in-flight load via a generation counter;
// LoadMore is serialized and appends without ever clearing what is
// already shown.
type Pager struct {
	pageSize int

	mu      sync.Mutex
	source  Source
	gen     uint64
	loading bool
	err     error
	entries []model.FeedEntry
	seen    map[string]struct{}
	hasMore bool
	total   int
	page    int
	cursor  string
}

func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Pager{pageSize: pageSize}
}

// Load resets the pager onto src and fetches its first page. Calling
// Load again before a previous call resolves supersedes it: the stale
// response is discarded on arrival, never appended.
func (p *Pager) Load(ctx context.Context, src Source) error {
	p.mu.Lock()
	p.gen++
	g := p.gen
	p.source = src
	p.loading = true
	q := Query{Page: 1, PageSize: p.pageSize}
	p.mu.Unlock()

	res, err := src.Fetch(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()
	if g != p.gen {
		// Superseded by a newer Load; silently discard.
		return nil
	}
	p.loading = false
	p.entries = nil
	p.seen = make(map[string]struct{})
	p.page = 1
	p.cursor = ""
	if err != nil {
		p.err = err
		p.hasMore = false
		p.total = 0
		return err
	}
	p.err = nil
	p.total = res.Total
	p.cursor = res.Next
	p.applyLocked(src.Name(), res)
	return nil
}

// LoadMore fetches the next page and appends it. It is a no-op while a
// fetch is in flight or when the feed is exhausted. On failure the
// accumulated entries stay intact and only the error flag is set.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.source == nil || p.loading || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	g := p.gen
	src := p.source
	q := Query{Page: p.page + 1, PageSize: p.pageSize, Cursor: p.cursor}
	p.loading = true
	p.mu.Unlock()

	res, err := src.Fetch(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()
	if g != p.gen {
		return nil
	}
	p.loading = false
	if err != nil {
		p.err = err
		return err
	}
	p.err = nil
	p.page++
	p.cursor = res.Next
	if res.Total > 0 {
		p.total = res.Total
	}
	p.applyLocked(src.Name(), res)
	return nil
}

// applyLocked appends a page with dedup and defensive pagination
// handling. Callers hold p.mu.
func (p *Pager) applyLocked(sourceName string, res Result) {
	if p.seen == nil {
		p.seen = make(map[string]struct{})
	}
	for _, e := range res.Entries {
		key := e.Key()
		if _, dup := p.seen[key]; dup {
			continue
		}
		p.seen[key] = struct{}{}
		p.entries = append(p.entries, e)
	}
	p.hasMore = res.HasMore
	if res.HasMore && len(res.Entries) == 0 {
		// The server claims more pages but sent nothing; stop here
		// rather than fetch in a loop.
		slog.Warn("feed: empty page with has_more set, stopping pagination", "source", sourceName)
		p.hasMore = false
	}
	if res.Dropped > 0 {
		slog.Warn("feed: dropped malformed records", "source", sourceName, "count", res.Dropped)
	}
}

// Entries returns a snapshot of the accumulated list.
func (p *Pager) Entries() []model.FeedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.FeedEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// IsLoading reports whether a fetch for the current generation is in
// flight.
func (p *Pager) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// HasMore reports whether another page can be fetched.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Total is the server-reported total for the current filter set, zero
// when the source does not report one.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Err returns the last fetch error for the current generation. A nil
// error with zero entries means there are legitimately no results.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
