package backend

import (
	"context"
	"net/url"
	"strings"
)

// PageParams selects one page of a list resource. A non-empty Cursor
// wins over Page/PageSize.
type PageParams struct {
	Page     int
	PageSize int
	Cursor   string
}

// FeedFilters configures the activity-feed query. Fields the caller
// leaves zero are omitted from the request.
type FeedFilters struct {
	Tab       string // latest, popular or following
	HubIDs    []string
	CreatedBy string
}

// Feed fetches one page of the activity feed.
func (c *Client) Feed(ctx context.Context, p PageParams, f FeedFilters) (RawPage, error) {
	q := pageQuery(p.Page, p.PageSize)
	tab := strings.ToLower(strings.TrimSpace(f.Tab))
	if tab == "following" && !c.Authenticated() {
		// The following tab personalizes per session; without a token
		// the parameter is omitted and the server default applies.
		tab = ""
	}
	if tab != "" {
		q.Set("feed_view", tab)
	}
	for _, id := range f.HubIDs {
		q.Add("hub_ids[]", id)
	}
	if f.CreatedBy != "" {
		q.Set("created_by", f.CreatedBy)
	}
	return c.getList(ctx, "/feed/", p.Cursor, q)
}

// BountyFilters configures the bounty list query.
type BountyFilters struct {
	Status string // OPEN, CLOSED, EXPIRED
	Sort   string // e.g., "-created_date", "expiration_date"
	HubIDs []string
}

// Bounties fetches one page of the bounty list.
func (c *Client) Bounties(ctx context.Context, p PageParams, f BountyFilters) (RawPage, error) {
	q := pageQuery(p.Page, p.PageSize)
	if f.Status != "" {
		q.Set("status", strings.ToUpper(f.Status))
	}
	sort := f.Sort
	if sort == "" {
		sort = "-created_date"
	}
	q.Set("sort", sort)
	for _, id := range f.HubIDs {
		q.Add("hub_ids[]", id)
	}
	return c.getList(ctx, "/bounty/", p.Cursor, q)
}

// DocumentFilters configures the unified-document query.
type DocumentFilters struct {
	DocType         string // PAPER, DISCUSSION, PREREGISTRATION
	FundraiseStatus string // OPEN, CLOSED, COMPLETED
	HubID           string
	Ordering        string
}

// UnifiedDocuments fetches one page of the unified-document list, the
// backend's cross-content-type resource.
func (c *Client) UnifiedDocuments(ctx context.Context, p PageParams, f DocumentFilters) (RawPage, error) {
	q := pageQuery(p.Page, p.PageSize)
	if f.DocType != "" {
		q.Set("document_type", strings.ToUpper(f.DocType))
	}
	if f.FundraiseStatus != "" {
		q.Set("fundraise_status", strings.ToUpper(f.FundraiseStatus))
	}
	if f.HubID != "" {
		q.Set("hub_id", f.HubID)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	return c.getList(ctx, "/unified_document/", p.Cursor, q)
}

// GrantFilters configures the grant feed query.
type GrantFilters struct {
	Status  string // OPEN, CLOSED
	OrderBy string
}

// Grants fetches one page of the grant feed.
func (c *Client) Grants(ctx context.Context, p PageParams, f GrantFilters) (RawPage, error) {
	q := pageQuery(p.Page, p.PageSize)
	if f.Status != "" {
		q.Set("status", strings.ToUpper(f.Status))
	}
	if f.OrderBy != "" {
		q.Set("order_by", f.OrderBy)
	}
	return c.getList(ctx, "/grant/", p.Cursor, q)
}

// JournalFilters configures a journal feed query.
type JournalFilters struct {
	PublicationStatus string // PUBLISHED, PREPRINT
}

// JournalFeed fetches one page of a journal's published papers.
func (c *Client) JournalFeed(ctx context.Context, journalID string, p PageParams, f JournalFilters) (RawPage, error) {
	q := pageQuery(p.Page, p.PageSize)
	if f.PublicationStatus != "" {
		q.Set("publication_status", strings.ToUpper(f.PublicationStatus))
	}
	path := "/journal/" + url.PathEscape(journalID) + "/feed/"
	return c.getList(ctx, path, p.Cursor, q)
}
