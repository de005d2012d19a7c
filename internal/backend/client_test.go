package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarfeed/internal/refcache"
)

func TestFeedQueryParameters(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"results": [{"id": 1}], "count": 45, "next": "cursor-2"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", 0, refcache.Nop{})
	page, err := c.Feed(context.Background(), PageParams{Page: 2, PageSize: 20}, FeedFilters{
		Tab:    "following",
		HubIDs: []string{"7", "9"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"20"}, gotQuery["page_size"])
	assert.Equal(t, []string{"following"}, gotQuery["feed_view"])
	assert.Equal(t, []string{"7", "9"}, gotQuery["hub_ids[]"])

	assert.Len(t, page.Items, 1)
	assert.Equal(t, 45, page.Count)
	assert.Equal(t, "cursor-2", page.Next)
}

func TestFollowingOmittedWithoutToken(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.Nop{})
	_, err := c.Feed(context.Background(), PageParams{Page: 1, PageSize: 20}, FeedFilters{Tab: "following"})
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.NotContains(t, gotQuery, "feed_view")
}

func TestNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.Nop{})
	_, err := c.Bounties(context.Background(), PageParams{Page: 1, PageSize: 10}, BountyFilters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCursorWinsOverPageParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.Nop{})
	cursor := srv.URL + "/bounty/?page=3&page_size=10"
	_, err := c.Bounties(context.Background(), PageParams{Page: 1, PageSize: 20, Cursor: cursor}, BountyFilters{})
	require.NoError(t, err)

	assert.Equal(t, "/bounty/", gotPath)
	assert.Equal(t, []string{"3"}, gotQuery["page"])
}

func TestNextURLCursorStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [{"id": 1}], "next_url": "https://example.org/unified_document/?cursor=abc"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.Nop{})
	page, err := c.UnifiedDocuments(context.Background(), PageParams{Page: 1, PageSize: 10}, DocumentFilters{})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/unified_document/?cursor=abc", page.Next)
}

func TestHubsReadThroughCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"results": [
			{"id": 1, "name": "Biology", "slug": "biology"},
			{"id": 2, "name": "Physics", "slug": "physics"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.NewMemory())
	ctx := context.Background()

	first, err := c.Hubs(ctx)
	require.NoError(t, err)
	second, err := c.Hubs(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second read must be served from cache")
	assert.Equal(t, first, second)

	id, err := c.HubIDBySlug(ctx, "physics")
	require.NoError(t, err)
	assert.Equal(t, "2", id)
	assert.Equal(t, 1, hits)

	_, err = c.HubIDBySlug(ctx, "alchemy")
	require.Error(t, err)
}

func TestJournalFeedPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.Nop{})
	_, err := c.JournalFeed(context.Background(), "12", PageParams{Page: 1, PageSize: 10}, JournalFilters{})
	require.NoError(t, err)
	assert.Equal(t, "/journal/12/feed/", gotPath)
}

func TestGrantAndDocumentFilters(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, refcache.Nop{})
	ctx := context.Background()

	_, err := c.Grants(ctx, PageParams{Page: 1, PageSize: 10}, GrantFilters{Status: "open"})
	require.NoError(t, err)
	assert.Equal(t, []string{"OPEN"}, gotQuery["status"])

	_, err = c.UnifiedDocuments(ctx, PageParams{Page: 1, PageSize: 10}, DocumentFilters{
		DocType:         "preregistration",
		FundraiseStatus: "open",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PREREGISTRATION"}, gotQuery["document_type"])
	assert.Equal(t, []string{"OPEN"}, gotQuery["fundraise_status"])
}
