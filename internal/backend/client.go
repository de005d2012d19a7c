// Package backend is the REST client for the platform API. It isolates
// the rest of the feed layer from transport concerns: query-parameter
// contracts, auth headers, status codes and pagination metadata.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scholarfeed/internal/refcache"
)

const defaultTimeout = 10 * time.Second

// Client talks to the platform backend. An empty token means
// unauthenticated; personalization parameters are then omitted from
// requests instead of failing them.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   refcache.Cache
}

// NewClient creates a backend client. baseURL should look like
// "https://backend.scholarfeed.org/api" (no trailing slash).
func NewClient(baseURL, token string, timeout time.Duration, cache refcache.Cache) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cache == nil {
		cache = refcache.Nop{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

// Authenticated reports whether a token is configured.
func (c *Client) Authenticated() bool { return c.token != "" }

// RawPage is one backend-shaped page: the raw records plus pagination
// metadata. Next is the opaque cursor for the following page, empty
// when exhausted.
type RawPage struct {
	Items []json.RawMessage
	Next  string
	Count int
}

// listEnvelope mirrors the backend's list responses. Pagination comes
// back either as "next" or as a cursor-style "next_url".
type listEnvelope struct {
	Results []json.RawMessage `json:"results"`
	Next    string            `json:"next"`
	NextURL string            `json:"next_url"`
	Count   int               `json:"count"`
}

func (e listEnvelope) next() string {
	if e.Next != "" {
		return e.Next
	}
	return e.NextURL
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	return c.getURL(ctx, endpoint, path, out)
}

// getURL fetches an absolute URL, used for cursor-style next links that
// the backend hands back fully formed.
func (c *Client) getURL(ctx context.Context, endpoint, resource string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s: %w", resource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend: %s status %d", resource, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: %s: decode: %w", resource, err)
	}
	return nil
}

// getList fetches one page of a list resource. A non-empty cursor takes
// precedence over page/pageSize: the backend embeds the full query in
// its next links.
func (c *Client) getList(ctx context.Context, path, cursor string, q url.Values) (RawPage, error) {
	var env listEnvelope
	var err error
	if cursor != "" {
		err = c.getURL(ctx, cursor, path, &env)
	} else {
		err = c.getJSON(ctx, path, q, &env)
	}
	if err != nil {
		return RawPage{}, err
	}
	return RawPage{Items: env.Results, Next: env.next(), Count: env.Count}, nil
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprintf("%d", pageSize))
	}
	return q
}
