package cmd

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarfeed/internal/feed"
	"scholarfeed/internal/model"
)

type pagedSource struct {
	failFrom int
}

func (s *pagedSource) Name() string { return "feed" }

func (s *pagedSource) Fetch(_ context.Context, q feed.Query) (feed.Result, error) {
	if q.Page >= s.failFrom {
		return feed.Result{}, fmt.Errorf("503 from backend")
	}
	return feed.Result{
		Entries: []model.FeedEntry{{
			ID:        fmt.Sprintf("paper-%d", q.Page),
			Source:    "feed",
			Timestamp: time.Now(),
			Action:    model.ActionPublish,
			Content:   model.Paper{Title: "T"},
		}},
		HasMore: true,
	}, nil
}

func TestFetchPagesKeepsPartialResultsOnLaterFailure(t *testing.T) {
	pager := feed.NewPager(10)
	src := &pagedSource{failFrom: 3}

	err := fetchPages(context.Background(), pager, src, 5)
	require.NoError(t, err, "a failed later page must not discard fetched ones")

	assert.Len(t, pager.Entries(), 2)
	assert.Error(t, pager.Err())
}

func TestFetchPagesInitialFailure(t *testing.T) {
	pager := feed.NewPager(10)
	src := &pagedSource{failFrom: 1}

	err := fetchPages(context.Background(), pager, src, 2)
	require.Error(t, err)
	assert.Empty(t, pager.Entries())
}
