package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarfeed/internal/model"
)

func TestMultiSourceMergesReverseChronological(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feedSrc := staticSource("feed", Result{
		Entries: []model.FeedEntry{
			entry("feed", "paper-1", t0.Add(3*time.Hour)),
			entry("feed", "paper-2", t0.Add(1*time.Hour)),
		},
		Total: 2,
	})
	bountySrc := staticSource("bounty", Result{
		Entries: []model.FeedEntry{
			entry("bounty", "bounty-1", t0.Add(2*time.Hour)),
		},
		Total:   1,
		HasMore: true,
	})

	m := NewMultiSource(feedSrc, bountySrc)
	res, err := m.Fetch(context.Background(), Query{Page: 1, PageSize: 10})
	require.NoError(t, err)

	require.Len(t, res.Entries, 3)
	assert.Equal(t, "paper-1", res.Entries[0].ID)
	assert.Equal(t, "bounty-1", res.Entries[1].ID)
	assert.Equal(t, "paper-2", res.Entries[2].ID)
	assert.True(t, res.HasMore)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, "feed+bounty", m.Name())
}

func TestMultiSourceTieBreaksBySourceOrder(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := staticSource("feed", Result{
		Entries: []model.FeedEntry{entry("feed", "paper-1", ts)},
	})
	second := staticSource("bounty", Result{
		Entries: []model.FeedEntry{entry("bounty", "bounty-1", ts)},
	})

	m := NewMultiSource(first, second)
	res, err := m.Fetch(context.Background(), Query{Page: 1, PageSize: 10})
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "paper-1", res.Entries[0].ID)
	assert.Equal(t, "bounty-1", res.Entries[1].ID)
}

func TestMultiSourceSurvivesPartialFailure(t *testing.T) {
	ts := time.Now()
	ok := staticSource("feed", Result{
		Entries: []model.FeedEntry{entry("feed", "paper-1", ts)},
	})
	broken := funcSource{name: "bounty", fetch: func(context.Context, Query) (Result, error) {
		return Result{}, fmt.Errorf("timeout")
	}}

	m := NewMultiSource(ok, broken)
	res, err := m.Fetch(context.Background(), Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
}

func TestMultiSourceAllFailed(t *testing.T) {
	broken := funcSource{name: "feed", fetch: func(context.Context, Query) (Result, error) {
		return Result{}, fmt.Errorf("timeout")
	}}

	m := NewMultiSource(broken)
	_, err := m.Fetch(context.Background(), Query{Page: 1, PageSize: 10})
	require.Error(t, err)
}

func TestMultiSourceDedupThroughPager(t *testing.T) {
	ts := time.Now()
	// two adapters incorrectly returning the same (source, id) pair
	a := staticSource("feed", Result{
		Entries: []model.FeedEntry{entry("feed", "paper-1", ts)},
	})
	b := staticSource("feed", Result{
		Entries: []model.FeedEntry{entry("feed", "paper-1", ts)},
	})

	p := NewPager(10)
	require.NoError(t, p.Load(context.Background(), NewMultiSource(a, b)))
	assert.Len(t, p.Entries(), 1)
}
