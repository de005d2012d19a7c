package normalize

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarfeed/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFeedItemFundingRequest(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 101,
		"content_type": "PREREGISTRATION",
		"created_date": "2025-06-01T10:00:00Z",
		"created_by": {"id": 7, "full_name": "Ada Lovelace", "is_verified": true},
		"content_object": {
			"title": "Mapping mitochondrial variance",
			"renderable_text": "We propose to map variance across tissues.",
			"fundraise": {
				"amount_raised": {"rsc": 30131},
				"goal_amount": {"rsc": 36389},
				"status": "OPEN"
			}
		}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)

	assert.Equal(t, "funding_request-101", e.ID)
	assert.Equal(t, SourceFeed, e.Source)
	assert.Equal(t, model.ActionOpen, e.Action)
	require.NotNil(t, e.Actor)
	assert.Equal(t, "Ada Lovelace", e.Actor.FullName)
	assert.True(t, e.Actor.IsVerified)

	fr, ok := e.Content.(model.FundingRequest)
	require.True(t, ok)
	assert.Equal(t, float64(30131), fr.Amount)
	assert.Equal(t, float64(36389), fr.GoalAmount)
	assert.Equal(t, 83, fr.Progress)
	assert.Equal(t, "RSC", fr.GoalCurrency)
	assert.Equal(t, model.FundraiseOpen, fr.Status)
	assert.NotNil(t, fr.Contributors)
	// no fundraise end date: display deadline falls back to the entry
	// timestamp, not to a render-time clock
	require.NotNil(t, fr.Deadline)
	assert.Equal(t, e.Timestamp, *fr.Deadline)
}

func TestFeedItemIdempotent(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 42,
		"content_type": "PAPER",
		"action": "PUBLISH",
		"created_date": "2025-11-02T08:30:00Z",
		"author": {"id": 3, "full_name": "Grace Hopper"},
		"content_object": {
			"title": "Compiling the future",
			"abstract": "A study of compilers.",
			"authors": [{"full_name": "Grace Hopper", "is_verified": true}],
			"hub": {"id": 9, "name": "Computer Science", "slug": "computer-science"}
		},
		"metrics": {"votes": 12, "comments": 4}
	}`)

	first, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	second, err := FeedItem(raw, testNow)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("normalization not idempotent (-first +second):\n%s", diff)
	}
}

func TestFeedItemMetricsDefaultToZero(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 8,
		"content_type": "PAPER",
		"created_date": "2025-01-01T00:00:00Z",
		"content_object": {"title": "Untracked paper"}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.Metrics{}, e.Metrics)
	assert.GreaterOrEqual(t, e.Metrics.Votes, 0)
	assert.GreaterOrEqual(t, e.Metrics.Comments, 0)
	assert.GreaterOrEqual(t, e.Metrics.Reposts, 0)
	assert.GreaterOrEqual(t, e.Metrics.Saves, 0)
}

func TestFeedItemUnknownContentType(t *testing.T) {
	raw := json.RawMessage(`{"id": 5, "content_type": "BLOG", "content_object": {}}`)
	_, err := FeedItem(raw, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown content_type")
}

func TestFeedItemActorFallsBackToCreatedBy(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 6,
		"content_type": "PAPER",
		"created_by": {"id": 11, "first_name": "Rosalind", "last_name": "Franklin"},
		"content_object": {"title": "Structures"}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	require.NotNil(t, e.Actor)
	assert.Equal(t, "Rosalind Franklin", e.Actor.FullName)
}

func TestFeedItemNoActorIsOmitted(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 7,
		"content_type": "PAPER",
		"content_object": {"title": "Anonymous aggregate"}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	assert.Nil(t, e.Actor)
}

func TestFeedItemContribution(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 90,
		"content_type": "RSC_CONTRIBUTION",
		"created_date": "2025-12-24T09:00:00Z",
		"created_by": {"id": 2, "full_name": "Santa"},
		"content_object": {
			"amount": {"rsc": 500},
			"target": {"id": 101, "title": "Mapping mitochondrial variance"}
		}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.ActionContribute, e.Action)

	c, ok := e.Content.(model.Contribution)
	require.True(t, ok)
	assert.Equal(t, float64(500), c.Amount)
	assert.Equal(t, "101", c.TargetID)
	assert.Equal(t, "Mapping mitochondrial variance", c.TargetTitle)
}

func TestFeedItemReviewScoreClamped(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 77,
		"content_type": "REVIEW",
		"created_date": "2025-10-10T10:00:00Z",
		"content_object": {"renderable_text": "Solid methods.", "score": 9}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	r, ok := e.Content.(model.Review)
	require.True(t, ok)
	assert.Equal(t, float64(5), r.Score)
}

func TestFeedItemCommentWithReviewScore(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 31,
		"content_type": "COMMENT",
		"created_date": "2025-09-09T09:00:00Z",
		"content_object": {
			"renderable_text": "Great sample size.",
			"review": {"score": 4.5}
		}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	r, ok := e.Content.(model.Review)
	require.True(t, ok)
	assert.Equal(t, 4.5, r.Score)
}

func TestFeedItemPlainCommentDropped(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 32,
		"content_type": "COMMENT",
		"content_object": {"renderable_text": "nice"}
	}`)

	_, err := FeedItem(raw, testNow)
	require.Error(t, err)
}

func TestFeedPageDropsMalformedRecordsOnly(t *testing.T) {
	items := make([]json.RawMessage, 0, 10)
	for i := 0; i < 9; i++ {
		items = append(items, json.RawMessage(fmt.Sprintf(`{
			"id": %d,
			"content_type": "PAPER",
			"created_date": "2025-05-05T05:00:00Z",
			"content_object": {"title": "ok"}
		}`, i+1)))
	}
	items = append(items, json.RawMessage(`{"id": 99, "content_type": "MYSTERY"}`))

	entries, dropped := FeedPage(items, testNow)
	assert.Len(t, entries, 9)
	assert.Equal(t, 1, dropped)
}

func TestFeedItemShareAction(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 55,
		"content_type": "PAPER",
		"action": "SHARE",
		"created_date": "2025-02-02T02:00:00Z",
		"content_object": {"title": "Reposted paper"}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.ActionShare, e.Action)
}

func TestFeedItemInlineFundraiseFields(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 102,
		"content_type": "FUNDING_REQUEST",
		"created_date": "2025-07-01T00:00:00Z",
		"content_object": {
			"title": "Inline fundraise",
			"amount_raised": {"rsc": 120},
			"goal_amount": {"rsc": 0},
			"status": "OPEN"
		}
	}`)

	e, err := FeedItem(raw, testNow)
	require.NoError(t, err)
	fr, ok := e.Content.(model.FundingRequest)
	require.True(t, ok)
	// goal of zero reads as zero progress, never a division artifact
	assert.Equal(t, 0, fr.Progress)
	assert.Equal(t, float64(0), fr.GoalAmount)
}
