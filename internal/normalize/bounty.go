package normalize

import (
	"encoding/json"
	"fmt"

	"scholarfeed/internal/model"
)

// SourceBounty names the bounty-list resource in entry ids and dedup keys.
const SourceBounty = "bounty"

// rawBountyItem mirrors one record from the bounty list endpoint. The
// counters live at the top level here, not in a metrics block; absent
// ones unmarshal to zero.
type rawBountyItem struct {
	ID              json.Number       `json:"id"`
	Amount          json.RawMessage   `json:"amount"`
	Status          string            `json:"status"`
	ExpirationDate  string            `json:"expiration_date"`
	Difficulty      string            `json:"difficulty"`
	CreatedDate     string            `json:"created_date"`
	CreatedBy       *rawAuthor        `json:"created_by"`
	CommentCount    int               `json:"comment_count"`
	VoteCount       int               `json:"vote_count"`
	UnifiedDocument *rawUnifiedDocRef `json:"unified_document"`
}

// BountyPage normalizes one page of bounty records, dropping and
// counting malformed ones.
func BountyPage(items []json.RawMessage) ([]model.FeedEntry, int) {
	entries := make([]model.FeedEntry, 0, len(items))
	dropped := 0
	for _, raw := range items {
		e, err := BountyItem(raw)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}

// BountyItem normalizes a single bounty record into a bounty entry with
// the open action.
func BountyItem(raw json.RawMessage) (model.FeedEntry, error) {
	var zero model.FeedEntry
	var item rawBountyItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, fmt.Errorf("bounty item: %w", err)
	}
	if item.ID.String() == "" {
		return zero, fmt.Errorf("bounty item without id")
	}
	ts, _ := parseTime(item.CreatedDate)

	title := ""
	if item.UnifiedDocument != nil {
		if doc, ok := innerDoc(item.UnifiedDocument.Documents); ok {
			title = doc.Title
		}
	}

	return model.FeedEntry{
		ID:        entryID(string(model.ContentBounty), item.ID),
		Source:    SourceBounty,
		Timestamp: ts,
		Actor:     actorFrom(nil, item.CreatedBy),
		Action:    model.ActionOpen,
		Content: model.Bounty{
			Title:      title,
			Amount:     parseAmount(item.Amount),
			Deadline:   timePtr(item.ExpirationDate, ts),
			Difficulty: difficulty(item.Difficulty),
			Status:     bountyStatus(item.Status),
		},
		Metrics: model.Metrics{
			Votes:    nonNeg(item.VoteCount),
			Comments: nonNeg(item.CommentCount),
		},
	}, nil
}
