package normalize

import (
	"encoding/json"
	"fmt"

	"scholarfeed/internal/model"
)

// SourceJournal names the journal feed resource in entry ids and dedup
// keys.
const SourceJournal = "journal"

// rawJournalItem mirrors one published paper from a journal feed.
type rawJournalItem struct {
	ID              json.Number `json:"id"`
	Title           string      `json:"title"`
	Abstract        string      `json:"abstract"`
	Authors         []rawAuthor `json:"authors"`
	Journal         *rawHub     `json:"journal"`
	Hub             *rawHub     `json:"hub"`
	PublishedDate   string      `json:"published_date"`
	CreatedDate     string      `json:"created_date"`
	CreatedBy       *rawAuthor  `json:"created_by"`
	Score           int         `json:"score"`
	DiscussionCount int         `json:"discussion_count"`
}

// JournalPage normalizes one page of journal papers, dropping and
// counting malformed ones.
func JournalPage(items []json.RawMessage) ([]model.FeedEntry, int) {
	entries := make([]model.FeedEntry, 0, len(items))
	dropped := 0
	for _, raw := range items {
		e, err := JournalItem(raw)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}

// JournalItem normalizes a single journal paper into a paper entry with
// the publish action.
func JournalItem(raw json.RawMessage) (model.FeedEntry, error) {
	var zero model.FeedEntry
	var item rawJournalItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, fmt.Errorf("journal item: %w", err)
	}
	if item.ID.String() == "" {
		return zero, fmt.Errorf("journal item without id")
	}
	ts, ok := parseTime(item.PublishedDate)
	if !ok {
		ts, _ = parseTime(item.CreatedDate)
	}

	hub := hubFrom(item.Journal)
	if hub == nil {
		hub = hubFrom(item.Hub)
	}

	return model.FeedEntry{
		ID:        entryID(string(model.ContentPaper), item.ID),
		Source:    SourceJournal,
		Timestamp: ts,
		Actor:     actorFrom(nil, item.CreatedBy),
		Action:    model.ActionPublish,
		Content: model.Paper{
			Title:       item.Title,
			Authors:     paperAuthors(item.Authors),
			Description: item.Abstract,
			Hub:         hub,
		},
		Metrics: model.Metrics{
			Votes:    nonNeg(item.Score),
			Comments: nonNeg(item.DiscussionCount),
		},
	}, nil
}
