package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"scholarfeed/internal/model"
)

// SourceGrant names the grant-feed resource in entry ids and dedup keys.
const SourceGrant = "grant"

// rawGrantItem mirrors one record from the grant feed endpoint.
type rawGrantItem struct {
	ID           json.Number     `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       json.RawMessage `json:"amount"`
	Currency     string          `json:"currency"`
	EndDate      string          `json:"end_date"`
	Status       string          `json:"status"`
	Applicants   []rawAuthor     `json:"applicants"`
	CreatedBy    *rawAuthor      `json:"created_by"`
	Organization *rawAuthor      `json:"organization"`
	CreatedDate  string          `json:"created_date"`
	Metrics      rawMetrics      `json:"metrics"`
}

// GrantPage normalizes one page of grant records, dropping and counting
// malformed ones. now anchors the open/closed derivation for the whole
// page so every record on it is judged against the same clock.
func GrantPage(items []json.RawMessage, now time.Time) ([]model.FeedEntry, int) {
	entries := make([]model.FeedEntry, 0, len(items))
	dropped := 0
	for _, raw := range items {
		e, err := GrantItem(raw, now)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}

// GrantItem normalizes a single grant record.
func GrantItem(raw json.RawMessage, now time.Time) (model.FeedEntry, error) {
	var zero model.FeedEntry
	var item rawGrantItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, fmt.Errorf("grant item: %w", err)
	}
	if item.ID.String() == "" {
		return zero, fmt.Errorf("grant item without id")
	}
	ts, _ := parseTime(item.CreatedDate)

	// Grants are frequently posted by an organization account; prefer
	// it over the individual uploader.
	actor := actorFrom(item.Organization, item.CreatedBy)

	return model.FeedEntry{
		ID:        entryID(string(model.ContentGrant), item.ID),
		Source:    SourceGrant,
		Timestamp: ts,
		Actor:     actor,
		Action:    model.ActionOpen,
		Content: grantFromRaw(rawGrantContent{
			Title:       item.Title,
			Description: item.Description,
			Amount:      item.Amount,
			Currency:    item.Currency,
			EndDate:     item.EndDate,
			Status:      item.Status,
			Applicants:  item.Applicants,
		}, ts, now),
		Metrics: metricsFrom(item.Metrics),
	}, nil
}
