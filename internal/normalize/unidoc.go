package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scholarfeed/internal/model"
)

// SourceDocument names the unified-document resource in entry ids and
// dedup keys.
const SourceDocument = "document"

// rawUniDoc mirrors one item from the unified-document endpoint, the
// backend's own cross-content-type abstraction over papers, posts and
// preregistrations.
type rawUniDoc struct {
	ID           json.Number     `json:"id"`
	DocumentType string          `json:"document_type"`
	Documents    json.RawMessage `json:"documents"`
	Hubs         []rawHub        `json:"hubs"`
	CreatedBy    *rawAuthor      `json:"created_by"`
	CreatedDate  string          `json:"created_date"`
	Score        int             `json:"score"`
	Fundraise    *rawFundraise   `json:"fundraise"`
}

type rawUnifiedDocRef struct {
	DocumentType string          `json:"document_type"`
	Documents    json.RawMessage `json:"documents"`
}

// rawInnerDoc is the document payload nested inside a unified document.
type rawInnerDoc struct {
	Title           string      `json:"title"`
	Abstract        string      `json:"abstract"`
	RenderableText  string      `json:"renderable_text"`
	Authors         []rawAuthor `json:"authors"`
	CreatedDate     string      `json:"created_date"`
	DiscussionCount int         `json:"discussion_count"`
}

// innerDoc tolerates both encodings of the nested document: a single
// object for posts, a one-element array for papers.
func innerDoc(raw json.RawMessage) (rawInnerDoc, bool) {
	var doc rawInnerDoc
	if len(raw) == 0 {
		return doc, false
	}
	if err := json.Unmarshal(raw, &doc); err == nil {
		return doc, true
	}
	var docs []rawInnerDoc
	if err := json.Unmarshal(raw, &docs); err == nil && len(docs) > 0 {
		return docs[0], true
	}
	return doc, false
}

// DocumentPage normalizes one page of unified-document items, dropping
// and counting malformed ones.
func DocumentPage(items []json.RawMessage, now time.Time) ([]model.FeedEntry, int) {
	entries := make([]model.FeedEntry, 0, len(items))
	dropped := 0
	for _, raw := range items {
		e, err := DocumentItem(raw, now)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}

// DocumentItem normalizes a single unified-document item. An unknown
// document_type is a normalization failure, never a partially rendered
// entry.
func DocumentItem(raw json.RawMessage, now time.Time) (model.FeedEntry, error) {
	var zero model.FeedEntry
	var item rawUniDoc
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, fmt.Errorf("unified document: %w", err)
	}
	ts, _ := parseTime(item.CreatedDate)
	doc, _ := innerDoc(item.Documents)

	var hub *model.Hub
	if len(item.Hubs) > 0 {
		h := item.Hubs[0]
		hub = hubFrom(&h)
	}
	desc := doc.Abstract
	if desc == "" {
		desc = doc.RenderableText
	}

	var (
		content model.Content
		action  model.Action
	)
	switch strings.ToUpper(strings.TrimSpace(item.DocumentType)) {
	case "PAPER":
		content = model.Paper{
			Title:       doc.Title,
			Authors:     paperAuthors(doc.Authors),
			Description: desc,
			Hub:         hub,
		}
		action = model.ActionPublish
	case "DISCUSSION", "POST", "QUESTION":
		content = model.Paper{
			Title:       doc.Title,
			Authors:     paperAuthors(doc.Authors),
			Description: desc,
			Hub:         hub,
		}
		action = model.ActionPost
	case "PREREGISTRATION":
		var f rawFundraise
		if item.Fundraise != nil {
			f = *item.Fundraise
		}
		amount := parseAmount(f.AmountRaised)
		goal := parseAmount(f.GoalAmount)
		currency := strings.TrimSpace(f.GoalCurrency)
		if currency == "" {
			currency = "RSC"
		}
		content = model.FundingRequest{
			Title:        doc.Title,
			Description:  desc,
			Amount:       amount,
			GoalAmount:   goal,
			GoalCurrency: currency,
			Progress:     progress(amount, goal),
			Status:       fundraiseStatus(f.Status),
			Contributors: actorsFrom(f.Contributors.Top),
			Deadline:     timePtr(f.EndDate, ts),
		}
		action = model.ActionOpen
	default:
		return zero, fmt.Errorf("unified document %s: unknown document_type %q", item.ID, item.DocumentType)
	}

	return model.FeedEntry{
		ID:        entryID(string(content.ContentType()), item.ID),
		Source:    SourceDocument,
		Timestamp: ts,
		Actor:     actorFrom(nil, item.CreatedBy),
		Action:    action,
		Content:   content,
		Metrics: model.Metrics{
			Votes:    nonNeg(item.Score),
			Comments: nonNeg(doc.DiscussionCount),
		},
	}, nil
}
