// Package normalize maps raw, backend-shaped records into the canonical
// feed entry union. Every mapping is pure: the same raw input always
// produces the same entry, and a malformed record turns into an error
// for the caller to drop and count, never a partial entry.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scholarfeed/internal/model"
)

// SourceFeed names the activity-feed resource in entry ids and dedup keys.
const SourceFeed = "feed"

// rawFeedItem mirrors the envelope of one activity-feed record.
type rawFeedItem struct {
	ID            json.Number     `json:"id"`
	ContentType   string          `json:"content_type"`
	Action        string          `json:"action"`
	ActionDate    string          `json:"action_date"`
	CreatedDate   string          `json:"created_date"`
	Author        *rawAuthor      `json:"author"`
	CreatedBy     *rawAuthor      `json:"created_by"`
	ContentObject json.RawMessage `json:"content_object"`
	Metrics       rawMetrics      `json:"metrics"`
}

type rawFeedPaper struct {
	Title          string      `json:"title"`
	Abstract       string      `json:"abstract"`
	RenderableText string      `json:"renderable_text"`
	Authors        []rawAuthor `json:"authors"`
	Hub            *rawHub     `json:"hub"`
	Hubs           []rawHub    `json:"hubs"`
}

// rawFundraise carries the money fields of a funding request. They show
// up either inline on the content object or nested under "fundraise";
// the nested form wins when both are present.
type rawFundraise struct {
	AmountRaised json.RawMessage `json:"amount_raised"`
	GoalAmount   json.RawMessage `json:"goal_amount"`
	GoalCurrency string          `json:"goal_currency"`
	Status       string          `json:"status"`
	EndDate      string          `json:"end_date"`
	Contributors struct {
		Top []rawAuthor `json:"top"`
	} `json:"contributors"`
}

type rawFundingRequest struct {
	rawFundraise
	Title          string        `json:"title"`
	RenderableText string        `json:"renderable_text"`
	Description    string        `json:"description"`
	Fundraise      *rawFundraise `json:"fundraise"`
}

type rawGrantContent struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Currency    string          `json:"currency"`
	EndDate     string          `json:"end_date"`
	Status      string          `json:"status"`
	Applicants  []rawAuthor     `json:"applicants"`
}

type rawBountyContent struct {
	Title          string          `json:"title"`
	Amount         json.RawMessage `json:"amount"`
	ExpirationDate string          `json:"expiration_date"`
	Difficulty     string          `json:"difficulty"`
	Status         string          `json:"status"`
}

type rawReviewContent struct {
	Title          string          `json:"title"`
	RenderableText string          `json:"renderable_text"`
	Score          json.RawMessage `json:"score"`
}

type rawContributionContent struct {
	Amount json.RawMessage `json:"amount"`
	Target *struct {
		ID    json.Number `json:"id"`
		Title string      `json:"title"`
	} `json:"target"`
}

type rawCommentContent struct {
	Title          string            `json:"title"`
	RenderableText string            `json:"renderable_text"`
	Review         *rawReviewContent `json:"review"`
}

// FeedPage normalizes one page of activity-feed records. Malformed
// records are skipped; the second return value counts them so the
// caller can report without failing the page.
func FeedPage(items []json.RawMessage, now time.Time) ([]model.FeedEntry, int) {
	entries := make([]model.FeedEntry, 0, len(items))
	dropped := 0
	for _, raw := range items {
		e, err := FeedItem(raw, now)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}

// FeedItem normalizes a single activity-feed record. now is the page's
// fetch time and only influences derived state such as grant closure;
// it is never stored as a display value.
func FeedItem(raw json.RawMessage, now time.Time) (model.FeedEntry, error) {
	var zero model.FeedEntry
	var item rawFeedItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, fmt.Errorf("feed item: %w", err)
	}
	ts := feedTimestamp(item)

	var (
		content model.Content
		def     model.Action
		err     error
	)
	switch strings.ToUpper(strings.TrimSpace(item.ContentType)) {
	case "PAPER":
		content, err = paperContent(item.ContentObject)
		def = model.ActionPublish
	case "POST", "RESEARCHHUBPOST":
		content, err = paperContent(item.ContentObject)
		def = model.ActionPost
	case "PREREGISTRATION", "FUNDING_REQUEST":
		content, err = fundingRequestContent(item.ContentObject, ts)
		def = model.ActionOpen
	case "GRANT":
		content, err = grantContent(item.ContentObject, ts, now)
		def = model.ActionOpen
	case "BOUNTY":
		content, err = bountyContent(item.ContentObject, ts, false)
		def = model.ActionOpen
	case "REWARD":
		content, err = bountyContent(item.ContentObject, ts, true)
		def = model.ActionContribute
	case "REVIEW":
		content, err = reviewContent(item.ContentObject)
		def = model.ActionReview
	case "RSC_CONTRIBUTION", "CONTRIBUTION":
		content, err = contributionContent(item.ContentObject)
		def = model.ActionContribute
	case "COMMENT":
		content, err = commentContent(item.ContentObject)
		def = model.ActionReview
	default:
		return zero, fmt.Errorf("feed item %s: unknown content_type %q", item.ID, item.ContentType)
	}
	if err != nil {
		return zero, fmt.Errorf("feed item %s: %w", item.ID, err)
	}

	return model.FeedEntry{
		ID:        entryID(string(content.ContentType()), item.ID),
		Source:    SourceFeed,
		Timestamp: ts,
		Actor:     actorFrom(item.Author, item.CreatedBy),
		Action:    parseAction(item.Action, def),
		Content:   content,
		Metrics:   metricsFrom(item.Metrics),
	}, nil
}

func feedTimestamp(item rawFeedItem) time.Time {
	if t, ok := parseTime(item.ActionDate); ok {
		return t
	}
	if t, ok := parseTime(item.CreatedDate); ok {
		return t
	}
	return time.Time{}
}

func parseAction(raw string, def model.Action) model.Action {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PUBLISH":
		return model.ActionPublish
	case "POST":
		return model.ActionPost
	case "CONTRIBUTE":
		return model.ActionContribute
	case "REVIEW":
		return model.ActionReview
	case "SHARE":
		return model.ActionShare
	case "OPEN":
		return model.ActionOpen
	default:
		return def
	}
}

func paperContent(raw json.RawMessage) (model.Content, error) {
	var p rawFeedPaper
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("paper content: %w", err)
	}
	hub := hubFrom(p.Hub)
	if hub == nil && len(p.Hubs) > 0 {
		h := p.Hubs[0]
		hub = hubFrom(&h)
	}
	desc := p.Abstract
	if desc == "" {
		desc = p.RenderableText
	}
	return model.Paper{
		Title:       p.Title,
		Authors:     paperAuthors(p.Authors),
		Description: desc,
		Hub:         hub,
	}, nil
}

func fundingRequestContent(raw json.RawMessage, ts time.Time) (model.Content, error) {
	var fr rawFundingRequest
	if err := json.Unmarshal(raw, &fr); err != nil {
		return nil, fmt.Errorf("funding request content: %w", err)
	}
	f := fr.rawFundraise
	if fr.Fundraise != nil {
		f = *fr.Fundraise
	}
	amount := parseAmount(f.AmountRaised)
	goal := parseAmount(f.GoalAmount)
	currency := strings.TrimSpace(f.GoalCurrency)
	if currency == "" {
		currency = "RSC"
	}
	desc := fr.RenderableText
	if desc == "" {
		desc = fr.Description
	}
	return model.FundingRequest{
		Title:        fr.Title,
		Description:  desc,
		Amount:       amount,
		GoalAmount:   goal,
		GoalCurrency: currency,
		Progress:     progress(amount, goal),
		Status:       fundraiseStatus(f.Status),
		Contributors: actorsFrom(f.Contributors.Top),
		Deadline:     timePtr(f.EndDate, ts),
	}, nil
}

func grantContent(raw json.RawMessage, ts, now time.Time) (model.Content, error) {
	var g rawGrantContent
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("grant content: %w", err)
	}
	return grantFromRaw(g, ts, now), nil
}

// grantFromRaw derives the open/closed truth once, at normalization
// time. A past end date closes the grant even when the backend status
// is still OPEN; a CLOSED status closes it regardless of the end date.
func grantFromRaw(g rawGrantContent, ts, now time.Time) model.Grant {
	status := model.GrantOpen
	if strings.EqualFold(strings.TrimSpace(g.Status), "CLOSED") {
		status = model.GrantClosed
	}
	end, hasEnd := parseTime(g.EndDate)
	open := status != model.GrantClosed
	if open && hasEnd && end.Before(now) {
		open = false
	}
	currency := strings.TrimSpace(g.Currency)
	if currency == "" {
		currency = "USD"
	}
	return model.Grant{
		Title:       g.Title,
		Description: g.Description,
		Amount:      parseAmount(g.Amount),
		Currency:    currency,
		EndDate:     timePtr(g.EndDate, ts),
		Applicants:  actorsFrom(g.Applicants),
		Status:      status,
		IsOpen:      open,
	}
}

func bountyContent(raw json.RawMessage, ts time.Time, reward bool) (model.Content, error) {
	var b rawBountyContent
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("bounty content: %w", err)
	}
	if reward {
		return model.Reward{
			Title:      b.Title,
			Amount:     parseAmount(b.Amount),
			Deadline:   timePtr(b.ExpirationDate, ts),
			Difficulty: difficulty(b.Difficulty),
			Status:     bountyStatus(b.Status),
		}, nil
	}
	return model.Bounty{
		Title:      b.Title,
		Amount:     parseAmount(b.Amount),
		Deadline:   timePtr(b.ExpirationDate, ts),
		Difficulty: difficulty(b.Difficulty),
		Status:     bountyStatus(b.Status),
	}, nil
}

func reviewContent(raw json.RawMessage) (model.Content, error) {
	var r rawReviewContent
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("review content: %w", err)
	}
	return model.Review{
		Title:       r.Title,
		Description: r.RenderableText,
		Score:       clampScore(parseAmount(r.Score)),
	}, nil
}

func contributionContent(raw json.RawMessage) (model.Content, error) {
	var c rawContributionContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("contribution content: %w", err)
	}
	out := model.Contribution{Amount: parseAmount(c.Amount)}
	if c.Target != nil {
		out.TargetID = c.Target.ID.String()
		out.TargetTitle = c.Target.Title
	}
	return out, nil
}

// commentContent maps review comments onto the review variant. A plain
// comment has no variant in the closed union and is a normalization
// failure, so the caller drops and counts it.
func commentContent(raw json.RawMessage) (model.Content, error) {
	var c rawCommentContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("comment content: %w", err)
	}
	if c.Review == nil {
		return nil, fmt.Errorf("comment without review score")
	}
	desc := c.RenderableText
	if desc == "" {
		desc = c.Review.RenderableText
	}
	title := c.Title
	if title == "" {
		title = c.Review.Title
	}
	return model.Review{
		Title:       title,
		Description: desc,
		Score:       clampScore(parseAmount(c.Review.Score)),
	}, nil
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 5 {
		return 5
	}
	return s
}
