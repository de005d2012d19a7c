// Package render is the presentation side of the feed layer. It works
// purely off the content discriminant: nothing here reaches into
// backend shapes, and display-only concerns such as truncation live
// here rather than in normalization.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"scholarfeed/internal/model"
)

// SummaryLen is the list-display truncation threshold in characters.
const SummaryLen = 200

// Truncate cuts s to exactly n characters and appends an ellipsis when
// anything was removed. Counting is per rune so multi-byte text is
// never split mid-character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// Label returns the human-readable name for a content type. The switch
// covers the whole closed union; a new variant without a label here is
// the gap this lookup exists to surface.
func Label(t model.ContentType) string {
	switch t {
	case model.ContentPaper:
		return "Paper"
	case model.ContentFundingRequest:
		return "Funding Request"
	case model.ContentGrant:
		return "Grant"
	case model.ContentBounty:
		return "Bounty"
	case model.ContentReward:
		return "Reward"
	case model.ContentReview:
		return "Review"
	case model.ContentContribution:
		return "Contribution"
	}
	return "Unknown"
}

// Stars renders a 0-5 score as whole stars, rounding down.
func Stars(score float64) string {
	n := int(score)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// GrantStatusLabel renders the derived open/closed truth, not the raw
// backend status.
func GrantStatusLabel(g model.Grant) string {
	if g.IsOpen {
		return "Open"
	}
	return "Closed"
}

// FundraiseStatusLabel renders a funding request's lifecycle state.
func FundraiseStatusLabel(s model.FundraiseStatus) string {
	switch s {
	case model.FundraiseCompleted:
		return "Completed"
	case model.FundraiseClosed:
		return "Closed"
	default:
		return "Open"
	}
}

// Line renders one entry as a single table row. The switch on the
// variant is the only type-driven branching the presentation layer
// does.
func Line(e model.FeedEntry) string {
	actor := ""
	if e.Actor != nil {
		actor = e.Actor.FullName
	}
	ts := ""
	if !e.Timestamp.IsZero() {
		ts = e.Timestamp.Format("2006-01-02")
	}
	var detail string
	switch c := e.Content.(type) {
	case model.Paper:
		detail = fmt.Sprintf("%s — %s", c.Title, Truncate(c.Description, SummaryLen))
	case model.FundingRequest:
		detail = fmt.Sprintf("%s — %.0f/%.0f %s (%d%%, %s)",
			c.Title, c.Amount, c.GoalAmount, c.GoalCurrency, c.Progress, FundraiseStatusLabel(c.Status))
	case model.Grant:
		detail = fmt.Sprintf("%s — %.0f %s (%s)", c.Title, c.Amount, c.Currency, GrantStatusLabel(c))
	case model.Bounty:
		detail = fmt.Sprintf("%s — %.0f RSC (%s)", c.Title, c.Amount, c.Status)
	case model.Reward:
		detail = fmt.Sprintf("%s — %.0f RSC earned", c.Title, c.Amount)
	case model.Review:
		detail = fmt.Sprintf("%s %s", Stars(c.Score), Truncate(c.Description, SummaryLen))
	case model.Contribution:
		detail = fmt.Sprintf("%.0f RSC → %s", c.Amount, c.TargetTitle)
	default:
		detail = "(unrenderable)"
	}
	return fmt.Sprintf("%-10s  %-15s  %-10s  %-20s  %s",
		ts, Label(contentType(e)), e.Action, Truncate(actor, 20), detail)
}

func contentType(e model.FeedEntry) model.ContentType {
	if e.Content == nil {
		return ""
	}
	return e.Content.ContentType()
}

// WriteTable writes entries as aligned rows.
func WriteTable(w io.Writer, entries []model.FeedEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, Line(e)); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []model.FeedEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// WriteYAML writes entries as a YAML sequence, going through the JSON
// representation so the union flattens the same way in both formats.
func WriteYAML(w io.Writer, entries []model.FeedEntry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	var generic []map[string]any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	return yaml.NewEncoder(w).Encode(generic)
}

// Write dispatches on the output format name: table, json or yaml.
func Write(w io.Writer, format string, entries []model.FeedEntry) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return WriteTable(w, entries)
	case "json":
		return WriteJSON(w, entries)
	case "yaml":
		return WriteYAML(w, entries)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
