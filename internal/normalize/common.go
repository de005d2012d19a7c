package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"scholarfeed/internal/model"
)

// rawAuthor mirrors the author/created_by shape shared by every backend
// resource.
type rawAuthor struct {
	ID           json.Number `json:"id"`
	FullName     string      `json:"full_name"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	ProfileImage string      `json:"profile_image"`
	IsOrg        bool        `json:"is_organization"`
	IsVerified   bool        `json:"is_verified"`
}

// rawHub mirrors a hub reference.
type rawHub struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

// rawMetrics mirrors the counter block. Absent counters unmarshal to
// zero, which is exactly the defaulting the output contract requires.
type rawMetrics struct {
	Votes    int `json:"votes"`
	Comments int `json:"comments"`
	Reposts  int `json:"reposts"`
	Saves    int `json:"saves"`
}

// rawAmount accepts the three encodings the backend uses for money: a
// bare number, a numeric string, or an object of per-currency values
// such as {"rsc": 30131} or {"usd": 150}.
func parseAmount(raw json.RawMessage) float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0
		}
		return f
	}
	var m map[string]json.Number
	if err := json.Unmarshal(raw, &m); err == nil {
		// RSC is the platform currency; prefer it when present.
		for _, k := range []string{"rsc", "usd"} {
			if v, ok := m[k]; ok {
				f, _ := v.Float64()
				return f
			}
		}
		// Unknown currencies: take the lexicographically first key so
		// the same raw object always parses to the same amount.
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			f, _ := m[keys[0]].Float64()
			return f
		}
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime accepts the backend's date encodings; ok is false when the
// value is empty or unparseable.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timePtr returns the parsed time, or fallback when the field is
// missing. Display dates always resolve against the entry timestamp,
// never against a render-time clock.
func timePtr(s string, fallback time.Time) *time.Time {
	if t, ok := parseTime(s); ok {
		return &t
	}
	if fallback.IsZero() {
		return nil
	}
	f := fallback
	return &f
}

// progress derives a clamped percentage. A non-positive goal means the
// fundraise has no target yet and reads as zero progress.
func progress(amount, goal float64) int {
	if goal <= 0 {
		return 0
	}
	p := int(math.Round(amount / goal * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func metricsFrom(m rawMetrics) model.Metrics {
	return model.Metrics{
		Votes:    nonNeg(m.Votes),
		Comments: nonNeg(m.Comments),
		Reposts:  nonNeg(m.Reposts),
		Saves:    nonNeg(m.Saves),
	}
}

func nonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// actorFrom resolves the entry actor: the explicit author wins, then
// created_by, and with neither present the actor stays absent rather
// than being synthesized.
func actorFrom(author, createdBy *rawAuthor) *model.Actor {
	a := author
	if a == nil {
		a = createdBy
	}
	if a == nil {
		return nil
	}
	name := strings.TrimSpace(a.FullName)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	}
	return &model.Actor{
		ID:             a.ID.String(),
		FullName:       name,
		ProfileImage:   a.ProfileImage,
		IsOrganization: a.IsOrg,
		IsVerified:     a.IsVerified,
	}
}

func actorsFrom(raws []rawAuthor) []model.Actor {
	out := make([]model.Actor, 0, len(raws))
	for i := range raws {
		r := raws[i]
		if a := actorFrom(&r, nil); a != nil {
			out = append(out, *a)
		}
	}
	return out
}

func hubFrom(h *rawHub) *model.Hub {
	if h == nil || (h.ID.String() == "" && h.Name == "" && h.Slug == "") {
		return nil
	}
	return &model.Hub{ID: h.ID.String(), Name: h.Name, Slug: h.Slug}
}

func paperAuthors(raws []rawAuthor) []model.PaperAuthor {
	out := make([]model.PaperAuthor, 0, len(raws))
	for _, r := range raws {
		name := strings.TrimSpace(r.FullName)
		if name == "" {
			name = strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
		}
		if name == "" {
			continue
		}
		out = append(out, model.PaperAuthor{Name: name, Verified: r.IsVerified})
	}
	return out
}

func fundraiseStatus(s string) model.FundraiseStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLOSED":
		return model.FundraiseClosed
	case "COMPLETED":
		return model.FundraiseCompleted
	default:
		return model.FundraiseOpen
	}
}

func bountyStatus(s string) model.BountyStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLOSED":
		return model.BountyClosed
	case "EXPIRED":
		return model.BountyExpired
	default:
		return model.BountyOpen
	}
}

func difficulty(s string) model.Difficulty {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EASY":
		return model.DifficultyEasy
	case "HARD":
		return model.DifficultyHard
	default:
		return model.DifficultyMedium
	}
}

// entryID builds the response-local id: the raw id in its source's id
// space plus a type prefix so ids from different resources cannot
// collide inside one aggregated page.
func entryID(prefix string, id json.Number) string {
	return fmt.Sprintf("%s-%s", prefix, id.String())
}
