package model

import (
	"encoding/json"
	"time"
)

// ContentType identifies which variant a FeedEntry carries. The set is
// closed; presentation code switches on it exhaustively.
type ContentType string

const (
	ContentPaper          ContentType = "paper"
	ContentFundingRequest ContentType = "funding_request"
	ContentGrant          ContentType = "grant"
	ContentBounty         ContentType = "bounty"
	ContentReward         ContentType = "reward"
	ContentReview         ContentType = "review"
	ContentContribution   ContentType = "contribution"
)

// Action is the verb a feed entry represents in a list.
type Action string

const (
	ActionPublish    Action = "publish"
	ActionPost       Action = "post"
	ActionContribute Action = "contribute"
	ActionReview     Action = "review"
	ActionShare      Action = "share"
	ActionOpen       Action = "open"
)

// Actor is the entity that performed a feed action.
type Actor struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	ProfileImage   string `json:"profile_image,omitempty"`
	IsOrganization bool   `json:"is_organization"`
	IsVerified     bool   `json:"is_verified"`
}

// Metrics holds engagement counters. Counters a source does not report
// stay at zero; they are never negative.
type Metrics struct {
	Votes    int `json:"votes"`
	Comments int `json:"comments"`
	Reposts  int `json:"reposts"`
	Saves    int `json:"saves"`
}

// Content is the closed union of feed entry payloads.
type Content interface {
	ContentType() ContentType
}

// Hub is a topic reference attached to papers and posts.
type Hub struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PaperAuthor is a single author credit on a paper or post.
type PaperAuthor struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Paper covers published papers, preprints and plain posts.
type Paper struct {
	Title       string        `json:"title"`
	Authors     []PaperAuthor `json:"authors"`
	Description string        `json:"description"`
	Hub         *Hub          `json:"hub,omitempty"`
}

func (Paper) ContentType() ContentType { return ContentPaper }

// FundraiseStatus is the lifecycle state of a funding request.
type FundraiseStatus string

const (
	FundraiseOpen      FundraiseStatus = "OPEN"
	FundraiseClosed    FundraiseStatus = "CLOSED"
	FundraiseCompleted FundraiseStatus = "COMPLETED"
)

// FundingRequest is a proposal raising money toward a goal amount.
// Progress is derived at normalization time and always lies in [0,100];
// a non-positive goal yields zero progress.
type FundingRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       float64         `json:"amount"`
	GoalAmount   float64         `json:"goal_amount"`
	GoalCurrency string          `json:"goal_currency"`
	Progress     int             `json:"progress"`
	Status       FundraiseStatus `json:"status"`
	Contributors []Actor         `json:"contributors"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
}

func (FundingRequest) ContentType() ContentType { return ContentFundingRequest }

// GrantStatus is the backend-reported state of a grant.
type GrantStatus string

const (
	GrantOpen   GrantStatus = "OPEN"
	GrantClosed GrantStatus = "CLOSED"
)

// Grant is a funding opportunity accepting applications. IsOpen is the
// derived truth: a grant whose end date has passed is closed even when
// the backend still reports OPEN.
type Grant struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	Currency    string      `json:"currency"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	Applicants  []Actor     `json:"applicants"`
	Status      GrantStatus `json:"status"`
	IsOpen      bool        `json:"is_open"`
}

func (Grant) ContentType() ContentType { return ContentGrant }

// Difficulty grades how involved earning a bounty is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// BountyStatus is the lifecycle state of a bounty or reward.
type BountyStatus string

const (
	BountyOpen    BountyStatus = "OPEN"
	BountyClosed  BountyStatus = "CLOSED"
	BountyExpired BountyStatus = "EXPIRED"
)

// Bounty is an open offer of payment for work on a document.
type Bounty struct {
	Title      string       `json:"title"`
	Amount     float64      `json:"amount"`
	Deadline   *time.Time   `json:"deadline,omitempty"`
	Difficulty Difficulty   `json:"difficulty"`
	Status     BountyStatus `json:"status"`
}

func (Bounty) ContentType() ContentType { return ContentBounty }

// Reward is an awarded or earned amount surfaced by the activity feed.
// It shares the bounty field set but renders under its own tag.
type Reward struct {
	Title      string       `json:"title"`
	Amount     float64      `json:"amount"`
	Deadline   *time.Time   `json:"deadline,omitempty"`
	Difficulty Difficulty   `json:"difficulty"`
	Status     BountyStatus `json:"status"`
}

func (Reward) ContentType() ContentType { return ContentReward }

// Review is a peer review with a 0-5 score; fractional scores are
// allowed and rendered as whole stars by the presentation layer.
type Review struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

func (Review) ContentType() ContentType { return ContentReview }

// Contribution is a token transfer into a proposal or bounty pool.
// TargetID/TargetTitle back-reference the funded entry when known.
type Contribution struct {
	Amount      float64 `json:"amount"`
	TargetID    string  `json:"target_id,omitempty"`
	TargetTitle string  `json:"target_title,omitempty"`
}

func (Contribution) ContentType() ContentType { return ContentContribution }

// FeedEntry is one normalized, renderable unit of content. Entries are
// immutable after construction; reflecting changed counters requires a
// re-fetch and fresh normalization.
type FeedEntry struct {
	ID        string
	Source    string
	Timestamp time.Time
	Actor     *Actor
	Action    Action
	Content   Content
	Metrics   Metrics
}

// Key is the dedup identity of an entry within an aggregated page.
func (e FeedEntry) Key() string {
	return e.Source + "|" + e.ID
}

// MarshalJSON flattens the union for output: the variant payload sits
// under "content" next to its discriminant tag.
func (e FeedEntry) MarshalJSON() ([]byte, error) {
	type envelope struct {
		ID          string      `json:"id"`
		Source      string      `json:"source"`
		Timestamp   time.Time   `json:"timestamp"`
		Actor       *Actor      `json:"actor,omitempty"`
		Action      Action      `json:"action"`
		ContentType ContentType `json:"content_type"`
		Content     Content     `json:"content"`
		Metrics     Metrics     `json:"metrics"`
	}
	var ct ContentType
	if e.Content != nil {
		ct = e.Content.ContentType()
	}
	return json.Marshal(envelope{
		ID:          e.ID,
		Source:      e.Source,
		Timestamp:   e.Timestamp,
		Actor:       e.Actor,
		Action:      e.Action,
		ContentType: ct,
		Content:     e.Content,
		Metrics:     e.Metrics,
	})
}
