package model

import "time"

// ContentStatus is the moderation lifecycle status of a content item.
type ContentStatus string

const (
	ContentPending  ContentStatus = "pending"
	ContentApproved ContentStatus = "approved"
	ContentRejected ContentStatus = "rejected"
)

// ContentItem represents a piece of user-submitted content in the database.
type ContentItem struct {
	ContentID     string        `json:"contentId"`
	AccountID     string        `json:"accountId"`
	Score         int64         `json:"score"`
	Views         int64         `json:"views"`
	Upvotes       int64         `json:"upvotes"`
	ViralityScore float64       `json:"viralityScore"`
	Status        ContentStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastUpdated   time.Time     `json:"lastUpdated"`
}

// ContentStats is the activity summary the virality scorer works from:
// upvotes and views over the trailing window, plus cumulative counters.
type ContentStats struct {
	ContentID     string
	AccountID     string
	CreatedAt     time.Time
	RecentUpvotes int64
	RecentViews   int64
	Views         int64
	Score         int64
}

// TrendingEntry is one ranked item in a hot/rising surface.
type TrendingEntry struct {
	ContentID     string  `json:"contentId"`
	ViralityScore float64 `json:"viralityScore"`
}

// ContentResponse is the API response for content lookups.
type ContentResponse struct {
	ContentID     string  `json:"contentId"`
	AccountID     string  `json:"accountId"`
	Score         int64   `json:"score"`
	Views         int64   `json:"views"`
	ViralityScore float64 `json:"viralityScore"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}
