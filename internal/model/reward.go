package model

import "time"

// LedgerStatus is the settlement state of a reward ledger entry.
// Transitions pending→settled only via the external transfer collaborator.
type LedgerStatus string

const (
	LedgerPending LedgerStatus = "pending"
	LedgerSettled LedgerStatus = "settled"
)

// RewardLedgerEntry is an append-only record of a reward owed to an account
// for a given day and rank. The idempotency key is (account, date, rank).
type RewardLedgerEntry struct {
	ID         int64        `json:"id"`
	AccountID  string       `json:"accountId"`
	ContentID  string       `json:"contentId"`
	Rank       int          `json:"rank"`
	Amount     int64        `json:"amount"`
	RewardDate time.Time    `json:"date"`
	Status     LedgerStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// RankedItem is one candidate row for the daily distribution: the persisted
// ranking joined with the eligibility inputs, so the engine evaluates each
// item from a single read.
type RankedItem struct {
	ContentID        string
	AccountID        string
	ViralityScore    float64
	Score            int64
	Views            int64
	CreatedAt        time.Time
	AccountCreatedAt time.Time
	TopSelfVoteRatio float64 // highest single-account cast ratio on the item
	EngagementRate   float64
}

// RewardExclusion records why a ranked item was skipped. Skipped ranks are
// absent from the ledger, never backfilled.
type RewardExclusion struct {
	ContentID string `json:"contentId"`
	Rank      int    `json:"rank"`
	Reason    string `json:"reason"`
}

// RewardSummaryEntry is one rewarded row in a distribution summary.
type RewardSummaryEntry struct {
	Rank      int    `json:"rank"`
	AccountID string `json:"accountId"`
	ContentID string `json:"contentId"`
	Amount    int64  `json:"amount"`
}

// RewardSummary is the API response for a distribution run.
type RewardSummary struct {
	Date          string               `json:"date"`
	RewardedCount int                  `json:"rewardedCount"`
	SkippedCount  int                  `json:"skippedCount"`
	Entries       []RewardSummaryEntry `json:"entries"`
	Exclusions    []RewardExclusion    `json:"exclusions,omitempty"`
}

// StatsResponse is the API response for global platform statistics.
type StatsResponse struct {
	TotalAccounts      int   `json:"totalAccounts"`
	TotalContent       int   `json:"totalContent"`
	TotalVotes         int   `json:"totalVotes"`
	FlaggedAssessments int   `json:"flaggedAssessments"`
	RewardsDistributed int64 `json:"rewardsDistributed"`
}
