package model

import "time"

// FraudSignals is the read-only input to the fraud evaluator. The caller
// gathers every field up front; evaluation itself performs no I/O and never
// mutates vote or content state.
type FraudSignals struct {
	// Hard-reject inputs, enforced by the gate rather than scored.
	VotesLast5Min int
	HasPriorVote  bool
	SinceLastVote time.Duration // gap since the account's most recent vote, any item

	// Scored inputs.
	AccountsFromIP      int // distinct accounts voting on this item from the caller IP, 5 min
	FingerprintAccounts int // distinct accounts sharing the device fingerprint
	FingerprintSeen     int // total sightings of the fingerprint
	RecentVotes         int // size of the account's recent vote history
	DominantDirection   int // largest same-direction count within RecentVotes
	PriorFlags          int // prior flagged assessments for the account
	IsOwner             bool
	SelfVoteRatio       float64 // account's cast count on the item vs. item score
	EngagementRate      float64 // item votes / item views
}

// SignalQuery identifies one vote attempt for signal gathering.
type SignalQuery struct {
	AccountID   string
	ContentID   string
	IPHash      string
	Fingerprint string
}

// FraudResult is the outcome of evaluating one set of signals.
type FraudResult struct {
	Score int      `json:"fraudScore"`
	Flags []string `json:"flags"`
}

// FraudAssessment is a write-once audit record of one evaluated attempt.
// Later assessments consult earlier ones for the prior-flag signal.
type FraudAssessment struct {
	ID        int64     `json:"id"`
	AccountID string    `json:"accountId"`
	ContentID string    `json:"contentId"`
	Score     int       `json:"score"`
	Flags     []string  `json:"flags"`
	CreatedAt time.Time `json:"createdAt"`
}
