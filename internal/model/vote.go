package model

import "time"

// Direction is the polarity of a vote.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is a recognized vote direction.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Delta is the score contribution of a single vote in this direction.
func (d Direction) Delta() int64 {
	if d == DirectionDown {
		return -1
	}
	return 1
}

// VoteRecord is an individual vote. Unique per (content item, account):
// a second vote from the same account on the same item is a change or a
// withdrawal, never a new record. CastCount tracks how many times the
// account has cast or re-cast on this item, feeding the self-vote signal.
type VoteRecord struct {
	ID        int64     `json:"id"`
	ContentID string    `json:"contentId"`
	AccountID string    `json:"accountId"`
	Direction Direction `json:"direction"`
	CastCount int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteChange classifies what an applied vote did to the content score.
type VoteChange string

const (
	VoteNew       VoteChange = "new"       // ±1
	VoteChanged   VoteChange = "changed"   // ±2
	VoteWithdrawn VoteChange = "withdrawn" // ∓1
	VoteNoop      VoteChange = "noop"      // identical replay, score unchanged
)

// VoteOutcome is the result of the applied stage of the eligibility gate.
type VoteOutcome struct {
	NewScore int64
	Change   VoteChange
}

// ScoreDelta returns the content-score adjustment and change kind for a vote
// transition. prior is nil for a first vote; an identical replay adjusts
// nothing.
func ScoreDelta(prior *Direction, next Direction) (int64, VoteChange) {
	if prior == nil {
		return next.Delta(), VoteNew
	}
	if *prior == next {
		return 0, VoteNoop
	}
	return 2 * next.Delta(), VoteChanged
}

// WithdrawDelta returns the adjustment for removing an existing vote.
func WithdrawDelta(prior Direction) (int64, VoteChange) {
	return -prior.Delta(), VoteWithdrawn
}

// VoteRequest is the API request body for submitting a vote.
type VoteRequest struct {
	AccountID         string `json:"accountId"`
	ContentID         string `json:"contentId"`
	Direction         string `json:"direction"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
}

// VoteWithdrawRequest is the API request body for withdrawing a vote.
type VoteWithdrawRequest struct {
	AccountID string `json:"accountId"`
	ContentID string `json:"contentId"`
}

// VoteResponse is the API response after a vote attempt.
type VoteResponse struct {
	Accepted bool           `json:"accepted"`
	Reason   Reason         `json:"reason,omitempty"`
	NewScore int64          `json:"newScore,omitempty"`
	Quota    *QuotaSnapshot `json:"quota,omitempty"`
}

// PrecheckRequest is the API request body for the fraud pre-check boundary.
// Callers apply it before submitting; the vote path re-validates regardless.
type PrecheckRequest struct {
	AccountID         string `json:"accountId"`
	ContentID         string `json:"contentId"`
	Direction         string `json:"direction"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
	Origin            string `json:"origin,omitempty"`
}

// PrecheckResponse is the API response for the fraud pre-check boundary.
type PrecheckResponse struct {
	Allowed    bool   `json:"allowed"`
	Suspicious bool   `json:"suspicious"`
	Reason     Reason `json:"reason,omitempty"`
}
