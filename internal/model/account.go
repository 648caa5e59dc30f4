package model

import "time"

// AccountStatus is the soft lifecycle status of an account.
// Accounts are never hard-deleted.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

// Account represents a voter with staking-derived entitlements.
type Account struct {
	AccountID          string        `json:"accountId"`
	StakedAmount       int64         `json:"stakedAmount"`
	Status             AccountStatus `json:"-"`
	TotalVotes         int           `json:"totalVotes"`
	CumulativeEarnings int64         `json:"cumulativeEarnings"`
	CreatedAt          time.Time     `json:"-"`
	LastActive         time.Time     `json:"-"`
}

// Tier is a staking-derived entitlement level. DailyVoteLimit uses -1 as the
// unlimited sentinel so call sites branch explicitly instead of comparing
// against a large number.
type Tier struct {
	Name            string  `json:"name"`
	MinStake        int64   `json:"minStake"`
	DailyVoteLimit  int     `json:"dailyVoteLimit"`
	CooldownMinutes int     `json:"cooldownMinutes"`
	BoostWeight     float64 `json:"boostWeight"`
}

// UnlimitedVotes is the sentinel daily limit for tiers without a vote cap.
const UnlimitedVotes = -1

// QuotaSnapshot reports an account's remaining daily votes.
type QuotaSnapshot struct {
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
	Unlimited bool `json:"unlimited"`
}

// AccountResponse is the API response for account lookups.
type AccountResponse struct {
	AccountID          string        `json:"accountId"`
	StakedAmount       int64         `json:"stakedAmount"`
	Tier               string        `json:"tier"`
	Quota              QuotaSnapshot `json:"quota"`
	TotalVotes         int           `json:"totalVotes"`
	CumulativeEarnings int64         `json:"cumulativeEarnings"`
	AccountAge         int           `json:"accountAge"`
}
