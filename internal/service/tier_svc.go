package service

import (
	"sort"
	"time"

	"github.com/User133445/memevote-sub000/internal/model"
)

// Baseline entitlements for accounts below every stake threshold: a fixed
// free daily quota rather than zero.
const (
	BaselineDailyVotes      = 20
	BaselineCooldownMinutes = 10
	BaselineBoostWeight     = 1.0
)

// DefaultTiers is the staking tier table, thresholds ascending. Thresholds
// are unevenly spaced on purpose; TierFor always resolves to the highest
// threshold an account meets.
var DefaultTiers = []model.Tier{
	{Name: "Bronze", MinStake: 100, DailyVoteLimit: 50, CooldownMinutes: 5, BoostWeight: 1.1},
	{Name: "Silver", MinStake: 1_000, DailyVoteLimit: 100, CooldownMinutes: 3, BoostWeight: 1.25},
	{Name: "Gold", MinStake: 5_000, DailyVoteLimit: 250, CooldownMinutes: 2, BoostWeight: 1.5},
	{Name: "Diamond", MinStake: 10_000, DailyVoteLimit: 500, CooldownMinutes: 1, BoostWeight: 2.0},
}

// TierService maps locked balances to vote entitlements.
type TierService struct {
	tiers []model.Tier // sorted descending by MinStake
}

// NewTierService builds the policy from the default tier table.
func NewTierService() *TierService {
	return NewTierServiceWith(DefaultTiers)
}

// NewTierServiceWith builds the policy from a custom tier table.
func NewTierServiceWith(tiers []model.Tier) *TierService {
	sorted := make([]model.Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinStake > sorted[j].MinStake
	})
	return &TierService{tiers: sorted}
}

// TierFor returns the highest tier whose threshold the staked amount meets,
// or nil for accounts below every threshold.
func (s *TierService) TierFor(stakedAmount int64) *model.Tier {
	for i := range s.tiers {
		if stakedAmount >= s.tiers[i].MinStake {
			return &s.tiers[i]
		}
	}
	return nil
}

// QuotaFor computes the remaining daily quota for a tier (nil = baseline).
// Unlimited tiers carry the -1 sentinel through so call sites branch on
// Unlimited rather than on a numeric comparison.
func (s *TierService) QuotaFor(tier *model.Tier, votesUsedToday int) model.QuotaSnapshot {
	limit := BaselineDailyVotes
	if tier != nil {
		limit = tier.DailyVoteLimit
	}

	if limit == model.UnlimitedVotes {
		return model.QuotaSnapshot{Remaining: model.UnlimitedVotes, Limit: model.UnlimitedVotes, Unlimited: true}
	}

	remaining := limit - votesUsedToday
	if remaining < 0 {
		remaining = 0
	}
	return model.QuotaSnapshot{Remaining: remaining, Limit: limit}
}

// CooldownFor returns the minimum gap between consecutive votes by one
// account on the same content item. Evaluated against the prior vote on
// that specific item, not the account's global vote timestamp.
func (s *TierService) CooldownFor(tier *model.Tier) time.Duration {
	minutes := BaselineCooldownMinutes
	if tier != nil {
		minutes = tier.CooldownMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// BoostFor returns the feed-boost weight for ranking surfaces.
func (s *TierService) BoostFor(tier *model.Tier) float64 {
	if tier == nil {
		return BaselineBoostWeight
	}
	return tier.BoostWeight
}
