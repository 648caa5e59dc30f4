package service

import (
	"time"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/model"
)

// Signal flag names. Stable identifiers: they appear in persisted
// assessments and in reward exclusion reasons.
const (
	FlagIPCollision          = "ip_collision"
	FlagFingerprintCollision = "fingerprint_collision"
	FlagDirectionalUniform   = "directional_uniformity"
	FlagPriorHistory         = "prior_flag_history"
	FlagSelfVoteRatio        = "self_vote_ratio"
	FlagEngagementOutlier    = "engagement_outlier"
)

// Signal is one independent abuse heuristic: a name, an additive weight,
// and a trigger predicate over the gathered inputs. Keeping the registry
// flat keeps the policy auditable and each signal testable in isolation.
type Signal struct {
	Name      string
	Weight    int
	Triggered func(in model.FraudSignals) bool
}

// FraudService evaluates vote attempts against the signal registry.
// Evaluation is pure: no I/O, no mutation of vote or content state.
type FraudService struct {
	signals []Signal
	policy  config.FraudPolicy
}

func NewFraudService(policy config.FraudPolicy) *FraudService {
	return &FraudService{
		policy: policy,
		signals: []Signal{
			{
				Name:   FlagIPCollision,
				Weight: policy.WeightIPCollision,
				Triggered: func(in model.FraudSignals) bool {
					return in.AccountsFromIP > policy.IPCollisionAccounts
				},
			},
			{
				Name:   FlagFingerprintCollision,
				Weight: policy.WeightFingerprint,
				Triggered: func(in model.FraudSignals) bool {
					return in.FingerprintAccounts > policy.FingerprintAccounts &&
						in.FingerprintSeen > policy.FingerprintSeenMin
				},
			},
			{
				Name:   FlagDirectionalUniform,
				Weight: policy.WeightUniformity,
				Triggered: func(in model.FraudSignals) bool {
					if in.RecentVotes < policy.UniformityMinVotes {
						return false
					}
					ratio := float64(in.DominantDirection) / float64(in.RecentVotes)
					return ratio > policy.UniformityRatio
				},
			},
			{
				Name:   FlagPriorHistory,
				Weight: policy.WeightPriorFlags,
				Triggered: func(in model.FraudSignals) bool {
					return in.PriorFlags > 0
				},
			},
			{
				Name:   FlagSelfVoteRatio,
				Weight: policy.WeightSelfVote,
				Triggered: func(in model.FraudSignals) bool {
					return !in.IsOwner && in.SelfVoteRatio > policy.SelfVoteRatioMax
				},
			},
			{
				Name:   FlagEngagementOutlier,
				Weight: policy.WeightEngagement,
				Triggered: func(in model.FraudSignals) bool {
					return in.EngagementRate > policy.EngagementRateMax
				},
			},
		},
	}
}

// Evaluate sums the weights of all triggered signals. Zero signals yield a
// zero score and no flags.
func (s *FraudService) Evaluate(in model.FraudSignals) model.FraudResult {
	var res model.FraudResult
	for _, sig := range s.signals {
		if sig.Triggered(in) {
			res.Score += sig.Weight
			res.Flags = append(res.Flags, sig.Name)
		}
	}
	return res
}

// Flagged reports whether a score crosses the configured block threshold.
func (s *FraudService) Flagged(score int) bool {
	return score >= s.policy.FlagThreshold
}

// VelocityExceeded is a hard-reject condition: more votes inside the
// trailing 5-minute window than the policy allows. The gate rejects these
// outright instead of scoring them.
func (s *FraudService) VelocityExceeded(in model.FraudSignals) bool {
	return in.VotesLast5Min > s.policy.MaxVotesPer5Min
}

// TimingAnomaly is a hard-reject condition: consecutive votes closer
// together than the minimum gap.
func (s *FraudService) TimingAnomaly(in model.FraudSignals) bool {
	return in.HasPriorVote && in.SinceLastVote < time.Duration(s.policy.MinVoteGapSecs)*time.Second
}

// DisqualifiesReward reports whether an item's self-vote ratio alone
// excludes it from reward eligibility, independent of the aggregate score.
func (s *FraudService) DisqualifiesReward(selfVoteRatio float64) bool {
	return selfVoteRatio > s.policy.SelfVoteRatioMax
}

// EngagementOutlier reports whether an item's votes-to-views ratio exceeds
// the outlier threshold. Content-level signal, not account-level.
func (s *FraudService) EngagementOutlier(rate float64) bool {
	return rate > s.policy.EngagementRateMax
}
