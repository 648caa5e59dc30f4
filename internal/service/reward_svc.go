package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/metrics"
	"github.com/User133445/memevote-sub000/internal/model"
)

// Reward exclusion reasons recorded for skipped ranks.
const (
	ExclusionAccountTooNew     = "account_too_new"
	ExclusionItemTooNew        = "item_too_new"
	ExclusionInsufficientViews = "insufficient_views"
	ExclusionInsufficientScore = "insufficient_score"
	ExclusionSelfVoteRatio     = "self_vote_ratio"
	ExclusionEngagementOutlier = "engagement_outlier"
)

// RankedSource loads the day's top-ranked items, ordered by persisted
// virality score. Ranking is never recomputed inside the reward run.
type RankedSource interface {
	TopRanked(ctx context.Context, n int) ([]model.RankedItem, error)
}

// RewardLedger is the append-only ledger surface. Create must write the
// entry and the account's cumulative-earnings increment as one logical
// unit; a divergence is an error, never a silent retry.
type RewardLedger interface {
	HasEntry(ctx context.Context, accountID string, date time.Time, rank int) (bool, error)
	Create(ctx context.Context, entry *model.RewardLedgerEntry) error
}

// RewardService runs the daily distribution: rank, filter, pay out, ledger.
type RewardService struct {
	ranked RankedSource
	ledger RewardLedger
	fraud  *FraudService
	policy config.RewardPolicy
	log    zerolog.Logger
	now    func() time.Time
}

func NewRewardService(ranked RankedSource, ledger RewardLedger, fraud *FraudService, policy config.RewardPolicy, log zerolog.Logger) *RewardService {
	return &RewardService{
		ranked: ranked,
		ledger: ledger,
		fraud:  fraud,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// Distribute runs the distribution for one calendar day. Idempotent per
// day: re-running with unchanged inputs writes zero additional entries,
// guarded by the explicit (account, date, rank) key check rather than a
// storage constraint. Excluded items are skipped in place; their rank
// positions are never backfilled by lower-ranked items.
func (s *RewardService) Distribute(ctx context.Context, date time.Time) (*model.RewardSummary, error) {
	start := time.Now()
	defer func() {
		if metrics.RewardRunDuration != nil {
			metrics.RewardRunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	items, err := s.ranked.TopRanked(ctx, s.policy.TopN)
	if err != nil {
		return nil, fmt.Errorf("load ranked items: %w", err)
	}

	now := s.now()
	summary := &model.RewardSummary{Date: day.Format("2006-01-02")}

	for i, item := range items {
		rank := i + 1

		if reason := s.exclusionReason(item, now); reason != "" {
			summary.SkippedCount++
			summary.Exclusions = append(summary.Exclusions, model.RewardExclusion{
				ContentID: item.ContentID,
				Rank:      rank,
				Reason:    reason,
			})
			continue
		}

		exists, err := s.ledger.HasEntry(ctx, item.AccountID, day, rank)
		if err != nil {
			return nil, fmt.Errorf("idempotency check rank %d: %w", rank, err)
		}
		if exists {
			continue
		}

		entry := &model.RewardLedgerEntry{
			AccountID:  item.AccountID,
			ContentID:  item.ContentID,
			Rank:       rank,
			Amount:     s.payoutFor(rank),
			RewardDate: day,
			Status:     model.LedgerPending,
			CreatedAt:  now,
		}
		// Any ledger fault aborts the whole run: retrying a partially
		// written (entry, earnings) pair could double-pay.
		if err := s.ledger.Create(ctx, entry); err != nil {
			return nil, fmt.Errorf("reward run aborted at rank %d: %w", rank, err)
		}

		if metrics.RewardEntries != nil {
			metrics.RewardEntries.Inc()
		}
		summary.RewardedCount++
		summary.Entries = append(summary.Entries, model.RewardSummaryEntry{
			Rank:      rank,
			AccountID: item.AccountID,
			ContentID: item.ContentID,
			Amount:    entry.Amount,
		})
	}

	s.log.Info().
		Str("date", summary.Date).
		Int("rewarded", summary.RewardedCount).
		Int("skipped", summary.SkippedCount).
		Dur("elapsed", time.Since(start)).
		Msg("reward distribution complete")

	return summary, nil
}

// exclusionReason evaluates the five eligibility rules plus the
// engagement-rate disqualifier. All must pass; the first failure is the
// recorded reason.
func (s *RewardService) exclusionReason(item model.RankedItem, now time.Time) string {
	minAccountAge := time.Duration(s.policy.MinAccountAgeDays) * 24 * time.Hour
	if now.Sub(item.AccountCreatedAt) < minAccountAge {
		return ExclusionAccountTooNew
	}
	minItemAge := time.Duration(s.policy.MinItemAgeHours) * time.Hour
	if now.Sub(item.CreatedAt) < minItemAge {
		return ExclusionItemTooNew
	}
	if item.Views < s.policy.MinViews {
		return ExclusionInsufficientViews
	}
	if item.Score < s.policy.MinScore {
		return ExclusionInsufficientScore
	}
	if s.fraud.DisqualifiesReward(item.TopSelfVoteRatio) {
		return ExclusionSelfVoteRatio
	}
	if s.fraud.EngagementOutlier(item.EngagementRate) {
		return ExclusionEngagementOutlier
	}
	return ""
}

// payoutFor maps a rank position to the fixed payout table. Payout is a
// function of final rank only, not of score magnitude.
func (s *RewardService) payoutFor(rank int) int64 {
	switch {
	case rank == 1:
		return s.policy.PayoutRank1
	case rank <= 10:
		return s.policy.PayoutTop10
	default:
		return s.policy.PayoutTop50
	}
}
