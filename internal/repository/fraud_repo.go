package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/model"
)

// recentHistorySize is how many of the account's latest votes feed the
// directional-uniformity signal.
const recentHistorySize = 50

type FraudRepo struct {
	pool   *pgxpool.Pool
	policy config.FraudPolicy
}

func NewFraudRepo(pool *pgxpool.Pool, policy config.FraudPolicy) *FraudRepo {
	return &FraudRepo{pool: pool, policy: policy}
}

// Record persists a write-once fraud assessment. Assessments are never
// updated or deleted; the prior-flag signal reads them back.
func (r *FraudRepo) Record(ctx context.Context, a *model.FraudAssessment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fraud_assessments (account_id, content_id, score, flags)
		VALUES ($1, $2, $3, $4)`,
		a.AccountID, a.ContentID, a.Score, a.Flags)
	return err
}

// AssessmentsForAccount returns the account's recent assessments, newest
// first, for the moderation surface.
func (r *FraudRepo) AssessmentsForAccount(ctx context.Context, accountID string, limit int) ([]model.FraudAssessment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, content_id, score, flags, created_at
		FROM fraud_assessments
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FraudAssessment
	for rows.Next() {
		var a model.FraudAssessment
		if err := rows.Scan(&a.ID, &a.AccountID, &a.ContentID, &a.Score, &a.Flags, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Gather assembles every fraud signal for one vote attempt. All reads; a
// failure here is survivable because the gate fails open on it.
func (r *FraudRepo) Gather(ctx context.Context, q model.SignalQuery) (*model.FraudSignals, error) {
	var s model.FraudSignals

	// Account velocity over the trailing 5 minutes, any item.
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM votes
		WHERE account_id = $1 AND updated_at > NOW() - INTERVAL '5 minutes'`,
		q.AccountID).Scan(&s.VotesLast5Min)
	if err != nil {
		return nil, err
	}

	// Gap since the account's most recent vote.
	var lastVote time.Time
	err = r.pool.QueryRow(ctx, `
		SELECT updated_at FROM votes
		WHERE account_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`, q.AccountID).Scan(&lastVote)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first vote ever, no gap to measure
	case err != nil:
		return nil, err
	default:
		s.HasPriorVote = true
		s.SinceLastVote = time.Since(lastVote)
	}

	// Distinct accounts hitting this item from the caller's IP, 5 minutes.
	if q.IPHash != "" {
		err = r.pool.QueryRow(ctx, `
			SELECT COUNT(DISTINCT account_id) FROM votes
			WHERE content_id = $1 AND ip_hash = $2
			  AND updated_at > NOW() - INTERVAL '5 minutes'`,
			q.ContentID, q.IPHash).Scan(&s.AccountsFromIP)
		if err != nil {
			return nil, err
		}
	}

	// Device fingerprint reuse across accounts.
	if q.Fingerprint != "" {
		err = r.pool.QueryRow(ctx, `
			SELECT COUNT(DISTINCT account_id), COUNT(*) FROM votes
			WHERE fingerprint = $1`,
			q.Fingerprint).Scan(&s.FingerprintAccounts, &s.FingerprintSeen)
		if err != nil {
			return nil, err
		}
	}

	// Directional uniformity over the account's latest votes.
	rows, err := r.pool.Query(ctx, `
		SELECT direction FROM votes
		WHERE account_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`, q.AccountID, recentHistorySize)
	if err != nil {
		return nil, err
	}
	counts := map[model.Direction]int{}
	for rows.Next() {
		var d model.Direction
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return nil, err
		}
		counts[d]++
		s.RecentVotes++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, n := range counts {
		if n > s.DominantDirection {
			s.DominantDirection = n
		}
	}

	// Prior flagged assessments.
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM fraud_assessments
		WHERE account_id = $1 AND score >= $2`,
		q.AccountID, r.policy.FlagThreshold).Scan(&s.PriorFlags)
	if err != nil {
		return nil, err
	}

	// Item-side signals: ownership, self-vote ratio, engagement rate.
	var ownerID string
	var itemScore, itemViews, itemVotes int64
	err = r.pool.QueryRow(ctx, `
		SELECT c.account_id, c.score, c.views,
		       (SELECT COUNT(*) FROM votes v WHERE v.content_id = c.content_id)
		FROM content_items c
		WHERE c.content_id = $1`,
		q.ContentID).Scan(&ownerID, &itemScore, &itemViews, &itemVotes)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// item not seen yet, nothing to derive
		return &s, nil
	case err != nil:
		return nil, err
	}

	s.IsOwner = ownerID == q.AccountID
	if itemScore > 0 {
		var castCount int
		err = r.pool.QueryRow(ctx, `
			SELECT cast_count FROM votes
			WHERE content_id = $1 AND account_id = $2`,
			q.ContentID, q.AccountID).Scan(&castCount)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		s.SelfVoteRatio = float64(castCount) / float64(itemScore)
	}
	if itemViews > 0 {
		s.EngagementRate = float64(itemVotes) / float64(itemViews)
	}

	return &s, nil
}
