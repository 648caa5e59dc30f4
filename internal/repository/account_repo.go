package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/User133445/memevote-sub000/internal/model"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Ensure upserts the account (auto-create with zero stake on first sight)
// and returns its current row. Existing accounts get last_active bumped.
func (r *AccountRepo) Ensure(ctx context.Context, accountID string) (*model.Account, error) {
	query := `
		INSERT INTO accounts (account_id) VALUES ($1)
		ON CONFLICT (account_id) DO UPDATE SET last_active = NOW()
		RETURNING account_id, staked_amount, status, total_votes,
		          cumulative_earnings, created_at, last_active`

	var a model.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&a.AccountID, &a.StakedAmount, &a.Status, &a.TotalVotes,
		&a.CumulativeEarnings, &a.CreatedAt, &a.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Find returns a single account without creating it.
func (r *AccountRepo) Find(ctx context.Context, accountID string) (*model.Account, error) {
	query := `
		SELECT account_id, staked_amount, status, total_votes,
		       cumulative_earnings, created_at, last_active
		FROM accounts
		WHERE account_id = $1`

	var a model.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&a.AccountID, &a.StakedAmount, &a.Status, &a.TotalVotes,
		&a.CumulativeEarnings, &a.CreatedAt, &a.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// VotesUsedToday counts the account's cast events since midnight UTC of the
// given instant. Re-casts count against quota the same as first casts.
func (r *AccountRepo) VotesUsedToday(ctx context.Context, accountID string, now time.Time) (int, error) {
	dayStart := now.UTC().Truncate(24 * time.Hour)

	var used int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM votes
		WHERE account_id = $1 AND updated_at >= $2`,
		accountID, dayStart).Scan(&used)
	return used, err
}

// SetStakedAmount records a stake change reported by the external staking
// ledger. Tier entitlements derive from this value on every vote.
func (r *AccountRepo) SetStakedAmount(ctx context.Context, accountID string, amount int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (account_id, staked_amount) VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET staked_amount = EXCLUDED.staked_amount`,
		accountID, amount)
	return err
}

// GetStats returns aggregate statistics from all tables.
func (r *AccountRepo) GetStats(ctx context.Context, flagThreshold int) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts) AS total_accounts,
			(SELECT COUNT(*) FROM content_items) AS total_content,
			(SELECT COUNT(*) FROM votes) AS total_votes,
			(SELECT COUNT(*) FROM fraud_assessments WHERE score >= $1) AS flagged,
			(SELECT COALESCE(SUM(amount), 0) FROM reward_ledger) AS distributed`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query, flagThreshold).Scan(
		&stats.TotalAccounts, &stats.TotalContent, &stats.TotalVotes,
		&stats.FlaggedAssessments, &stats.RewardsDistributed,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
