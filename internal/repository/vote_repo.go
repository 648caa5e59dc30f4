package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/User133445/memevote-sub000/internal/model"
)

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// LastVoteOnItem returns the account's existing vote on the item, or nil if
// it has never voted there.
func (r *VoteRepo) LastVoteOnItem(ctx context.Context, contentID, accountID string) (*model.VoteRecord, error) {
	query := `
		SELECT id, content_id, account_id, direction, cast_count, created_at, updated_at
		FROM votes
		WHERE content_id = $1 AND account_id = $2`

	var v model.VoteRecord
	err := r.pool.QueryRow(ctx, query, contentID, accountID).Scan(
		&v.ID, &v.ContentID, &v.AccountID, &v.Direction, &v.CastCount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Apply inserts or updates the account's vote on the item and adjusts the
// content score atomically. The content row is locked for the duration of
// the transaction so concurrent votes on the same item serialize; an
// identical replay commits nothing beyond a cast_count bump.
func (r *VoteRepo) Apply(ctx context.Context, contentID, accountID string, dir model.Direction, ipHash, fingerprint string) (*model.VoteOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Ensure the content item exists (auto-create on first vote), then lock
	// its row. The lock serializes concurrent score adjustments.
	_, err = tx.Exec(ctx, `
		INSERT INTO content_items (content_id, account_id) VALUES ($1, $2)
		ON CONFLICT (content_id) DO NOTHING`,
		contentID, accountID)
	if err != nil {
		return nil, err
	}

	var score int64
	err = tx.QueryRow(ctx, `
		SELECT score FROM content_items WHERE content_id = $1 FOR UPDATE`,
		contentID).Scan(&score)
	if err != nil {
		return nil, err
	}

	var prior *model.Direction
	var existing model.Direction
	err = tx.QueryRow(ctx, `
		SELECT direction FROM votes WHERE content_id = $1 AND account_id = $2`,
		contentID, accountID).Scan(&existing)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		prior = &existing
	}

	delta, change := model.ScoreDelta(prior, dir)

	_, err = tx.Exec(ctx, `
		INSERT INTO votes (content_id, account_id, direction, cast_count, ip_hash, fingerprint)
		VALUES ($1, $2, $3, 1, $4, $5)
		ON CONFLICT (content_id, account_id) DO UPDATE
		SET direction = EXCLUDED.direction,
		    cast_count = votes.cast_count + 1,
		    ip_hash = EXCLUDED.ip_hash,
		    fingerprint = EXCLUDED.fingerprint,
		    updated_at = CASE WHEN votes.direction = EXCLUDED.direction
		                      THEN votes.updated_at ELSE NOW() END`,
		contentID, accountID, string(dir), ipHash, fingerprint)
	if err != nil {
		return nil, err
	}

	newScore := score + delta
	if change != model.VoteNoop {
		upDelta := upvoteDelta(prior, &dir)
		_, err = tx.Exec(ctx, `
			UPDATE content_items
			SET score = score + $2, upvotes = upvotes + $3, last_updated = NOW()
			WHERE content_id = $1`,
			contentID, delta, upDelta)
		if err != nil {
			return nil, err
		}
	}

	if change == model.VoteNew {
		_, err = tx.Exec(ctx, `
			UPDATE accounts SET total_votes = total_votes + 1, last_active = NOW()
			WHERE account_id = $1`, accountID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &model.VoteOutcome{NewScore: newScore, Change: change}, nil
}

// Withdraw removes the account's vote on the item and reverses its score
// contribution. Returns pgx.ErrNoRows when no vote exists to withdraw.
func (r *VoteRepo) Withdraw(ctx context.Context, contentID, accountID string) (*model.VoteOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var score int64
	err = tx.QueryRow(ctx, `
		SELECT score FROM content_items WHERE content_id = $1 FOR UPDATE`,
		contentID).Scan(&score)
	if err != nil {
		return nil, err
	}

	var prior model.Direction
	err = tx.QueryRow(ctx, `
		SELECT direction FROM votes WHERE content_id = $1 AND account_id = $2`,
		contentID, accountID).Scan(&prior)
	if err != nil {
		return nil, err // pgx.ErrNoRows when there is nothing to withdraw
	}

	delta, change := model.WithdrawDelta(prior)

	_, err = tx.Exec(ctx, `
		DELETE FROM votes WHERE content_id = $1 AND account_id = $2`,
		contentID, accountID)
	if err != nil {
		return nil, err
	}

	upDelta := upvoteDelta(&prior, nil)
	_, err = tx.Exec(ctx, `
		UPDATE content_items
		SET score = score + $2, upvotes = upvotes + $3, last_updated = NOW()
		WHERE content_id = $1`,
		contentID, delta, upDelta)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE accounts SET total_votes = total_votes - 1
		WHERE account_id = $1 AND total_votes > 0`, accountID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &model.VoteOutcome{NewScore: score + delta, Change: change}, nil
}

// upvoteDelta is the change to the item's upvote counter for a transition
// from prior to next (nil means absent on that side).
func upvoteDelta(prior, next *model.Direction) int64 {
	var d int64
	if prior != nil && *prior == model.DirectionUp {
		d--
	}
	if next != nil && *next == model.DirectionUp {
		d++
	}
	return d
}
