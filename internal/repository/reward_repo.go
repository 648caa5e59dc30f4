package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/User133445/memevote-sub000/internal/model"
)

// InconsistentLedgerError reports that a ledger write and its matching
// earnings update could not be committed together. The distribution run
// treats it as fatal and aborts rather than retrying.
type InconsistentLedgerError struct {
	AccountID string
	Rank      int
	Detail    string
}

func (e *InconsistentLedgerError) Error() string {
	return fmt.Sprintf("reward ledger inconsistent for account %s rank %d: %s", e.AccountID, e.Rank, e.Detail)
}

type RewardRepo struct {
	pool *pgxpool.Pool
}

func NewRewardRepo(pool *pgxpool.Pool) *RewardRepo {
	return &RewardRepo{pool: pool}
}

// HasEntry reports whether a ledger entry already exists for the
// (account, date, rank) idempotency key.
func (r *RewardRepo) HasEntry(ctx context.Context, accountID string, date time.Time, rank int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reward_ledger
			WHERE account_id = $1 AND reward_date = $2 AND rank = $3
		)`, accountID, date, rank).Scan(&exists)
	return exists, err
}

// Create appends one ledger entry and increments the account's cumulative
// earnings in the same transaction. The two writes succeed or fail as a
// unit; a missing account row surfaces as InconsistentLedgerError.
func (r *RewardRepo) Create(ctx context.Context, entry *model.RewardLedgerEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO reward_ledger (account_id, content_id, rank, amount, reward_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		entry.AccountID, entry.ContentID, entry.Rank, entry.Amount,
		entry.RewardDate, entry.Status).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET cumulative_earnings = cumulative_earnings + $2
		WHERE account_id = $1`,
		entry.AccountID, entry.Amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return &InconsistentLedgerError{
			AccountID: entry.AccountID,
			Rank:      entry.Rank,
			Detail:    "earnings update matched no account row",
		}
	}

	return tx.Commit(ctx)
}

// EntriesForAccount returns the account's ledger entries, newest first.
func (r *RewardRepo) EntriesForAccount(ctx context.Context, accountID string, limit int) ([]model.RewardLedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, content_id, rank, amount, reward_date, status, created_at
		FROM reward_ledger
		WHERE account_id = $1
		ORDER BY reward_date DESC, rank
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RewardLedgerEntry
	for rows.Next() {
		var e model.RewardLedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.ContentID, &e.Rank,
			&e.Amount, &e.RewardDate, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkSettled transitions an entry pending→settled once the external
// transfer collaborator confirms payment. Settled entries never move back.
func (r *RewardRepo) MarkSettled(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reward_ledger SET status = 'settled'
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
