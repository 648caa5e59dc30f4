package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/User133445/memevote-sub000/internal/model"
)

type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// Find returns a single content item by its ID.
func (r *ContentRepo) Find(ctx context.Context, contentID string) (*model.ContentItem, error) {
	query := `
		SELECT content_id, account_id, score, views, upvotes, virality_score,
		       status, created_at, last_updated
		FROM content_items
		WHERE content_id = $1`

	var c model.ContentItem
	err := r.pool.QueryRow(ctx, query, contentID).Scan(
		&c.ContentID, &c.AccountID, &c.Score, &c.Views, &c.Upvotes,
		&c.ViralityScore, &c.Status, &c.CreatedAt, &c.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IncrementViews bumps the item's cumulative view counter and records a
// timestamped view event for the windowed engagement signals.
func (r *ContentRepo) IncrementViews(ctx context.Context, contentID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE content_items SET views = views + 1 WHERE content_id = $1`,
		contentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Views on unseen items are dropped rather than auto-creating rows:
		// only a vote brings an item into the system.
		return nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO view_events (content_id) VALUES ($1)`, contentID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ActiveStats returns the windowed activity summary for every approved item
// with any recent upvote or view, the input to a trending recompute.
func (r *ContentRepo) ActiveStats(ctx context.Context, window time.Duration) ([]model.ContentStats, error) {
	cutoff := time.Now().Add(-window)

	rows, err := r.pool.Query(ctx, `
		SELECT c.content_id, c.account_id, c.created_at, c.views, c.score,
		       (SELECT COUNT(*) FROM votes v
		        WHERE v.content_id = c.content_id AND v.direction = 'up'
		          AND v.updated_at > $1) AS recent_upvotes,
		       (SELECT COUNT(*) FROM view_events e
		        WHERE e.content_id = c.content_id AND e.created_at > $1) AS recent_views
		FROM content_items c
		WHERE c.status = 'approved' AND c.last_updated > $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ContentStats
	for rows.Next() {
		var s model.ContentStats
		if err := rows.Scan(&s.ContentID, &s.AccountID, &s.CreatedAt, &s.Views,
			&s.Score, &s.RecentUpvotes, &s.RecentViews); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetViralityScore persists a recomputed score on the item row.
func (r *ContentRepo) SetViralityScore(ctx context.Context, contentID string, score float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE content_items SET virality_score = $2 WHERE content_id = $1`,
		contentID, score)
	return err
}

// TopRanked returns the top N approved items by persisted virality score,
// joined with every eligibility input the reward engine needs, so one read
// evaluates each candidate.
func (r *ContentRepo) TopRanked(ctx context.Context, n int) ([]model.RankedItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.content_id, c.account_id, c.virality_score, c.score, c.views,
		       c.created_at, a.created_at AS account_created_at,
		       COALESCE((SELECT MAX(v.cast_count) FROM votes v
		                 WHERE v.content_id = c.content_id), 0) AS max_cast,
		       (SELECT COUNT(*) FROM votes v
		        WHERE v.content_id = c.content_id) AS vote_count
		FROM content_items c
		JOIN accounts a ON a.account_id = c.account_id
		WHERE c.status = 'approved'
		ORDER BY c.virality_score DESC, c.content_id
		LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RankedItem
	for rows.Next() {
		var item model.RankedItem
		var maxCast, voteCount int64
		if err := rows.Scan(&item.ContentID, &item.AccountID, &item.ViralityScore,
			&item.Score, &item.Views, &item.CreatedAt, &item.AccountCreatedAt,
			&maxCast, &voteCount); err != nil {
			return nil, err
		}
		if item.Score > 0 {
			item.TopSelfVoteRatio = float64(maxCast) / float64(item.Score)
		}
		if item.Views > 0 {
			item.EngagementRate = float64(voteCount) / float64(item.Views)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
