package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/model"
)

type fakeContentRankings struct {
	stats    []model.ContentStats
	statsErr error
	scores   map[string]float64
}

func (f *fakeContentRankings) ActiveStats(_ context.Context, _ time.Duration) ([]model.ContentStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeContentRankings) SetViralityScore(_ context.Context, contentID string, score float64) error {
	if f.scores == nil {
		f.scores = make(map[string]float64)
	}
	f.scores[contentID] = score
	return nil
}

func newTrendingFixture(stats []model.ContentStats) (*TrendingService, *fakeContentRankings) {
	contents := &fakeContentRankings{stats: stats}
	svc := NewTrendingService(
		contents,
		NewViralityService(testViralityPolicy()),
		NewCacheService("", zerolog.Nop()), // no-op cache
		zerolog.Nop(),
	)
	return svc, contents
}

func TestRecompute_PersistsScores(t *testing.T) {
	now := time.Now()
	stats := []model.ContentStats{
		{ContentID: "c1", CreatedAt: now.Add(-10 * time.Hour), RecentUpvotes: 50, RecentViews: 200},
		{ContentID: "c2", CreatedAt: now.Add(-100 * time.Hour), RecentUpvotes: 5, RecentViews: 500},
	}
	svc, contents := newTrendingFixture(stats)

	hot, _, err := svc.Recompute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if hot != 2 {
		t.Errorf("hot count = %d, want 2", hot)
	}
	if len(contents.scores) != 2 {
		t.Fatalf("persisted scores = %d, want 2", len(contents.scores))
	}
	if contents.scores["c1"] <= contents.scores["c2"] {
		t.Error("the faster item should outscore the slow one")
	}
}

func TestRecompute_RisingIsSubset(t *testing.T) {
	now := time.Now()
	stats := []model.ContentStats{
		// Fresh and fast: rising.
		{ContentID: "fresh", CreatedAt: now.Add(-3 * time.Hour), RecentUpvotes: 60, RecentViews: 300},
		// Fast but too old for rising.
		{ContentID: "old", CreatedAt: now.Add(-48 * time.Hour), RecentUpvotes: 600, RecentViews: 3000},
		// Fresh but cold: below the rising score floor.
		{ContentID: "cold", CreatedAt: now.Add(-3 * time.Hour), RecentUpvotes: 1, RecentViews: 500},
	}
	svc, _ := newTrendingFixture(stats)

	hot, rising, err := svc.Recompute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if hot != 3 {
		t.Errorf("hot = %d, want all 3 items scored", hot)
	}
	if rising != 1 {
		t.Errorf("rising = %d, want only the fresh fast item", rising)
	}
}

func TestRecompute_IdempotentOverUnchangedInputs(t *testing.T) {
	now := time.Now()
	stats := []model.ContentStats{
		{ContentID: "c1", CreatedAt: now.Add(-10 * time.Hour), RecentUpvotes: 42, RecentViews: 420},
	}
	svc, contents := newTrendingFixture(stats)
	svc.now = func() time.Time { return now }

	if _, _, err := svc.Recompute(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := contents.scores["c1"]

	if _, _, err := svc.Recompute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if contents.scores["c1"] != first {
		t.Errorf("score drifted across reruns: %.10f != %.10f", contents.scores["c1"], first)
	}
}

func TestRecompute_StatsErrorPropagates(t *testing.T) {
	svc, contents := newTrendingFixture(nil)
	contents.statsErr = errors.New("store down")

	if _, _, err := svc.Recompute(context.Background()); err == nil {
		t.Fatal("expected error from stats load")
	}
}
