package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/metrics"
	"github.com/User133445/memevote-sub000/internal/model"
)

// ContentRankings is the content activity surface the trending recompute
// reads from and persists scores to.
type ContentRankings interface {
	ActiveStats(ctx context.Context, window time.Duration) ([]model.ContentStats, error)
	SetViralityScore(ctx context.Context, contentID string, score float64) error
}

// TrendingService recomputes the hot and rising surfaces on a schedule.
// Every run fully replaces the prior ranked sets; a crashed run leaves the
// previous ranking stale, never partially overwritten.
type TrendingService struct {
	contents ContentRankings
	virality *ViralityService
	cache    *CacheService
	log      zerolog.Logger
	now      func() time.Time
}

func NewTrendingService(contents ContentRankings, virality *ViralityService, cache *CacheService, log zerolog.Logger) *TrendingService {
	return &TrendingService{
		contents: contents,
		virality: virality,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Recompute scores every recently active item, persists the scores, and
// swaps in the replacement hot and rising sets. Idempotent: unchanged
// inputs produce identical rankings.
func (s *TrendingService) Recompute(ctx context.Context) (hotCount, risingCount int, err error) {
	start := time.Now()
	defer func() {
		if metrics.TrendingRunDuration != nil {
			metrics.TrendingRunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	stats, err := s.contents.ActiveStats(ctx, s.virality.Window())
	if err != nil {
		return 0, 0, err
	}

	now := s.now()
	hot := make([]model.TrendingEntry, 0, len(stats))
	var rising []model.TrendingEntry

	for _, st := range stats {
		score := s.virality.Score(st, now)
		if err := s.contents.SetViralityScore(ctx, st.ContentID, score); err != nil {
			return 0, 0, err
		}

		hot = append(hot, model.TrendingEntry{ContentID: st.ContentID, ViralityScore: score})
		if s.virality.IsRising(st, score, now) {
			rising = append(rising, model.TrendingEntry{ContentID: st.ContentID, ViralityScore: score})
		}
	}

	sort.SliceStable(hot, func(i, j int) bool { return hot[i].ViralityScore > hot[j].ViralityScore })
	if limit := s.virality.policy.HotLimit; len(hot) > limit {
		hot = hot[:limit]
	}
	sort.SliceStable(rising, func(i, j int) bool { return rising[i].ViralityScore > rising[j].ViralityScore })

	if err := s.cache.ReplaceRanking(ctx, RankingHot, hot); err != nil {
		return 0, 0, err
	}
	if err := s.cache.ReplaceRanking(ctx, RankingRising, rising); err != nil {
		return 0, 0, err
	}

	s.log.Info().
		Int("hot", len(hot)).
		Int("rising", len(rising)).
		Dur("elapsed", time.Since(start)).
		Msg("trending recompute complete")

	return len(hot), len(rising), nil
}
