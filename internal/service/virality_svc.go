package service

import (
	"math"
	"time"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/model"
)

// ViralityService computes the decayed, velocity-weighted popularity score
// for content items. Scores live in [0,100]; recomputation is idempotent,
// so rerunning over unchanged inputs yields identical results.
type ViralityService struct {
	policy config.ViralityPolicy
}

func NewViralityService(policy config.ViralityPolicy) *ViralityService {
	return &ViralityService{policy: policy}
}

// Score blends an engagement-rate term with a velocity term. Velocity is
// weighted higher because recency matters more than cumulative ratio for
// "hot now" surfaces. Both terms and the result are clamped to [0,100].
func (s *ViralityService) Score(stats model.ContentStats, now time.Time) float64 {
	engagement := 0.0
	if stats.RecentViews > 0 {
		rate := float64(stats.RecentUpvotes) / float64(stats.RecentViews)
		engagement = math.Min(rate*100, 100)
	}

	velocity := 0.0
	hours := now.Sub(stats.CreatedAt).Hours()
	if hours < 1 {
		hours = 1
	}
	velocity = math.Min(float64(stats.RecentUpvotes)/hours*10, 100)

	score := s.policy.EngagementWeight*engagement + s.policy.VelocityWeight*velocity
	return math.Min(math.Max(score, 0), 100)
}

// IsRising reports whether an item qualifies for the rising surface:
// created within the recency horizon and above the minimum score. Rising is
// a subset of the same score, never an independently computed metric, so
// the two surfaces cannot disagree about an item's underlying score.
func (s *ViralityService) IsRising(stats model.ContentStats, score float64, now time.Time) bool {
	maxAge := time.Duration(s.policy.RisingMaxAgeHrs) * time.Hour
	return now.Sub(stats.CreatedAt) < maxAge && score >= s.policy.RisingMinScore
}

// Window returns the trailing activity window the scorer expects its
// inputs to be aggregated over.
func (s *ViralityService) Window() time.Duration {
	return time.Duration(s.policy.WindowDays) * 24 * time.Hour
}
