package service

import (
	"math"
	"testing"
	"time"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/model"
)

func testViralityPolicy() config.ViralityPolicy {
	return config.ViralityPolicy{
		EngagementWeight: 0.40,
		VelocityWeight:   0.60,
		WindowDays:       7,
		HotLimit:         100,
		RisingMaxAgeHrs:  24,
		RisingMinScore:   40,
	}
}

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScore_WeightedBlend(t *testing.T) {
	svc := NewViralityService(testViralityPolicy())
	now := time.Now()

	// 50 upvotes / 200 views = 0.25 engagement rate → 25 engagement term.
	// Created 10 hours ago → 50/10*10 = 50 velocity term.
	// 0.4*25 + 0.6*50 = 40.
	stats := model.ContentStats{
		CreatedAt:     now.Add(-10 * time.Hour),
		RecentUpvotes: 50,
		RecentViews:   200,
	}
	got := svc.Score(stats, now)
	if !almostEqual(got, 40, 0.01) {
		t.Errorf("Score = %.2f, want 40.00", got)
	}
}

func TestScore_ClampedTo100(t *testing.T) {
	svc := NewViralityService(testViralityPolicy())
	now := time.Now()

	stats := model.ContentStats{
		CreatedAt:     now.Add(-1 * time.Hour),
		RecentUpvotes: 100_000,
		RecentViews:   100_000,
	}
	if got := svc.Score(stats, now); got != 100 {
		t.Errorf("Score = %.2f, want clamp at 100", got)
	}
}

func TestScore_NoViewsNoEngagementTerm(t *testing.T) {
	svc := NewViralityService(testViralityPolicy())
	now := time.Now()

	// Velocity only: 10 upvotes over 5 hours → 20 velocity term → 12.
	stats := model.ContentStats{
		CreatedAt:     now.Add(-5 * time.Hour),
		RecentUpvotes: 10,
		RecentViews:   0,
	}
	if got := svc.Score(stats, now); !almostEqual(got, 12, 0.01) {
		t.Errorf("Score = %.2f, want 12.00", got)
	}
}

func TestScore_FreshItemsUseMinimumAge(t *testing.T) {
	svc := NewViralityService(testViralityPolicy())
	now := time.Now()

	// Items younger than one hour are scored as one hour old so velocity
	// does not blow up toward infinity.
	stats := model.ContentStats{
		CreatedAt:     now.Add(-time.Minute),
		RecentUpvotes: 5,
		RecentViews:   100,
	}
	got := svc.Score(stats, now)
	want := 0.4*5 + 0.6*50 // 5% engagement, 5 upvotes/hr → 50 velocity
	if !almostEqual(got, want, 0.01) {
		t.Errorf("Score = %.2f, want %.2f", got, want)
	}
}

func TestScore_Idempotent(t *testing.T) {
	svc := NewViralityService(testViralityPolicy())
	now := time.Now()

	stats := model.ContentStats{
		CreatedAt:     now.Add(-36 * time.Hour),
		RecentUpvotes: 42,
		RecentViews:   500,
	}
	first := svc.Score(stats, now)
	for i := 0; i < 10; i++ {
		if got := svc.Score(stats, now); got != first {
			t.Fatalf("run %d drifted: %.10f != %.10f", i, got, first)
		}
	}
}

func TestIsRising_SubsetOfScore(t *testing.T) {
	svc := NewViralityService(testViralityPolicy())
	now := time.Now()

	fresh := model.ContentStats{CreatedAt: now.Add(-6 * time.Hour)}
	stale := model.ContentStats{CreatedAt: now.Add(-30 * time.Hour)}

	tests := []struct {
		name  string
		stats model.ContentStats
		score float64
		want  bool
	}{
		{"fresh and hot", fresh, 55, true},
		{"fresh at threshold", fresh, 40, true},
		{"fresh but cold", fresh, 39, false},
		{"hot but too old", stale, 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsRising(tt.stats, tt.score, now); got != tt.want {
				t.Errorf("IsRising = %v, want %v", got, tt.want)
			}
		})
	}
}
