package service

import (
	"testing"
	"time"

	"github.com/User133445/memevote-sub000/internal/model"
)

func TestTierFor_HighestThresholdWins(t *testing.T) {
	svc := NewTierService()

	tests := []struct {
		name   string
		staked int64
		want   string // "" = no tier
	}{
		{"zero stake", 0, ""},
		{"just below bronze", 99, ""},
		{"exactly bronze", 100, "Bronze"},
		{"between bronze and silver", 999, "Bronze"},
		{"exactly silver", 1_000, "Silver"},
		{"between gold and diamond", 9_999, "Gold"},
		{"exactly diamond", 10_000, "Diamond"},
		{"well above diamond", 1_000_000, "Diamond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := svc.TierFor(tt.staked)
			got := ""
			if tier != nil {
				got = tier.Name
			}
			if got != tt.want {
				t.Errorf("TierFor(%d) = %q, want %q", tt.staked, got, tt.want)
			}
		})
	}
}

func TestTierFor_UnorderedTableResolvesByThreshold(t *testing.T) {
	// Insertion order must not matter; ties in eligibility break toward
	// the highest threshold.
	svc := NewTierServiceWith([]model.Tier{
		{Name: "High", MinStake: 5_000, DailyVoteLimit: 300},
		{Name: "Low", MinStake: 50, DailyVoteLimit: 30},
		{Name: "Mid", MinStake: 700, DailyVoteLimit: 80},
	})

	if tier := svc.TierFor(6_000); tier == nil || tier.Name != "High" {
		t.Errorf("TierFor(6000) = %v, want High", tier)
	}
	if tier := svc.TierFor(800); tier == nil || tier.Name != "Mid" {
		t.Errorf("TierFor(800) = %v, want Mid", tier)
	}
}

func TestQuotaFor_Baseline(t *testing.T) {
	svc := NewTierService()

	q := svc.QuotaFor(nil, 5)
	if q.Limit != BaselineDailyVotes {
		t.Errorf("baseline limit = %d, want %d", q.Limit, BaselineDailyVotes)
	}
	if q.Remaining != BaselineDailyVotes-5 {
		t.Errorf("remaining = %d, want %d", q.Remaining, BaselineDailyVotes-5)
	}
	if q.Unlimited {
		t.Error("baseline quota should not be unlimited")
	}
}

func TestQuotaFor_ExhaustedClampsToZero(t *testing.T) {
	svc := NewTierService()
	tier := svc.TierFor(100) // Bronze, limit 50

	q := svc.QuotaFor(tier, 75)
	if q.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", q.Remaining)
	}
}

func TestQuotaFor_UnlimitedSentinel(t *testing.T) {
	svc := NewTierServiceWith([]model.Tier{
		{Name: "Whale", MinStake: 100_000, DailyVoteLimit: model.UnlimitedVotes},
	})

	q := svc.QuotaFor(svc.TierFor(200_000), 9_999)
	if !q.Unlimited {
		t.Fatal("top tier should report unlimited")
	}
	if q.Limit != model.UnlimitedVotes || q.Remaining != model.UnlimitedVotes {
		t.Errorf("sentinel not preserved: limit=%d remaining=%d", q.Limit, q.Remaining)
	}
}

func TestDiamondScenario_51stVoteAccepted(t *testing.T) {
	// Account with 12,000 staked voting for the 51st time today.
	svc := NewTierService()

	tier := svc.TierFor(12_000)
	if tier == nil || tier.Name != "Diamond" {
		t.Fatalf("TierFor(12000) = %v, want Diamond", tier)
	}

	q := svc.QuotaFor(tier, 50)
	if q.Limit != 500 {
		t.Errorf("limit = %d, want 500", q.Limit)
	}
	if q.Remaining <= 0 {
		t.Errorf("51st vote should fit within quota, remaining = %d", q.Remaining)
	}
}

func TestCooldownFor_ShorterForHigherTiers(t *testing.T) {
	svc := NewTierService()

	baseline := svc.CooldownFor(nil)
	if baseline != time.Duration(BaselineCooldownMinutes)*time.Minute {
		t.Errorf("baseline cooldown = %s", baseline)
	}

	prev := baseline
	for _, stake := range []int64{100, 1_000, 5_000, 10_000} {
		cd := svc.CooldownFor(svc.TierFor(stake))
		if cd >= prev {
			t.Errorf("cooldown at stake %d = %s, want shorter than %s", stake, cd, prev)
		}
		prev = cd
	}
}

func TestBoostFor(t *testing.T) {
	svc := NewTierService()

	if b := svc.BoostFor(nil); b != BaselineBoostWeight {
		t.Errorf("baseline boost = %.2f, want %.2f", b, BaselineBoostWeight)
	}
	if b := svc.BoostFor(svc.TierFor(10_000)); b != 2.0 {
		t.Errorf("diamond boost = %.2f, want 2.0", b)
	}
}
