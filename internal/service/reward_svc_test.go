package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/model"
)

func testRewardPolicy() config.RewardPolicy {
	return config.RewardPolicy{
		TopN:              50,
		MinAccountAgeDays: 7,
		MinItemAgeHours:   24,
		MinViews:          100,
		MinScore:          10,
		PayoutRank1:       1000,
		PayoutTop10:       250,
		PayoutTop50:       50,
	}
}

type fakeRanked struct {
	items []model.RankedItem
	err   error
}

func (f *fakeRanked) TopRanked(_ context.Context, n int) ([]model.RankedItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > n {
		return f.items[:n], nil
	}
	return f.items, nil
}

type fakeLedger struct {
	entries   []*model.RewardLedgerEntry
	createErr error
}

func (f *fakeLedger) HasEntry(_ context.Context, accountID string, date time.Time, rank int) (bool, error) {
	for _, e := range f.entries {
		if e.AccountID == accountID && e.RewardDate.Equal(date) && e.Rank == rank {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) Create(_ context.Context, entry *model.RewardLedgerEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func eligibleItem(contentID, accountID string, score float64) model.RankedItem {
	old := time.Now().Add(-30 * 24 * time.Hour)
	return model.RankedItem{
		ContentID:        contentID,
		AccountID:        accountID,
		ViralityScore:    score,
		Score:            100,
		Views:            1_000,
		CreatedAt:        time.Now().Add(-48 * time.Hour),
		AccountCreatedAt: old,
		EngagementRate:   0.10,
	}
}

func newRewardFixture(items []model.RankedItem) (*RewardService, *fakeLedger) {
	ledger := &fakeLedger{}
	svc := NewRewardService(
		&fakeRanked{items: items},
		ledger,
		NewFraudService(testFraudPolicy()),
		testRewardPolicy(),
		zerolog.Nop(),
	)
	return svc, ledger
}

func TestDistribute_PayoutBands(t *testing.T) {
	items := make([]model.RankedItem, 15)
	for i := range items {
		items[i] = eligibleItem("c", "a", 90-float64(i))
		items[i].ContentID = items[i].ContentID + string(rune('a'+i))
		items[i].AccountID = items[i].AccountID + string(rune('a'+i))
	}
	svc, ledger := newRewardFixture(items)

	summary, err := svc.Distribute(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if summary.RewardedCount != 15 {
		t.Fatalf("rewarded = %d, want 15", summary.RewardedCount)
	}

	if ledger.entries[0].Amount != 1000 {
		t.Errorf("rank 1 amount = %d, want 1000", ledger.entries[0].Amount)
	}
	for i := 1; i < 10; i++ {
		if ledger.entries[i].Amount != 250 {
			t.Errorf("rank %d amount = %d, want 250", i+1, ledger.entries[i].Amount)
		}
	}
	for i := 10; i < 15; i++ {
		if ledger.entries[i].Amount != 50 {
			t.Errorf("rank %d amount = %d, want 50", i+1, ledger.entries[i].Amount)
		}
	}
	for _, e := range ledger.entries {
		if e.Status != model.LedgerPending {
			t.Errorf("entry %d status = %s, want pending", e.Rank, e.Status)
		}
	}
}

func TestDistribute_IdempotentRerun(t *testing.T) {
	items := []model.RankedItem{
		eligibleItem("c1", "a1", 95),
		eligibleItem("c2", "a2", 90),
	}
	svc, ledger := newRewardFixture(items)
	date := time.Now().UTC()

	first, err := svc.Distribute(context.Background(), date)
	if err != nil {
		t.Fatal(err)
	}
	if first.RewardedCount != 2 {
		t.Fatalf("first run rewarded = %d, want 2", first.RewardedCount)
	}

	second, err := svc.Distribute(context.Background(), date)
	if err != nil {
		t.Fatal(err)
	}
	if second.RewardedCount != 0 {
		t.Errorf("second run rewarded = %d, want 0", second.RewardedCount)
	}
	if len(ledger.entries) != 2 {
		t.Errorf("ledger entries = %d, want 2 (no duplicates)", len(ledger.entries))
	}
}

func TestDistribute_ExclusionsSkipWithoutBackfill(t *testing.T) {
	tooNew := eligibleItem("c2", "a2", 90)
	tooNew.AccountCreatedAt = time.Now().Add(-24 * time.Hour)

	items := []model.RankedItem{
		eligibleItem("c1", "a1", 95), // rank 1
		tooNew,                       // rank 2, excluded
		eligibleItem("c3", "a3", 85), // rank 3 stays rank 3
	}
	svc, ledger := newRewardFixture(items)

	summary, err := svc.Distribute(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if summary.RewardedCount != 2 || summary.SkippedCount != 1 {
		t.Fatalf("rewarded/skipped = %d/%d, want 2/1", summary.RewardedCount, summary.SkippedCount)
	}
	if len(summary.Exclusions) != 1 || summary.Exclusions[0].Reason != ExclusionAccountTooNew {
		t.Errorf("exclusions = %+v, want one account_too_new at rank 2", summary.Exclusions)
	}
	if summary.Exclusions[0].Rank != 2 {
		t.Errorf("excluded rank = %d, want 2", summary.Exclusions[0].Rank)
	}

	// The item behind the excluded one keeps its assigned rank and band.
	if ledger.entries[1].Rank != 3 || ledger.entries[1].Amount != 250 {
		t.Errorf("entry = %+v, want rank 3 at mid-tier payout", ledger.entries[1])
	}
}

func TestDistribute_ExclusionReasons(t *testing.T) {
	now := time.Now()

	newAccount := eligibleItem("c", "a", 90)
	newAccount.AccountCreatedAt = now.Add(-time.Hour)

	newItem := eligibleItem("c", "a", 90)
	newItem.CreatedAt = now.Add(-time.Hour)

	fewViews := eligibleItem("c", "a", 90)
	fewViews.Views = 40

	lowScore := eligibleItem("c", "a", 90)
	lowScore.Score = 5

	selfVoted := eligibleItem("c", "a", 90)
	selfVoted.TopSelfVoteRatio = 0.30

	// 25 upvotes over 40 views: 62.5% engagement, excluded even when
	// otherwise top-ranked.
	engagement := eligibleItem("c", "a", 95)
	engagement.Views = 40
	engagement.Score = 25
	engagement.Views = 400 // keep min-views satisfied; rate is what matters
	engagement.EngagementRate = 0.625

	tests := []struct {
		name string
		item model.RankedItem
		want string
	}{
		{"account too new", newAccount, ExclusionAccountTooNew},
		{"item too new", newItem, ExclusionItemTooNew},
		{"insufficient views", fewViews, ExclusionInsufficientViews},
		{"insufficient score", lowScore, ExclusionInsufficientScore},
		{"self-vote ratio", selfVoted, ExclusionSelfVoteRatio},
		{"engagement-rate outlier", engagement, ExclusionEngagementOutlier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ledger := newRewardFixture([]model.RankedItem{tt.item})
			summary, err := svc.Distribute(context.Background(), time.Now().UTC())
			if err != nil {
				t.Fatal(err)
			}
			if summary.RewardedCount != 0 || len(ledger.entries) != 0 {
				t.Fatal("excluded item must not produce a ledger entry")
			}
			if len(summary.Exclusions) != 1 || summary.Exclusions[0].Reason != tt.want {
				t.Errorf("exclusions = %+v, want %s", summary.Exclusions, tt.want)
			}
		})
	}
}

func TestDistribute_LedgerFaultAbortsRun(t *testing.T) {
	items := []model.RankedItem{
		eligibleItem("c1", "a1", 95),
		eligibleItem("c2", "a2", 90),
	}
	svc, ledger := newRewardFixture(items)
	ledger.createErr = errors.New("earnings counter diverged")

	_, err := svc.Distribute(context.Background(), time.Now().UTC())
	if err == nil {
		t.Fatal("a ledger fault must abort the run, not be retried")
	}
	if len(ledger.entries) != 0 {
		t.Errorf("entries = %d, want 0 after aborted run", len(ledger.entries))
	}
}

func TestDistribute_DateNormalized(t *testing.T) {
	svc, ledger := newRewardFixture([]model.RankedItem{eligibleItem("c1", "a1", 95)})

	noon := time.Date(2025, 6, 15, 12, 34, 56, 0, time.UTC)
	summary, err := svc.Distribute(context.Background(), noon)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Date != "2025-06-15" {
		t.Errorf("summary date = %s, want 2025-06-15", summary.Date)
	}
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !ledger.entries[0].RewardDate.Equal(want) {
		t.Errorf("ledger date = %s, want midnight UTC", ledger.entries[0].RewardDate)
	}
}
