package model

import "testing"

func dirPtr(d Direction) *Direction { return &d }

func TestScoreDelta(t *testing.T) {
	tests := []struct {
		name       string
		prior      *Direction
		next       Direction
		wantDelta  int64
		wantChange VoteChange
	}{
		{"new upvote", nil, DirectionUp, 1, VoteNew},
		{"new downvote", nil, DirectionDown, -1, VoteNew},
		{"up to down", dirPtr(DirectionUp), DirectionDown, -2, VoteChanged},
		{"down to up", dirPtr(DirectionDown), DirectionUp, 2, VoteChanged},
		{"replay up", dirPtr(DirectionUp), DirectionUp, 0, VoteNoop},
		{"replay down", dirPtr(DirectionDown), DirectionDown, 0, VoteNoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, change := ScoreDelta(tt.prior, tt.next)
			if delta != tt.wantDelta || change != tt.wantChange {
				t.Errorf("ScoreDelta = (%d, %s), want (%d, %s)", delta, change, tt.wantDelta, tt.wantChange)
			}
		})
	}
}

func TestWithdrawDelta(t *testing.T) {
	if d, c := WithdrawDelta(DirectionUp); d != -1 || c != VoteWithdrawn {
		t.Errorf("WithdrawDelta(up) = (%d, %s)", d, c)
	}
	if d, c := WithdrawDelta(DirectionDown); d != 1 || c != VoteWithdrawn {
		t.Errorf("WithdrawDelta(down) = (%d, %s)", d, c)
	}
}

// Applying any valid sequence of actions yields a score equal to the sum of
// the documented deltas, and replays never double-count.
func TestScoreDelta_SequenceReplay(t *testing.T) {
	type action struct {
		dir      Direction
		withdraw bool
	}
	seq := []action{
		{dir: DirectionUp},              // +1 → 1
		{dir: DirectionUp},              // replay → 1
		{dir: DirectionDown},            // change -2 → -1
		{withdraw: true},                // +1 → 0
		{dir: DirectionDown},            // new -1 → -1
		{dir: DirectionUp},              // change +2 → 1
		{dir: DirectionUp},              // replay → 1
	}

	var score int64
	var prior *Direction
	for i, a := range seq {
		if a.withdraw {
			if prior == nil {
				t.Fatalf("step %d: withdraw without prior vote", i)
			}
			delta, _ := WithdrawDelta(*prior)
			score += delta
			prior = nil
			continue
		}
		delta, _ := ScoreDelta(prior, a.dir)
		score += delta
		d := a.dir
		prior = &d
	}

	if score != 1 {
		t.Errorf("final score = %d, want 1", score)
	}
}

func TestDirection(t *testing.T) {
	if !DirectionUp.Valid() || !DirectionDown.Valid() {
		t.Error("up/down should be valid")
	}
	if Direction("sideways").Valid() {
		t.Error("unknown direction should be invalid")
	}
	if DirectionUp.Delta() != 1 || DirectionDown.Delta() != -1 {
		t.Error("unexpected direction deltas")
	}
}
