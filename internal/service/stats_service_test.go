package service

import (
	"testing"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/model"
)

func rows(attempts ...int) []model.LeaderboardRow {
	out := make([]model.LeaderboardRow, len(attempts))
	for i, n := range attempts {
		out[i] = model.LeaderboardRow{
			UserID:   int64(i + 1),
			Attempts: n,
			Score:    float64(100 - i), // already sorted best-first
		}
	}
	return out
}

func TestRankRowsMinAttemptsFloor(t *testing.T) {
	// Users 2 and 4 sit under the floor and must not rank; the rest keep
	// contiguous ranks in order.
	input := rows(10, 3, 7, 1, 5)

	ranked := rankRows(input, 5)

	if len(ranked) != 3 {
		t.Fatalf("ranked %d entries, want 3", len(ranked))
	}
	wantUsers := []int64{1, 3, 5}
	for i, e := range ranked {
		if e.UserID != wantUsers[i] {
			t.Errorf("rank %d: user %d, want %d", i+1, e.UserID, wantUsers[i])
		}
		if e.Rank != i+1 {
			t.Errorf("user %d: rank %d, want %d", e.UserID, e.Rank, i+1)
		}
	}
}

func TestRankRowsNoFloor(t *testing.T) {
	ranked := rankRows(rows(1, 1, 1), 0)
	if len(ranked) != 3 {
		t.Fatalf("ranked %d entries, want 3", len(ranked))
	}
	for i, e := range ranked {
		if e.Rank != i+1 {
			t.Errorf("entry %d: rank %d, want %d", i, e.Rank, i+1)
		}
	}
}

func TestRankRowsEmpty(t *testing.T) {
	if got := rankRows(nil, 5); got != nil {
		t.Fatalf("rankRows(nil) = %v, want nil", got)
	}
}

func TestRankRowsTiesKeepQueryOrder(t *testing.T) {
	input := []model.LeaderboardRow{
		{UserID: 7, Attempts: 9, Score: 80},
		{UserID: 3, Attempts: 9, Score: 80},
	}
	ranked := rankRows(input, 0)
	if ranked[0].UserID != 7 || ranked[1].UserID != 3 {
		t.Fatalf("tie order changed: got %d,%d want 7,3", ranked[0].UserID, ranked[1].UserID)
	}
}

func TestRankOf(t *testing.T) {
	ranked := rankRows(rows(10, 10, 10), 0)

	me := rankOf(ranked, 2)
	if me == nil {
		t.Fatal("rankOf(2) = nil, want entry")
	}
	if me.Rank != 2 {
		t.Errorf("rank = %d, want 2", me.Rank)
	}

	if got := rankOf(ranked, 99); got != nil {
		t.Errorf("rankOf(99) = %v, want nil for unranked user", got)
	}
}

func TestRankOfUnderFloor(t *testing.T) {
	// A user filtered out by the floor has no rank at all.
	ranked := rankRows(rows(10, 2), 5)
	if got := rankOf(ranked, 2); got != nil {
		t.Errorf("rankOf = %v, want nil for user under the attempts floor", got)
	}
}

func TestSinceForTimeframe(t *testing.T) {
	if got := SinceForTimeframe(""); got != nil {
		t.Errorf("SinceForTimeframe(\"\") = %v, want nil", got)
	}
	if got := SinceForTimeframe("all"); got != nil {
		t.Errorf("SinceForTimeframe(all) = %v, want nil", got)
	}

	got := SinceForTimeframe("7d")
	if got == nil {
		t.Fatal("SinceForTimeframe(7d) = nil")
	}
	want := time.Now().Add(-7 * 24 * time.Hour)
	if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("7d window start off by %v", diff)
	}
}
