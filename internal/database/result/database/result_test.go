package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shiro291/studio-sub000/internal/cache"
	"github.com/Shiro291/studio-sub000/internal/database"
	"github.com/Shiro291/studio-sub000/internal/database/result/model"
)

func TestAddFetchSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sdb, err := database.NewFromEnv(ctx, &database.Config{FilePath: filepath.Join(t.TempDir(), "result.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sdb.Close(ctx)

	lru, err := cache.NewLRU(8)
	if err != nil {
		t.Fatalf("new lru: %v", err)
	}
	db := New(sdb, lru)

	if _, err := db.FetchByChatID(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrNotFound)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	games := []struct {
		board  string
		winner string
		score  int
		other  int
	}{
		{"Planets", "Ann", 30, 10},
		{"Fractions", "Bo", 20, 50},
		{"Planets", "Ann", 40, 0},
	}
	for i, g := range games {
		r := model.NewResult(1)
		r.BoardName = g.board
		r.Winner = g.winner
		r.WinnerScore = g.score
		r.FinishedAt = base.Add(time.Duration(i) * time.Hour)
		r.Players = []model.PlayerResult{{Name: g.winner, Score: g.score, FinishOrder: 1}, {Name: "Cy", Score: g.other, FinishOrder: 2}}

		// read between writes so the cache has to be invalidated
		if _, err := db.FetchByChatID(1); err != nil && !errors.Is(err, ErrNotFound) {
			t.Fatalf("fetch: %v", err)
		}
		if err := db.Add(r); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	s, err := db.FetchSummary(1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Games != 3 || s.Wins["Ann"] != 2 || s.Wins["Bo"] != 1 {
		t.Errorf("games = %d wins = %v", s.Games, s.Wins)
	}
	if s.BestScore != 50 || s.BestPlayer != "Cy" {
		t.Errorf("best = %s %d, want Cy 50", s.BestPlayer, s.BestScore)
	}
	if s.AvgWinnerScore != 30 || s.LastBoard != "Planets" {
		t.Errorf("avg = %d last = %q", s.AvgWinnerScore, s.LastBoard)
	}

	if _, err := db.FetchSummary(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("other chat err = %v, want %v", err, ErrNotFound)
	}
}
