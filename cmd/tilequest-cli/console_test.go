package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
	resultModel "github.com/Shiro291/studio-sub000/internal/database/result/model"
	"github.com/Shiro291/studio-sub000/internal/game"
)

type syncBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) take() string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	s := b.buf.String()
	b.buf.Reset()
	return s
}

type stepTimer struct{ stopped bool }

func (t *stepTimer) Stop() bool {
	active := !t.stopped
	t.stopped = true
	return active
}

type stepScheduler struct {
	pending []func()
}

func (s *stepScheduler) AfterFunc(_ time.Duration, f func()) game.Timer {
	t := &stepTimer{}
	s.pending = append(s.pending, func() {
		if !t.stopped {
			t.stopped = true
			f()
		}
	})
	return t
}

func (s *stepScheduler) drain() {
	for len(s.pending) > 0 {
		f := s.pending[0]
		s.pending = s.pending[1:]
		f()
	}
}

// twoSource makes every roll a 3.
type twoSource struct{}

func (twoSource) Uint32n(maxN uint32) uint32 {
	if maxN <= 2 {
		return 0
	}
	return 2
}

func newTestConsole(t *testing.T) (*console, *syncBuffer, *stepScheduler) {
	t.Helper()

	cfg := board.New(board.Settings{Name: "Rivers", NumberOfTiles: 10, NumberOfPlayers: 1, DiceSides: 6})
	quiz, err := board.NewTile("q3", board.TileQuiz, 3, &board.QuizConfig{
		Question:   "Longest river?",
		Options:    []board.QuizOption{{ID: "nile", Text: "Nile", IsCorrect: true}, {ID: "thames", Text: "Thames"}},
		Difficulty: 1,
		Points:     10,
	})
	if err != nil {
		t.Fatalf("new tile: %v", err)
	}
	cfg.Tiles[3] = quiz

	out := &syncBuffer{}
	sched := &stepScheduler{}
	c := newConsole(context.Background(), out, game.Config{Scheduler: sched, Source: twoSource{}})
	t.Cleanup(c.session.Close)

	if err := c.session.LoadBoard(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c, out, sched
}

func TestConsoleQuizTurn(t *testing.T) {
	t.Parallel()

	c, out, sched := newTestConsole(t)
	if got := out.take(); !strings.Contains(got, "Game started on Rivers") {
		t.Fatalf("load printed %q", got)
	}

	c.exec("roll")
	sched.drain()
	got := out.take()
	if !strings.Contains(got, "Player 1 rolled 3") || !strings.Contains(got, "Longest river?") {
		t.Fatalf("roll printed %q", got)
	}

	c.exec("answer 7")
	if got := out.take(); !strings.Contains(got, "no such option") {
		t.Errorf("bad answer printed %q", got)
	}

	q, _ := c.session.State().ActiveTileForInteraction.Quiz()
	n := 1
	if q.Options[1].ID == "nile" {
		n = 2
	}
	c.exec("answer " + string(rune('0'+n)))
	if got := out.take(); !strings.Contains(got, "answered correctly, +10") || !strings.Contains(got, "\a") {
		t.Errorf("answer printed %q", got)
	}

	c.exec("next")
	c.exec("scores")
	if got := out.take(); !strings.Contains(got, "10 points  tile 3") {
		t.Errorf("scores printed %q", got)
	}
}

func TestConsoleRejections(t *testing.T) {
	t.Parallel()

	c, out, _ := newTestConsole(t)
	out.take()

	for _, line := range []string{"next", "ok", "players x", "fly"} {
		if quit := c.exec(line); quit {
			t.Fatalf("%q quit", line)
		}
	}

	got := out.take()
	for _, want := range []string{"Not now", "bad arguments", `unknown command "fly"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}

	if !c.exec("quit") {
		t.Errorf("quit did not quit")
	}
}

func TestConsoleRun(t *testing.T) {
	t.Parallel()

	c, out, _ := newTestConsole(t)
	if err := c.run(context.Background(), strings.NewReader("board\nquit\nroll\n")); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.take()
	if !strings.Contains(got, "  3 ?") {
		t.Errorf("board output %q", got)
	}
	if strings.Contains(got, "rolled") {
		t.Errorf("commands after quit ran: %q", got)
	}
}

type memResults struct {
	results []resultModel.Result
}

func (m *memResults) Add(r resultModel.Result) error {
	m.results = append(m.results, r)
	return nil
}

func (m *memResults) FetchSummary(int64) (resultModel.Summary, error) {
	return resultModel.Summary{Games: len(m.results), LastBoard: "Rivers"}, nil
}

func TestConsoleRecordsFinishedGame(t *testing.T) {
	t.Parallel()

	c, out, sched := newTestConsole(t)
	store := &memResults{}
	c.results = store

	for i := 0; i < 3; i++ {
		c.exec("roll")
		sched.drain()
		c.exec("next")
	}

	if got := c.session.State().Status; got != game.StatusFinished {
		t.Fatalf("status = %s, want %s", got, game.StatusFinished)
	}
	if len(store.results) != 1 || store.results[0].Winner != "Player 1" || store.results[0].BoardName != "Rivers" {
		t.Fatalf("results = %+v", store.results)
	}

	out.take()
	c.exec("stats")
	if got := out.take(); !strings.Contains(got, "games 1, last board Rivers") {
		t.Errorf("stats printed %q", got)
	}
}
