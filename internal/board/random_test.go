package board

import (
	"reflect"
	"testing"
)

// seqSource replays a fixed sequence of values.
type seqSource struct {
	vals []uint32
	i    int
}

func (s *seqSource) Uint32n(maxN uint32) uint32 {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)] % maxN
	s.i++
	return v
}

func quizBoard(randomize bool) Config {
	c := New(Settings{NumberOfTiles: 10, RandomizeTiles: randomize})
	c.Tiles[2] = Tile{ID: "q", Type: TileQuiz, Position: 2, Config: &QuizConfig{
		Question: "?",
		Options: []QuizOption{
			{ID: "a", IsCorrect: true}, {ID: "b"}, {ID: "c"}, {ID: "d"},
		},
	}}
	c.Tiles[4].UI = TileUI{Color: "#000000", Icon: "custom"}
	return c
}

func TestApplyRandomizationWithoutFlagKeepsVisuals(t *testing.T) {
	t.Parallel()

	c := quizBoard(false)
	src := &seqSource{vals: []uint32{3, 1, 4, 1, 5, 9, 2, 6}}

	for _, mode := range []RandomizeMode{RandomizeLoad, RandomizeInitial, RandomizeReset} {
		got := ApplyRandomization(src, c, nil, mode)
		for i := range c.Tiles {
			if got.Tiles[i].UI != c.Tiles[i].UI {
				t.Errorf("mode %d: tile %d visual changed from %+v to %+v", mode, i, c.Tiles[i].UI, got.Tiles[i].UI)
			}
		}
		if !reflect.DeepEqual(got, c) {
			t.Errorf("mode %d: board changed without randomizeTiles", mode)
		}
	}
}

func TestApplyRandomizationAssignsDefaultVisualsOnly(t *testing.T) {
	t.Parallel()

	c := quizBoard(true)
	got := ApplyRandomization(&seqSource{vals: []uint32{7, 2, 5}}, c, nil, RandomizeLoad)

	for i, tile := range got.Tiles {
		switch {
		case tile.Type == TileStart || tile.Type == TileFinish:
			if tile.UI != (TileUI{}) {
				t.Errorf("tile %d (%s) must not be randomized", i, tile.Type)
			}
		case i == 4:
			if tile.UI != c.Tiles[4].UI {
				t.Errorf("custom visual overwritten: %+v", tile.UI)
			}
		default:
			if !contains(tileColors, tile.UI.Color) {
				t.Errorf("tile %d: color %q not from palette", i, tile.UI.Color)
			}
			if tile.Type == TileEmpty && tile.UI.Icon != "" {
				t.Errorf("empty tile %d must not get an icon", i)
			}
			if tile.Type == TileQuiz && !contains(tileIcons[TileQuiz], tile.UI.Icon) {
				t.Errorf("quiz tile icon %q not from pool", tile.UI.Icon)
			}
		}
	}

	again := ApplyRandomization(&seqSource{vals: []uint32{1}}, got, nil, RandomizeLoad)
	for i := range got.Tiles {
		if again.Tiles[i].UI != got.Tiles[i].UI {
			t.Errorf("tile %d: randomized visual must be stable across loads", i)
		}
	}
}

func TestApplyRandomizationInitialShufflesQuizzes(t *testing.T) {
	t.Parallel()

	c := quizBoard(true)
	got := ApplyRandomization(&seqSource{vals: []uint32{0, 0, 0, 0, 0, 0}}, c, nil, RandomizeInitial)

	q, _ := got.Tiles[2].Quiz()
	orig, _ := c.Tiles[2].Quiz()
	if reflect.DeepEqual(q.Options, orig.Options) {
		t.Errorf("expected a different option order, got %+v", q.Options)
	}
	if ids := correctIDs(q.Options); len(ids) != 1 || ids[0] != "a" {
		t.Errorf("shuffle must keep the same single correct option, got %v", ids)
	}
	if len(q.Options) != len(orig.Options) {
		t.Errorf("shuffle lost options: %+v", q.Options)
	}
}

func TestApplyRandomizationRestoresShownOrder(t *testing.T) {
	t.Parallel()

	c := quizBoard(true)
	prev := c.Tiles[2].Clone()
	pq, _ := prev.Quiz()
	pq.Options = []QuizOption{pq.Options[3], pq.Options[1], pq.Options[0], pq.Options[2]}

	for _, mode := range []RandomizeMode{RandomizeLoad, RandomizeInitial} {
		got := ApplyRandomization(&seqSource{vals: []uint32{2, 1}}, c, &prev, mode)
		q, _ := got.Tiles[2].Quiz()

		var ids []string
		for _, o := range q.Options {
			ids = append(ids, o.ID)
		}
		if want := []string{"d", "b", "a", "c"}; !reflect.DeepEqual(ids, want) {
			t.Errorf("mode %d: expected order %v, got %v", mode, want, ids)
		}
	}

	prev.ID = "elsewhere"
	got := ApplyRandomization(&seqSource{}, c, &prev, RandomizeLoad)
	q, _ := got.Tiles[2].Quiz()
	if q.Options[0].ID != "a" {
		t.Errorf("order must be kept for a different tile, got %+v", q.Options)
	}
}

func TestApplyRandomizationVisualsIsOneShot(t *testing.T) {
	t.Parallel()

	c := quizBoard(false)
	first := ApplyRandomization(&seqSource{vals: []uint32{1, 2}}, c, nil, RandomizeVisuals)
	if first.Settings.RandomizeTiles {
		t.Error("re-randomizing visuals must not persist the flag")
	}
	if first.Tiles[1].UI.Color == "" {
		t.Error("expected visuals to be assigned")
	}

	second := ApplyRandomization(&seqSource{vals: []uint32{5, 0}}, first, nil, RandomizeVisuals)
	if second.Tiles[1].UI == first.Tiles[1].UI {
		t.Error("expected generated visuals to be rolled again")
	}
	if second.Tiles[4].UI != c.Tiles[4].UI {
		t.Error("custom visual must survive re-randomization")
	}

	q, _ := second.Tiles[2].Quiz()
	if q.Options[0].ID != "a" {
		t.Error("visual re-randomization must not touch quiz options")
	}
}

func TestRestoreOrderRejectsDifferentSets(t *testing.T) {
	t.Parallel()

	cur := []QuizOption{{ID: "a"}, {ID: "b"}}
	if _, ok := RestoreOrder(cur, []QuizOption{{ID: "a"}}); ok {
		t.Error("expected mismatch on length")
	}
	if _, ok := RestoreOrder(cur, []QuizOption{{ID: "a"}, {ID: "z"}}); ok {
		t.Error("expected mismatch on ids")
	}
	if _, ok := RestoreOrder(cur, []QuizOption{{ID: "a"}, {ID: "a"}}); ok {
		t.Error("expected mismatch on duplicate ids")
	}
}
