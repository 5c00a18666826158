package board

import (
	"encoding/json"
	"errors"
	"testing"
)

func correctIDs(options []QuizOption) []string {
	var ids []string
	for _, o := range options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func TestEnforceSingleCorrect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		options []QuizOption
		want    string
	}{
		{"none marked", []QuizOption{{ID: "a"}, {ID: "b"}}, "a"},
		{"two marked", []QuizOption{{ID: "a", IsCorrect: true}, {ID: "b", IsCorrect: true}}, "a"},
		{"later marked", []QuizOption{{ID: "a"}, {ID: "b", IsCorrect: true}, {ID: "c", IsCorrect: true}}, "b"},
		{"one marked", []QuizOption{{ID: "a"}, {ID: "b", IsCorrect: true}}, "b"},
	}

	for _, tc := range cases {
		EnforceSingleCorrect(tc.options)
		ids := correctIDs(tc.options)
		if len(ids) != 1 || ids[0] != tc.want {
			t.Errorf("%s: expected only %s correct, got %v", tc.name, tc.want, ids)
		}
	}

	EnforceSingleCorrect(nil)
}

func TestNormalizeTilesLayout(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 3, 12} {
		tiles := make([]Tile, n)
		for i := range tiles {
			tiles[i] = Tile{Type: TileFinish, Position: n - i}
		}

		out := NormalizeTiles(tiles)
		if out[0].Type != TileStart {
			t.Errorf("n=%d: first tile must be start, got %s", n, out[0].Type)
		}
		if n > 1 && out[n-1].Type != TileFinish {
			t.Errorf("n=%d: last tile must be finish, got %s", n, out[n-1].Type)
		}
		for i := 1; i < n-1; i++ {
			if out[i].Type != TileEmpty {
				t.Errorf("n=%d: inner finish tile %d must be demoted, got %s", n, i, out[i].Type)
			}
		}
		for i, tile := range out {
			if tile.Position != i {
				t.Errorf("n=%d: tile %d has position %d", n, i, tile.Position)
			}
			if tile.ID == "" {
				t.Errorf("n=%d: tile %d has no id", n, i)
			}
		}
	}
}

func TestNewTileValidatesConfig(t *testing.T) {
	t.Parallel()

	quiz := &QuizConfig{Options: []QuizOption{{ID: "a"}}}

	if _, err := NewTile("q", TileQuiz, 1, quiz); err != nil {
		t.Fatalf("valid quiz tile: %v", err)
	}

	bad := []struct {
		name   string
		typ    TileType
		config TileConfig
	}{
		{"quiz without config", TileQuiz, nil},
		{"empty with config", TileEmpty, &InfoConfig{}},
		{"info with quiz config", TileInfo, quiz},
		{"quiz without options", TileQuiz, &QuizConfig{}},
		{"unknown type", TileType("wormhole"), nil},
	}

	for _, tc := range bad {
		if _, err := NewTile("x", tc.typ, 1, tc.config); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("%s: expected ErrInvalidFormat, got %v", tc.name, err)
		}
	}
}

func TestTileJSONTaggedConfig(t *testing.T) {
	t.Parallel()

	raw := `[{"id":"r","type":"reward","position":3,"config":{"message":"gold"}},
		{"id":"i","type":"info","position":2,"config":{"message":"hello","image":"img.png"}},
		{"id":"s","type":"start","position":0,"config":{"message":"ignored"}}]`

	var tiles []Tile
	if err := json.Unmarshal([]byte(raw), &tiles); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	reward, ok := tiles[0].Reward()
	if !ok || reward.Message != "gold" || reward.PointsOrZero() != 0 {
		t.Errorf("unexpected reward config %#v", tiles[0].Config)
	}

	info, ok := tiles[1].Info()
	if !ok || info.Image != "img.png" {
		t.Errorf("unexpected info config %#v", tiles[1].Config)
	}

	if tiles[2].Config != nil {
		t.Errorf("start tile must not carry config, got %#v", tiles[2].Config)
	}

	out, err := json.Marshal(tiles[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Tile
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal back: %v", err)
	}
	if back.ID != "i" || back.Type != TileInfo {
		t.Errorf("unexpected tile %#v", back)
	}
}

func TestResize(t *testing.T) {
	t.Parallel()

	c := New(Settings{NumberOfTiles: 10})
	finishID := c.Tiles[len(c.Tiles)-1].ID
	c.Tiles[3] = Tile{ID: "quiz", Type: TileQuiz, Position: 3, Config: &QuizConfig{Options: []QuizOption{{ID: "a"}}}}

	grown := Resize(c, 14)
	if len(grown.Tiles) != 14 || grown.Settings.NumberOfTiles != 14 {
		t.Fatalf("expected 14 tiles, got %d", len(grown.Tiles))
	}
	if grown.Tiles[13].ID != finishID || grown.Tiles[13].Type != TileFinish {
		t.Errorf("finish tile must stay last, got %#v", grown.Tiles[13])
	}
	if grown.Tiles[3].ID != "quiz" {
		t.Errorf("existing tiles must be kept, got %#v", grown.Tiles[3])
	}

	shrunk := Resize(grown, 500)
	if len(shrunk.Tiles) != MaxTiles {
		t.Errorf("expected clamp to %d, got %d", MaxTiles, len(shrunk.Tiles))
	}

	shrunk = Resize(grown, 10)
	if len(shrunk.Tiles) != 10 || shrunk.Tiles[9].ID != finishID {
		t.Errorf("expected 10 tiles ending with the finish tile, got %d", len(shrunk.Tiles))
	}
	if len(grown.Tiles) != 14 {
		t.Error("resize must not mutate its input")
	}
}
