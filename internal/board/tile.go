package board

import (
	"encoding/json"
	"fmt"
	"sort"
)

type TileType string

const (
	TileEmpty  TileType = "empty"
	TileStart  TileType = "start"
	TileFinish TileType = "finish"
	TileQuiz   TileType = "quiz"
	TileInfo   TileType = "info"
	TileReward TileType = "reward"
)

func (t TileType) valid() bool {
	switch t {
	case TileEmpty, TileStart, TileFinish, TileQuiz, TileInfo, TileReward:
		return true
	}
	return false
}

// HasConfig reports whether tiles of this type carry an interaction payload.
func (t TileType) HasConfig() bool {
	return t == TileQuiz || t == TileInfo || t == TileReward
}

// TileConfig is the interaction payload of a tile. The concrete type is
// fixed by the tile type: *QuizConfig, *InfoConfig or *RewardConfig.
type TileConfig interface {
	TileType() TileType
	clone() TileConfig
}

type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Image     string `json:"image,omitempty"`
}

type QuizConfig struct {
	Question      string       `json:"question"`
	QuestionImage string       `json:"questionImage,omitempty"`
	Options       []QuizOption `json:"options"`
	Difficulty    int          `json:"difficulty"`
	Points        int          `json:"points"`
}

func (*QuizConfig) TileType() TileType { return TileQuiz }

func (q *QuizConfig) clone() TileConfig {
	c := *q
	c.Options = make([]QuizOption, len(q.Options))
	copy(c.Options, q.Options)
	return &c
}

func (q *QuizConfig) Option(id string) (QuizOption, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return QuizOption{}, false
}

type InfoConfig struct {
	Message string `json:"message"`
	Image   string `json:"image,omitempty"`
}

func (*InfoConfig) TileType() TileType { return TileInfo }

func (i *InfoConfig) clone() TileConfig {
	c := *i
	return &c
}

type RewardConfig struct {
	Message string `json:"message"`
	Points  *int   `json:"points,omitempty"`
}

func (*RewardConfig) TileType() TileType { return TileReward }

func (r *RewardConfig) clone() TileConfig {
	c := *r
	if r.Points != nil {
		p := *r.Points
		c.Points = &p
	}
	return &c
}

func (r *RewardConfig) PointsOrZero() int {
	if r.Points == nil {
		return 0
	}
	return *r.Points
}

type TileUI struct {
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type Tile struct {
	ID       string     `json:"id"`
	Type     TileType   `json:"type"`
	Position int        `json:"position"`
	Config   TileConfig `json:"-"`
	UI       TileUI     `json:"ui"`
}

// NewTile builds a tile and rejects payloads that do not belong to the type.
func NewTile(id string, typ TileType, position int, config TileConfig) (Tile, error) {
	if !typ.valid() {
		return Tile{}, fmt.Errorf("unknown tile type %q: %w", typ, ErrInvalidFormat)
	}

	switch {
	case typ.HasConfig() && config == nil:
		return Tile{}, fmt.Errorf("tile %s: %s tile requires a config: %w", id, typ, ErrInvalidFormat)
	case !typ.HasConfig() && config != nil:
		return Tile{}, fmt.Errorf("tile %s: %s tile takes no config: %w", id, typ, ErrInvalidFormat)
	case config != nil && config.TileType() != typ:
		return Tile{}, fmt.Errorf("tile %s: %s config on %s tile: %w", id, config.TileType(), typ, ErrInvalidFormat)
	}

	if q, ok := config.(*QuizConfig); ok && len(q.Options) == 0 {
		return Tile{}, fmt.Errorf("tile %s: quiz without options: %w", id, ErrInvalidFormat)
	}

	return Tile{ID: id, Type: typ, Position: position, Config: config}, nil
}

func (t Tile) Clone() Tile {
	if t.Config != nil {
		t.Config = t.Config.clone()
	}
	return t
}

func (t Tile) Quiz() (*QuizConfig, bool) {
	q, ok := t.Config.(*QuizConfig)
	return q, ok && t.Type == TileQuiz
}

func (t Tile) Info() (*InfoConfig, bool) {
	i, ok := t.Config.(*InfoConfig)
	return i, ok && t.Type == TileInfo
}

func (t Tile) Reward() (*RewardConfig, bool) {
	r, ok := t.Config.(*RewardConfig)
	return r, ok && t.Type == TileReward
}

type tileJSON struct {
	ID       string          `json:"id"`
	Type     TileType        `json:"type"`
	Position int             `json:"position"`
	Config   json.RawMessage `json:"config,omitempty"`
	UI       TileUI          `json:"ui"`
}

func (t Tile) MarshalJSON() ([]byte, error) {
	w := tileJSON{ID: t.ID, Type: t.Type, Position: t.Position, UI: t.UI}
	if t.Config != nil {
		raw, err := json.Marshal(t.Config)
		if err != nil {
			return nil, fmt.Errorf("marshal %s config: %w", t.Type, err)
		}
		w.Config = raw
	}

	return json.Marshal(w)
}

func (t *Tile) UnmarshalJSON(data []byte) error {
	var w tileJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("tile: %v: %w", err, ErrInvalidFormat)
	}

	if w.Type == "" {
		w.Type = TileEmpty
	}

	var config TileConfig
	if w.Type.HasConfig() {
		if len(w.Config) == 0 || string(w.Config) == "null" {
			return fmt.Errorf("tile %s: missing %s config: %w", w.ID, w.Type, ErrInvalidFormat)
		}

		switch w.Type {
		case TileQuiz:
			config = &QuizConfig{}
		case TileInfo:
			config = &InfoConfig{}
		case TileReward:
			config = &RewardConfig{}
		}

		if err := json.Unmarshal(w.Config, config); err != nil {
			return fmt.Errorf("tile %s: %s config: %v: %w", w.ID, w.Type, err, ErrInvalidFormat)
		}
	}

	tile, err := NewTile(w.ID, w.Type, w.Position, config)
	if err != nil {
		return err
	}
	tile.UI = w.UI
	*t = tile

	return nil
}

// NormalizeQuiz clamps difficulty and points and leaves exactly one option
// marked correct: the first correct one, or the first option when none is.
func NormalizeQuiz(q *QuizConfig) {
	if q.Difficulty < 1 {
		q.Difficulty = 1
	}
	if q.Difficulty > 3 {
		q.Difficulty = 3
	}
	if q.Points < 0 {
		q.Points = 0
	}

	EnforceSingleCorrect(q.Options)
}

// EnforceSingleCorrect keeps the first correct option and clears the rest.
// With no correct option the first one is marked.
func EnforceSingleCorrect(options []QuizOption) {
	if len(options) == 0 {
		return
	}

	found := false
	for i := range options {
		if options[i].IsCorrect && !found {
			found = true
			continue
		}
		options[i].IsCorrect = false
	}

	if !found {
		options[0].IsCorrect = true
	}
}

// NormalizeTiles orders tiles by position, renumbers them from zero and
// pins the start and finish tiles.
func NormalizeTiles(tiles []Tile) []Tile {
	out := cloneTiles(tiles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})

	last := len(out) - 1
	for i := range out {
		t := &out[i]
		t.Position = i
		if t.ID == "" {
			t.ID = fallbackTileID(i)
		}

		switch {
		case i == 0:
			t.Type = TileStart
		case i == last:
			t.Type = TileFinish
		case t.Type == TileStart || t.Type == TileFinish || !t.Type.valid():
			t.Type = TileEmpty
		}

		switch {
		case !t.Type.HasConfig():
			t.Config = nil
		case t.Config == nil || t.Config.TileType() != t.Type:
			t.Type, t.Config = TileEmpty, nil
		}

		if q, ok := t.Config.(*QuizConfig); ok {
			if len(q.Options) == 0 {
				t.Type, t.Config = TileEmpty, nil
				continue
			}
			NormalizeQuiz(q)
		}
	}

	return out
}

func cloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	out := make([]Tile, len(tiles))
	for i := range tiles {
		out[i] = tiles[i].Clone()
	}
	return out
}
