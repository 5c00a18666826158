package board

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	MinTiles     = 10
	MaxTiles     = 100
	MinPlayers   = 1
	MaxPlayers   = 10
	MinDiceSides = 1
	MaxDiceSides = 100
)

const (
	defaultBoardName       = "Untitled board"
	defaultNumberOfTiles   = 20
	defaultNumberOfPlayers = 2
	defaultDiceSides       = 6
	defaultPunishmentValue = 1
)

var ErrInvalidFormat = fmt.Errorf("invalid board format")

type PunishmentType string

const (
	PunishmentNone               PunishmentType = "none"
	PunishmentRevertMove         PunishmentType = "revertMove"
	PunishmentMoveBackFixed      PunishmentType = "moveBackFixed"
	PunishmentMoveBackLevelBased PunishmentType = "moveBackLevelBased"
)

func (p PunishmentType) valid() bool {
	switch p {
	case PunishmentNone, PunishmentRevertMove, PunishmentMoveBackFixed, PunishmentMoveBackLevelBased:
		return true
	}
	return false
}

type WinningCondition string

const (
	WinFirstToFinish      WinningCondition = "firstToFinish"
	WinHighestScore       WinningCondition = "highestScore"
	WinCombinedOrderScore WinningCondition = "combinedOrderScore"
)

func (w WinningCondition) valid() bool {
	switch w {
	case WinFirstToFinish, WinHighestScore, WinCombinedOrderScore:
		return true
	}
	return false
}

type Settings struct {
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	NumberOfTiles    int              `json:"numberOfTiles"`
	NumberOfPlayers  int              `json:"numberOfPlayers"`
	DiceSides        int              `json:"diceSides"`
	PunishmentType   PunishmentType   `json:"punishmentType"`
	PunishmentValue  int              `json:"punishmentValue"`
	WinningCondition WinningCondition `json:"winningCondition"`
	RandomizeTiles   bool             `json:"randomizeTiles"`
	EpilepsySafeMode bool             `json:"epilepsySafeMode"`
	BackgroundImage  string           `json:"boardBackgroundImage,omitempty"`
}

// DefaultSettings returns the settings applied to every field a board
// document leaves out.
func DefaultSettings() Settings {
	return Settings{
		Name:             defaultBoardName,
		NumberOfTiles:    defaultNumberOfTiles,
		NumberOfPlayers:  defaultNumberOfPlayers,
		DiceSides:        defaultDiceSides,
		PunishmentType:   PunishmentNone,
		PunishmentValue:  defaultPunishmentValue,
		WinningCondition: WinFirstToFinish,
	}
}

func ClampTiles(n int) int {
	return clamp(n, MinTiles, MaxTiles)
}

func ClampPlayers(n int) int {
	return clamp(n, MinPlayers, MaxPlayers)
}

// NormalizeSettings clamps numeric ranges and replaces unknown enum values
// with their defaults.
func NormalizeSettings(s Settings) Settings {
	s.NumberOfTiles = ClampTiles(s.NumberOfTiles)
	s.NumberOfPlayers = ClampPlayers(s.NumberOfPlayers)
	s.DiceSides = clamp(s.DiceSides, MinDiceSides, MaxDiceSides)
	if !s.PunishmentType.valid() {
		s.PunishmentType = PunishmentNone
	}
	if s.PunishmentValue < 0 {
		s.PunishmentValue = 0
	}
	if !s.WinningCondition.valid() {
		s.WinningCondition = WinFirstToFinish
	}
	return s
}

type Config struct {
	ID       string   `json:"id"`
	Settings Settings `json:"settings"`
	Tiles    []Tile   `json:"tiles"`
}

// New lays out a fresh board: a start tile, empty tiles and a finish tile.
func New(settings Settings) Config {
	settings = NormalizeSettings(settings)
	tiles := make([]Tile, settings.NumberOfTiles)
	for i := range tiles {
		tiles[i] = Tile{ID: uuid.New().String(), Type: TileEmpty, Position: i}
	}

	return Config{
		ID:       uuid.New().String(),
		Settings: settings,
		Tiles:    NormalizeTiles(tiles),
	}
}

func (c Config) Clone() Config {
	c.Tiles = cloneTiles(c.Tiles)
	return c
}

func (c Config) LastIndex() int {
	if len(c.Tiles) == 0 {
		return 0
	}
	return len(c.Tiles) - 1
}

func (c Config) TileAt(position int) (Tile, bool) {
	if position < 0 || position >= len(c.Tiles) {
		return Tile{}, false
	}
	return c.Tiles[position], true
}

func (c Config) TileByID(id string) (int, bool) {
	for i := range c.Tiles {
		if c.Tiles[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Normalize re-establishes every board invariant. It is idempotent.
func Normalize(c Config) Config {
	c = c.Clone()
	c.Settings = NormalizeSettings(c.Settings)
	c.Tiles = NormalizeTiles(c.Tiles)
	return c
}

// Resize grows or shrinks the board to n tiles keeping the finish tile last.
func Resize(c Config, n int) Config {
	n = ClampTiles(n)
	c = c.Clone()
	c.Settings.NumberOfTiles = n
	if len(c.Tiles) == n {
		return c
	}

	var finish *Tile
	body := c.Tiles
	if len(body) > 1 && body[len(body)-1].Type == TileFinish {
		last := body[len(body)-1]
		finish = &last
		body = body[:len(body)-1]
	}

	want := n
	if finish != nil {
		want--
	}

	tiles := make([]Tile, 0, n)
	for i := 0; i < want; i++ {
		if i < len(body) {
			tiles = append(tiles, body[i])
			continue
		}
		tiles = append(tiles, Tile{ID: uuid.New().String(), Type: TileEmpty, Position: i})
	}
	if finish != nil {
		tiles = append(tiles, *finish)
	}

	for i := range tiles {
		tiles[i].Position = i
	}

	c.Tiles = NormalizeTiles(tiles)
	return c
}

func fallbackTileID(position int) string {
	return "tile-" + strconv.Itoa(position)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
