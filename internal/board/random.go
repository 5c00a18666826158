package board

import (
	"github.com/enescakir/emoji"
	"github.com/valyala/fastrand"
)

const DefaultTileColor = "#ffffff"

var tileColors = []string{
	"#f94144", "#f3722c", "#f8961e", "#f9c74f", "#90be6d",
	"#43aa8b", "#4d908e", "#577590", "#277da1", "#9b5de5",
}

var tileIcons = map[TileType][]string{
	TileQuiz:   {emoji.Joystick.String(), emoji.GameDie.String(), emoji.Robot.String()},
	TileInfo:   {emoji.Bookmark.String(), emoji.Loudspeaker.String(), emoji.Stopwatch.String()},
	TileReward: {emoji.Star.String(), emoji.Unicorn.String(), emoji.ChristmasTree.String()},
}

// Source yields uniform integers in [0, maxN). *fastrand.RNG satisfies it.
type Source interface {
	Uint32n(maxN uint32) uint32
}

type fastSource struct{}

func (fastSource) Uint32n(maxN uint32) uint32 {
	return fastrand.Uint32n(maxN)
}

// DefaultSource is safe for concurrent use.
var DefaultSource Source = fastSource{}

func Intn(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	return int(src.Uint32n(uint32(n)))
}

// ShuffleOptions returns a shuffled copy of options with the single-correct
// invariant re-established.
func ShuffleOptions(src Source, options []QuizOption) []QuizOption {
	out := make([]QuizOption, len(options))
	copy(out, options)
	for i := len(out) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	EnforceSingleCorrect(out)
	return out
}

// RestoreOrder reorders current to follow the option ids of shown. It
// returns false when the two sets of options differ.
func RestoreOrder(current, shown []QuizOption) ([]QuizOption, bool) {
	if len(current) != len(shown) {
		return nil, false
	}

	byID := make(map[string]QuizOption, len(current))
	for _, o := range current {
		byID[o.ID] = o
	}

	out := make([]QuizOption, 0, len(shown))
	for _, o := range shown {
		opt, ok := byID[o.ID]
		if !ok {
			return nil, false
		}
		out = append(out, opt)
		delete(byID, o.ID)
	}

	return out, true
}

type RandomizeMode uint8

const (
	// RandomizeLoad is a plain board load or resume.
	RandomizeLoad RandomizeMode = iota + 1
	// RandomizeInitial is the first derivation of a playable board.
	RandomizeInitial
	// RandomizeReset re-derives the board for a new game.
	RandomizeReset
	// RandomizeVisuals re-rolls tile visuals once, whatever the settings say.
	RandomizeVisuals
)

// ApplyRandomization derives a playable board from c. prev is the tile that
// was awaiting interaction before a reload; when it is a quiz on the same
// tile, the option order shown then is restored.
func ApplyRandomization(src Source, c Config, prev *Tile, mode RandomizeMode) Config {
	c = c.Clone()

	visuals := c.Settings.RandomizeTiles || mode == RandomizeVisuals
	replaceable := isDefaultVisual
	if mode == RandomizeReset || mode == RandomizeVisuals {
		replaceable = isGeneratedVisual
	}

	preShuffle := c.Settings.RandomizeTiles && (mode == RandomizeInitial || mode == RandomizeReset)

	for i := range c.Tiles {
		t := &c.Tiles[i]

		if visuals && t.Type != TileStart && t.Type != TileFinish && replaceable(t.UI) {
			t.UI = randomVisual(src, t.Type)
		}

		if mode == RandomizeVisuals {
			continue
		}

		q, ok := t.Quiz()
		if !ok {
			continue
		}

		if prev != nil && prev.ID == t.ID {
			if shown, ok := prev.Quiz(); ok {
				if ordered, ok := RestoreOrder(q.Options, shown.Options); ok {
					q.Options = ordered
					continue
				}
			}
		}

		if preShuffle {
			q.Options = ShuffleOptions(src, q.Options)
		}
	}

	return c
}

func randomVisual(src Source, typ TileType) TileUI {
	ui := TileUI{Color: tileColors[Intn(src, len(tileColors))]}
	if icons, ok := tileIcons[typ]; ok {
		ui.Icon = icons[Intn(src, len(icons))]
	}
	return ui
}

func isDefaultVisual(ui TileUI) bool {
	return ui.Color == "" || ui.Color == DefaultTileColor
}

// isGeneratedVisual also accepts visuals that a previous randomization
// assigned, so that they can be rolled again.
func isGeneratedVisual(ui TileUI) bool {
	if isDefaultVisual(ui) {
		return true
	}
	if !contains(tileColors, ui.Color) {
		return false
	}
	if ui.Icon == "" {
		return true
	}
	for _, icons := range tileIcons {
		if contains(icons, ui.Icon) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
