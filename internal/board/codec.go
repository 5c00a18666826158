package board

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Shiro291/studio-sub000/internal/bytespool"
)

// draftSettings mirrors Settings with every field optional so that missing
// values can be told apart from zero values. PunishmentMode is the legacy
// boolean that predates PunishmentType.
type draftSettings struct {
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	NumberOfTiles    *int              `json:"numberOfTiles"`
	NumberOfPlayers  *int              `json:"numberOfPlayers"`
	DiceSides        *int              `json:"diceSides"`
	PunishmentMode   *bool             `json:"punishmentMode"`
	PunishmentType   *PunishmentType   `json:"punishmentType"`
	PunishmentValue  *int              `json:"punishmentValue"`
	WinningCondition *WinningCondition `json:"winningCondition"`
	RandomizeTiles   *bool             `json:"randomizeTiles"`
	EpilepsySafeMode *bool             `json:"epilepsySafeMode"`
	BackgroundImage  *string           `json:"boardBackgroundImage"`
}

type draftConfig struct {
	ID       *string        `json:"id"`
	Settings *draftSettings `json:"settings"`
	Tiles    []Tile         `json:"tiles"`
}

func (d draftSettings) settings() Settings {
	s := DefaultSettings()
	if d.Name != nil {
		s.Name = *d.Name
	}
	if d.Description != nil {
		s.Description = *d.Description
	}
	if d.NumberOfTiles != nil {
		s.NumberOfTiles = *d.NumberOfTiles
	}
	if d.NumberOfPlayers != nil {
		s.NumberOfPlayers = *d.NumberOfPlayers
	}
	if d.DiceSides != nil {
		s.DiceSides = *d.DiceSides
	}
	if d.PunishmentValue != nil {
		s.PunishmentValue = *d.PunishmentValue
	}
	if d.WinningCondition != nil {
		s.WinningCondition = *d.WinningCondition
	}
	if d.RandomizeTiles != nil {
		s.RandomizeTiles = *d.RandomizeTiles
	}
	if d.EpilepsySafeMode != nil {
		s.EpilepsySafeMode = *d.EpilepsySafeMode
	}
	if d.BackgroundImage != nil {
		s.BackgroundImage = *d.BackgroundImage
	}

	switch {
	case d.PunishmentType != nil:
		s.PunishmentType = *d.PunishmentType
	case d.PunishmentMode != nil && *d.PunishmentMode:
		s.PunishmentType = PunishmentRevertMove
	default:
		s.PunishmentType = PunishmentNone
	}

	return s
}

// Decode parses a URL-safe share token into a normalized board.
func Decode(token string) (Config, error) {
	token = strings.TrimRight(strings.TrimSpace(token), "=")
	if token == "" {
		return Config{}, fmt.Errorf("empty token: %w", ErrInvalidFormat)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(token)
		if err != nil {
			return Config{}, fmt.Errorf("decode token: %v: %w", err, ErrInvalidFormat)
		}
	}

	return DecodeJSON(raw)
}

// Encode serializes a board into a URL-safe share token.
func Encode(c Config) (string, error) {
	buf := bytespool.Get()
	defer bytespool.Put(buf)

	if err := json.NewEncoder(buf).Encode(c); err != nil {
		return "", fmt.Errorf("marshal board: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(trimNewline(buf.Bytes())), nil
}

// DecodeFile reads a raw JSON board document, as written by EncodeFile.
func DecodeFile(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read board file: %w", err)
	}

	return DecodeJSON(raw)
}

func EncodeFile(w io.Writer, c Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}

	return nil
}

// DecodeJSON is the normalization path shared by every transport.
func DecodeJSON(raw []byte) (Config, error) {
	var draft draftConfig
	if err := json.Unmarshal(raw, &draft); err != nil {
		return Config{}, fmt.Errorf("unmarshal board: %v: %w", err, ErrInvalidFormat)
	}

	switch {
	case draft.ID == nil || *draft.ID == "":
		return Config{}, fmt.Errorf("missing id: %w", ErrInvalidFormat)
	case draft.Settings == nil:
		return Config{}, fmt.Errorf("missing settings: %w", ErrInvalidFormat)
	case len(draft.Tiles) == 0:
		return Config{}, fmt.Errorf("missing tiles: %w", ErrInvalidFormat)
	}

	return Normalize(Config{
		ID:       *draft.ID,
		Settings: draft.Settings.settings(),
		Tiles:    draft.Tiles,
	}), nil
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}
