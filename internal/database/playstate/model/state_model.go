package model

import (
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
)

// Player is the stored projection of a player. The visual position is not
// stored; it is recomputed from Position on restore.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Position      int    `json:"position"`
	Score         int    `json:"score"`
	CurrentStreak int    `json:"currentStreak"`
	HasFinished   bool   `json:"hasFinished"`
	FinishOrder   int    `json:"finishOrder,omitempty"`
}

type LogEntry struct {
	ID            string                 `json:"id"`
	MessageKey    string                 `json:"messageKey"`
	MessageParams map[string]interface{} `json:"messageParams,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	Type          string                 `json:"type"`
}

// State is the play state saved between reloads. Pawn animations are never
// stored.
type State struct {
	BoardID                  string      `json:"boardId"`
	Players                  []Player    `json:"players"`
	CurrentPlayerIndex       int         `json:"currentPlayerIndex"`
	DiceRoll                 int         `json:"diceRoll,omitempty"`
	GameStatus               string      `json:"gameStatus"`
	ActiveTileForInteraction *board.Tile `json:"activeTileForInteraction,omitempty"`
	InteractionResolved      bool        `json:"interactionResolved,omitempty"`
	Winner                   *Player     `json:"winner,omitempty"`
	Logs                     []LogEntry  `json:"logs"`
	PlayersFinishedCount     int         `json:"playersFinishedCount"`
	Started                  bool        `json:"started,omitempty"`
	SavedAt                  time.Time   `json:"savedAt"`
}
