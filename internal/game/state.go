package game

import (
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
)

type Status string

const (
	StatusSetup              Status = "setup"
	StatusPlaying            Status = "playing"
	StatusAnimatingPawn      Status = "animating_pawn"
	StatusInteractionPending Status = "interaction_pending"
	StatusFinished           Status = "finished"
)

// Settled reports whether the state may be persisted.
func (s Status) Settled() bool {
	return s == StatusPlaying || s == StatusInteractionPending || s == StatusFinished
}

type Player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	Position       int    `json:"position"`
	VisualPosition int    `json:"visualPosition"`
	Score          int    `json:"score"`
	CurrentStreak  int    `json:"currentStreak"`
	HasFinished    bool   `json:"hasFinished"`
	// FinishOrder is the arrival rank at the finish tile, 1 for the first
	// player; zero until the player finishes.
	FinishOrder int `json:"finishOrder,omitempty"`
}

// PawnAnimation is an in-flight multi-step move. Records are never mutated
// after commit: every tick replaces the record, and the timer belongs to
// the record it was scheduled for.
type PawnAnimation struct {
	PlayerID         string
	Path             []int
	CurrentStepIndex int

	timer Timer
}

func (a *PawnAnimation) stop() {
	if a != nil && a.timer != nil {
		a.timer.Stop()
	}
}

type State struct {
	Board                    board.Config
	Players                  []Player
	CurrentPlayerIndex       int
	DiceRoll                 int
	Status                   Status
	ActiveTileForInteraction *board.Tile
	// InteractionResolved is set once the active tile was answered or
	// acknowledged, so that points are awarded once per landing.
	InteractionResolved  bool
	Winner               *Player
	Logs                 []LogEntry
	PlayersFinishedCount int
	// Started is set by the first roll and locks the settings until a reset.
	Started       bool
	PawnAnimation *PawnAnimation
	IsLoading     bool
	Error         string
}

func NewState() State {
	return State{Status: StatusSetup, IsLoading: true}
}

func (s State) clone() State {
	players := make([]Player, len(s.Players))
	copy(players, s.Players)
	s.Players = players
	if s.Winner != nil {
		w := *s.Winner
		s.Winner = &w
	}
	return s
}

func (s State) CurrentPlayer() (Player, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

func (s State) playerIndex(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) allFinished() bool {
	if len(s.Players) == 0 {
		return false
	}
	for _, p := range s.Players {
		if !p.HasFinished {
			return false
		}
	}
	return true
}

// nextPlayerIndex walks at most one lap from the current player and returns
// the first player that has not finished, or the current index if all have.
func (s State) nextPlayerIndex() int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		idx := (s.CurrentPlayerIndex + i) % n
		if !s.Players[idx].HasFinished {
			return idx
		}
	}
	return s.CurrentPlayerIndex
}

type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogError   LogType = "error"
	LogWarning LogType = "warning"
	LogTurn    LogType = "turn"
	LogMove    LogType = "move"
)

type LogEntry struct {
	ID            string
	MessageKey    string
	MessageParams map[string]interface{}
	Timestamp     time.Time
	Type          LogType
}
