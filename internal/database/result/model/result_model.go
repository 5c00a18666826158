package model

import (
	"time"

	"github.com/google/uuid"
)

func NewResult(chatID int64) Result {
	return Result{ID: uuid.New(), ChatID: chatID, FinishedAt: time.Now()}
}

// Result is one finished game.
type Result struct {
	ID     uuid.UUID `json:"-"`
	ChatID int64     `json:"chatID"`

	BoardID          string         `json:"boardID"`
	BoardName        string         `json:"boardName"`
	WinningCondition string         `json:"winningCondition"`
	Winner           string         `json:"winner"`
	WinnerScore      int            `json:"winnerScore"`
	Players          []PlayerResult `json:"players"`
	FinishedAt       time.Time      `json:"finishedAt"`
}

type PlayerResult struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	FinishOrder int    `json:"finishOrder"`
}

type Summary struct {
	Games          int
	Wins           map[string]int
	BestScore      int
	BestPlayer     string
	AvgWinnerScore int
	LastBoard      string
}
