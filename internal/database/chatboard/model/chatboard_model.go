package model

import (
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
)

// ChatBoard is the board a chat last loaded, kept so that the chat's game
// can be resumed after a restart.
type ChatBoard struct {
	ChatID   int64        `json:"chatId"`
	Board    board.Config `json:"board"`
	LoadedBy string       `json:"loadedBy,omitempty"`
	LoadedAt time.Time    `json:"loadedAt"`
}
