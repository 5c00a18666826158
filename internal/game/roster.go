package game

import (
	"strconv"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/google/uuid"
)

var playerColors = []string{
	"#e63946", "#1d3557", "#2a9d8f", "#e9c46a", "#8338ec",
	"#fb8500", "#06d6a0", "#ef476f",
}

// GeneratePlayers builds a fresh roster of n players, n clamped to
// [board.MinPlayers, board.MaxPlayers]. Nothing carries over from a
// previous roster.
func GeneratePlayers(n int) []Player {
	n = board.ClampPlayers(n)
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{
			ID:    uuid.New().String(),
			Name:  "Player " + strconv.Itoa(i+1),
			Color: playerColors[i%len(playerColors)],
		}
	}

	return players
}
