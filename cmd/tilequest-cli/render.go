package main

import (
	"fmt"
	"strings"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/resource"
	"github.com/Shiro291/studio-sub000/internal/strpool"
)

var tileMarks = map[board.TileType]string{
	board.TileStart:  "S",
	board.TileFinish: "F",
	board.TileQuiz:   "?",
	board.TileInfo:   "i",
	board.TileReward: "$",
	board.TileEmpty:  ".",
}

func renderBoard(st game.State) string {
	b := strpool.Get()
	defer strpool.Put(b)

	fmt.Fprintf(b, "%s\n", st.Board.Settings.Name)
	for _, t := range st.Board.Tiles {
		fmt.Fprintf(b, "%3d %s", t.Position, tileMarks[t.Type])
		for i, p := range st.Players {
			if p.VisualPosition == t.Position {
				fmt.Fprintf(b, " [%d]", i+1)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderScores(st game.State) string {
	b := strpool.Get()
	defer strpool.Put(b)

	for i, p := range st.Players {
		marker := " "
		if i == st.CurrentPlayerIndex && st.Status != game.StatusFinished {
			marker = ">"
		}
		fmt.Fprintf(b, "%s %-10s %4d points  tile %d", marker, p.Name, p.Score, p.Position)
		if p.HasFinished {
			fmt.Fprintf(b, "  finished #%d", p.FinishOrder)
		}
		b.WriteByte('\n')
	}
	if st.Winner != nil {
		fmt.Fprintf(b, "winner: %s\n", st.Winner.Name)
	}
	return b.String()
}

func renderLog(st game.State, n int) string {
	b := strpool.Get()
	defer strpool.Put(b)

	if n > len(st.Logs) {
		n = len(st.Logs)
	}
	for i := n - 1; i >= 0; i-- {
		fmt.Fprintf(b, "%s %s\n", st.Logs[i].Timestamp.Format("15:04:05"), resource.FormatLog(st.Logs[i]))
	}
	return b.String()
}

func prompt(st game.State) string {
	tile := st.ActiveTileForInteraction
	if tile == nil {
		return ""
	}

	b := strpool.Get()
	defer strpool.Put(b)

	switch tile.Type {
	case board.TileQuiz:
		q, _ := tile.Quiz()
		fmt.Fprintf(b, "%s (difficulty %d, %d points)\n", q.Question, q.Difficulty, q.Points)
		for i, o := range q.Options {
			fmt.Fprintf(b, "  %d) %s\n", i+1, o.Text)
		}
		b.WriteString("answer <n>, or next to skip\n")
	case board.TileInfo:
		info, _ := tile.Info()
		fmt.Fprintf(b, "%s\nok, then next\n", info.Message)
	case board.TileReward:
		reward, _ := tile.Reward()
		fmt.Fprintf(b, "%s\nok to collect, then next\n", reward.Message)
	default:
		b.WriteString("next\n")
	}
	return strings.TrimLeft(b.String(), "\n")
}
