package tilebot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Shiro291/studio-sub000/internal/board"
	resultModel "github.com/Shiro291/studio-sub000/internal/database/result/model"
	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/resource"
	"github.com/Shiro291/studio-sub000/internal/strpool"
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const logLines = 10

var tileIcons = map[board.TileType]string{
	board.TileStart:  emoji.Rocket.String(),
	board.TileFinish: emoji.ChequeredFlag.String(),
	board.TileQuiz:   emoji.Joystick.String(),
	board.TileInfo:   emoji.Loudspeaker.String(),
	board.TileReward: emoji.GemStone.String(),
	board.TileEmpty:  "▫",
}

// quiet entries are covered by the prompts sent on status changes.
func quiet(e game.LogEntry) bool {
	switch e.MessageKey {
	case game.MsgNextTurn, game.MsgGameFinished, game.MsgLandedOnTile:
		return true
	}
	return false
}

func renderEvents(entries []game.LogEntry) string {
	b := strpool.Get()
	defer strpool.Put(b)

	for _, e := range entries {
		if quiet(e) {
			continue
		}
		b.WriteString(resource.FormatLog(e))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderBoard(st game.State) string {
	b := strpool.Get()
	defer strpool.Put(b)

	fmt.Fprintf(b, resource.TextBoardHeader, st.Board.Settings.Name)
	for _, t := range st.Board.Tiles {
		icon := tileIcons[t.Type]
		if icon == "" {
			icon = tileIcons[board.TileEmpty]
		}
		b.WriteString(strconv.Itoa(t.Position))
		b.WriteByte(' ')
		b.WriteString(icon)

		var pawns []string
		for _, p := range st.Players {
			if p.VisualPosition == t.Position {
				pawns = append(pawns, p.Name)
			}
		}
		if len(pawns) > 0 {
			b.WriteString("  ")
			b.WriteString(strings.Join(pawns, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderScores(st game.State) string {
	b := strpool.Get()
	defer strpool.Put(b)

	b.WriteString(resource.TextScoresHeader)
	for i, p := range st.Players {
		if i == st.CurrentPlayerIndex && st.Status != game.StatusFinished {
			b.WriteString(emoji.GameDie.String())
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "*%s*: %d points, tile %d", p.Name, p.Score, p.Position)
		if p.HasFinished {
			fmt.Fprintf(b, " %s #%d", emoji.ChequeredFlag, p.FinishOrder)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderLog(st game.State, n int) string {
	b := strpool.Get()
	defer strpool.Put(b)

	b.WriteString(resource.TextLogHeader)
	if n > len(st.Logs) {
		n = len(st.Logs)
	}
	for i := n - 1; i >= 0; i-- {
		b.WriteString(st.Logs[i].Timestamp.Format("15:04:05"))
		b.WriteByte(' ')
		b.WriteString(resource.FormatLog(st.Logs[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderStats(s resultModel.Summary) string {
	b := strpool.Get()
	defer strpool.Put(b)

	names := make([]string, 0, len(s.Wins))
	for name := range s.Wins {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Wins[names[i]] != s.Wins[names[j]] {
			return s.Wins[names[i]] > s.Wins[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Fprintf(b, resource.TextStatsMsg, s.Games, s.LastBoard, s.AvgWinnerScore, s.BestPlayer, s.BestScore)
	for _, name := range names {
		fmt.Fprintf(b, "%s %s: %d\n", emoji.Trophy, name, s.Wins[name])
	}
	return b.String()
}

// renderPrompt builds the message shown when a pawn lands, with the buttons
// that resolve the tile.
func renderPrompt(chatID int64, st game.State) tgbotapi.MessageConfig {
	tile := st.ActiveTileForInteraction
	p, _ := st.CurrentPlayer()

	var text string
	rows := [][]tgbotapi.InlineKeyboardButton{}
	switch {
	case tile == nil:
		text = resource.TextEmptyTileMsg
	case tile.Type == board.TileQuiz:
		q, _ := tile.Quiz()
		text = fmt.Sprintf(resource.TextQuizMsg, q.Question, q.Difficulty, q.Points)
		for _, o := range q.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(o.Text, resource.DataAnswerPrefix+o.ID),
			))
		}
	case tile.Type == board.TileInfo:
		info, _ := tile.Info()
		text = fmt.Sprintf(resource.TextInfoMsg, info.Message)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(resource.TextAckButton, resource.DataAck),
		))
	case tile.Type == board.TileReward:
		reward, _ := tile.Reward()
		text = fmt.Sprintf(resource.TextRewardMsg, reward.Message)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(resource.TextAckButton, resource.DataAck),
		))
	case tile.Type == board.TileFinish:
		text = resource.TextFinishTileMsg
	default:
		text = resource.TextEmptyTileMsg
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(resource.TextNextButton, resource.DataNext),
	))

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("*%s*, tile %d\n%s", p.Name, p.Position, text))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return msg
}
