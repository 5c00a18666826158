package tilebot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
	chatboardModel "github.com/Shiro291/studio-sub000/internal/database/chatboard/model"
	resultDb "github.com/Shiro291/studio-sub000/internal/database/result/database"
	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/resource"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// parseCommand splits "/cmd@bot arg1 arg2" into "/cmd" and its arguments.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}

	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}

func (m *Manager) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	cmd, args := parseCommand(msg.Text)

	switch cmd {
	case "":
		return nil
	case resource.CmdStart, resource.CmdHelp:
		var name string
		if msg.From != nil {
			name = msg.From.FirstName
		}
		return m.send(chatID, fmt.Sprintf(resource.TextGreetingMsg, name))
	case resource.CmdLoad:
		return m.handleLoadCmd(ctx, msg, args)
	case resource.CmdStats:
		return m.handleStatsCmd(chatID)
	}

	s, ok, err := m.session(ctx, chatID)
	if err != nil {
		if err := m.send(chatID, resource.TextWarnMsg); err != nil {
			return err
		}
		return fmt.Errorf("session: %w", err)
	}
	if !ok {
		return m.send(chatID, resource.TextNoBoardMsg)
	}

	switch cmd {
	case resource.CmdRoll:
		return m.act(chatID, s, func() error { return s.RollDice("") })
	case resource.CmdNext:
		return m.act(chatID, s, s.ProceedToNextTurn)
	case resource.CmdReset:
		return m.act(chatID, s, s.Reset)
	case resource.CmdVisuals:
		return m.act(chatID, s, s.RerandomizeVisuals)
	case resource.CmdPlayers:
		return m.handlePlayersCmd(chatID, s, args)
	case resource.CmdBoard:
		return m.send(chatID, renderBoard(s.State()))
	case resource.CmdScores:
		return m.send(chatID, renderScores(s.State()))
	case resource.CmdLog:
		return m.send(chatID, renderLog(s.State(), logLines))
	default:
		return m.send(chatID, resource.TextUnknownCommandMsg)
	}
}

// act runs a game action and tells the chat when it was refused. Accepted
// actions are narrated by onChange.
func (m *Manager) act(chatID int64, s *chatSession, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	text, err := rejection(s.State(), err)
	if err != nil {
		return err
	}
	return m.send(chatID, text)
}

func (m *Manager) handleLoadCmd(ctx context.Context, msg *tgbotapi.Message, args []string) error {
	chatID := msg.Chat.ID
	if len(args) == 0 {
		return m.send(chatID, resource.TextNoBoardMsg)
	}

	cfg, err := board.Decode(args[0])
	if err != nil {
		return m.send(chatID, fmt.Sprintf(resource.TextBadTokenMsg, err))
	}

	var loadedBy string
	if msg.From != nil {
		loadedBy = msg.From.UserName
	}
	if err := m.boards.Store(chatboardModel.ChatBoard{
		ChatID:   chatID,
		Board:    cfg,
		LoadedBy: loadedBy,
		LoadedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("store chat board: %w", err)
	}

	m.mtx.RLock()
	s, ok := m.sessions[chatID]
	m.mtx.RUnlock()
	if !ok {
		s = m.register(chatID, m.newSession(chatID))
	}

	if err := m.send(chatID, fmt.Sprintf(resource.TextBoardLoadedMsg, cfg.Settings.Name, len(cfg.Tiles), cfg.Settings.NumberOfPlayers)); err != nil {
		return err
	}

	if err := s.LoadBoard(cfg); err != nil {
		return fmt.Errorf("load board %s: %w", cfg.ID, err)
	}
	return nil
}

func (m *Manager) handlePlayersCmd(chatID int64, s *chatSession, args []string) error {
	if len(args) != 1 {
		return m.send(chatID, resource.TextPlayersUsageMsg)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < board.MinPlayers || n > board.MaxPlayers {
		return m.send(chatID, resource.TextPlayersUsageMsg)
	}

	st := s.State()
	settings := st.Board.Settings
	settings.NumberOfPlayers = n
	if err := s.UpdateSettings(settings); err != nil {
		text, err := rejection(st, err)
		if err != nil {
			return err
		}
		if st.Status == game.StatusPlaying {
			text = resource.TextPlayersLockedMsg
		}
		return m.send(chatID, text)
	}

	cb, err := m.boards.Fetch(chatID)
	if err != nil {
		return fmt.Errorf("fetch chat board: %w", err)
	}
	cb.Board = s.State().Board
	if err := m.boards.Store(cb); err != nil {
		return fmt.Errorf("store chat board: %w", err)
	}

	return nil
}

func (m *Manager) handleStatsCmd(chatID int64) error {
	summary, err := m.results.FetchSummary(chatID)
	if err != nil {
		if errors.Is(err, resultDb.ErrNotFound) {
			return m.send(chatID, resource.TextNoStatsMsg)
		}
		return fmt.Errorf("fetch summary: %w", err)
	}

	return m.send(chatID, renderStats(summary))
}
