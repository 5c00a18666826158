// Package tilebot runs games over Telegram, one game per chat. Every chat
// is a shared device: whoever holds the phone plays the current turn.
package tilebot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
	chatboardDb "github.com/Shiro291/studio-sub000/internal/database/chatboard/database"
	chatboardModel "github.com/Shiro291/studio-sub000/internal/database/chatboard/model"
	resultDb "github.com/Shiro291/studio-sub000/internal/database/result/database"
	resultModel "github.com/Shiro291/studio-sub000/internal/database/result/model"
	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/logging"
	"github.com/Shiro291/studio-sub000/internal/resource"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const cleanInterval = time.Minute

var ErrCommandNotFound = fmt.Errorf("command not found")

// botAPI is the part of *tgbotapi.BotAPI the manager uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	AnswerCallbackQuery(config tgbotapi.CallbackConfig) (tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
}

type chatBoards interface {
	Fetch(chatID int64) (chatboardModel.ChatBoard, error)
	Store(cb chatboardModel.ChatBoard) error
}

type results interface {
	Add(r resultModel.Result) error
	FetchSummary(chatID int64) (resultModel.Summary, error)
}

func NewManager(tg botAPI, config *Config, boards chatBoards, states game.Store, results results) *Manager {
	return &Manager{
		tg:       tg,
		config:   config,
		boards:   boards,
		states:   states,
		results:  results,
		sessions: map[int64]*chatSession{},
		now:      time.Now,
	}
}

type Manager struct {
	mtx sync.RWMutex

	tg      botAPI
	config  *Config
	boards  chatBoards
	states  game.Store
	results results
	// key: chat id
	sessions map[int64]*chatSession

	ctxSess    context.Context
	cancelSess func()

	// overridden in tests
	scheduler game.Scheduler
	source    board.Source
	now       func() time.Time
}

type chatSession struct {
	*game.Session
	// guarded by Manager.mtx
	lastSeen time.Time
}

func (m *Manager) Run(ctx context.Context) error {
	m.ctxSess, m.cancelSess = context.WithCancel(logging.WithLogger(context.Background(), logging.FromContext(ctx)))

	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = int(m.config.TgBotPollTimeout.Seconds())
	updates, err := m.tg.GetUpdatesChan(upd)
	if err != nil {
		return fmt.Errorf("tg get updates chan: %w", err)
	}

	wg := &sync.WaitGroup{}
	poolWorkerNum := runtime.NumCPU()
	wg.Add(poolWorkerNum + 1)

	go m.cleaning(ctx, wg)
	for i := 0; i < poolWorkerNum; i++ {
		go m.pool(ctx, wg, updates)
	}

	wg.Wait()
	m.shutdown()
	return nil
}

func (m *Manager) shutdown() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
	if m.cancelSess != nil {
		m.cancelSess()
	}
}

func (m *Manager) pool(ctx context.Context, wg *sync.WaitGroup, updCh tgbotapi.UpdatesChannel) {
	defer wg.Done()
	logger := logging.FromContext(ctx).Named("tilebot.pool")
	for {
		select {
		case update, ok := <-updCh:
			if !ok {
				return
			}
			if err := m.handleUpdate(ctx, update); err != nil {
				logger.Errorf("handle update %d: %v", update.UpdateID, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// cleaning drops idle chats from memory. Their state is already saved.
func (m *Manager) cleaning(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(cleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.clean()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) clean() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	var n int
	deadline := m.now().Add(-m.config.SessionTimeout)
	for id, s := range m.sessions {
		if s.lastSeen.Before(deadline) {
			s.Close()
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) handleUpdate(ctx context.Context, upd tgbotapi.Update) error {
	switch {
	case upd.CallbackQuery != nil:
		if err := m.handleCallbackQuery(ctx, upd.CallbackQuery); err != nil {
			return fmt.Errorf("handle callback query: %w", err)
		}
	case upd.Message != nil:
		if err := m.handleCommand(ctx, upd.Message); err != nil {
			return fmt.Errorf("handle command: %w", err)
		}
	default:
		return ErrCommandNotFound
	}
	return nil
}

// session returns the chat's game, restoring the last loaded board on the
// first message after a restart. ok is false when the chat never loaded one.
func (m *Manager) session(ctx context.Context, chatID int64) (*chatSession, bool, error) {
	m.mtx.Lock()
	if s, ok := m.sessions[chatID]; ok {
		s.lastSeen = m.now()
		m.mtx.Unlock()
		return s, true, nil
	}
	m.mtx.Unlock()

	cb, err := m.boards.Fetch(chatID)
	if err != nil {
		if errors.Is(err, chatboardDb.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fetch chat board: %w", err)
	}

	s := m.newSession(chatID)
	if err := s.LoadBoard(cb.Board); err != nil {
		s.Close()
		return nil, false, fmt.Errorf("restore board %s: %w", cb.Board.ID, err)
	}
	logging.FromContext(ctx).Named("tilebot.session").Infof("restored chat %d on board %s", chatID, cb.Board.ID)

	return m.register(chatID, s), true, nil
}

// register keeps the first session stored for a chat and closes s if
// another worker got there first.
func (m *Manager) register(chatID int64, s *chatSession) *chatSession {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if existing, ok := m.sessions[chatID]; ok {
		s.Close()
		existing.lastSeen = m.now()
		return existing
	}
	s.lastSeen = m.now()
	m.sessions[chatID] = s
	return s
}

func (m *Manager) newSession(chatID int64) *chatSession {
	ctx := m.ctxSess
	if ctx == nil {
		ctx = context.Background()
	}

	prefix := m.config.StoragePrefix + "-" + strconv.FormatInt(chatID, 10)
	return &chatSession{Session: game.NewSession(ctx, game.Config{
		StepDelay:   m.config.StepDelay,
		Source:      m.source,
		Scheduler:   m.scheduler,
		Persistence: game.NewPersistence(m.states, prefix),
		OnChange: func(prev, next game.State) {
			m.onChange(ctx, chatID, prev, next)
		},
	})}
}

// onChange narrates a committed transition to the chat.
func (m *Manager) onChange(ctx context.Context, chatID int64, prev, next game.State) {
	logger := logging.FromContext(ctx).Named("tilebot.onChange")

	var out []tgbotapi.Chattable
	if text := renderEvents(game.NewEntries(prev, next)); text != "" {
		out = append(out, tgbotapi.NewMessage(chatID, text))
	}

	switch {
	case next.Status == game.StatusInteractionPending && prev.Status != game.StatusInteractionPending:
		out = append(out, renderPrompt(chatID, next))
	case next.Status == game.StatusFinished && prev.Status != game.StatusFinished && next.Winner != nil:
		if r, ok := resultDb.FromState(chatID, next); ok {
			if err := m.results.Add(r); err != nil {
				logger.Errorf("add result for %d: %v", chatID, err)
			}
		}
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(resource.TextWinnerMsg, next.Winner.Name)+"\n\n"+renderScores(next))
		msg.ParseMode = tgbotapi.ModeMarkdown
		out = append(out, msg)
	case next.Status == game.StatusPlaying && (prev.Status != game.StatusPlaying || prev.CurrentPlayerIndex != next.CurrentPlayerIndex):
		if p, ok := next.CurrentPlayer(); ok {
			msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(resource.TextTurnMsg, p.Name))
			msg.ParseMode = tgbotapi.ModeMarkdown
			out = append(out, msg)
		}
	}

	for _, c := range out {
		if _, err := m.tg.Send(c); err != nil {
			logger.Errorf("send msg to %d: %v", chatID, err)
		}
	}
}

func (m *Manager) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %w", err)
	}
	return nil
}

// rejection explains why an action was refused, or returns err when it was
// not a rule violation.
func rejection(st game.State, err error) (string, error) {
	if !errors.Is(err, game.ErrActionNotAllowed) && !errors.Is(err, game.ErrNotPlayersTurn) {
		return "", err
	}

	switch st.Status {
	case game.StatusAnimatingPawn:
		return resource.TextAnimatingMsg, nil
	case game.StatusInteractionPending:
		tile := st.ActiveTileForInteraction
		if tile != nil && tile.Type == board.TileQuiz && !st.InteractionResolved {
			return resource.TextAnswerFirstMsg, nil
		}
	}
	return resource.TextNotAllowedMsg, nil
}
