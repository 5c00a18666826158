package tilebot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shiro291/studio-sub000/internal/resource"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (m *Manager) handleCallbackQuery(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q.Message == nil {
		return ErrCommandNotFound
	}
	chatID := q.Message.Chat.ID

	s, ok, err := m.session(ctx, chatID)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if !ok {
		return m.answer(q, resource.TextNoBoardMsg)
	}

	switch {
	case strings.HasPrefix(q.Data, resource.DataAnswerPrefix):
		err = s.AnswerQuiz(strings.TrimPrefix(q.Data, resource.DataAnswerPrefix))
	case q.Data == resource.DataAck:
		err = s.Acknowledge()
	case q.Data == resource.DataNext:
		err = s.ProceedToNextTurn()
	default:
		return m.answer(q, resource.TextUnknownCommandMsg)
	}

	if err != nil {
		text, err := rejection(s.State(), err)
		if err != nil {
			return err
		}
		return m.answer(q, text)
	}

	return m.answer(q, resource.TextInteractionDoneMsg)
}

func (m *Manager) answer(q *tgbotapi.CallbackQuery, text string) error {
	if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallback(q.ID, text)); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}
	return nil
}
