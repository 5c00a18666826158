package quizgen

import (
	"context"
	"fmt"

	"github.com/Shiro291/studio-sub000/internal/board"
	"golang.org/x/sync/errgroup"
)

// TranslateQuiz translates the question and every option concurrently and
// returns a translated copy. Ids, images and correctness are kept. Any
// failed call fails the whole translation.
func TranslateQuiz(ctx context.Context, t Translator, q *board.QuizConfig, languageCode string) (*board.QuizConfig, error) {
	if _, _, err := ResolveLanguage(languageCode); err != nil {
		return nil, err
	}

	out := *q
	out.Options = make([]board.QuizOption, len(q.Options))
	copy(out.Options, q.Options)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := t.Translate(ctx, q.Question, languageCode)
		if err != nil {
			return fmt.Errorf("question: %w", err)
		}
		out.Question = text
		return nil
	})

	for i := range out.Options {
		i := i
		if out.Options[i].Text == "" {
			continue
		}
		g.Go(func() error {
			text, err := t.Translate(ctx, q.Options[i].Text, languageCode)
			if err != nil {
				return fmt.Errorf("option %s: %w", q.Options[i].ID, err)
			}
			out.Options[i].Text = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("translate quiz: %w", err)
	}

	return &out, nil
}
