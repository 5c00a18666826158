package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
)

const sourceText = "Photosynthesis turns light, water and carbon dioxide into sugar."

func newTestServer(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(Config{Endpoint: srv.URL + "/", Timeout: 5 * time.Second})
}

func TestGenerateQuizNormalizesResponse(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-quiz" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.NumberOfOptions != 3 || req.SourceText != sourceText {
			t.Errorf("request = %+v", req)
		}

		fmt.Fprint(w, `{
			"question": "What does photosynthesis produce?",
			"options": [
				{"text": "Sugar", "isCorrect": true},
				{"id": "o2", "text": "Salt", "isCorrect": true},
				{"id": "o3", "text": "Iron"}
			],
			"suggestedDifficulty": "3"
		}`)
	})

	q, err := c.GenerateQuiz(context.Background(), GenerateRequest{SourceText: sourceText, NumberOfOptions: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if q.Difficulty != 3 || q.Points != 30 {
		t.Errorf("difficulty = %d points = %d", q.Difficulty, q.Points)
	}
	if q.Options[0].ID == "" {
		t.Errorf("missing option id not filled")
	}
	if !q.Options[0].IsCorrect || q.Options[1].IsCorrect {
		t.Errorf("options = %+v, want only the first correct", q.Options)
	}
}

func TestGenerateQuizValidatesRequest(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("service called for an invalid request")
	})

	for _, req := range []GenerateRequest{
		{SourceText: "too short", NumberOfOptions: 3},
		{SourceText: sourceText, NumberOfOptions: 1},
		{SourceText: sourceText, NumberOfOptions: 6},
	} {
		if _, err := c.GenerateQuiz(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%+v: err = %v, want %v", req, err, ErrInvalidRequest)
		}
	}
}

func TestGenerateQuizEmptyResult(t *testing.T) {
	t.Parallel()

	for _, body := range []string{``, `{}`, `{"question": "?", "options": []}`} {
		body := body
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})

		if _, err := c.GenerateQuiz(context.Background(), GenerateRequest{SourceText: sourceText, NumberOfOptions: 2}); !errors.Is(err, ErrEmptyGenerationResult) {
			t.Errorf("body %q: err = %v, want %v", body, err, ErrEmptyGenerationResult)
		}
	}
}

func TestGenerateQuizServiceError(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.GenerateQuiz(context.Background(), GenerateRequest{SourceText: sourceText, NumberOfOptions: 2})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("err = %v, want status 429", err)
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.TargetLanguageCode != "pt" || req.TargetLanguage != "Portuguese" {
			t.Errorf("request = %+v", req)
		}
		fmt.Fprintf(w, `{"translatedText": "[%s]"}`, req.Text)
	})

	got, err := c.Translate(context.Background(), "sugar", "pt-BR")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "[sugar]" {
		t.Errorf("got %q", got)
	}

	if _, err := c.Translate(context.Background(), "sugar", "sw"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want %v", err, ErrUnsupportedLanguage)
	}
}

func TestTranslateEmptyResult(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"translatedText": "  "}`)
	})

	if _, err := c.Translate(context.Background(), "sugar", "fr"); !errors.Is(err, ErrEmptyGenerationResult) {
		t.Errorf("err = %v, want %v", err, ErrEmptyGenerationResult)
	}
}

func TestResolveLanguage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want string
		ok   bool
	}{
		{"en", "English", true},
		{"id", "Indonesian", true},
		{"pt-BR", "Portuguese", true},
		{"sw", "", false},
		{"", "", false},
		{"not a code", "", false},
	}

	for _, tc := range cases {
		_, name, err := ResolveLanguage(tc.code)
		if tc.ok != (err == nil) {
			t.Errorf("%q: err = %v", tc.code, err)
			continue
		}
		if !tc.ok && !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("%q: err = %v, want %v", tc.code, err, ErrUnsupportedLanguage)
		}
		if name != tc.want {
			t.Errorf("%q: name = %q, want %q", tc.code, name, tc.want)
		}
	}
}

type upperTranslator struct {
	mtx   sync.Mutex
	calls int
	fail  string
}

func (u *upperTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	u.mtx.Lock()
	u.calls++
	u.mtx.Unlock()

	if text == u.fail {
		return "", ErrEmptyGenerationResult
	}
	return strings.ToUpper(text), nil
}

func TestTranslateQuiz(t *testing.T) {
	t.Parallel()

	q := &board.QuizConfig{
		Question: "which?",
		Options: []board.QuizOption{
			{ID: "a", Text: "one", IsCorrect: true},
			{ID: "b", Text: "two"},
			{ID: "c", Image: "img.png"},
		},
		Difficulty: 2,
		Points:     20,
	}

	tr := &upperTranslator{}
	got, err := TranslateQuiz(context.Background(), tr, q, "de")
	if err != nil {
		t.Fatalf("translate quiz: %v", err)
	}

	if got.Question != "WHICH?" || got.Options[0].Text != "ONE" || got.Options[1].Text != "TWO" {
		t.Errorf("got %+v", got)
	}
	if !got.Options[0].IsCorrect || got.Options[2].Image != "img.png" || got.Points != 20 {
		t.Errorf("non-text fields changed: %+v", got)
	}
	if q.Question != "which?" || q.Options[0].Text != "one" {
		t.Errorf("input modified: %+v", q)
	}
	if tr.calls != 3 {
		t.Errorf("calls = %d, want 3", tr.calls)
	}

	if _, err := TranslateQuiz(context.Background(), &upperTranslator{fail: "two"}, q, "de"); !errors.Is(err, ErrEmptyGenerationResult) {
		t.Errorf("err = %v, want %v", err, ErrEmptyGenerationResult)
	}
	if _, err := TranslateQuiz(context.Background(), tr, q, "sw"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want %v", err, ErrUnsupportedLanguage)
	}
}
