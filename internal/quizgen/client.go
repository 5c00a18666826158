// Package quizgen talks to the external quiz generation and translation
// service used while designing boards. It is never called during a game.
package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/Shiro291/studio-sub000/internal/logging"
	"github.com/google/uuid"
)

const (
	MinSourceTextLen = 20
	MinOptions       = 2
	MaxOptions       = 5

	// pointsPerLevel scores a generated quiz by its suggested difficulty.
	pointsPerLevel = 10
)

var (
	ErrInvalidRequest        = fmt.Errorf("invalid generation request")
	ErrUnsupportedLanguage   = fmt.Errorf("unsupported language")
	ErrEmptyGenerationResult = fmt.Errorf("empty generation result")
)

type Config struct {
	Endpoint string        `envconfig:"TILEQUEST_QUIZ_ENDPOINT" default:"http://localhost:3400"`
	Timeout  time.Duration `envconfig:"TILEQUEST_QUIZ_TIMEOUT" default:"30s"`
}

type GenerateRequest struct {
	SourceText      string `json:"sourceText"`
	NumberOfOptions int    `json:"numberOfOptions"`
}

func (r GenerateRequest) validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.SourceText)) < MinSourceTextLen {
		return fmt.Errorf("source text shorter than %d characters: %w", MinSourceTextLen, ErrInvalidRequest)
	}
	if r.NumberOfOptions < MinOptions || r.NumberOfOptions > MaxOptions {
		return fmt.Errorf("number of options %d outside [%d, %d]: %w", r.NumberOfOptions, MinOptions, MaxOptions, ErrInvalidRequest)
	}
	return nil
}

type generateResponse struct {
	Question            string             `json:"question"`
	Options             []board.QuizOption `json:"options"`
	SuggestedDifficulty string             `json:"suggestedDifficulty"`
}

type translateRequest struct {
	Text               string `json:"text"`
	TargetLanguageCode string `json:"targetLanguageCode"`
	TargetLanguage     string `json:"targetLanguage"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Client generates quiz questions from source text.
type Client interface {
	Translator
	GenerateQuiz(ctx context.Context, req GenerateRequest) (*board.QuizConfig, error)
}

type Translator interface {
	Translate(ctx context.Context, text, languageCode string) (string, error)
}

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	endpoint string
	http     *http.Client
}

func NewHTTPClient(config Config) *HTTPClient {
	return &HTTPClient{
		endpoint: strings.TrimRight(config.Endpoint, "/"),
		http:     &http.Client{Timeout: config.Timeout},
	}
}

// GenerateQuiz asks the service for a quiz and normalizes the answer: one
// correct option, ids on every option, difficulty in [1, 3].
func (c *HTTPClient) GenerateQuiz(ctx context.Context, req GenerateRequest) (*board.QuizConfig, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var resp generateResponse
	if err := c.post(ctx, "/generate-quiz", req, &resp); err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	if strings.TrimSpace(resp.Question) == "" || len(resp.Options) == 0 {
		return nil, ErrEmptyGenerationResult
	}

	difficulty, err := strconv.Atoi(strings.TrimSpace(resp.SuggestedDifficulty))
	if err != nil {
		difficulty = 1
	}

	q := &board.QuizConfig{
		Question:   resp.Question,
		Options:    resp.Options,
		Difficulty: difficulty,
	}
	for i := range q.Options {
		if q.Options[i].ID == "" {
			q.Options[i].ID = uuid.New().String()
		}
	}
	board.NormalizeQuiz(q)
	q.Points = q.Difficulty * pointsPerLevel

	return q, nil
}

func (c *HTTPClient) Translate(ctx context.Context, text, languageCode string) (string, error) {
	tag, name, err := ResolveLanguage(languageCode)
	if err != nil {
		return "", err
	}

	var resp translateResponse
	req := translateRequest{Text: text, TargetLanguageCode: tag.String(), TargetLanguage: name}
	if err := c.post(ctx, "/translate", req, &resp); err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	if strings.TrimSpace(resp.TranslatedText) == "" {
		return "", ErrEmptyGenerationResult
	}

	return resp.TranslatedText, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out interface{}) error {
	logger := logging.FromContext(ctx).Named("quizgen.post")

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debugw("quiz service call", "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return ErrEmptyGenerationResult
		}
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
