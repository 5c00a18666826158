package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/Shiro291/studio-sub000/internal/logging"
	"github.com/Shiro291/studio-sub000/internal/quizgen"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

// API serves board sharing and quiz authoring over HTTP. Quiz may be nil,
// in which case the quiz routes answer 503.
type API struct {
	Quiz quizgen.Client
}

func NewRouter(ctx context.Context, api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(ctx))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Method(http.MethodGet, "/health", HandleHealth(ctx))

	r.Route("/api", func(r chi.Router) {
		r.Route("/boards", func(r chi.Router) {
			r.Post("/decode", api.decodeBoard)
			r.Post("/encode", api.encodeBoard)
			r.Post("/import", api.importBoard)
		})
		r.Route("/quiz", func(r chi.Router) {
			r.Get("/languages", api.languages)
			r.Post("/generate", api.generateQuiz)
			r.Post("/translate", api.translateQuiz)
		})
	})

	return r
}

func requestLogger(ctx context.Context) func(http.Handler) http.Handler {
	base := logging.FromContext(ctx).Named("server.api")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			logger := base.With("requestId", middleware.GetReqID(r.Context()))

			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), logger)))

			logger.Debugw("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
			)
		})
	}
}

type tokenBody struct {
	Token string `json:"token"`
}

type translateBody struct {
	Quiz         *board.QuizConfig `json:"quiz"`
	LanguageCode string            `json:"languageCode"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (api *API) decodeBoard(w http.ResponseWriter, r *http.Request) {
	var body tokenBody
	if !readJSON(w, r, &body) {
		return
	}

	cfg, err := board.Decode(body.Token)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cfg)
}

func (api *API) encodeBoard(w http.ResponseWriter, r *http.Request) {
	cfg, err := board.DecodeFile(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	token, err := board.Encode(cfg)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tokenBody{Token: token})
}

func (api *API) importBoard(w http.ResponseWriter, r *http.Request) {
	cfg, err := board.DecodeFile(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cfg)
}

func (api *API) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, quizgen.SupportedLanguages())
}

func (api *API) generateQuiz(w http.ResponseWriter, r *http.Request) {
	if api.Quiz == nil {
		writeError(w, r, http.StatusServiceUnavailable, errors.New("quiz service not configured"))
		return
	}

	var req quizgen.GenerateRequest
	if !readJSON(w, r, &req) {
		return
	}

	q, err := api.Quiz.GenerateQuiz(r.Context(), req)
	if err != nil {
		writeError(w, r, quizStatus(err), err)
		return
	}

	writeJSON(w, r, http.StatusOK, q)
}

func (api *API) translateQuiz(w http.ResponseWriter, r *http.Request) {
	if api.Quiz == nil {
		writeError(w, r, http.StatusServiceUnavailable, errors.New("quiz service not configured"))
		return
	}

	var body translateBody
	if !readJSON(w, r, &body) {
		return
	}
	if body.Quiz == nil {
		writeError(w, r, http.StatusBadRequest, errors.New("missing quiz"))
		return
	}

	q, err := quizgen.TranslateQuiz(r.Context(), api.Quiz, body.Quiz, body.LanguageCode)
	if err != nil {
		writeError(w, r, quizStatus(err), err)
		return
	}

	writeJSON(w, r, http.StatusOK, q)
}

func quizStatus(err error) int {
	switch {
	case errors.Is(err, quizgen.ErrInvalidRequest), errors.Is(err, quizgen.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, quizgen.ErrEmptyGenerationResult):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Warnf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, r, status, errorBody{Error: err.Error()})
}
