// Package chi exposes the search pipeline over HTTP: /search, /health,
// and /metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lavka-tech/prefiks/internal/domain"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
	"github.com/lavka-tech/prefiks/internal/domain/search/request"
	"github.com/lavka-tech/prefiks/internal/logger"
	"github.com/lavka-tech/prefiks/internal/metrics"
	healthuc "github.com/lavka-tech/prefiks/internal/usecase/health"
	searchuc "github.com/lavka-tech/prefiks/internal/usecase/search"
)

// Server wires the search and health services into an HTTP router.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Routes builds the router with middleware and all endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.logContext)

	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearchGet)
	r.Post("/search", s.handleSearchPost)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// logContext stores a request-scoped logger in the context so deeper layers
// can log with the request id attached.
func (s *Server) logContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger
		if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
			l = l.With(zap.String("request_id", reqID))
		}
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), l)))
	})
}

type searchBody struct {
	Query         string `json:"query"`
	TopK          int    `json:"top_k"`
	UseEmbeddings *bool  `json:"use_embeddings"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	Results []resultDTO `json:"results"`
	Count   int         `json:"count"`
}

type resultDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	topK := 0
	if v := q.Get("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "top_k must be an integer")
			return
		}
		topK = n
	}

	var useEmbeddings *bool
	if v := q.Get("use_embeddings"); v != "" {
		b := strings.EqualFold(v, "true")
		useEmbeddings = &b
	}

	s.serveSearch(w, r, q.Get("q"), topK, useEmbeddings)
}

func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.serveSearch(w, r, body.Query, body.TopK, body.UseEmbeddings)
}

func (s *Server) serveSearch(w http.ResponseWriter, r *http.Request, rawQuery string, topK int, useEmbeddings *bool) {
	rawQuery = fixEncoding(rawQuery)

	req, err := request.New(rawQuery, topK, useEmbeddings)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		logger.FromContext(r.Context()).Error("search failed",
			zap.String("query", req.Query()),
			zap.Error(err),
		)
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   req.Query(),
		Results: resultsToDTO(results),
		Count:   len(results),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEngineUnavailable):
		writeError(w, http.StatusServiceUnavailable, "search engine unavailable")
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, "embedding provider error")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func resultsToDTO(results []candidate.Fused) []resultDTO {
	out := make([]resultDTO, len(results))
	for i, res := range results {
		out[i] = resultDTO{
			ID:       res.ID,
			Name:     res.Name,
			Brand:    res.Brand,
			Category: res.Category,
			Score:    res.Score,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fixEncoding repairs mojibake from UTF-8 query bytes mis-decoded as
// Latin-1 by an intermediary. A genuinely multilingual query contains
// runes above U+00FF and is returned untouched.
func fixEncoding(s string) string {
	suspicious := false
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		if r >= 0xC0 {
			suspicious = true
		}
	}
	if !suspicious {
		return s
	}

	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return s
}
