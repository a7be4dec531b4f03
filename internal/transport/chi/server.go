// Package chi is the HTTP transport: request decoding, validation, error
// mapping, and response encoding. No pipeline logic lives here.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	healthuc "github.com/moimlab/recs/internal/usecase/health"
)

// Recommender is the pipeline entrypoint the transport calls.
type Recommender interface {
	Recommend(ctx context.Context, userID int64, prompt string, topN int) (domain.RecommendationResult, error)
}

// errorCode is the machine-readable error discriminator in error responses.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeModelNotReady      errorCode = "model_not_ready"
	codeCatalogUnavailable errorCode = "catalog_unavailable"
	codeParserFailed       errorCode = "parser_failed"
	codeInternalError      errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	recommender   Recommender
	health        *healthuc.Service
	logger        *zap.Logger
	maxTopN       int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommender Recommender, health *healthuc.Service, logger *zap.Logger, maxTopN int) *Server {
	s := &Server{
		recommender: recommender,
		health:      health,
		logger:      logger,
		maxTopN:     maxTopN,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrModelNotReady, http.StatusServiceUnavailable, codeModelNotReady),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusBadGateway, codeCatalogUnavailable),
		sentinelHandler(domain.ErrParserFailed, http.StatusBadGateway, codeParserFailed),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Post("/api/recommendations", s.Recommend)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// recommendRequest is the POST /api/recommendations body.
type recommendRequest struct {
	Prompt string `json:"prompt"`
	UserID int64  `json:"user_id"`
	TopN   int    `json:"top_n"`
}

// Recommend handles POST /api/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "prompt is required")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "user_id is required")
		return
	}
	if req.TopN > s.maxTopN {
		req.TopN = s.maxTopN
	}

	result, err := s.recommender.Recommend(r.Context(), req.UserID, req.Prompt, req.TopN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrModelNotReady,
		domain.ErrCatalogUnavailable,
		domain.ErrParserFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
