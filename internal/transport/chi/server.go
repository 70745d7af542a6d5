package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/domain"
	"github.com/kailas-cloud/mealmate/internal/presenter"
	healthuc "github.com/kailas-cloud/mealmate/internal/usecase/health"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest    ErrorCode = "bad_request"
	CodeUnauthorized  ErrorCode = "unauthorized"
	CodeNotFound      ErrorCode = "not_found"
	CodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SetCountRequest is the body of PUT /api/v1/swipes.
type SetCountRequest struct {
	Count *int `json:"count"`
}

// Quota is the presentation binder as seen by the HTTP API.
type Quota interface {
	Render() presenter.View
	Increment(ctx context.Context) presenter.View
	Decrement(ctx context.Context) presenter.View
	Set(ctx context.Context, n int) presenter.View
	Resume(ctx context.Context) presenter.View
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the swipes API.
type Server struct {
	quota         Quota
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(quota Quota, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		quota:  quota,
		health: health,
		logger: logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, CodeBadRequest),
		},
	}
}

// GetSwipes handles GET /api/v1/swipes.
func (s *Server) GetSwipes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.quota.Render())
}

// IncrementSwipes handles POST /api/v1/swipes/increment.
func (s *Server) IncrementSwipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quota.Increment(r.Context()))
}

// DecrementSwipes handles POST /api/v1/swipes/decrement.
func (s *Server) DecrementSwipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quota.Decrement(r.Context()))
}

// SetSwipes handles PUT /api/v1/swipes.
func (s *Server) SetSwipes(w http.ResponseWriter, r *http.Request) {
	n, err := decodeSetCount(r.Body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.quota.Set(r.Context(), n))
}

// ResumeSwipes handles POST /api/v1/swipes/resume.
func (s *Server) ResumeSwipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.quota.Resume(r.Context()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func decodeSetCount(body io.Reader) (int, error) {
	var req SetCountRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return 0, fmt.Errorf("%w: invalid request body: %s", domain.ErrInvalidArgument, err.Error())
	}
	if req.Count == nil {
		return 0, fmt.Errorf("%w: count is required", domain.ErrInvalidArgument)
	}
	return *req.Count, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
