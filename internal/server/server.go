// Package server exposes the use cases over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/service"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config for the HTTP API handler.
type Config struct {
	Projects    service.ProjectService
	Milestones  service.MilestoneService
	Allocations service.AllocationService
	Ledger      service.LedgerService
	Simulation  service.SimulationService
	Team        service.TeamService
	Workspaces  service.WorkspaceService

	BasePath string
	Auth     AuthConfig
	Logger   *slog.Logger

	// Files serves stored documents at /files/. Optional.
	Files http.FileSystem
	// Metrics serves /metrics. Optional.
	Metrics http.Handler
}

// apiError is the error envelope: {"error": "...", "code": "..."}.
type apiError struct {
	status  int
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Message }

// New returns an HTTP handler exposing the API.
func New(cfg Config) (http.Handler, error) {
	if cfg.Projects == nil || cfg.Allocations == nil || cfg.Ledger == nil ||
		cfg.Simulation == nil || cfg.Team == nil || cfg.Milestones == nil || cfg.Workspaces == nil {
		return nil, errors.New("server: every service must be configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	basePath := strings.TrimRight(cfg.BasePath, "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", joinDetails(msg, errs))
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			// Schema failures are malformed requests, not oracle output.
			status = http.StatusBadRequest
		}
		return newAPIError(status, "", joinDetails(msg, errs))
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(newAuthMiddleware(basePath, cfg.Auth, logger))

	hcfg := huma.DefaultConfig("AI Project Officer API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	h := &handlers{cfg: cfg, logger: logger}
	registerHealth(group)
	h.registerProjects(group)
	h.registerAllocation(group)
	h.registerTeam(group)
	h.registerLedger(group)
	h.registerWorkspaces(group)

	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.Files != nil {
		router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(cfg.Files)))
	}
	return router, nil
}

type handlers struct {
	cfg    Config
	logger *slog.Logger
}

func newAPIError(status int, code, message string) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{status: status, Message: message, Code: code}
}

func joinDetails(msg string, errs []error) string {
	parts := []string{msg}
	for _, e := range errs {
		if e != nil {
			parts = append(parts, e.Error())
		}
	}
	return strings.Join(parts, ": ")
}

// statusForKind maps an error kind to its HTTP status.
var statusForKind = map[error]int{
	domain.ErrConfiguration:   http.StatusInternalServerError,
	domain.ErrPrecondition:    http.StatusBadRequest,
	domain.ErrUpstream:        http.StatusBadGateway,
	domain.ErrValidation:      http.StatusUnprocessableEntity,
	domain.ErrPersistence:     http.StatusInternalServerError,
	domain.ErrNotFound:        http.StatusNotFound,
	domain.ErrConflict:        http.StatusConflict,
	domain.ErrForbidden:       http.StatusForbidden,
	domain.ErrUnauthenticated: http.StatusUnauthorized,
}

func (h *handlers) handleError(ctx context.Context, err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	kind := domain.Kind(err)
	if kind == nil {
		h.logger.ErrorContext(ctx, "unclassified error", "error", err)
		return newAPIError(http.StatusInternalServerError, "internal", "internal error")
	}
	status := statusForKind[kind]
	if errors.Is(err, domain.ErrAlreadyConfirmed) {
		status = http.StatusConflict
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "error", err, "code", domain.KindCode(err))
	}
	return newAPIError(status, domain.KindCode(err), err.Error())
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "precondition"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation"
	case http.StatusBadGateway:
		return "upstream"
	case http.StatusInternalServerError:
		return "internal"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string
	}, error) {
		return &struct {
			Body map[string]string
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}
