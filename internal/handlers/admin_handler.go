package handlers

import (
	"context"
	"net/http"

	"github.com/deepsyllabus/backend/internal/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DatabaseInitializer is the interface that wraps the store preparation.
type DatabaseInitializer interface {
	// Method InitDatabase idempotently creates the tables of the store.
	InitDatabase(ctx context.Context) error
}

// AdminHandler handles operational HTTP requests
type AdminHandler struct {
	BaseHandler
	service DatabaseInitializer
	mode    config.Mode
	authMw  func(http.Handler) http.Handler
}

// NewAdminHandler creates a new admin handler.
// authMw protects the init-db route; it may be nil.
func NewAdminHandler(svc DatabaseInitializer, mode config.Mode, logger *zap.Logger, authMw func(http.Handler) http.Handler) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		mode:        mode,
		authMw:      authMw,
	}
}

// RegisterRoutes registers the init-db route. The router is expected to be scoped to /api.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.authMw != nil {
			r.Use(h.authMw)
		}
		r.Post("/init-db", h.InitDatabase)
	})
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

// InitDatabase handles POST /api/init-db
// @Summary Initialize the database
// @Description Creates the syllabi, components and files tables if they don't exist
// @Tags admin
// @Produce json
// @Param X-API-Key header string false "Admin API key, required when configured"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/init-db [post]
func (h *AdminHandler) InitDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.service.InitDatabase(r.Context()); err != nil {
		h.logger.Error("failed to initialize database", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to initialize database")
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Database initialized successfully"})
}

// Health handles GET /health
// @Summary Health check
// @Description Reports that the service is up and which collaborators it runs with
// @Tags admin
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Mode: string(h.mode)})
}
