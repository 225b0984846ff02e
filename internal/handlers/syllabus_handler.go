package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/deepsyllabus/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SyllabusService is the interface that wraps methods for syllabus business logic.
type SyllabusService interface {
	// Method GenerateSyllabus drafts three components for the synopsis of "req" and stores them with a new syllabus.
	//
	// The stored syllabus is returned together with the raw draft of the model.
	// Validation, generation and storage failures are reported through the services error values.
	GenerateSyllabus(ctx context.Context, req models.GenerateRequest) (*models.Syllabus, *models.SyllabusDraft, error)
	// Method GetSyllabus retrieves a syllabus with its components and files.
	//
	// If the syllabus doesn't exist services.ErrSyllabusNotFound is returned.
	GetSyllabus(ctx context.Context, id string) (*models.Syllabus, error)
	// Method GetAllSyllabi retrieves every syllabus without components and files.
	GetAllSyllabi(ctx context.Context) ([]models.Syllabus, error)
	// Method DeleteSyllabus removes a syllabus with its components, files and stored file objects.
	DeleteSyllabus(ctx context.Context, id string) error
}

// SyllabusHandler handles HTTP requests for syllabi
type SyllabusHandler struct {
	BaseHandler
	service SyllabusService
}

// NewSyllabusHandler creates a new syllabus handler
func NewSyllabusHandler(svc SyllabusService, logger *zap.Logger) *SyllabusHandler {
	return &SyllabusHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterGenerationRoutes registers the routes that call the language model.
// They are kept apart so that a stricter rate limit can be applied to them.
func (h *SyllabusHandler) RegisterGenerationRoutes(r chi.Router) {
	r.Post("/generate-syllabus", h.GenerateSyllabus)
}

// RegisterRoutes registers the syllabus read and delete routes
func (h *SyllabusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/syllabi", h.GetAllSyllabi)
	r.Route("/syllabus/{id}", func(r chi.Router) {
		r.Get("/", h.GetSyllabus)
		r.Delete("/", h.DeleteSyllabus)
	})
}

// generateSyllabusRequest is the body of POST /api/generate-syllabus.
// Fields are kept raw so that values of the wrong JSON type can be rejected explicitly.
type generateSyllabusRequest struct {
	Synopsis    json.RawMessage `json:"synopsis"`
	Files       json.RawMessage `json:"files"`
	Preferences json.RawMessage `json:"preferences"`
}

// GenerateSyllabusResponse is the body of a successful syllabus generation
type GenerateSyllabusResponse struct {
	Syllabus   *models.Syllabus      `json:"syllabus"`
	AIResponse *models.SyllabusDraft `json:"aiResponse"`
}

// SyllabusResponse wraps a single syllabus
type SyllabusResponse struct {
	Syllabus *models.Syllabus `json:"syllabus"`
}

// SyllabiResponse wraps a list of syllabi
type SyllabiResponse struct {
	Syllabi []models.Syllabus `json:"syllabi"`
}

// SuccessResponse reports a completed operation
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// GenerateSyllabus handles POST /api/generate-syllabus
// @Summary Generate a syllabus
// @Description Drafts a video suggestion, an explanation and an assessment for a course synopsis and stores them as a new syllabus
// @Tags syllabi
// @Accept json
// @Produce json
// @Param request body object true "Synopsis with optional reference files [{name, type}] and style preferences"
// @Success 200 {object} GenerateSyllabusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/generate-syllabus [post]
func (h *SyllabusHandler) GenerateSyllabus(w http.ResponseWriter, r *http.Request) {
	var body generateSyllabusRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	synopsis, ok := stringField(body.Synopsis)
	if !ok || strings.TrimSpace(synopsis) == "" {
		h.respondError(w, http.StatusBadRequest, "Synopsis is required")
		return
	}

	req := models.GenerateRequest{Synopsis: synopsis}
	if len(body.Files) > 0 && string(body.Files) != "null" {
		if err := json.Unmarshal(body.Files, &req.Files); err != nil {
			h.respondError(w, http.StatusBadRequest, "Files must be a list of {name, type} objects")
			return
		}
	}
	if len(body.Preferences) > 0 && string(body.Preferences) != "null" {
		var prefs models.Preferences
		if err := json.Unmarshal(body.Preferences, &prefs); err != nil {
			h.respondError(w, http.StatusBadRequest, "Preferences must be an object of strings")
			return
		}
		req.Preferences = &prefs
	}

	syllabus, draft, err := h.service.GenerateSyllabus(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "Failed to generate syllabus")
		return
	}

	h.respondJSON(w, http.StatusOK, GenerateSyllabusResponse{Syllabus: syllabus, AIResponse: draft})
}

// GetAllSyllabi handles GET /api/syllabi
// @Summary List syllabi
// @Description Lists every syllabus, newest first. Components and files are not included.
// @Tags syllabi
// @Produce json
// @Success 200 {object} SyllabiResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/syllabi [get]
func (h *SyllabusHandler) GetAllSyllabi(w http.ResponseWriter, r *http.Request) {
	syllabi, err := h.service.GetAllSyllabi(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "Failed to get syllabi")
		return
	}

	h.respondJSON(w, http.StatusOK, SyllabiResponse{Syllabi: syllabi})
}

// GetSyllabus handles GET /api/syllabus/{id}
// @Summary Get a syllabus
// @Description Returns a syllabus with its components and files in insertion order
// @Tags syllabi
// @Produce json
// @Param id path string true "Syllabus ID"
// @Success 200 {object} SyllabusResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/syllabus/{id} [get]
func (h *SyllabusHandler) GetSyllabus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Syllabus ID is required")
		return
	}

	syllabus, err := h.service.GetSyllabus(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get syllabus")
		return
	}

	h.respondJSON(w, http.StatusOK, SyllabusResponse{Syllabus: syllabus})
}

// DeleteSyllabus handles DELETE /api/syllabus/{id}
// @Summary Delete a syllabus
// @Description Deletes a syllabus together with its components, files and stored file objects
// @Tags syllabi
// @Produce json
// @Param id path string true "Syllabus ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/syllabus/{id} [delete]
func (h *SyllabusHandler) DeleteSyllabus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Syllabus ID is required")
		return
	}

	if err := h.service.DeleteSyllabus(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "Failed to delete syllabus")
		return
	}

	h.logger.Info("syllabus deleted", zap.String("syllabus_id", id))
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
