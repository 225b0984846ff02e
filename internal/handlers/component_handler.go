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

// ComponentService is the interface that wraps methods for syllabus component business logic.
type ComponentService interface {
	// Method RegenerateComponent asks the model for a new version of a component and stores it as not accepted.
	//
	// "feedback" is optional. The updated component is returned together with the generated payload.
	// services.ErrSyllabusNotFound or services.ErrComponentNotFound are returned for unknown ids.
	RegenerateComponent(ctx context.Context, syllabusID, componentID, feedback string) (*models.Component, json.RawMessage, error)
	// Method UpdateComponent replaces content and accepted flag of a component.
	UpdateComponent(ctx context.Context, id, content string, accepted bool) (*models.Component, error)
	// Method AcceptComponent changes only the accepted flag of a component.
	AcceptComponent(ctx context.Context, id string, accepted bool) (*models.Component, error)
}

// ComponentHandler handles HTTP requests for syllabus components
type ComponentHandler struct {
	BaseHandler
	service ComponentService
}

// NewComponentHandler creates a new component handler
func NewComponentHandler(svc ComponentService, logger *zap.Logger) *ComponentHandler {
	return &ComponentHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterGenerationRoutes registers the routes that call the language model
func (h *ComponentHandler) RegisterGenerationRoutes(r chi.Router) {
	r.Post("/regenerate-component", h.RegenerateComponent)
}

// RegisterRoutes registers the component edit routes
func (h *ComponentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/component/{id}", func(r chi.Router) {
		r.Put("/", h.UpdateComponent)
		r.Post("/accept", h.AcceptComponent)
	})
}

type regenerateComponentRequest struct {
	SyllabusID  json.RawMessage `json:"syllabusId"`
	ComponentID json.RawMessage `json:"componentId"`
	Feedback    json.RawMessage `json:"feedback"`
}

type updateComponentRequest struct {
	Content  json.RawMessage `json:"content"`
	Accepted json.RawMessage `json:"accepted"`
}

type acceptComponentRequest struct {
	Accepted json.RawMessage `json:"accepted"`
}

// RegenerateComponentResponse is the body of a successful regeneration
type RegenerateComponentResponse struct {
	Component *models.Component `json:"component"`
	Content   json.RawMessage   `json:"content" swaggertype:"object"`
}

// ComponentResponse wraps a single component
type ComponentResponse struct {
	Component *models.Component `json:"component"`
}

// RegenerateComponent handles POST /api/regenerate-component
// @Summary Regenerate a component
// @Description Replaces the content of one component with a freshly generated version, optionally steered by feedback. The component becomes not accepted.
// @Tags components
// @Accept json
// @Produce json
// @Param request body object true "{syllabusId, componentId, feedback?}"
// @Success 200 {object} RegenerateComponentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/regenerate-component [post]
func (h *ComponentHandler) RegenerateComponent(w http.ResponseWriter, r *http.Request) {
	var body regenerateComponentRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	syllabusID, okSyllabus := stringField(body.SyllabusID)
	componentID, okComponent := stringField(body.ComponentID)
	if !okSyllabus || !okComponent || syllabusID == "" || componentID == "" {
		h.respondError(w, http.StatusBadRequest, "Syllabus ID and component ID are required")
		return
	}

	var feedback string
	if len(body.Feedback) > 0 && string(body.Feedback) != "null" {
		var ok bool
		if feedback, ok = stringField(body.Feedback); !ok {
			h.respondError(w, http.StatusBadRequest, "Feedback must be a string")
			return
		}
	}

	component, content, err := h.service.RegenerateComponent(r.Context(), syllabusID, componentID, strings.TrimSpace(feedback))
	if err != nil {
		h.respondServiceError(w, err, "Failed to regenerate component")
		return
	}

	h.respondJSON(w, http.StatusOK, RegenerateComponentResponse{Component: component, Content: content})
}

// UpdateComponent handles PUT /api/component/{id}
// @Summary Update a component
// @Description Replaces the content and the accepted flag of a component
// @Tags components
// @Accept json
// @Produce json
// @Param id path string true "Component ID"
// @Param request body object true "{content: string, accepted: boolean}"
// @Success 200 {object} ComponentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/component/{id} [put]
func (h *ComponentHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Component ID is required")
		return
	}

	var body updateComponentRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	content, ok := stringField(body.Content)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	accepted, ok := boolField(body.Accepted)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Accepted status is required")
		return
	}

	component, err := h.service.UpdateComponent(r.Context(), id, content, accepted)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update component")
		return
	}

	h.respondJSON(w, http.StatusOK, ComponentResponse{Component: component})
}

// AcceptComponent handles POST /api/component/{id}/accept
// @Summary Accept or reject a component
// @Description Sets the accepted flag of a component, keeping its content
// @Tags components
// @Accept json
// @Produce json
// @Param id path string true "Component ID"
// @Param request body object true "{accepted: boolean}"
// @Success 200 {object} ComponentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/component/{id}/accept [post]
func (h *ComponentHandler) AcceptComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Component ID is required")
		return
	}

	var body acceptComponentRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	accepted, ok := boolField(body.Accepted)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Accepted status is required")
		return
	}

	component, err := h.service.AcceptComponent(r.Context(), id, accepted)
	if err != nil {
		h.respondServiceError(w, err, "Failed to accept component")
		return
	}

	h.respondJSON(w, http.StatusOK, ComponentResponse{Component: component})
}
