package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/deepsyllabus/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxMultipartMemory is the part of an upload kept in memory, the rest is spooled to disk
const maxMultipartMemory = 8 << 20

// FileService is the interface that wraps methods for reference file uploads.
type FileService interface {
	// Method UploadFile stores the content of "reader" and records it as a file of the syllabus.
	//
	// "name" is the original file name and "contentType" its MIME type (may be empty).
	// If the syllabus doesn't exist services.ErrSyllabusNotFound is returned.
	UploadFile(ctx context.Context, syllabusID, name, contentType string, reader io.Reader) (*models.File, error)
}

// FileHandler handles HTTP requests for reference files
type FileHandler struct {
	BaseHandler
	service FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(svc FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all file handler routes
func (h *FileHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload-file", h.UploadFile)
}

// FileResponse wraps a single file record
type FileResponse struct {
	File *models.File `json:"file"`
}

// UploadFile handles POST /api/upload-file
// @Summary Upload a reference file
// @Description Stores a file in the object store and attaches its metadata to a syllabus
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param syllabusId formData string true "Syllabus ID"
// @Param file formData file true "File to upload"
// @Success 200 {object} FileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/upload-file [post]
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	syllabusID := r.FormValue("syllabusId")
	if syllabusID == "" {
		h.respondError(w, http.StatusBadRequest, "Syllabus ID is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	uploaded, err := h.service.UploadFile(r.Context(), syllabusID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.respondServiceError(w, err, "Failed to upload file")
		return
	}

	h.respondJSON(w, http.StatusOK, FileResponse{File: uploaded})
}
