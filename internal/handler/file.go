package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"marketplace/internal/domain/models"
	"marketplace/internal/domain/services"
	"marketplace/internal/httputil"
)

// multipartOverhead is allowed on top of the file size ceiling for form
// fields and boundaries
const multipartOverhead = 1 << 20

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService services.FileService
	maxSize     int64
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, maxSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// UploadFile accepts a multipart upload with fields file, entity_type and entity_id
// POST /api/files/upload
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	// An unparsable id is passed through as 0 and rejected by validation
	entityID, _ := strconv.ParseInt(r.FormValue("entity_id"), 10, 64)

	uploaded, err := h.fileService.UploadFile(r.Context(), principal, &services.UploadFileRequest{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		EntityType:   models.EntityType(r.FormValue("entity_type")),
		EntityID:     entityID,
		Content:      file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, uploaded)
}

// GetFile returns file metadata
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id, principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// ListEntityFiles returns the files attached to an entity
// GET /api/files/entity/{type}/{id}
func (h *FileHandler) ListEntityFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	files, err := h.fileService.ListEntityFiles(r.Context(), models.EntityType(r.PathValue("type")), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}

// DeleteFile removes a file
// DELETE /api/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), id, principal); err != nil {
		h.logger.Warn("file delete failed", "file_id", id, "error", err)
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
