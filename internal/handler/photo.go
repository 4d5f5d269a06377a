package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"socialnet/internal/httputil"
	"socialnet/internal/model"
	"socialnet/internal/service"
	"socialnet/internal/transport/http/middleware"
)

type PhotoHandler struct {
	photoService *service.PhotoService
	mediaService *service.MediaService
}

func NewPhotoHandler(photoService *service.PhotoService, mediaService *service.MediaService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		mediaService: mediaService,
	}
}

// Create handles multipart photo upload with an optional description
// POST /photos
func (h *PhotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxPhotoSize) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Photo exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		httputil.WriteValidationError(w, map[string]string{"photo": "A photo file is required"})
		return
	}
	defer file.Close()

	upload, err := h.mediaService.UploadPhoto(r.Context(), file, header)
	if err != nil {
		writeMediaError(w, err)
		return
	}

	var description *string
	if v := r.FormValue("description"); v != "" {
		description = &v
	}

	photo, err := h.photoService.Create(r.Context(), callerID, upload, description)
	if err != nil {
		log.Printf("[ERROR] CreatePhoto handler: %v", err)
		httputil.WriteInternalError(w, "Failed to create photo")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, photo)
}

// GetByID fetches a photo
// GET /photos/{id}
func (h *PhotoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	photoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid photo ID")
		return
	}

	photo, err := h.photoService.GetByID(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, model.ErrPhotoNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] GetPhoto handler: %v", err)
		httputil.WriteInternalError(w, "Failed to get photo")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, photo)
}

// List returns a page of photos
// GET /photos
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	page := model.ParsePageRequest(r)

	photos, pagination, err := h.photoService.List(r.Context(), page)
	if err != nil {
		log.Printf("[ERROR] ListPhotos handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list photos")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"photos":     photos,
		"pagination": pagination,
	})
}

// Update edits a photo's description
// PUT /photos/{id}
func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	photoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid photo ID")
		return
	}

	var req model.UpdatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	photo, err := h.photoService.UpdateDescription(r.Context(), photoID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPhotoNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotPhotoOwner):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] UpdatePhoto handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update photo")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, photo)
}

// Delete removes a photo
// DELETE /photos/{id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	photoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid photo ID")
		return
	}

	if err := h.photoService.Delete(r.Context(), photoID, callerID); err != nil {
		switch {
		case errors.Is(err, model.ErrPhotoNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotPhotoOwner):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] DeletePhoto handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete photo")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
