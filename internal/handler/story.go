package handler

import (
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

type StoryHandler struct {
	storyService *service.StoryService
	mediaService *service.MediaService
}

func NewStoryHandler(storyService *service.StoryService, mediaService *service.MediaService) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		mediaService: mediaService,
	}
}

// Upload creates a story from a multipart media upload
// POST /stories/upload
func (h *StoryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxStoryMediaSize) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Media exceeds 10MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		httputil.WriteValidationError(w, map[string]string{"media": "A media file is required"})
		return
	}
	defer file.Close()

	upload, err := h.mediaService.UploadStoryMedia(r.Context(), file, header)
	if err != nil {
		writeMediaError(w, err)
		return
	}

	story, err := h.storyService.Create(r.Context(), callerID, upload)
	if err != nil {
		log.Printf("[ERROR] UploadStory handler: %v", err)
		httputil.WriteInternalError(w, "Failed to create story")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, story)
}

// ListActive returns all unexpired stories
// GET /stories/active
func (h *StoryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.ListActive(r.Context())
	if err != nil {
		log.Printf("[ERROR] ListActiveStories handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list stories")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}

// Delete removes a story owned by the caller
// DELETE /stories/{id}
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	storyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid story ID")
		return
	}

	if err := h.storyService.Delete(r.Context(), storyID, callerID); err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] DeleteStory handler: %v", err)
		httputil.WriteInternalError(w, "Failed to delete story")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Story deleted")
}
