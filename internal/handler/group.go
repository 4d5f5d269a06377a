package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialnet/internal/httputil"
	"socialnet/internal/model"
	"socialnet/internal/service"
	"socialnet/internal/transport/http/middleware"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// Create creates a group owned by the caller
// POST /groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	group, err := h.groupService.Create(r.Context(), callerID, &req)
	if err != nil {
		if errors.Is(err, model.ErrGroupNameEmpty) {
			httputil.WriteValidationError(w, map[string]string{"name": "Name is required"})
			return
		}
		log.Printf("[ERROR] CreateGroup handler: %v", err)
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, group)
}

// GetByID fetches a group
// GET /groups/{id}
func (h *GroupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, model.ErrGroupNotFound) {
			httputil.WriteNotFound(w, err.Error())
			return
		}
		log.Printf("[ERROR] GetGroup handler: %v", err)
		httputil.WriteInternalError(w, "Failed to get group")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, group)
}

// List returns a page of groups
// GET /groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	page := model.ParsePageRequest(r)

	groups, pagination, err := h.groupService.List(r.Context(), page)
	if err != nil {
		log.Printf("[ERROR] ListGroups handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list groups")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"groups":     groups,
		"pagination": pagination,
	})
}

// Update edits a group
// PUT /groups/{id}
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid group ID")
		return
	}

	var req model.GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	group, err := h.groupService.Update(r.Context(), groupID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrGroupNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotGroupOwner):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrGroupNameEmpty):
			httputil.WriteValidationError(w, map[string]string{"name": "Name is required"})
		default:
			log.Printf("[ERROR] UpdateGroup handler: %v", err)
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, group)
}

// Delete removes a group
// DELETE /groups/{id}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid group ID")
		return
	}

	if err := h.groupService.Delete(r.Context(), groupID, callerID); err != nil {
		switch {
		case errors.Is(err, model.ErrGroupNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotGroupOwner):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] DeleteGroup handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete group")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
