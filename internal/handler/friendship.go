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

type FriendshipHandler struct {
	friendshipService *service.FriendshipService
}

func NewFriendshipHandler(friendshipService *service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// Request sends a friend request to the user in the body
// POST /friends
func (h *FriendshipHandler) Request(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.FriendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.FriendID <= 0 {
		httputil.WriteValidationError(w, map[string]string{
			"friend_id": "friend_id is required",
		})
		return
	}

	friendship, err := h.friendshipService.Request(r.Context(), callerID, req.FriendID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotBefriendSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrFriendshipExists):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] FriendRequest handler: %v", err)
			httputil.WriteInternalError(w, "Failed to send friend request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, friendship)
}

// Respond accepts or rejects a pending request
// PUT /friends/{id}
func (h *FriendshipHandler) Respond(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	friendshipID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid friendship ID")
		return
	}

	var req model.UpdateFriendshipBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	friendship, err := h.friendshipService.Respond(r.Context(), callerID, friendshipID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidStatus):
			httputil.WriteBadRequest(w, "Status must be 'accepted' or 'rejected'")
		case errors.Is(err, model.ErrFriendshipNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotRecipient):
			httputil.WriteForbidden(w, err.Error())
		case errors.Is(err, model.ErrAlreadyDecided):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] FriendRespond handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update friend request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, friendship)
}

// Delete removes a friendship in any status
// DELETE /friends/{id}
func (h *FriendshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	friendshipID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid friendship ID")
		return
	}

	if err := h.friendshipService.Delete(r.Context(), callerID, friendshipID); err != nil {
		switch {
		case errors.Is(err, model.ErrFriendshipNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotParticipant):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] FriendDelete handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete friendship")
		}
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Friendship removed")
}

// ListFriends lists the caller's accepted friendships
// GET /friends
func (h *FriendshipHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page := model.ParsePageRequest(r)

	result, err := h.friendshipService.ListFriends(r.Context(), callerID, page)
	if err != nil {
		log.Printf("[ERROR] ListFriends handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch friends")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// ListPending lists incoming pending requests addressed to the caller
// GET /friends/pending
func (h *FriendshipHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page := model.ParsePageRequest(r)

	result, err := h.friendshipService.ListPending(r.Context(), callerID, page)
	if err != nil {
		log.Printf("[ERROR] ListPending handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch pending requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
