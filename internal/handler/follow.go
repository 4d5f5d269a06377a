package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"socialnet/internal/httputil"
	"socialnet/internal/model"
	"socialnet/internal/service"
	"socialnet/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow creates a follow edge from the caller to the user in the body
// POST /follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.FollowedUserID <= 0 {
		httputil.WriteValidationError(w, map[string]string{
			"followed_user_id": "followed_user_id is required",
		})
		return
	}

	if err := h.followService.Follow(r.Context(), callerID, req.FollowedUserID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Follow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Successfully followed user")
}

// Unfollow removes the follow edge named in the body. Unfollowing someone
// not currently followed still succeeds.
// DELETE /unfollow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.FollowedUserID <= 0 {
		httputil.WriteValidationError(w, map[string]string{
			"followed_user_id": "followed_user_id is required",
		})
		return
	}

	if err := h.followService.Unfollow(r.Context(), callerID, req.FollowedUserID); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Unfollow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Successfully unfollowed user")
}

// GetFollowers lists the caller's followers
// GET /followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page := model.ParsePageRequest(r)

	result, err := h.followService.ListFollowers(r.Context(), callerID, page)
	if err != nil {
		log.Printf("[ERROR] GetFollowers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch followers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetFollowing lists users the caller follows
// GET /following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page := model.ParsePageRequest(r)

	result, err := h.followService.ListFollowing(r.Context(), callerID, page)
	if err != nil {
		log.Printf("[ERROR] GetFollowing handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch following")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
