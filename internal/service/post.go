package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// PostService handles post CRUD and likes. Like toggles run in a
// transaction so the edge and the denormalized counter move together.
type PostService struct {
	postRepo repository.PostRepository
	db       *sqlx.DB
	store    ObjectStore
}

func NewPostService(postRepo repository.PostRepository, db *sqlx.DB, store ObjectStore) *PostService {
	return &PostService{
		postRepo: postRepo,
		db:       db,
		store:    store,
	}
}

// Create creates a post, optionally with an already-uploaded image.
func (s *PostService) Create(ctx context.Context, userID int64, content string, image *model.UploadResult) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}

	post := &model.Post{
		UserID:  userID,
		Content: content,
	}
	if image != nil {
		post.ImageURL = &image.URL
		post.ImageKey = &image.Key
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// GetByID fetches a post with the viewer's like state resolved.
func (s *PostService) GetByID(ctx context.Context, postID, viewerID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

// List returns a page of posts, newest first.
func (s *PostService) List(ctx context.Context, viewerID int64, page model.PageRequest) (*model.PostListResponse, error) {
	posts, total, err := s.postRepo.List(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return &model.PostListResponse{
		Posts:      posts,
		Pagination: model.NewPagination(total, page),
	}, nil
}

// Update edits a post's content. Only the owner may edit.
func (s *PostService) Update(ctx context.Context, postID, callerID int64, req *model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}
	if post.UserID != callerID {
		return nil, model.ErrNotPostOwner
	}

	if req.Content != nil {
		trimmed := strings.TrimSpace(*req.Content)
		if trimmed == "" && post.ImageURL == nil {
			return nil, model.ErrContentRequired
		}
		if len(trimmed) > model.MaxPostContentLength {
			return nil, model.ErrContentTooLong
		}
		req.Content = &trimmed
	}

	if _, err := s.postRepo.Update(ctx, postID, req.Content, nil, nil); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID, callerID)
}

// Delete removes a post. Only the owner may delete. The image object is
// removed best-effort after the row is gone.
func (s *PostService) Delete(ctx context.Context, postID, callerID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID, callerID)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return model.ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.store != nil && post.ImageKey != nil {
		if err := s.store.DeleteObject(ctx, *post.ImageKey); err != nil {
			log.Printf("[PostService] Failed to delete post image: post=%d key=%s err=%v",
				postID, *post.ImageKey, err)
		}
	}

	return nil
}

// ToggleLike likes the post if the caller has not liked it, otherwise
// removes the like. Returns the resulting liked state.
func (s *PostService) ToggleLike(ctx context.Context, postID, callerID int64) (bool, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, model.ErrPostNotFound
	}

	liked, err := s.postRepo.HasLike(ctx, postID, callerID)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if liked {
		if err := s.postRepo.RemoveLike(ctx, tx, postID, callerID); err != nil {
			return false, err
		}
		if err := s.postRepo.IncrementLikeCount(ctx, tx, postID, -1); err != nil {
			return false, err
		}
	} else {
		if err := s.postRepo.AddLike(ctx, tx, postID, callerID); err != nil {
			return false, err
		}
		if err := s.postRepo.IncrementLikeCount(ctx, tx, postID, 1); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return !liked, nil
}
