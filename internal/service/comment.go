package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// CommentService handles comments. Creation and deletion run in
// transactions with the post's comment counter.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	db          *sqlx.DB
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	db *sqlx.DB,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		db:          db,
	}
}

// Create adds a comment to a post and bumps the post's comment counter.
func (s *CommentService) Create(ctx context.Context, callerID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	exists, err := s.postRepo.Exists(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	comment, err := s.commentRepo.Create(ctx, tx, req.PostID, callerID, content)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementCommentCount(ctx, tx, req.PostID, 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return comment, nil
}

// GetByID fetches a single comment.
func (s *CommentService) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}

// Update edits a comment's content. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, commentID, callerID int64, req *model.UpdateCommentRequest) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != callerID {
		return nil, model.ErrNotCommentOwner
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	return s.commentRepo.Update(ctx, commentID, content)
}

// Delete removes a comment and decrements the post's counter. Only the
// author may delete.
func (s *CommentService) Delete(ctx context.Context, commentID, callerID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != callerID {
		return model.ErrNotCommentOwner
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	postID, err := s.commentRepo.Delete(ctx, tx, commentID)
	if err != nil {
		return err
	}

	if err := s.postRepo.IncrementCommentCount(ctx, tx, postID, -1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListByPost returns a page of comments for a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, page model.PageRequest) (*model.CommentListResponse, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comments, total, err := s.commentRepo.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	return &model.CommentListResponse{
		Comments:   comments,
		Pagination: model.NewPagination(total, page),
	}, nil
}
