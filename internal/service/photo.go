package service

import (
	"context"
	"log"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// PhotoService handles standalone photo uploads with owner checks.
type PhotoService struct {
	photoRepo repository.PhotoRepository
	store     ObjectStore
}

func NewPhotoService(photoRepo repository.PhotoRepository, store ObjectStore) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		store:     store,
	}
}

// Create records an already-uploaded photo for the caller.
func (s *PhotoService) Create(ctx context.Context, userID int64, upload *model.UploadResult, description *string) (*model.Photo, error) {
	photo := &model.Photo{
		UserID:      userID,
		ImageURL:    upload.URL,
		ImageKey:    upload.Key,
		Description: description,
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// GetByID fetches a photo.
func (s *PhotoService) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	return s.photoRepo.GetByID(ctx, id)
}

// List returns a page of photos, newest first.
func (s *PhotoService) List(ctx context.Context, page model.PageRequest) ([]model.Photo, model.Pagination, error) {
	photos, total, err := s.photoRepo.List(ctx, page)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	return photos, model.NewPagination(total, page), nil
}

// UpdateDescription edits a photo's description. Only the owner may edit.
func (s *PhotoService) UpdateDescription(ctx context.Context, id, callerID int64, req *model.UpdatePhotoRequest) (*model.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo.UserID != callerID {
		return nil, model.ErrNotPhotoOwner
	}

	return s.photoRepo.UpdateDescription(ctx, id, req.Description)
}

// Delete removes a photo and its object. Only the owner may delete.
func (s *PhotoService) Delete(ctx context.Context, id, callerID int64) error {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if photo.UserID != callerID {
		return model.ErrNotPhotoOwner
	}

	if err := s.photoRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.store != nil && photo.ImageKey != "" {
		if err := s.store.DeleteObject(ctx, photo.ImageKey); err != nil {
			log.Printf("[PhotoService] Failed to delete photo object: photo=%d key=%s err=%v",
				id, photo.ImageKey, err)
		}
	}

	return nil
}
