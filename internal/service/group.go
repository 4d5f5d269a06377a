package service

import (
	"context"
	"fmt"
	"strings"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// GroupService handles group CRUD with owner checks.
type GroupService struct {
	groupRepo repository.GroupRepository
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// Create creates a group owned by the caller.
func (s *GroupService) Create(ctx context.Context, callerID int64, req *model.GroupRequest) (*model.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrGroupNameEmpty
	}
	if len(name) > model.MaxGroupNameLength {
		return nil, fmt.Errorf("group name too long")
	}

	group := &model.Group{
		Name:        name,
		Description: req.Description,
		OwnerID:     callerID,
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetByID fetches a group.
func (s *GroupService) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

// List returns a page of groups, newest first.
func (s *GroupService) List(ctx context.Context, page model.PageRequest) ([]model.Group, model.Pagination, error) {
	groups, total, err := s.groupRepo.List(ctx, page)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if groups == nil {
		groups = []model.Group{}
	}
	return groups, model.NewPagination(total, page), nil
}

// Update edits a group. Only the owner may edit.
func (s *GroupService) Update(ctx context.Context, id, callerID int64, req *model.GroupRequest) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != callerID {
		return nil, model.ErrNotGroupOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrGroupNameEmpty
	}
	if len(name) > model.MaxGroupNameLength {
		return nil, fmt.Errorf("group name too long")
	}

	group.Name = name
	group.Description = req.Description

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group. Only the owner may delete.
func (s *GroupService) Delete(ctx context.Context, id, callerID int64) error {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group.OwnerID != callerID {
		return model.ErrNotGroupOwner
	}
	return s.groupRepo.Delete(ctx, id)
}
