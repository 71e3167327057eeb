package service

import (
	"context"

	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/db"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/validate"
)

var GroupSchema = validate.Schema{
	"name":        {validate.Required, validate.MinLen(1), validate.MaxLen(80)},
	"description": {validate.MaxLen(1000)},
}

type GroupRepo interface {
	CreateGroup(ctx context.Context, req model.GroupRequest) (*model.Group, error)
	GetGroup(ctx context.Context, id int64) (*model.Group, error)
	ListGroups(ctx context.Context, limit, offset int) ([]model.Group, int64, error)
	UpdateGroup(ctx context.Context, id int64, req model.GroupRequest) (*model.Group, error)
	DeleteGroup(ctx context.Context, id int64) (bool, error)
}

type GroupService struct {
	repo GroupRepo
}

func NewGroupService(repo GroupRepo) *GroupService {
	return &GroupService{repo: repo}
}

func (s *GroupService) Create(ctx context.Context, req model.GroupRequest) (*model.Group, error) {
	return s.repo.CreateGroup(ctx, req)
}

func (s *GroupService) Get(ctx context.Context, id int64) (*model.Group, error) {
	group, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("group")
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context, limit, offset int) ([]model.Group, int64, error) {
	return s.repo.ListGroups(ctx, limit, offset)
}

func (s *GroupService) Update(ctx context.Context, id int64, req model.GroupRequest) (*model.Group, error) {
	group, err := s.repo.UpdateGroup(ctx, id, req)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("group")
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteGroup(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("group")
	}
	return nil
}
