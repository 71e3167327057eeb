package service

import (
	"context"

	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/db"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/validate"
)

var AnnouncementSchema = validate.Schema{
	"title":     {validate.Required, validate.MinLen(1), validate.MaxLen(200)},
	"body":      {validate.Required},
	"priority":  {validate.OneOf(model.PriorityLow, model.PriorityNormal, model.PriorityHigh)},
	"published": {validate.Boolean},
}

type AnnouncementRepo interface {
	CreateAnnouncement(ctx context.Context, title, body, priority string, published bool) (*model.Announcement, error)
	GetAnnouncement(ctx context.Context, id int64) (*model.Announcement, error)
	ListAnnouncements(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Announcement, int64, error)
	UpdateAnnouncement(ctx context.Context, id int64, title, body, priority string, published bool) (*model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) (bool, error)
}

type AnnouncementService struct {
	repo AnnouncementRepo
}

func NewAnnouncementService(repo AnnouncementRepo) *AnnouncementService {
	return &AnnouncementService{repo: repo}
}

func (s *AnnouncementService) Create(ctx context.Context, req model.AnnouncementRequest) (*model.Announcement, error) {
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	published := req.Published != nil && *req.Published
	return s.repo.CreateAnnouncement(ctx, req.Title, req.Body, priority, published)
}

func (s *AnnouncementService) Get(ctx context.Context, id int64) (*model.Announcement, error) {
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("announcement")
		}
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Announcement, int64, error) {
	return s.repo.ListAnnouncements(ctx, publishedOnly, limit, offset)
}

func (s *AnnouncementService) Update(ctx context.Context, id int64, req model.AnnouncementRequest) (*model.Announcement, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = existing.Priority
	}
	published := existing.Published
	if req.Published != nil {
		published = *req.Published
	}

	return s.repo.UpdateAnnouncement(ctx, id, req.Title, req.Body, priority, published)
}

func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("announcement")
	}
	return nil
}
