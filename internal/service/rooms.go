package service

import (
	"context"

	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/db"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/validate"
)

var RoomSchema = validate.Schema{
	"name":     {validate.Required, validate.MinLen(1), validate.MaxLen(80)},
	"capacity": {validate.Required, validate.Integer, validate.Range(1, 500)},
	"notes":    {validate.MaxLen(1000)},
}

type RoomRepo interface {
	CreateRoom(ctx context.Context, req model.RoomRequest) (*model.Room, error)
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	ListRooms(ctx context.Context, limit, offset int) ([]model.Room, int64, error)
	UpdateRoom(ctx context.Context, id int64, req model.RoomRequest) (*model.Room, error)
	DeleteRoom(ctx context.Context, id int64) (bool, error)
}

type RoomService struct {
	repo RoomRepo
}

func NewRoomService(repo RoomRepo) *RoomService {
	return &RoomService{repo: repo}
}

func (s *RoomService) Create(ctx context.Context, req model.RoomRequest) (*model.Room, error) {
	return s.repo.CreateRoom(ctx, req)
}

func (s *RoomService) Get(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("room")
		}
		return nil, err
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context, limit, offset int) ([]model.Room, int64, error) {
	return s.repo.ListRooms(ctx, limit, offset)
}

func (s *RoomService) Update(ctx context.Context, id int64, req model.RoomRequest) (*model.Room, error) {
	room, err := s.repo.UpdateRoom(ctx, id, req)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("room")
		}
		return nil, err
	}
	return room, nil
}

// Delete removes the room; occupants are detached by the schema's
// ON DELETE SET NULL, so deletion never fails on membership.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteRoom(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("room")
	}
	return nil
}
