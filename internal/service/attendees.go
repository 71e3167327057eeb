package service

import (
	"context"

	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/db"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/validate"
)

// AttendeeCreateSchema validates attendee creation payloads. Optional fields
// are valid when absent; ref_number uniqueness is enforced by the database.
var AttendeeCreateSchema = validate.Schema{
	"name":       {validate.Required, validate.MinLen(1), validate.MaxLen(120)},
	"ref_number": {validate.Required, validate.MinLen(2), validate.MaxLen(32)},
	"password":   {validate.Required, validate.MinLen(6)},
	"email":      {validate.Email},
	"dietary":    {validate.MaxLen(500)},
	"room_id":    {validate.Integer, validate.NonNegative},
	"group_id":   {validate.Integer, validate.NonNegative},
}

var AttendeeUpdateSchema = validate.Schema{
	"name":       {validate.Required, validate.MinLen(1), validate.MaxLen(120)},
	"ref_number": {validate.Required, validate.MinLen(2), validate.MaxLen(32)},
	"password":   {validate.MinLen(6)},
	"email":      {validate.Email},
	"dietary":    {validate.MaxLen(500)},
	"room_id":    {validate.Integer, validate.NonNegative},
	"group_id":   {validate.Integer, validate.NonNegative},
	"checked_in": {validate.Boolean},
}

type AttendeeRepo interface {
	CreateAttendee(ctx context.Context, a *model.Attendee) (*model.Attendee, error)
	GetAttendee(ctx context.Context, id int64) (*model.Attendee, error)
	GetAttendeeByRef(ctx context.Context, refNumber string) (*model.Attendee, error)
	ListAttendees(ctx context.Context, filter model.AttendeeFilter, limit, offset int) ([]model.Attendee, int64, error)
	UpdateAttendee(ctx context.Context, a *model.Attendee) (*model.Attendee, error)
	SetAttendeeCheckedIn(ctx context.Context, id int64, checkedIn bool) (*model.Attendee, error)
	DeleteAttendee(ctx context.Context, id int64) (bool, error)
}

type RoomGetter interface {
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
}

type GroupGetter interface {
	GetGroup(ctx context.Context, id int64) (*model.Group, error)
}

type AttendeeService struct {
	repo   AttendeeRepo
	rooms  RoomGetter
	groups GroupGetter
}

func NewAttendeeService(repo AttendeeRepo, rooms RoomGetter, groups GroupGetter) *AttendeeService {
	return &AttendeeService{repo: repo, rooms: rooms, groups: groups}
}

func (s *AttendeeService) Create(ctx context.Context, req model.AttendeeCreateRequest) (*model.Attendee, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateAttendee(ctx, &model.Attendee{
		Name:         req.Name,
		RefNumber:    req.RefNumber,
		PasswordHash: hash,
		Email:        req.Email,
		Dietary:      req.Dietary,
		RoomID:       req.RoomID,
		GroupID:      req.GroupID,
	})
}

func (s *AttendeeService) Get(ctx context.Context, id int64) (*model.Attendee, error) {
	a, err := s.repo.GetAttendee(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("attendee")
		}
		return nil, err
	}
	return a, nil
}

func (s *AttendeeService) List(ctx context.Context, filter model.AttendeeFilter, limit, offset int) ([]model.Attendee, int64, error) {
	return s.repo.ListAttendees(ctx, filter, limit, offset)
}

// Update replaces the attendee's editable fields. The password is re-hashed
// only when the request carries one; an empty password keeps the old hash.
func (s *AttendeeService) Update(ctx context.Context, id int64, req model.AttendeeUpdateRequest) (*model.Attendee, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.RefNumber = req.RefNumber
	existing.Email = req.Email
	existing.Dietary = req.Dietary
	existing.RoomID = req.RoomID
	existing.GroupID = req.GroupID
	if req.CheckedIn != nil {
		existing.CheckedIn = *req.CheckedIn
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}

	return s.repo.UpdateAttendee(ctx, existing)
}

func (s *AttendeeService) ToggleCheckIn(ctx context.Context, id int64) (*model.Attendee, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.SetAttendeeCheckedIn(ctx, id, !existing.CheckedIn)
}

func (s *AttendeeService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteAttendee(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("attendee")
	}
	return nil
}

// Profile is the attendee self-view with assigned room and group resolved.
// Missing assignments resolve to nil, not errors.
func (s *AttendeeService) Profile(ctx context.Context, refNumber string) (*model.AttendeeProfile, error) {
	a, err := s.repo.GetAttendeeByRef(ctx, refNumber)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound("attendee")
		}
		return nil, err
	}

	profile := &model.AttendeeProfile{Attendee: *a}
	if a.RoomID != nil {
		if room, err := s.rooms.GetRoom(ctx, *a.RoomID); err == nil {
			profile.Room = room
		} else if !db.IsNoRows(err) {
			return nil, err
		}
	}
	if a.GroupID != nil {
		if group, err := s.groups.GetGroup(ctx, *a.GroupID); err == nil {
			profile.Group = group
		} else if !db.IsNoRows(err) {
			return nil, err
		}
	}
	return profile, nil
}
