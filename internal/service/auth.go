package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/config"
	"github.com/retreat-portal/backend/internal/db"
	"github.com/retreat-portal/backend/internal/model"
)

const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

type AdminRepo interface {
	CreateAdmin(ctx context.Context, username, passwordHash, role string) (*model.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type AttendeeCredentialRepo interface {
	GetAttendeeByRef(ctx context.Context, refNumber string) (*model.Attendee, error)
}

type AuthService struct {
	admins         AdminRepo
	attendees      AttendeeCredentialRepo
	limiter        *RateLimiter
	sessions       *SessionService
	adminSecret    []byte
	attendeeSecret []byte
	now            func() time.Time
}

func NewAuthService(admins AdminRepo, attendees AttendeeCredentialRepo, limiter *RateLimiter, sessions *SessionService, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		admins:         admins,
		attendees:      attendees,
		limiter:        limiter,
		sessions:       sessions,
		adminSecret:    []byte(cfg.AdminSecret),
		attendeeSecret: []byte(cfg.AttendeeSecret),
		now:            time.Now,
	}
}

func (s *AuthService) Sessions() *SessionService {
	return s.sessions
}

// EnsureAdmin creates the bootstrap superadmin if it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	_, err := s.admins.GetAdminByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := s.admins.CreateAdmin(ctx, username, hash, RoleSuperadmin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, req model.AdminLoginRequest) (*model.AdminLoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	state := s.limiter.Check(ctx, username, auth.PrincipalAdmin)
	if !state.Allowed {
		return nil, apperr.RateLimited(state.ResetAt)
	}

	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			// Unknown username counts as a failed attempt and yields the
			// same generic response as a wrong password.
			s.limiter.Record(ctx, username, auth.PrincipalAdmin, false)
			return nil, apperr.Unauthorized()
		}
		return nil, err
	}

	ok := auth.VerifyPassword(req.Password, admin.PasswordHash)
	s.limiter.Record(ctx, username, auth.PrincipalAdmin, ok)
	if !ok {
		return nil, apperr.Unauthorized()
	}
	s.limiter.Clear(ctx, username, auth.PrincipalAdmin)

	claims := auth.NewAdminClaims(admin.Username, admin.Role, s.now())
	token, err := auth.Sign(claims, s.adminSecret)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Unix(claims.ExpiresAt, 0)
	sessionID := s.sessions.Start(ctx, auth.PrincipalAdmin, admin.Username, expiresAt)

	return &model.AdminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		SessionID: sessionID,
		Admin:     model.AdminInfo{Username: admin.Username, Role: admin.Role},
	}, nil
}

func (s *AuthService) LoginAttendee(ctx context.Context, req model.AttendeeLoginRequest) (*model.AttendeeLoginResponse, error) {
	ref := strings.TrimSpace(req.RefNumber)

	state := s.limiter.Check(ctx, ref, auth.PrincipalAttendee)
	if !state.Allowed {
		return nil, apperr.RateLimited(state.ResetAt)
	}

	attendee, err := s.attendees.GetAttendeeByRef(ctx, ref)
	if err != nil {
		if db.IsNoRows(err) {
			s.limiter.Record(ctx, ref, auth.PrincipalAttendee, false)
			return nil, apperr.Unauthorized()
		}
		return nil, err
	}

	ok := auth.VerifyPassword(req.Password, attendee.PasswordHash)
	s.limiter.Record(ctx, ref, auth.PrincipalAttendee, ok)
	if !ok {
		return nil, apperr.Unauthorized()
	}
	s.limiter.Clear(ctx, ref, auth.PrincipalAttendee)

	claims := auth.NewAttendeeClaims(attendee.RefNumber, s.now())
	token, err := auth.Sign(claims, s.attendeeSecret)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Unix(claims.ExpiresAt, 0)
	sessionID := s.sessions.Start(ctx, auth.PrincipalAttendee, attendee.RefNumber, expiresAt)

	return &model.AttendeeLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		SessionID: sessionID,
		Attendee:  attendee,
	}, nil
}

// VerifyToken validates a bearer token for the given principal type. All
// token failures collapse into a generic unauthorized error.
func (s *AuthService) VerifyToken(token, principalType string) (*auth.Claims, error) {
	var secret []byte
	switch principalType {
	case auth.PrincipalAdmin:
		secret = s.adminSecret
	case auth.PrincipalAttendee:
		secret = s.attendeeSecret
	default:
		return nil, apperr.Unauthorized()
	}

	claims, err := auth.Verify(token, principalType, secret, s.now())
	if err != nil {
		return nil, apperr.Unauthorized()
	}
	return claims, nil
}

// VerifyAnyToken accepts either principal type, for endpoints shared by both.
func (s *AuthService) VerifyAnyToken(token string) (*auth.Claims, error) {
	if claims, err := s.VerifyToken(token, auth.PrincipalAdmin); err == nil {
		return claims, nil
	}
	return s.VerifyToken(token, auth.PrincipalAttendee)
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID != "" {
		s.sessions.End(ctx, sessionID)
	}
}
