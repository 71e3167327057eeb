package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/retreat-portal/backend/internal/model"
)

type SessionRepo interface {
	InsertSession(ctx context.Context, s *model.Session) error
	TouchSession(ctx context.Context, sessionID string, at time.Time) error
	ActiveSessions(ctx context.Context, userType, userRef string, now time.Time) ([]model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionService tracks active logins per user so the UI can warn about a
// concurrent session elsewhere. Purely advisory: conflicts never block a
// request, and storage failures degrade to "no conflict".
type SessionService struct {
	repo SessionRepo
	now  func() time.Time
}

func NewSessionService(repo SessionRepo) *SessionService {
	return &SessionService{repo: repo, now: time.Now}
}

// Start records a new session and returns its id.
func (s *SessionService) Start(ctx context.Context, userType, userRef string, expiresAt time.Time) string {
	now := s.now()
	sess := &model.Session{
		SessionID:    uuid.NewString(),
		UserType:     userType,
		UserRef:      userRef,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
		LastActivity: now,
	}
	if err := s.repo.InsertSession(ctx, sess); err != nil {
		log.Printf("failed to record session: %v", err)
	}
	return sess.SessionID
}

// Observe reports whether another, more recently active session exists for
// the same user, then updates this session's last activity. The conflict is
// computed before the touch so the comparison reflects activity up to the
// previous request.
func (s *SessionService) Observe(ctx context.Context, sessionID, userType, userRef string) bool {
	now := s.now()

	conflict := false
	active, err := s.repo.ActiveSessions(ctx, userType, userRef, now)
	if err != nil {
		log.Printf("failed to list sessions: %v", err)
	} else if len(active) > 1 && active[0].SessionID != sessionID {
		conflict = true
	}

	if err := s.repo.TouchSession(ctx, sessionID, now); err != nil {
		log.Printf("failed to touch session: %v", err)
	}
	return conflict
}

func (s *SessionService) End(ctx context.Context, sessionID string) {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("failed to delete session: %v", err)
	}
}
