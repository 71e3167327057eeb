package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/retreat-portal/backend/internal/model"
)

type fakeSessionRepo struct {
	sessions map[string]*model.Session
	failErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.Session{}}
}

func (f *fakeSessionRepo) InsertSession(ctx context.Context, s *model.Session) error {
	if f.failErr != nil {
		return f.failErr
	}
	cp := *s
	f.sessions[s.SessionID] = &cp
	return nil
}

func (f *fakeSessionRepo) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	if f.failErr != nil {
		return f.failErr
	}
	if s, ok := f.sessions[sessionID]; ok {
		s.LastActivity = at
	}
	return nil
}

func (f *fakeSessionRepo) ActiveSessions(ctx context.Context, userType, userRef string, now time.Time) ([]model.Session, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	var list []model.Session
	for _, s := range f.sessions {
		if s.UserType == userType && s.UserRef == userRef && s.ExpiresAt.After(now) {
			list = append(list, *s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastActivity.After(list[j].LastActivity)
	})
	return list, nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.sessions, sessionID)
	return nil
}

func TestSessionSingleLoginNoConflict(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo)

	id := svc.Start(ctx, "admin", "alice", time.Now().Add(2*time.Hour))
	if id == "" {
		t.Fatalf("expected a session id")
	}
	if svc.Observe(ctx, id, "admin", "alice") {
		t.Fatalf("single session must not conflict")
	}
}

func TestSessionConflictForStaleSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo)

	base := time.Now()
	expires := base.Add(2 * time.Hour)

	svc.now = func() time.Time { return base }
	first := svc.Start(ctx, "admin", "alice", expires)

	// Second login elsewhere, more recently active.
	svc.now = func() time.Time { return base.Add(time.Minute) }
	second := svc.Start(ctx, "admin", "alice", expires)

	// The most recently active session itself does not conflict. Observing
	// it also touches its last_activity, keeping it the most recent.
	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if svc.Observe(ctx, second, "admin", "alice") {
		t.Fatalf("most recent session must not conflict")
	}

	svc.now = func() time.Time { return base.Add(3 * time.Minute) }
	if !svc.Observe(ctx, first, "admin", "alice") {
		t.Fatalf("stale session must see a conflict")
	}
}

func TestSessionExpiredSessionsIgnored(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo)

	base := time.Now()
	svc.now = func() time.Time { return base }

	expired := svc.Start(ctx, "attendee", "REF1", base.Add(-time.Minute))
	current := svc.Start(ctx, "attendee", "REF1", base.Add(2*time.Hour))
	_ = expired

	if svc.Observe(ctx, current, "attendee", "REF1") {
		t.Fatalf("expired sessions must not cause conflicts")
	}
}

func TestSessionEndRemovesSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo)

	id := svc.Start(ctx, "admin", "alice", time.Now().Add(2*time.Hour))
	svc.End(ctx, id)

	if _, ok := repo.sessions[id]; ok {
		t.Fatalf("session must be deleted on End")
	}
}

func TestSessionFailsOpen(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	repo.failErr = errors.New("relation does not exist")
	svc := NewSessionService(repo)

	// Start still returns an id and Observe reports no conflict.
	id := svc.Start(ctx, "admin", "alice", time.Now().Add(2*time.Hour))
	if id == "" {
		t.Fatalf("Start must return an id even when storage fails")
	}
	if svc.Observe(ctx, id, "admin", "alice") {
		t.Fatalf("Observe must degrade to no conflict on storage failure")
	}
	svc.End(ctx, id)
}
