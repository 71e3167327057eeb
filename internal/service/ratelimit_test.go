package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeAttemptRepo struct {
	attempts []struct {
		identifier string
		userType   string
		success    bool
		at         time.Time
	}
	failErr error
}

func (f *fakeAttemptRepo) InsertLoginAttempt(ctx context.Context, identifier, userType string, success bool, at time.Time) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.attempts = append(f.attempts, struct {
		identifier string
		userType   string
		success    bool
		at         time.Time
	}{identifier, userType, success, at})
	return nil
}

func (f *fakeAttemptRepo) FailedAttemptTimes(ctx context.Context, identifier, userType string, since time.Time) ([]time.Time, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	var times []time.Time
	for _, a := range f.attempts {
		if a.identifier == identifier && a.userType == userType && !a.success && !a.at.Before(since) {
			times = append(times, a.at)
		}
	}
	return times, nil
}

func (f *fakeAttemptRepo) DeleteFailedAttempts(ctx context.Context, identifier, userType string) error {
	if f.failErr != nil {
		return f.failErr
	}
	kept := f.attempts[:0]
	for _, a := range f.attempts {
		if !(a.identifier == identifier && a.userType == userType && !a.success) {
			kept = append(kept, a)
		}
	}
	f.attempts = kept
	return nil
}

func (f *fakeAttemptRepo) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) error {
	if f.failErr != nil {
		return f.failErr
	}
	kept := f.attempts[:0]
	for _, a := range f.attempts {
		if !a.at.Before(cutoff) {
			kept = append(kept, a)
		}
	}
	f.attempts = kept
	return nil
}

func TestRateLimiterBlocksAfterFiveFailures(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{}
	limiter := NewRateLimiter(repo)

	for i := 0; i < 5; i++ {
		state := limiter.Check(ctx, "alice", "admin")
		if !state.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		limiter.Record(ctx, "alice", "admin", false)
	}

	state := limiter.Check(ctx, "alice", "admin")
	if state.Allowed {
		t.Fatalf("6th check should be blocked")
	}
	if state.Remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", state.Remaining)
	}
	if state.ResetAt.IsZero() {
		t.Fatalf("expected a reset time when blocked")
	}
}

func TestRateLimiterClearResets(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{}
	limiter := NewRateLimiter(repo)

	for i := 0; i < 5; i++ {
		limiter.Record(ctx, "alice", "admin", false)
	}
	if limiter.Check(ctx, "alice", "admin").Allowed {
		t.Fatalf("expected blocked before clear")
	}

	limiter.Clear(ctx, "alice", "admin")
	state := limiter.Check(ctx, "alice", "admin")
	if !state.Allowed || state.Remaining != 5 {
		t.Fatalf("expected fully reset after clear, got %+v", state)
	}
}

func TestRateLimiterScopesByIdentifierAndType(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{}
	limiter := NewRateLimiter(repo)

	for i := 0; i < 5; i++ {
		limiter.Record(ctx, "alice", "admin", false)
	}

	if !limiter.Check(ctx, "bob", "admin").Allowed {
		t.Fatalf("other identifier must not be limited")
	}
	if !limiter.Check(ctx, "alice", "attendee").Allowed {
		t.Fatalf("other user type must not be limited")
	}
}

func TestRateLimiterIgnoresOldAndSuccessfulAttempts(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{}
	limiter := NewRateLimiter(repo)

	base := time.Now()
	limiter.now = func() time.Time { return base }

	// Failures outside the 15 minute window do not count.
	old := base.Add(-20 * time.Minute)
	for i := 0; i < 5; i++ {
		_ = repo.InsertLoginAttempt(ctx, "alice", "admin", false, old)
	}
	// Successes never count.
	_ = repo.InsertLoginAttempt(ctx, "alice", "admin", true, base)

	state := limiter.Check(ctx, "alice", "admin")
	if !state.Allowed || state.Remaining != 5 {
		t.Fatalf("expected no counted failures, got %+v", state)
	}
}

func TestRateLimiterRecordPrunesOldRows(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{}
	limiter := NewRateLimiter(repo)

	base := time.Now()
	_ = repo.InsertLoginAttempt(ctx, "old", "admin", false, base.Add(-25*time.Hour))

	limiter.now = func() time.Time { return base }
	limiter.Record(ctx, "alice", "admin", false)

	for _, a := range repo.attempts {
		if a.identifier == "old" {
			t.Fatalf("rows older than retention must be pruned on Record")
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAttemptRepo{failErr: errors.New("relation does not exist")}
	limiter := NewRateLimiter(repo)

	state := limiter.Check(ctx, "alice", "admin")
	if !state.Allowed {
		t.Fatalf("limiter must fail open when storage is unavailable")
	}
	// Record and Clear must not panic or propagate the error.
	limiter.Record(ctx, "alice", "admin", false)
	limiter.Clear(ctx, "alice", "admin")
}
