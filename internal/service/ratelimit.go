package service

import (
	"context"
	"log"
	"time"
)

const (
	rateLimitWindow  = 15 * time.Minute
	rateLimitMax     = 5
	attemptRetention = 24 * time.Hour
)

type AttemptRepo interface {
	InsertLoginAttempt(ctx context.Context, identifier, userType string, success bool, at time.Time) error
	FailedAttemptTimes(ctx context.Context, identifier, userType string, since time.Time) ([]time.Time, error)
	DeleteFailedAttempts(ctx context.Context, identifier, userType string) error
	DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) error
}

type RateLimitState struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts failed login attempts per identifier inside a sliding
// window. It fails OPEN: when the attempt store is unavailable logins are
// allowed rather than locking everyone out.
type RateLimiter struct {
	repo AttemptRepo
	now  func() time.Time
}

func NewRateLimiter(repo AttemptRepo) *RateLimiter {
	return &RateLimiter{repo: repo, now: time.Now}
}

func (l *RateLimiter) Check(ctx context.Context, identifier, userType string) RateLimitState {
	now := l.now()
	times, err := l.repo.FailedAttemptTimes(ctx, identifier, userType, now.Add(-rateLimitWindow))
	if err != nil {
		log.Printf("rate limiter check failed, allowing login: %v", err)
		return RateLimitState{Allowed: true, Remaining: rateLimitMax}
	}

	failed := len(times)
	state := RateLimitState{
		Allowed:   failed < rateLimitMax,
		Remaining: rateLimitMax - failed,
	}
	if state.Remaining < 0 {
		state.Remaining = 0
	}
	if failed > 0 {
		state.ResetAt = times[0].Add(rateLimitWindow)
	}
	return state
}

// Record inserts one attempt row and prunes rows past the retention horizon
// as an inline housekeeping side effect; there is no background cleanup job.
func (l *RateLimiter) Record(ctx context.Context, identifier, userType string, success bool) {
	now := l.now()
	if err := l.repo.InsertLoginAttempt(ctx, identifier, userType, success, now); err != nil {
		log.Printf("failed to record login attempt: %v", err)
		return
	}
	if err := l.repo.DeleteAttemptsBefore(ctx, now.Add(-attemptRetention)); err != nil {
		log.Printf("failed to prune old login attempts: %v", err)
	}
}

// Clear removes the identifier's failed attempts so a legitimate user is not
// penalized after a successful login.
func (l *RateLimiter) Clear(ctx context.Context, identifier, userType string) {
	if err := l.repo.DeleteFailedAttempts(ctx, identifier, userType); err != nil {
		log.Printf("failed to clear login attempts: %v", err)
	}
}
