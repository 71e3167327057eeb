package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/config"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	admins map[string]*model.Admin
}

func (f *fakeAdminRepo) CreateAdmin(ctx context.Context, username, passwordHash, role string) (*model.Admin, error) {
	a := &model.Admin{ID: int64(len(f.admins) + 1), Username: username, PasswordHash: passwordHash, Role: role}
	f.admins[username] = a
	return a, nil
}

func (f *fakeAdminRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	if a, ok := f.admins[username]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeAttendeeCredRepo struct {
	attendees map[string]*model.Attendee
}

func (f *fakeAttendeeCredRepo) GetAttendeeByRef(ctx context.Context, refNumber string) (*model.Attendee, error) {
	if a, ok := f.attendees[refNumber]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeAdminRepo, *fakeAttendeeCredRepo, *fakeAttemptRepo) {
	t.Helper()

	admins := &fakeAdminRepo{admins: map[string]*model.Admin{}}
	attendees := &fakeAttendeeCredRepo{attendees: map[string]*model.Attendee{}}
	attempts := &fakeAttemptRepo{}

	svc := NewAuthService(
		admins,
		attendees,
		NewRateLimiter(attempts),
		NewSessionService(newFakeSessionRepo()),
		config.AuthConfig{AdminSecret: "admin-secret", AttendeeSecret: "attendee-secret"},
	)
	return svc, admins, attendees, attempts
}

func seedAdmin(t *testing.T, admins *fakeAdminRepo, username, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	_, err = admins.CreateAdmin(context.Background(), username, hash, RoleAdmin)
	require.NoError(t, err)
}

func TestLoginAdminSuccess(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newTestAuthService(t)
	seedAdmin(t, admins, "alice", "s3cretpass")

	res, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "alice", res.Admin.Username)

	claims, err := svc.VerifyToken(res.Token, auth.PrincipalAdmin)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.User)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginAdminWrongPasswordIsGeneric(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newTestAuthService(t)
	seedAdmin(t, admins, "alice", "s3cretpass")

	_, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "wrong"})
	wrongPw := apperr.Handle(err, "")

	_, err = svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "nobody", Password: "wrong"})
	noUser := apperr.Handle(err, "")

	// Credential-not-found and wrong-password must be indistinguishable.
	assert.Equal(t, apperr.CodeUnauthorized, wrongPw.Code)
	assert.Equal(t, apperr.CodeUnauthorized, noUser.Code)
	assert.Equal(t, wrongPw.Message, noUser.Message)
}

func TestLoginAdminRateLimited(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newTestAuthService(t)
	seedAdmin(t, admins, "alice", "s3cretpass")

	for i := 0; i < 5; i++ {
		_, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "wrong"})
		require.Error(t, err)
	}

	// 6th attempt is blocked even with the right password.
	_, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "s3cretpass"})
	app := apperr.Handle(err, "")
	assert.Equal(t, apperr.CodeRateLimited, app.Code)
	assert.Equal(t, 429, app.Status)
}

func TestLoginAdminSuccessClearsFailures(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, attempts := newTestAuthService(t)
	seedAdmin(t, admins, "alice", "s3cretpass")

	for i := 0; i < 4; i++ {
		_, _ = svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "wrong"})
	}

	_, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)

	// Earlier failures are wiped; a fresh run of failures gets the full
	// allowance again.
	times, err := attempts.FailedAttemptTimes(ctx, "alice", auth.PrincipalAdmin, svc.now().Add(-rateLimitWindow))
	require.NoError(t, err)
	assert.Empty(t, times)
}

func TestLoginAttendeeSuccess(t *testing.T) {
	ctx := context.Background()
	svc, _, attendees, _ := newTestAuthService(t)

	hash, err := auth.HashPassword("retreat1")
	require.NoError(t, err)
	attendees.attendees["REF123"] = &model.Attendee{ID: 1, Name: "Bob", RefNumber: "REF123", PasswordHash: hash}

	res, err := svc.LoginAttendee(ctx, model.AttendeeLoginRequest{RefNumber: "REF123", Password: "retreat1"})
	require.NoError(t, err)
	assert.Equal(t, "REF123", res.Attendee.RefNumber)

	claims, err := svc.VerifyToken(res.Token, auth.PrincipalAttendee)
	require.NoError(t, err)
	assert.Equal(t, "REF123", claims.Ref)

	// Attendee token must not verify as an admin token.
	_, err = svc.VerifyToken(res.Token, auth.PrincipalAdmin)
	assert.Error(t, err)
}

func TestLoginAttendeeLegacyHash(t *testing.T) {
	ctx := context.Background()
	svc, _, attendees, _ := newTestAuthService(t)

	// $retreat$ hash of "oldpassword" with the fixed legacy salt.
	attendees.attendees["REF9"] = &model.Attendee{
		ID:           2,
		RefNumber:    "REF9",
		PasswordHash: "$retreat$" + legacyDigest("oldpassword"),
	}

	_, err := svc.LoginAttendee(ctx, model.AttendeeLoginRequest{RefNumber: "REF9", Password: "oldpassword"})
	require.NoError(t, err)
}

func TestEnsureAdminIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newTestAuthService(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "bootstrap-pass"))
	first := admins.admins["root"]
	require.NotNil(t, first)
	assert.Equal(t, RoleSuperadmin, first.Role)

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "different-pass"))
	assert.Same(t, first, admins.admins["root"], "existing admin must not be replaced")

	// Blank bootstrap config is a no-op, not an error.
	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
}

func TestVerifyAnyToken(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newTestAuthService(t)
	seedAdmin(t, admins, "alice", "s3cretpass")

	res, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)

	claims, err := svc.VerifyAnyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.PrincipalAdmin, claims.Type)

	_, err = svc.VerifyAnyToken("garbage")
	assert.Error(t, err)
}

func TestLoginAdminStorageErrorPropagates(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestAuthService(t)

	brokenAdmins := &erroringAdminRepo{}
	svc.admins = brokenAdmins

	_, err := svc.LoginAdmin(ctx, model.AdminLoginRequest{Username: "alice", Password: "x"})
	app := apperr.Handle(err, "req")
	assert.Equal(t, apperr.CodeInternal, app.Code)
}

// legacyDigest reproduces the legacy single-round credential digest.
func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password + "retreat-portal-2024"))
	return hex.EncodeToString(sum[:])
}

type erroringAdminRepo struct{}

func (erroringAdminRepo) CreateAdmin(ctx context.Context, username, passwordHash, role string) (*model.Admin, error) {
	return nil, errors.New("connection refused")
}

func (erroringAdminRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return nil, errors.New("connection refused")
}
