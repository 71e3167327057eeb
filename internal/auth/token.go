package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// TokenTTL is the lifetime of an issued bearer token. Expiry is embedded in
// the token itself; there is no revocation list, logout is client-side
// discard.
const TokenTTL = 2 * time.Hour

const (
	PrincipalAdmin    = "admin"
	PrincipalAttendee = "attendee"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the JSON payload of a bearer token. Admin tokens carry User and
// Role, attendee tokens carry Ref.
type Claims struct {
	Type      string `json:"type"`
	User      string `json:"user,omitempty"`
	Role      string `json:"role,omitempty"`
	Ref       string `json:"ref,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func NewAdminClaims(user, role string, now time.Time) Claims {
	return Claims{
		Type:      PrincipalAdmin,
		User:      user,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(TokenTTL).Unix(),
	}
}

func NewAttendeeClaims(ref string, now time.Time) Claims {
	return Claims{
		Type:      PrincipalAttendee,
		Ref:       ref,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(TokenTTL).Unix(),
	}
}

// Sign serializes the claims and produces a token of the form
// base64url(payload-json).base64url(HMAC-SHA256(payload segment)),
// with no padding.
func Sign(claims Claims, secret []byte) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	segment := base64.RawURLEncoding.EncodeToString(payload)
	return segment + "." + signSegment(segment, secret), nil
}

// Verify validates a token against the given secret and principal type.
// The signature is checked in constant time before the payload is decoded,
// the embedded type must match wantType, and exp is re-checked against now
// on every call. All failures map to ErrTokenInvalid or ErrTokenExpired.
func Verify(token, wantType string, secret []byte, now time.Time) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrTokenInvalid
	}

	want := signSegment(parts[0], secret)
	if !hmac.Equal([]byte(parts[1]), []byte(want)) {
		return nil, ErrTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrTokenInvalid
	}

	if claims.Type != wantType {
		return nil, ErrTokenInvalid
	}
	if now.Unix() >= claims.ExpiresAt {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}

func signSegment(segment string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(segment))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
