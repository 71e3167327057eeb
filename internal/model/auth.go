package model

import "time"

type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AttendeeLoginRequest struct {
	RefNumber string `json:"refNumber"`
	Password  string `json:"password"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	SessionID string    `json:"sessionId"`
	Admin     AdminInfo `json:"admin"`
}

type AttendeeLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	SessionID string    `json:"sessionId"`
	Attendee  *Attendee `json:"attendee"`
}

type AdminInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type MeResponse struct {
	Type      string `json:"type"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
	RefNumber string `json:"refNumber,omitempty"`
	ExpiresAt int64  `json:"expiresAt"`
}

// LoginAttempt is one rate-limiter row; success rows exist for audit but
// only failures count against the limit.
type LoginAttempt struct {
	ID          int64     `json:"id"`
	Identifier  string    `json:"identifier"`
	UserType    string    `json:"userType"`
	Success     bool      `json:"success"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// Session is an advisory record of one active login; conflicts are reported,
// never enforced.
type Session struct {
	SessionID    string    `json:"sessionId"`
	UserType     string    `json:"userType"`
	UserRef      string    `json:"userRef"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
}
