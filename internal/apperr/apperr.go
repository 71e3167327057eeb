// Package apperr defines the fixed error taxonomy returned by the API and
// the translation from internal failures into it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/retreat-portal/backend/internal/db"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeDatabase           Code = "DATABASE_ERROR"
	CodeExternalService    Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[Code]int{
	CodeValidation:         http.StatusBadRequest,
	CodeBadRequest:         http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeInternal:           http.StatusInternalServerError,
	CodeDatabase:           http.StatusInternalServerError,
	CodeExternalService:    http.StatusBadGateway,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Code      Code
	Status    int
	Message   string
	Details   map[string]any
	RequestID string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseDetails returns the details map for serialization, with requestId
// folded in when known.
func (e *AppError) ResponseDetails() map[string]any {
	details := map[string]any{}
	for k, v := range e.Details {
		details[k] = v
	}
	if e.RequestID != "" {
		details["requestId"] = e.RequestID
	}
	return details
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Status: code.Status(), Message: message}
}

func Validation(fields map[string]string) *AppError {
	e := New(CodeValidation, "validation failed")
	e.Details = map[string]any{"fields": fields}
	return e
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// Unauthorized is deliberately generic: it never reveals whether the
// credential exists or is merely wrong.
func Unauthorized() *AppError {
	return New(CodeUnauthorized, "unauthorized")
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func NotFound(what string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", what))
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func RateLimited(resetAt time.Time) *AppError {
	e := New(CodeRateLimited, "too many failed attempts, try again later")
	if !resetAt.IsZero() {
		e.Details = map[string]any{"retryAt": resetAt.UTC().Format(time.RFC3339)}
	}
	return e
}

// Handle translates an arbitrary error into an AppError with requestID
// attached. Typed AppErrors and storage ConstraintViolations are mapped
// directly; a substring fallback covers integrity errors from sources that
// did not come through the typed storage layer; anything else becomes an
// opaque INTERNAL_ERROR.
func Handle(err error, requestID string) *AppError {
	var app *AppError
	if errors.As(err, &app) {
		if app.RequestID == "" {
			app.RequestID = requestID
		}
		return app
	}

	var cv *db.ConstraintViolation
	if errors.As(err, &cv) {
		app = constraintError(cv.Kind, cv.Constraint)
		app.RequestID = requestID
		return app
	}

	if db.IsNoRows(err) {
		app = NotFound("resource")
		app.RequestID = requestID
		return app
	}

	if app = classifyMessage(err.Error()); app != nil {
		app.RequestID = requestID
		return app
	}

	app = New(CodeInternal, "internal server error")
	app.RequestID = requestID
	return app
}

func constraintError(kind db.ConstraintKind, constraint string) *AppError {
	switch kind {
	case db.ConstraintUnique:
		e := Conflict("resource already exists")
		e.Details = map[string]any{"constraint": constraint}
		return e
	case db.ConstraintForeignKey:
		e := BadRequest("referenced resource does not exist")
		e.Details = map[string]any{"constraint": constraint}
		return e
	case db.ConstraintNotNull:
		e := BadRequest("missing required value")
		e.Details = map[string]any{"column": constraint}
		return e
	default:
		return New(CodeDatabase, "database error")
	}
}

// classifyMessage is the legacy substring fallback. Brittle on purpose and
// only consulted for errors that bypassed the typed storage layer.
func classifyMessage(msg string) *AppError {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key"):
		return Conflict("resource already exists")
	case strings.Contains(lower, "foreign key constraint") || strings.Contains(lower, "violates foreign key"):
		return BadRequest("referenced resource does not exist")
	case strings.Contains(lower, "not null constraint") || strings.Contains(lower, "null value in column"):
		return BadRequest("missing required value")
	default:
		return nil
	}
}
