package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/config"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, nil, config.AuthConfig{
		AdminSecret:    "admin-secret",
		AttendeeSecret: "attendee-secret",
	})
}

func testRouter(authSvc *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), CORS())

	admin := router.Group("/api/v1")
	admin.Use(Auth(authSvc, auth.PrincipalAdmin))
	admin.GET("/secure", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
	})
	return router
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.Sign(auth.NewAdminClaims("alice", "admin", time.Now()), []byte("admin-secret"))
	require.NoError(t, err)
	return tok
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	router := testRouter(testAuthService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/secure", nil))

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "OPTIONS")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(testAuthService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/secure", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, w.Body.String())
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	router := testRouter(testAuthService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/secure", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/secure", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-id-1", w.Header().Get("X-Request-ID"))
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := testRouter(testAuthService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/secure", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.NotEmpty(t, body.Details["requestId"])
}

func TestAuthMiddlewareAcceptsAdminToken(t *testing.T) {
	router := testRouter(testAuthService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/secure", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsAttendeeTokenOnAdminRoute(t *testing.T) {
	router := testRouter(testAuthService())

	tok, err := auth.Sign(auth.NewAttendeeClaims("REF1", time.Now()), []byte("attendee-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/secure", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSharedRouteAcceptsEachListedType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), CORS())

	shared := router.Group("/api/v1/auth")
	shared.Use(Auth(testAuthService(), auth.PrincipalAdmin, auth.PrincipalAttendee))
	shared.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"type": GetClaims(c).Type})
	})

	attendeeTok, err := auth.Sign(auth.NewAttendeeClaims("REF1", time.Now()), []byte("attendee-secret"))
	require.NoError(t, err)

	cases := []struct {
		name     string
		token    string
		status   int
		wantType string
	}{
		{"admin token", adminToken(t), http.StatusOK, "admin"},
		{"attendee token", attendeeTok, http.StatusOK, "attendee"},
		{"garbage token", "garbage", http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/v1/auth/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.wantType != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tc.wantType, body["type"])
			}
		})
	}
}

func TestCreateAttendeeValidationErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), CORS())

	// Validation fires before the service is touched, so a zero-value
	// service is fine here.
	h := NewAttendeeHandler(service.NewAttendeeService(nil, nil, nil))
	router.POST("/api/v1/attendees", h.Create)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/attendees",
		strings.NewReader(`{"name":"","ref_number":"REF1","password":"abcdef"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	fields, ok := body.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "name is required", fields["name"])
}
