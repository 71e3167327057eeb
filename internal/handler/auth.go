package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/service"
	"github.com/retreat-portal/backend/internal/validate"
)

var adminLoginSchema = validate.Schema{
	"username": {validate.Required, validate.MaxLen(64)},
	"password": {validate.Required, validate.MaxLen(128)},
}

var attendeeLoginSchema = validate.Schema{
	"refNumber": {validate.Required, validate.MaxLen(32)},
	"password":  {validate.Required, validate.MaxLen(128)},
}

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// AdminLogin godoc
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AdminLoginRequest true "Username and password"
// @Success 200 {object} model.AdminLoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if !bindValidated(c, adminLoginSchema, &req) {
		return
	}

	res, err := h.svc.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AttendeeLogin godoc
// @Summary Attendee login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AttendeeLoginRequest true "Reference number and password"
// @Success 200 {object} model.AttendeeLoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/auth/attendee/login [post]
func (h *AuthHandler) AttendeeLogin(c *gin.Context) {
	var req model.AttendeeLoginRequest
	if !bindValidated(c, attendeeLoginSchema, &req) {
		return
	}

	res, err := h.svc.LoginAttendee(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary Logout
// @Description Tokens are stateless; logout discards the advisory session row
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := strings.TrimSpace(c.GetHeader(sessionIDHeader))
	h.svc.Logout(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "logged_out"})
}

// Me godoc
// @Summary Current principal
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MeResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := GetClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	res := model.MeResponse{Type: claims.Type, ExpiresAt: claims.ExpiresAt}
	if claims.Type == auth.PrincipalAdmin {
		res.Username = claims.User
		res.Role = claims.Role
	} else {
		res.RefNumber = claims.Ref
	}
	c.JSON(http.StatusOK, res)
}
