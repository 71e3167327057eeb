package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/service"
)

// PortalHandler serves the attendee-facing read endpoints.
type PortalHandler struct {
	attendees     *service.AttendeeService
	announcements *service.AnnouncementService
}

func NewPortalHandler(attendees *service.AttendeeService, announcements *service.AnnouncementService) *PortalHandler {
	return &PortalHandler{attendees: attendees, announcements: announcements}
}

// Profile godoc
// @Summary Attendee self-view
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AttendeeProfile
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/portal/me [get]
func (h *PortalHandler) Profile(c *gin.Context) {
	claims := GetClaims(c)
	if claims == nil {
		abortUnauthorized(c)
		return
	}

	profile, err := h.attendees.Profile(c.Request.Context(), claims.Ref)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Announcements godoc
// @Summary Published announcements
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {object} model.PaginatedResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/portal/announcements [get]
func (h *PortalHandler) Announcements(c *gin.Context) {
	limit, offset := parsePagination(c)

	list, total, err := h.announcements.List(c.Request.Context(), true, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPaginatedResponse(list, total, limit, offset))
}
