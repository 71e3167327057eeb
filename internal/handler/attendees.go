package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/service"
)

type AttendeeHandler struct {
	svc *service.AttendeeService
}

func NewAttendeeHandler(svc *service.AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{svc: svc}
}

// List godoc
// @Summary List attendees
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Param room_id query int false "Filter by room"
// @Param group_id query int false "Filter by group"
// @Param q query string false "Name prefix filter"
// @Success 200 {object} model.PaginatedResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/attendees [get]
func (h *AttendeeHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)

	filter := model.AttendeeFilter{NamePrefix: strings.TrimSpace(c.Query("q"))}
	if raw := c.Query("room_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.RoomID = &id
		}
	}
	if raw := c.Query("group_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.GroupID = &id
		}
	}

	list, total, err := h.svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPaginatedResponse(list, total, limit, offset))
}

// Create godoc
// @Summary Create attendee
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.AttendeeCreateRequest true "Attendee"
// @Success 201 {object} model.Attendee
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/attendees [post]
func (h *AttendeeHandler) Create(c *gin.Context) {
	var req model.AttendeeCreateRequest
	if !bindValidated(c, service.AttendeeCreateSchema, &req) {
		return
	}

	attendee, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attendee)
}

// Get godoc
// @Summary Get attendee
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendee ID"
// @Success 200 {object} model.Attendee
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/attendees/{id} [get]
func (h *AttendeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	attendee, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}

// Update godoc
// @Summary Update attendee
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendee ID"
// @Param request body model.AttendeeUpdateRequest true "Attendee"
// @Success 200 {object} model.Attendee
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/attendees/{id} [put]
func (h *AttendeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.AttendeeUpdateRequest
	if !bindValidated(c, service.AttendeeUpdateSchema, &req) {
		return
	}

	attendee, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}

// CheckIn godoc
// @Summary Toggle attendee check-in
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendee ID"
// @Success 200 {object} model.Attendee
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/attendees/{id}/checkin [post]
func (h *AttendeeHandler) CheckIn(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	attendee, err := h.svc.ToggleCheckIn(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}

// Delete godoc
// @Summary Delete attendee
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendee ID"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/attendees/{id} [delete]
func (h *AttendeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}
