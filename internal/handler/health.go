package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/model"
)

type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Healthz reports SERVICE_UNAVAILABLE when the database is unreachable.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if err := h.pool.Ping(c.Request.Context()); err != nil {
		writeError(c, apperr.New(apperr.CodeServiceUnavailable, "database unreachable"))
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}
