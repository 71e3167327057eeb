package handler

import (
	"encoding/json"
	"io"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/model"
	"github.com/retreat-portal/backend/internal/validate"
)

// writeError translates any error through the taxonomy and serializes the
// standard error body. Server-side failures are logged with the request id;
// the client only ever sees the opaque message.
func writeError(c *gin.Context, err error) {
	app := apperr.Handle(err, RequestIDFrom(c))
	if app.Status >= 500 {
		log.Printf("[%s] %s %s: %v", app.RequestID, c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(app.Status, model.ErrorResponse{
		Error:   app.Message,
		Code:    string(app.Code),
		Details: app.ResponseDetails(),
	})
}

// bindValidated decodes the request body, runs it through the schema, and on
// success re-decodes into the typed request. Validation happens before any
// typed decoding so field-level messages win over JSON type errors.
func bindValidated(c *gin.Context, schema validate.Schema, out any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, apperr.BadRequest("invalid request body"))
		return false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(c, apperr.BadRequest("request body must be a JSON object"))
		return false
	}

	if res := validate.Apply(schema, raw); !res.Valid {
		writeError(c, apperr.Validation(res.Errors))
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		writeError(c, apperr.BadRequest("invalid request body"))
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, apperr.BadRequest("invalid id"))
		return 0, false
	}
	return id, true
}
