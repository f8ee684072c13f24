package shared

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/middleware"
)

// WriteError renders the standard error envelope.
func WriteError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// BindJSON parses the request body as JSON, rejecting an empty body.
func BindJSON(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}

// BindJSONAllowEmpty parses the raw body as JSON regardless of the
// declared content type, leaving out untouched when the body is empty.
func BindJSONAllowEmpty(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if c.Request == nil || c.Request.Body == nil {
		return true
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	if strings.TrimSpace(string(raw)) == "" {
		return true
	}
	if err := json.Unmarshal(raw, out); err != nil {
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}
