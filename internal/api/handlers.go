// Package api contains the HTTP handlers for the sales-pipeline API
package api

import (
	stderrors "errors"
	"strings"

	"github.com/Ocarreno01/aira-back/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Version is stamped at build time
var Version = "1.0.0"

// Health returns the liveness status
// GET /health
func Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "aira-back",
		"version": Version,
	})
}

// respondError maps an error to its JSON body and status code. Internal
// errors are logged with their original cause; the client only sees the
// generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var internal *errors.InternalError
	if stderrors.As(err, &internal) {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(internal.OriginalError),
		)
	}
	status, body := errors.ToHTTPError(err)
	c.JSON(status, body)
}

// currentUserID returns the authenticated user id set by RequireAuth.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// firstNonEmpty returns the first trimmed non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
