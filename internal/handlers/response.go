package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// Codes whose message is written by us and safe to show on a 5xx. Everything
// else 5xx gets a generic body so upstream internals never reach clients.
var clientSafe5xx = map[string]bool{
	"incomplete_setup_guide": true,
	"empty_playlist":         true,
}

// RespondError maps err to the failure body {"error": string}. 4xx messages
// pass through; 5xx/502 bodies are generic unless the code is allowlisted.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		log.Error("unclassified handler error", "err", err.Error(), "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
		return
	}

	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := ae.Error()
	if status >= 500 && !clientSafe5xx[ae.Code] {
		log.Error("request failed", "code", ae.Code, "status", status, "err", msg, "path", c.FullPath())
		switch status {
		case http.StatusBadGateway:
			msg = "an upstream service is unavailable, please try again"
		default:
			msg = "something went wrong, please try again"
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
