package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinshelf/spinshelf-backend/internal/observability"
)

func Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MetricsEndpoint serves the Prometheus exposition when metrics are enabled.
func MetricsEndpoint(c *gin.Context) {
	c.Header("Content-Type", "text/plain; version=0.0.4")
	_ = observability.Current().WritePrometheus(c.Writer)
}
