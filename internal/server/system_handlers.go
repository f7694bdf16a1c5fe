package server

import (
	"context"
	"net/http"

	"featuresgym/internal/api"
	"featuresgym/internal/db"
	"featuresgym/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse reports the dependencies the ledger cannot work without.
type HealthResponse struct {
	Status            string `json:"status" example:"ok"`
	Database          string `json:"database" example:"ok"`
	NotificationQueue int64  `json:"notification_queue" example:"0"`
}

type queueLengther interface {
	QueueLength(ctx context.Context) int64
}

// @Summary      Health check
// @Description  Pings the database and reports the pending notification backlog.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func Health(database db.Pinger, queue queueLengther) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{Status: "ok", Database: "ok"}
		if queue != nil {
			resp.NotificationQueue = queue.QueueLength(c.Request.Context())
		}

		if err := db.Healthy(c.Request.Context(), database); err != nil {
			logger.Error("Health check failed", "error", err)
			resp.Status, resp.Database = "degraded", "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /livez [get]
func Live(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
