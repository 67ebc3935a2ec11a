package handlers

import (
	"context"
	"net/http"
	"time"

	"taskflow/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DBPinger is the slice of the connection pool health checks need.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service, database and cache health.
type HealthHandler struct {
	cfg config.Config
	db  DBPinger
	rdb *redis.Client
}

// NewHealthHandler returns a new HealthHandler. rdb may be nil when Redis
// is not configured.
func NewHealthHandler(cfg config.Config, db DBPinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db, rdb: rdb}
}

const healthCheckTimeout = 2 * time.Second

// Health returns the full report: overall status plus one entry per
// dependency. The response is always 200; probes that need a status code
// gate should use /health/ready.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "healthy"
	checks := gin.H{}

	if err := h.db.Ping(ctx); err != nil {
		status = "unhealthy"
		checks["database"] = gin.H{"status": "unhealthy", "message": "Database connection failed: " + err.Error()}
	} else {
		checks["database"] = gin.H{"status": "healthy", "message": "Database connection successful"}
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			status = "unhealthy"
			checks["redis"] = gin.H{"status": "unhealthy", "message": "Redis connection failed: " + err.Error()}
		} else {
			checks["redis"] = gin.H{"status": "healthy", "message": "Redis connection successful"}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"environment": h.cfg.App.Env,
		"version":     h.cfg.App.Version,
		"checks":      checks,
	})
}

// Ready gates on database connectivity: 200 when the service can accept
// traffic, 503 otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable,
			gin.H{"status": "not_ready", "message": "Service is not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "message": "Service is ready to accept traffic"})
}

// Live reports process liveness only.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "message": "Service is running"})
}
