package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db  *mongo.Database
	rdb *redis.Client // may be nil when idempotency is disabled
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Liveness reports that the process is alive.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness reports whether the dependencies are reachable.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{"mongo": "ok"}
	healthy := true

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		deps["mongo"] = err.Error()
		healthy = false
	}
	if h.rdb != nil {
		deps["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = err.Error()
			healthy = false
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, deps)
}
