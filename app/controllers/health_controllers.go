package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bookshelf/pkg/ctx"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Show answers GET /health.
func (h *HealthController) Show(c *ctx.Context) {
	pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.db(pingCtx); err != nil {
		logger.WithCtx(c.Context()).Warn("health: database unreachable", "err", err)
		c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
