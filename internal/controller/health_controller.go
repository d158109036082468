package controller

import (
	"context"
	"net/http"
	"sahayak_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the store backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store   Pinger
	Backend string
}

func NewHealthController(store Pinger, backend string) *HealthController {
	return &HealthController{Store: store, Backend: backend}
}

// @Summary Health check
// @Description Reports service and store status
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store": c.Backend,
		},
	})
}
