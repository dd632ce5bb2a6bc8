package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Endpoint paths.
const (
	PathHealth = "/health"
	PathReady  = "/ready"
	PathLive   = "/live"
)

// Register mounts the health, readiness and liveness endpoints on r.
func (c *Checker) Register(r gin.IRoutes) {
	r.GET(PathHealth, c.handleHealth)
	r.GET(PathReady, c.handleReady)
	r.GET(PathLive, c.handleLive)
}

func (c *Checker) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.Health())
}

func (c *Checker) handleReady(ctx *gin.Context) {
	response := c.Readiness()

	status := http.StatusOK
	if response.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, response)
}

func (c *Checker) handleLive(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
