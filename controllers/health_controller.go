// File: /controllers/health_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"globe-travel-api/database"
	"globe-travel-api/logging"
)

type HealthController struct {
	store database.Store
}

func NewHealthController(store database.Store) *HealthController {
	return &HealthController{store: store}
}

// GET /api/health reports process liveness and store readiness.
func (hc *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ready"
	if err := hc.store.Ping(ctx); err != nil {
		logging.Warn().Err(err).Msg("Health check ping failed")
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	c.JSON(status, gin.H{
		"status":   "ok",
		"message":  "Server is running",
		"database": dbStatus,
		"backend":  string(hc.store.Backend()),
	})
}
