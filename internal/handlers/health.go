package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	workerStatus func() map[string]bool
}

// NewHealthHandler creates a health handler. workerStatus may be nil.
func NewHealthHandler(workerStatus func() map[string]bool) *HealthHandler {
	return &HealthHandler{
		workerStatus: workerStatus,
	}
}

// HealthCheck reports that the server is up, with the state of its workers
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	data := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.workerStatus != nil {
		data["workers"] = h.workerStatus()
	}

	c.JSON(http.StatusOK, data)
}
