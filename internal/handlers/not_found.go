package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type NotFoundHandler struct{}

func NewNotFoundHandler() *NotFoundHandler {
	return &NotFoundHandler{}
}

// NotFound handles 404 errors for non-existent routes
func (h *NotFoundHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     "not found",
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
