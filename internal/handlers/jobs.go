package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/repositories"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/gin-gonic/gin"
)

// JobStore queues analyses and reads their state
type JobStore interface {
	CreateJob(login string, mode models.AnalysisMode, account models.AccountKind, skipped []string) (*models.Job, error)
	GetJob(id string) (*models.Job, error)
}

type JobsHandler struct {
	jobs JobStore
}

func NewJobsHandler(jobs JobStore) *JobsHandler {
	return &JobsHandler{
		jobs: jobs,
	}
}

type createAnalysisRequest struct {
	Mode    string   `json:"mode" binding:"required"`
	Account string   `json:"account"`
	Skipped []string `json:"skipped"`
}

// CreateAnalysis queues an analysis of the login for the workers
func (h *JobsHandler) CreateAnalysis(c *gin.Context) {
	login := strings.TrimSpace(c.Param("login"))

	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := models.ParseAnalysisMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := models.ParseAccountKind(req.Account)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.CreateJob(login, mode, account, req.Skipped)
	if err != nil {
		logger.ForLogin(login).WithError(err).Error("failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}

	c.Header("Location", "/jobs/"+job.ID)
	c.JSON(http.StatusAccepted, job)
}

// GetJob returns the state of a queued analysis
func (h *JobsHandler) GetJob(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}

	c.JSON(http.StatusOK, job)
}
