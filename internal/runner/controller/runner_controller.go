// Package controller exposes the runner service over HTTP.
package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cprun/internal/runner/service"
	appErr "cprun/pkg/errors"
	"cprun/pkg/utils/response"
)

// RunnerController handles run, cancellation and cleanup requests.
type RunnerController struct {
	svc *service.Service
}

// NewRunnerController creates a controller over the runner service.
func NewRunnerController(svc *service.Service) *RunnerController {
	return &RunnerController{svc: svc}
}

// Run executes one candidate program synchronously.
// POST /api/v1/runner/runs
func (rc *RunnerController) Run(c *gin.Context) {
	var req service.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErr.Wrap(err, appErr.InvalidParams))
		return
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	resp, err := rc.svc.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// KillAll cancels every live execution.
// POST /api/v1/runner/kill
func (rc *RunnerController) KillAll(c *gin.Context) {
	killed := rc.svc.KillAll(c.Request.Context())
	response.Success(c, gin.H{"killed": killed})
}

type deleteArtifactRequest struct {
	LanguageID   string `json:"language_id" binding:"required"`
	ArtifactPath string `json:"artifact_path" binding:"required"`
}

// DeleteArtifact removes a compiled artifact.
// DELETE /api/v1/runner/artifacts
func (rc *RunnerController) DeleteArtifact(c *gin.Context) {
	var req deleteArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErr.Wrap(err, appErr.InvalidParams))
		return
	}
	if err := rc.svc.DeleteArtifact(c.Request.Context(), req.LanguageID, req.ArtifactPath); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

type languageView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	SkipCompile bool   `json:"skip_compile"`
}

// Languages lists the configured language catalog.
// GET /api/v1/runner/languages
func (rc *RunnerController) Languages(c *gin.Context) {
	langs := rc.svc.Languages()
	views := make([]languageView, 0, len(langs))
	for _, lang := range langs {
		views = append(views, languageView{
			ID:          lang.ID,
			Name:        lang.Name,
			Kind:        lang.Kind,
			SkipCompile: lang.SkipCompile,
		})
	}
	response.Success(c, views)
}
