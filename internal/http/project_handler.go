package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/propline/crm-service/internal/http/middleware"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/service"
)

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Location    string  `json:"location"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	TotalUnits  int     `json:"total_units"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	TotalUnits  *int    `json:"total_units"`
}

func (h *Handler) listProjects(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var status *string
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status = &raw
	}

	page, err := h.projects.List(c.Request.Context(), principal, status, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	projects := page.Projects
	if projects == nil {
		projects = []model.Project{}
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    page.Total,
		"page":     page.Page,
		"limit":    page.Limit,
	})
}

func (h *Handler) getProject(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) createProject(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), principal, service.CreateProjectInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Status:      req.Status,
		TotalUnits:  req.TotalUnits,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) updateProject(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Update(c.Request.Context(), principal, id, service.UpdateProjectInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Status:      req.Status,
		TotalUnits:  req.TotalUnits,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) deleteProject(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
