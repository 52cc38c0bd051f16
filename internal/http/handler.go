package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/propline/crm-service/internal/service"
)

type Handler struct {
	leads    *service.LeadService
	projects *service.ProjectService
	units    *service.UnitService
	admin    *service.AdminService
	profile  *service.ProfileService
	log      zerolog.Logger
}

func NewHandler(
	leads *service.LeadService,
	projects *service.ProjectService,
	units *service.UnitService,
	admin *service.AdminService,
	profile *service.ProfileService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		leads:    leads,
		projects: projects,
		units:    units,
		admin:    admin,
		profile:  profile,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/profile", h.getProfile)
	protected.GET("/profile/navigation", h.navigation)

	protected.GET("/leads", h.listLeads)
	protected.POST("/leads", h.createLead)
	protected.GET("/leads/stats", h.leadStats)
	protected.GET("/leads/export", h.exportLeads)
	protected.GET("/leads/:id", h.getLead)
	protected.PATCH("/leads/:id", h.updateLead)
	protected.DELETE("/leads/:id", h.deleteLead)
	protected.GET("/leads/:id/sheet", h.leadSheet)

	protected.GET("/projects", h.listProjects)
	protected.POST("/projects", h.createProject)
	protected.GET("/projects/:id", h.getProject)
	protected.PATCH("/projects/:id", h.updateProject)
	protected.DELETE("/projects/:id", h.deleteProject)

	protected.GET("/projects/:id/units", h.listUnits)
	protected.POST("/projects/:id/units", h.createUnit)
	protected.GET("/units/:id", h.getUnit)
	protected.PATCH("/units/:id", h.updateUnit)
	protected.DELETE("/units/:id", h.deleteUnit)

	admin := protected.Group("/admin")
	admin.GET("/organizations", h.listOrganizations)
	admin.POST("/organizations", h.createOrganization)
	admin.GET("/organizations/:id", h.getOrganization)
	admin.PATCH("/organizations/:id", h.updateOrganization)
	admin.GET("/organizations/:id/employees", h.listEmployees)
	admin.POST("/organizations/:id/employees", h.createEmployee)
	admin.PATCH("/organizations/:id/employees/:employeeID", h.updateEmployee)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
