package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propline/crm-service/internal/http/middleware"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
	"github.com/propline/crm-service/internal/service"
)

type createLeadRequest struct {
	ProjectID          *uuid.UUID `json:"project_id"`
	UnitID             *uuid.UUID `json:"unit_id"`
	FirstName          string     `json:"first_name" binding:"required"`
	LastName           string     `json:"last_name" binding:"required"`
	Email              *string    `json:"email"`
	Phone              string     `json:"phone" binding:"required"`
	Source             string     `json:"source"`
	BudgetMin          *float64   `json:"budget_min"`
	BudgetMax          *float64   `json:"budget_max"`
	PreferredUnitTypes []string   `json:"preferred_unit_types"`
	PreferredLocation  *string    `json:"preferred_location"`
	Requirements       *string    `json:"requirements"`
	Notes              *string    `json:"notes"`
	AssignedTo         *uuid.UUID `json:"assigned_to"`
	NextFollowup       *time.Time `json:"next_followup"`
	Score              *int       `json:"score"`
}

type updateLeadRequest struct {
	ProjectID          *uuid.UUID `json:"project_id"`
	UnitID             *uuid.UUID `json:"unit_id"`
	FirstName          *string    `json:"first_name"`
	LastName           *string    `json:"last_name"`
	Email              *string    `json:"email"`
	Phone              *string    `json:"phone"`
	Source             *string    `json:"source"`
	Status             *string    `json:"status"`
	Stage              *string    `json:"stage"`
	BudgetMin          *float64   `json:"budget_min"`
	BudgetMax          *float64   `json:"budget_max"`
	PreferredUnitTypes []string   `json:"preferred_unit_types"`
	PreferredLocation  *string    `json:"preferred_location"`
	Requirements       *string    `json:"requirements"`
	Notes              *string    `json:"notes"`
	AssignedTo         *uuid.UUID `json:"assigned_to"`
	NextFollowup       *time.Time `json:"next_followup"`
	LastContacted      *time.Time `json:"last_contacted"`
	Score              *int       `json:"score"`
}

func (h *Handler) getProfile(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	employee, err := h.profile.Get(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"employee":  employee,
		"base_path": rbac.BasePath(employee.Role),
	})
}

func (h *Handler) navigation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":      principal.Role,
		"base_path": rbac.BasePath(principal.Role),
	})
}

// leadFilterFromQuery builds the list filter from query parameters. Unknown
// status/stage values and malformed dates are rejected up front.
func leadFilterFromQuery(c *gin.Context) (model.LeadFilter, bool) {
	var filter model.LeadFilter

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := model.LeadStatus(raw)
		if !model.ValidLeadStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return filter, false
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("stage")); raw != "" {
		stage := model.LeadStage(raw)
		if !model.ValidLeadStage(stage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage"})
			return filter, false
		}
		filter.Stage = &stage
	}
	if raw := strings.TrimSpace(c.Query("project_id")); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return filter, false
		}
		filter.ProjectID = &projectID
	}
	if raw := strings.TrimSpace(c.Query("assigned_to")); raw != "" {
		assignedTo, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_to"})
			return filter, false
		}
		filter.AssignedTo = &assignedTo
	}
	if raw := c.Query("date_from"); strings.TrimSpace(raw) != "" {
		from, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
			return filter, false
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); strings.TrimSpace(raw) != "" {
		to, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
			return filter, false
		}
		filter.DateTo = &to
	}
	filter.Search = strings.TrimSpace(c.Query("search"))

	return filter, true
}

func (h *Handler) listLeads(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	filter, ok := leadFilterFromQuery(c)
	if !ok {
		return
	}

	page, err := h.leads.List(c.Request.Context(), principal, filter, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	leads := page.Leads
	if leads == nil {
		leads = []model.Lead{}
	}
	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"total": page.Total,
		"page":  page.Page,
		"limit": page.Limit,
	})
}

func (h *Handler) leadStats(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	stats, err := h.leads.Stats(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) createLead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), principal, service.CreateLeadInput{
		ProjectID:          req.ProjectID,
		UnitID:             req.UnitID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		Source:             req.Source,
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredUnitTypes: req.PreferredUnitTypes,
		PreferredLocation:  req.PreferredLocation,
		Requirements:       req.Requirements,
		Notes:              req.Notes,
		AssignedTo:         req.AssignedTo,
		NextFollowup:       req.NextFollowup,
		Score:              req.Score,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *Handler) getLead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lead, err := h.leads.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) updateLead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateLeadInput{
		ProjectID:          req.ProjectID,
		UnitID:             req.UnitID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		Source:             req.Source,
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredUnitTypes: req.PreferredUnitTypes,
		PreferredLocation:  req.PreferredLocation,
		Requirements:       req.Requirements,
		Notes:              req.Notes,
		AssignedTo:         req.AssignedTo,
		NextFollowup:       req.NextFollowup,
		LastContacted:      req.LastContacted,
		Score:              req.Score,
	}
	if req.Status != nil {
		status := model.LeadStatus(*req.Status)
		input.Status = &status
	}
	if req.Stage != nil {
		stage := model.LeadStage(*req.Stage)
		input.Stage = &stage
	}

	lead, err := h.leads.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) deleteLead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.leads.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportLeads(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	filter, ok := leadFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.leads.Export(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) leadSheet(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.leads.Sheet(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
