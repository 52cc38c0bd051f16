package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propline/crm-service/internal/http/middleware"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/service"
)

type createOrganizationRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type updateOrganizationRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Status  *string `json:"status"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type createEmployeeRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

type updateEmployeeRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

func (h *Handler) listOrganizations(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var status *model.OrganizationStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := model.OrganizationStatus(raw)
		if !model.ValidOrganizationStatus(parsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status = &parsed
	}

	orgs, err := h.admin.ListOrganizations(c.Request.Context(), principal, status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if orgs == nil {
		orgs = []model.Organization{}
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

func (h *Handler) getOrganization(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	org, err := h.admin.GetOrganization(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *Handler) createOrganization(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.admin.CreateOrganization(c.Request.Context(), principal, service.CreateOrganizationInput{
		Name:    req.Name,
		Type:    model.OrganizationType(req.Type),
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (h *Handler) updateOrganization(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateOrganizationInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.Type != nil {
		orgType := model.OrganizationType(*req.Type)
		input.Type = &orgType
	}
	if req.Status != nil {
		status := model.OrganizationStatus(*req.Status)
		input.Status = &status
	}

	org, err := h.admin.UpdateOrganization(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *Handler) listEmployees(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	orgID, ok := parseID(c, "id")
	if !ok {
		return
	}

	employees, err := h.admin.ListEmployees(c.Request.Context(), principal, orgID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

func (h *Handler) createEmployee(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	orgID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	employee, err := h.admin.CreateEmployee(c.Request.Context(), principal, orgID, service.CreateEmployeeInput{
		UserID:   userID,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *Handler) updateEmployee(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	orgID, ok := parseID(c, "id")
	if !ok {
		return
	}
	employeeID, ok := parseID(c, "employeeID")
	if !ok {
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.admin.UpdateEmployee(c.Request.Context(), principal, orgID, employeeID, service.UpdateEmployeeInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}
