package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/propline/crm-service/internal/http/middleware"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/service"
)

type createUnitRequest struct {
	UnitNumber string   `json:"unit_number" binding:"required"`
	UnitType   string   `json:"unit_type" binding:"required"`
	Floor      *int     `json:"floor"`
	Bedrooms   *int     `json:"bedrooms"`
	Bathrooms  *int     `json:"bathrooms"`
	AreaSqft   *float64 `json:"area_sqft"`
	Price      *float64 `json:"price"`
	Status     string   `json:"status"`
}

type updateUnitRequest struct {
	UnitNumber *string  `json:"unit_number"`
	UnitType   *string  `json:"unit_type"`
	Floor      *int     `json:"floor"`
	Bedrooms   *int     `json:"bedrooms"`
	Bathrooms  *int     `json:"bathrooms"`
	AreaSqft   *float64 `json:"area_sqft"`
	Price      *float64 `json:"price"`
	Status     *string  `json:"status"`
}

func (h *Handler) listUnits(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var status *model.UnitStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := model.UnitStatus(raw)
		if !model.ValidUnitStatus(parsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status = &parsed
	}
	var unitType *string
	if raw := strings.TrimSpace(c.Query("unit_type")); raw != "" {
		unitType = &raw
	}

	units, err := h.units.ListByProject(c.Request.Context(), principal, projectID, status, unitType)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

func (h *Handler) getUnit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	unit, err := h.units.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *Handler) createUnit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit, err := h.units.Create(c.Request.Context(), principal, projectID, service.CreateUnitInput{
		UnitNumber: req.UnitNumber,
		UnitType:   req.UnitType,
		Floor:      req.Floor,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		AreaSqft:   req.AreaSqft,
		Price:      req.Price,
		Status:     model.UnitStatus(req.Status),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *Handler) updateUnit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateUnitInput{
		UnitNumber: req.UnitNumber,
		UnitType:   req.UnitType,
		Floor:      req.Floor,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		AreaSqft:   req.AreaSqft,
		Price:      req.Price,
	}
	if req.Status != nil {
		status := model.UnitStatus(*req.Status)
		input.Status = &status
	}

	unit, err := h.units.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *Handler) deleteUnit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.units.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
