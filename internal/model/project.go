package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Description    *string   `json:"description,omitempty"`
	Status         string    `json:"status"`
	TotalUnits     int       `json:"total_units"`
	LeadsCount     int64     `json:"leads_count"`
	CreatedBy      uuid.UUID `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
