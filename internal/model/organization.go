package model

import (
	"time"

	"github.com/google/uuid"
)

type OrganizationType string

const (
	OrgTypeDeveloper OrganizationType = "developer"
	OrgTypeAgent     OrganizationType = "agent"
)

type OrganizationStatus string

const (
	OrgStatusPending   OrganizationStatus = "pending"
	OrgStatusActive    OrganizationStatus = "active"
	OrgStatusSuspended OrganizationStatus = "suspended"
)

type Organization struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Type      OrganizationType   `json:"type"`
	Status    OrganizationStatus `json:"status"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func ValidOrganizationType(t OrganizationType) bool {
	return t == OrgTypeDeveloper || t == OrgTypeAgent
}

func ValidOrganizationStatus(s OrganizationStatus) bool {
	return s == OrgStatusPending || s == OrgStatusActive || s == OrgStatusSuspended
}
