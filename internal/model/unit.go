package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "available"
	UnitStatusReserved  UnitStatus = "reserved"
	UnitStatusSold      UnitStatus = "sold"
	UnitStatusBlocked   UnitStatus = "blocked"
)

type Unit struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	UnitNumber     string     `json:"unit_number"`
	UnitType       string     `json:"unit_type"`
	Floor          *int       `json:"floor,omitempty"`
	Bedrooms       *int       `json:"bedrooms,omitempty"`
	Bathrooms      *int       `json:"bathrooms,omitempty"`
	AreaSqft       *float64   `json:"area_sqft,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	Status         UnitStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func ValidUnitStatus(s UnitStatus) bool {
	switch s {
	case UnitStatusAvailable, UnitStatusReserved, UnitStatusSold, UnitStatusBlocked:
		return true
	}
	return false
}

func ValidUnitType(t string) bool {
	for _, known := range UnitTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (u *Unit) Validate() error {
	if u.UnitNumber == "" {
		return fmt.Errorf("unit_number is required")
	}
	if !ValidUnitType(u.UnitType) {
		return fmt.Errorf("unknown unit_type %q", u.UnitType)
	}
	if !ValidUnitStatus(u.Status) {
		return fmt.Errorf("unknown status %q", u.Status)
	}
	return nil
}
