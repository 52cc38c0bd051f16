package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
)

type UnitStore interface {
	ListByProject(ctx context.Context, orgID, projectID uuid.UUID, status *model.UnitStatus, unitType *string) ([]model.Unit, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Unit, error)
	Create(ctx context.Context, unit model.Unit) (*model.Unit, error)
	Update(ctx context.Context, unit model.Unit) (*model.Unit, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type ProjectGetter interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Project, error)
}

type UnitService struct {
	units    UnitStore
	projects ProjectGetter
}

func NewUnitService(units UnitStore, projects ProjectGetter) *UnitService {
	return &UnitService{units: units, projects: projects}
}

type CreateUnitInput struct {
	UnitNumber string
	UnitType   string
	Floor      *int
	Bedrooms   *int
	Bathrooms  *int
	AreaSqft   *float64
	Price      *float64
	Status     model.UnitStatus
}

type UpdateUnitInput struct {
	UnitNumber *string
	UnitType   *string
	Floor      *int
	Bedrooms   *int
	Bathrooms  *int
	AreaSqft   *float64
	Price      *float64
	Status     *model.UnitStatus
}

func (s *UnitService) ListByProject(
	ctx context.Context,
	principal model.Principal,
	projectID uuid.UUID,
	status *model.UnitStatus,
	unitType *string,
) ([]model.Unit, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	// Confirms the project belongs to the caller's organization before
	// listing anything under it.
	if _, err := s.projects.GetByID(ctx, principal.OrgID, projectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.units.ListByProject(ctx, principal.OrgID, projectID, status, unitType)
}

func (s *UnitService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Unit, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	unit, err := s.units.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return unit, nil
}

func (s *UnitService) Create(ctx context.Context, principal model.Principal, projectID uuid.UUID, input CreateUnitInput) (*model.Unit, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanManageUnits(principal.Role) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.projects.GetByID(ctx, principal.OrgID, projectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.UnitStatusAvailable
	}

	unit := model.Unit{
		ProjectID:      projectID,
		OrganizationID: principal.OrgID,
		UnitNumber:     input.UnitNumber,
		UnitType:       input.UnitType,
		Floor:          input.Floor,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		AreaSqft:       input.AreaSqft,
		Price:          input.Price,
		Status:         status,
	}
	if err := unit.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.units.Create(ctx, unit)
}

func (s *UnitService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateUnitInput) (*model.Unit, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanManageUnits(principal.Role) {
		return nil, ErrPermissionDenied
	}

	unit, err := s.units.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.UnitNumber != nil {
		unit.UnitNumber = *input.UnitNumber
	}
	if input.UnitType != nil {
		unit.UnitType = *input.UnitType
	}
	if input.Floor != nil {
		unit.Floor = input.Floor
	}
	if input.Bedrooms != nil {
		unit.Bedrooms = input.Bedrooms
	}
	if input.Bathrooms != nil {
		unit.Bathrooms = input.Bathrooms
	}
	if input.AreaSqft != nil {
		unit.AreaSqft = input.AreaSqft
	}
	if input.Price != nil {
		unit.Price = input.Price
	}
	if input.Status != nil {
		unit.Status = *input.Status
	}

	if err := unit.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.units.Update(ctx, *unit)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *UnitService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if !rbac.CanManageUnits(principal.Role) {
		return ErrPermissionDenied
	}

	if err := s.units.Delete(ctx, principal.OrgID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
