package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
)

type OrganizationStore interface {
	List(ctx context.Context, status *model.OrganizationStatus) ([]model.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	Create(ctx context.Context, org model.Organization) (*model.Organization, error)
	Update(ctx context.Context, org model.Organization) (*model.Organization, error)
}

type EmployeeStore interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Employee, error)
	Create(ctx context.Context, employee model.Employee) (*model.Employee, error)
	Update(ctx context.Context, employee model.Employee) (*model.Employee, error)
}

// AdminService backs the admin console: organization onboarding and employee
// management. Every operation is gated on the admin role.
type AdminService struct {
	orgs      OrganizationStore
	employees EmployeeStore
}

func NewAdminService(orgs OrganizationStore, employees EmployeeStore) *AdminService {
	return &AdminService{orgs: orgs, employees: employees}
}

type CreateOrganizationInput struct {
	Name    string
	Type    model.OrganizationType
	Email   string
	Phone   string
	Address string
}

type UpdateOrganizationInput struct {
	Name    *string
	Type    *model.OrganizationType
	Status  *model.OrganizationStatus
	Email   *string
	Phone   *string
	Address *string
}

type CreateEmployeeInput struct {
	UserID   uuid.UUID
	FullName string
	Email    string
	Phone    string
	Role     string
}

type UpdateEmployeeInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Role     *string
	Active   *bool
}

func requireAdmin(p model.Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if !rbac.CanAccessAdmin(p.Role) {
		return ErrPermissionDenied
	}
	return nil
}

func (s *AdminService) ListOrganizations(ctx context.Context, principal model.Principal, status *model.OrganizationStatus) ([]model.Organization, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.orgs.List(ctx, status)
}

func (s *AdminService) GetOrganization(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Organization, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *AdminService) CreateOrganization(ctx context.Context, principal model.Principal, input CreateOrganizationInput) (*model.Organization, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !model.ValidOrganizationType(input.Type) {
		return nil, fmt.Errorf("%w: unknown organization type %q", ErrInvalidInput, input.Type)
	}

	return s.orgs.Create(ctx, model.Organization{
		Name:    name,
		Type:    input.Type,
		Status:  model.OrgStatusPending,
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Address: strings.TrimSpace(input.Address),
	})
}

func (s *AdminService) UpdateOrganization(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateOrganizationInput) (*model.Organization, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		org.Name = name
	}
	if input.Type != nil {
		if !model.ValidOrganizationType(*input.Type) {
			return nil, fmt.Errorf("%w: unknown organization type %q", ErrInvalidInput, *input.Type)
		}
		org.Type = *input.Type
	}
	if input.Status != nil {
		if !model.ValidOrganizationStatus(*input.Status) {
			return nil, fmt.Errorf("%w: unknown organization status %q", ErrInvalidInput, *input.Status)
		}
		org.Status = *input.Status
	}
	if input.Email != nil {
		org.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		org.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		org.Address = strings.TrimSpace(*input.Address)
	}

	saved, err := s.orgs.Update(ctx, *org)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *AdminService) ListEmployees(ctx context.Context, principal model.Principal, orgID uuid.UUID) ([]model.Employee, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if !rbac.CanManageUsers(principal.Role) {
		return nil, ErrPermissionDenied
	}
	return s.employees.ListByOrganization(ctx, orgID)
}

func (s *AdminService) CreateEmployee(ctx context.Context, principal model.Principal, orgID uuid.UUID, input CreateEmployeeInput) (*model.Employee, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if !rbac.CanManageUsers(principal.Role) {
		return nil, ErrPermissionDenied
	}

	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	if !validRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}

	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.employees.Create(ctx, model.Employee{
		OrganizationID: orgID,
		UserID:         input.UserID,
		FullName:       fullName,
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Role:           input.Role,
		Active:         true,
	})
}

func (s *AdminService) UpdateEmployee(ctx context.Context, principal model.Principal, orgID, id uuid.UUID, input UpdateEmployeeInput) (*model.Employee, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if !rbac.CanManageUsers(principal.Role) {
		return nil, ErrPermissionDenied
	}

	employees, err := s.employees.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	var employee *model.Employee
	for i := range employees {
		if employees[i].ID == id {
			employee = &employees[i]
			break
		}
	}
	if employee == nil {
		return nil, ErrNotFound
	}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("%w: full_name must not be empty", ErrInvalidInput)
		}
		employee.FullName = fullName
	}
	if input.Email != nil {
		employee.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		employee.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *input.Role)
		}
		employee.Role = *input.Role
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}

	saved, err := s.employees.Update(ctx, *employee)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func validRole(role string) bool {
	return role == rbac.RoleAgent || role == rbac.RoleDeveloper || role == rbac.RoleAdmin
}
