package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
)

type EmployeeFinder interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error)
}

// ProfileService resolves the caller's employee record, the tenant mapping
// behind every scoped query.
type ProfileService struct {
	employees EmployeeFinder
}

func NewProfileService(employees EmployeeFinder) *ProfileService {
	return &ProfileService{employees: employees}
}

func (s *ProfileService) Get(ctx context.Context, principal model.Principal) (*model.Employee, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthenticated
	}

	employee, err := s.employees.GetByUserID(ctx, principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}
