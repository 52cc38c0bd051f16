package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
)

const employeeColumns = `
	id,
	organization_id,
	user_id,
	full_name,
	email,
	phone,
	role,
	active,
	created_at,
	updated_at`

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+employeeColumns+`
		FROM employees
		WHERE organization_id = ?
		ORDER BY full_name ASC
	`, orgID).Scan(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// GetByUserID resolves the tenant mapping for an authenticated user.
func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+employeeColumns+`
		FROM employees
		WHERE user_id = ?
		LIMIT 1
	`, userID).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee model.Employee) (*model.Employee, error) {
	var saved model.Employee
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO employees (organization_id, user_id, full_name, email, phone, role, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING`+employeeColumns+`
	`,
		employee.OrganizationID,
		employee.UserID,
		employee.FullName,
		employee.Email,
		employee.Phone,
		employee.Role,
		employee.Active,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee model.Employee) (*model.Employee, error) {
	var saved model.Employee
	err := r.db.WithContext(ctx).Raw(`
		UPDATE employees
		SET
			full_name = ?,
			email = ?,
			phone = ?,
			role = ?,
			active = ?,
			updated_at = NOW()
		WHERE id = ? AND organization_id = ?
		RETURNING`+employeeColumns+`
	`,
		employee.FullName,
		employee.Email,
		employee.Phone,
		employee.Role,
		employee.Active,
		employee.ID,
		employee.OrganizationID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}
