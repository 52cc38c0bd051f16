package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
)

const organizationColumns = `
	id,
	name,
	type,
	status,
	email,
	phone,
	address,
	created_at,
	updated_at`

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) List(ctx context.Context, status *model.OrganizationStatus) ([]model.Organization, error) {
	query := `SELECT` + organizationColumns + ` FROM organizations`
	args := []interface{}{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY name ASC"

	var orgs []model.Organization
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+organizationColumns+`
		FROM organizations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &org, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, org model.Organization) (*model.Organization, error) {
	var saved model.Organization
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO organizations (name, type, status, email, phone, address)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING`+organizationColumns+`
	`,
		org.Name,
		org.Type,
		org.Status,
		org.Email,
		org.Phone,
		org.Address,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org model.Organization) (*model.Organization, error) {
	var saved model.Organization
	err := r.db.WithContext(ctx).Raw(`
		UPDATE organizations
		SET
			name = ?,
			type = ?,
			status = ?,
			email = ?,
			phone = ?,
			address = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING`+organizationColumns+`
	`,
		org.Name,
		org.Type,
		org.Status,
		org.Email,
		org.Phone,
		org.Address,
		org.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}
