package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
)

const unitColumns = `
	id,
	project_id,
	organization_id,
	unit_number,
	unit_type,
	floor,
	bedrooms,
	bathrooms,
	area_sqft,
	price,
	status,
	created_at,
	updated_at`

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) ListByProject(
	ctx context.Context,
	orgID, projectID uuid.UUID,
	status *model.UnitStatus,
	unitType *string,
) ([]model.Unit, error) {
	query := `SELECT` + unitColumns + ` FROM units WHERE project_id = ? AND organization_id = ?`
	args := []interface{}{projectID, orgID}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	if unitType != nil {
		query += " AND unit_type = ?"
		args = append(args, *unitType)
	}
	query += " ORDER BY unit_number ASC"

	var units []model.Unit
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *UnitRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+unitColumns+`
		FROM units
		WHERE id = ? AND organization_id = ?
		LIMIT 1
	`, id, orgID).Scan(&unit).Error
	if err != nil {
		return nil, err
	}
	if unit.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &unit, nil
}

func (r *UnitRepository) Create(ctx context.Context, unit model.Unit) (*model.Unit, error) {
	var saved model.Unit
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO units (
			project_id, organization_id, unit_number, unit_type,
			floor, bedrooms, bathrooms, area_sqft, price, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+unitColumns+`
	`,
		unit.ProjectID,
		unit.OrganizationID,
		unit.UnitNumber,
		unit.UnitType,
		unit.Floor,
		unit.Bedrooms,
		unit.Bathrooms,
		unit.AreaSqft,
		unit.Price,
		unit.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *UnitRepository) Update(ctx context.Context, unit model.Unit) (*model.Unit, error) {
	var saved model.Unit
	err := r.db.WithContext(ctx).Raw(`
		UPDATE units
		SET
			unit_number = ?,
			unit_type = ?,
			floor = ?,
			bedrooms = ?,
			bathrooms = ?,
			area_sqft = ?,
			price = ?,
			status = ?,
			updated_at = NOW()
		WHERE id = ? AND organization_id = ?
		RETURNING`+unitColumns+`
	`,
		unit.UnitNumber,
		unit.UnitType,
		unit.Floor,
		unit.Bedrooms,
		unit.Bathrooms,
		unit.AreaSqft,
		unit.Price,
		unit.Status,
		unit.ID,
		unit.OrganizationID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *UnitRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM units WHERE id = ? AND organization_id = ?
	`, id, orgID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
