package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
)

const projectColumns = `
	id,
	organization_id,
	name,
	location,
	description,
	status,
	total_units,
	leads_count,
	created_by,
	created_at,
	updated_at`

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(
	ctx context.Context,
	orgID uuid.UUID,
	status *string,
	limit, offset int,
) ([]model.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE organization_id = ?`
	args := []interface{}{orgID}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var projects []model.Project
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Count(ctx context.Context, orgID uuid.UUID, status *string) (int64, error) {
	query := `SELECT COUNT(*) FROM projects WHERE organization_id = ?`
	args := []interface{}{orgID}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+projectColumns+`
		FROM projects
		WHERE id = ? AND organization_id = ?
		LIMIT 1
	`, id, orgID).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	var saved model.Project
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO projects (organization_id, name, location, description, status, total_units, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING`+projectColumns+`
	`,
		project.OrganizationID,
		project.Name,
		project.Location,
		project.Description,
		project.Status,
		project.TotalUnits,
		project.CreatedBy,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	var saved model.Project
	err := r.db.WithContext(ctx).Raw(`
		UPDATE projects
		SET
			name = ?,
			location = ?,
			description = ?,
			status = ?,
			total_units = ?,
			updated_at = NOW()
		WHERE id = ? AND organization_id = ?
		RETURNING`+projectColumns+`
	`,
		project.Name,
		project.Location,
		project.Description,
		project.Status,
		project.TotalUnits,
		project.ID,
		project.OrganizationID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM projects WHERE id = ? AND organization_id = ?
	`, id, orgID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementLeadsCount bumps the denormalized counter in a single statement so
// concurrent lead captures cannot lose updates.
func (r *ProjectRepository) IncrementLeadsCount(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects SET leads_count = leads_count + 1, updated_at = NOW() WHERE id = ?
	`, projectID).Error
}

// DecrementLeadsCount never takes the counter below zero.
func (r *ProjectRepository) DecrementLeadsCount(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects SET leads_count = GREATEST(leads_count - 1, 0), updated_at = NOW() WHERE id = ?
	`, projectID).Error
}
