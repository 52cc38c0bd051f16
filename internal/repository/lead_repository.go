package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/model"
)

const leadColumns = `
	id,
	organization_id,
	project_id,
	unit_id,
	first_name,
	last_name,
	email,
	phone,
	source,
	status,
	stage,
	budget_min,
	budget_max,
	preferred_unit_types,
	preferred_location,
	requirements,
	notes,
	assigned_to,
	next_followup,
	last_contacted,
	score,
	created_by,
	created_at,
	updated_at`

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// leadRow mirrors model.Lead with the preferred unit types in their stored
// comma-joined form.
type leadRow struct {
	ID                 uuid.UUID
	OrganizationID     uuid.UUID
	ProjectID          *uuid.UUID
	UnitID             *uuid.UUID
	FirstName          string
	LastName           string
	Email              *string
	Phone              string
	Source             string
	Status             model.LeadStatus
	Stage              model.LeadStage
	BudgetMin          *float64
	BudgetMax          *float64
	PreferredUnitTypes string
	PreferredLocation  *string
	Requirements       *string
	Notes              *string
	AssignedTo         *uuid.UUID
	NextFollowup       *time.Time
	LastContacted      *time.Time
	Score              *int
	CreatedBy          uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (row leadRow) toLead() model.Lead {
	return model.Lead{
		ID:                 row.ID,
		OrganizationID:     row.OrganizationID,
		ProjectID:          row.ProjectID,
		UnitID:             row.UnitID,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Email:              row.Email,
		Phone:              row.Phone,
		Source:             row.Source,
		Status:             row.Status,
		Stage:              row.Stage,
		BudgetMin:          row.BudgetMin,
		BudgetMax:          row.BudgetMax,
		PreferredUnitTypes: splitUnitTypes(row.PreferredUnitTypes),
		PreferredLocation:  row.PreferredLocation,
		Requirements:       row.Requirements,
		Notes:              row.Notes,
		AssignedTo:         row.AssignedTo,
		NextFollowup:       row.NextFollowup,
		LastContacted:      row.LastContacted,
		Score:              row.Score,
		CreatedBy:          row.CreatedBy,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func splitUnitTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func joinUnitTypes(types []string) string {
	return strings.Join(types, ",")
}

// appendLeadFilters extends a WHERE clause that already scopes by
// organization_id. Present filter fields combine with AND; the search term
// matches case-insensitively against name, email and phone.
func appendLeadFilters(query string, args []interface{}, filter model.LeadFilter) (string, []interface{}) {
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.Stage != nil {
		query += " AND stage = ?"
		args = append(args, *filter.Stage)
	}
	if filter.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *filter.ProjectID)
	}
	if filter.AssignedTo != nil {
		query += " AND assigned_to = ?"
		args = append(args, *filter.AssignedTo)
	}
	if filter.DateFrom != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query += " AND created_at < ?"
		args = append(args, *filter.DateTo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query += " AND (first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	return query, args
}

// List returns one page of the organization's leads, newest first. Equal
// creation timestamps are tie-broken by id so the ordering is total.
func (r *LeadRepository) List(
	ctx context.Context,
	orgID uuid.UUID,
	filter model.LeadFilter,
	limit, offset int,
) ([]model.Lead, error) {
	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE organization_id = ?`
	args := []interface{}{orgID}
	query, args = appendLeadFilters(query, args, filter)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []leadRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	leads := make([]model.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, row.toLead())
	}
	return leads, nil
}

// Count runs the same filter as List without pagination.
func (r *LeadRepository) Count(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM leads WHERE organization_id = ?`
	args := []interface{}{orgID}
	query, args = appendLeadFilters(query, args, filter)

	var total int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// StatsRows fetches the projection the dashboard aggregation runs over.
func (r *LeadRepository) StatsRows(ctx context.Context, orgID uuid.UUID) ([]model.LeadStatsRow, error) {
	var rows []model.LeadStatsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, stage, created_at
		FROM leads
		WHERE organization_id = ?
	`, orgID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	var row leadRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO leads (
			organization_id,
			project_id,
			unit_id,
			first_name,
			last_name,
			email,
			phone,
			source,
			status,
			stage,
			budget_min,
			budget_max,
			preferred_unit_types,
			preferred_location,
			requirements,
			notes,
			assigned_to,
			next_followup,
			last_contacted,
			score,
			created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+leadColumns+`
	`,
		lead.OrganizationID,
		lead.ProjectID,
		lead.UnitID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Status,
		lead.Stage,
		lead.BudgetMin,
		lead.BudgetMax,
		joinUnitTypes(lead.PreferredUnitTypes),
		lead.PreferredLocation,
		lead.Requirements,
		lead.Notes,
		lead.AssignedTo,
		lead.NextFollowup,
		lead.LastContacted,
		lead.Score,
		lead.CreatedBy,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	saved := row.toLead()
	return &saved, nil
}

func (r *LeadRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Lead, error) {
	var row leadRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+leadColumns+`
		FROM leads
		WHERE id = ? AND organization_id = ?
		LIMIT 1
	`, id, orgID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	lead := row.toLead()
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	var row leadRow
	err := r.db.WithContext(ctx).Raw(`
		UPDATE leads
		SET
			project_id = ?,
			unit_id = ?,
			first_name = ?,
			last_name = ?,
			email = ?,
			phone = ?,
			source = ?,
			status = ?,
			stage = ?,
			budget_min = ?,
			budget_max = ?,
			preferred_unit_types = ?,
			preferred_location = ?,
			requirements = ?,
			notes = ?,
			assigned_to = ?,
			next_followup = ?,
			last_contacted = ?,
			score = ?,
			updated_at = NOW()
		WHERE id = ? AND organization_id = ?
		RETURNING`+leadColumns+`
	`,
		lead.ProjectID,
		lead.UnitID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Status,
		lead.Stage,
		lead.BudgetMin,
		lead.BudgetMax,
		joinUnitTypes(lead.PreferredUnitTypes),
		lead.PreferredLocation,
		lead.Requirements,
		lead.Notes,
		lead.AssignedTo,
		lead.NextFollowup,
		lead.LastContacted,
		lead.Score,
		lead.ID,
		lead.OrganizationID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	saved := row.toLead()
	return &saved, nil
}

func (r *LeadRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM leads WHERE id = ? AND organization_id = ?
	`, id, orgID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
