package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/config"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
)

// Filtered exports are capped rather than streamed. Raise together with the
// spreadsheet generator if tenants ever outgrow this.
const exportLimit = 10000

type LeadStore interface {
	List(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error)
	Count(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error)
	StatsRows(ctx context.Context, orgID uuid.UUID) ([]model.LeadStatsRow, error)
	Create(ctx context.Context, lead model.Lead) (*model.Lead, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Lead, error)
	Update(ctx context.Context, lead model.Lead) (*model.Lead, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type ProjectCounter interface {
	IncrementLeadsCount(ctx context.Context, projectID uuid.UUID) error
	DecrementLeadsCount(ctx context.Context, projectID uuid.UUID) error
}

type LeadExporter interface {
	Generate(orgName string, leads []model.Lead, generatedAt time.Time) ([]byte, error)
}

type LeadSheetGenerator interface {
	Generate(lead model.Lead) ([]byte, error)
}

type LeadService struct {
	leads           LeadStore
	projects        ProjectCounter
	excel           LeadExporter
	pdf             LeadSheetGenerator
	log             zerolog.Logger
	validSources    []string
	defaultPageSize int
	maxPageSize     int
}

func NewLeadService(
	leads LeadStore,
	projects ProjectCounter,
	excel LeadExporter,
	pdf LeadSheetGenerator,
	cfg *config.Config,
	log zerolog.Logger,
) *LeadService {
	validSources := cfg.Leads.ValidSources
	if len(validSources) == 0 {
		validSources = model.LeadSources
	}
	return &LeadService{
		leads:           leads,
		projects:        projects,
		excel:           excel,
		pdf:             pdf,
		log:             log,
		validSources:    validSources,
		defaultPageSize: cfg.Leads.DefaultPageSize,
		maxPageSize:     cfg.Leads.MaxPageSize,
	}
}

type LeadPage struct {
	Leads []model.Lead
	Total int64
	Page  int
	Limit int
}

type CreateLeadInput struct {
	ProjectID          *uuid.UUID
	UnitID             *uuid.UUID
	FirstName          string
	LastName           string
	Email              *string
	Phone              string
	Source             string
	BudgetMin          *float64
	BudgetMax          *float64
	PreferredUnitTypes []string
	PreferredLocation  *string
	Requirements       *string
	Notes              *string
	AssignedTo         *uuid.UUID
	NextFollowup       *time.Time
	Score              *int
}

type UpdateLeadInput struct {
	ProjectID          *uuid.UUID
	UnitID             *uuid.UUID
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	Source             *string
	Status             *model.LeadStatus
	Stage              *model.LeadStage
	BudgetMin          *float64
	BudgetMax          *float64
	PreferredUnitTypes []string
	PreferredLocation  *string
	Requirements       *string
	Notes              *string
	AssignedTo         *uuid.UUID
	NextFollowup       *time.Time
	LastContacted      *time.Time
	Score              *int
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// requirePrincipal enforces the tenant-isolation preconditions shared by every
// operation: a caller identity and an organization mapping.
func requirePrincipal(p model.Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if !p.HasOrganization() {
		return fmt.Errorf("%w: no organization mapping for user", ErrNotFound)
	}
	return nil
}

func (s *LeadService) clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return page, limit
}

// normalizeFilter widens date filters to whole days: DateFrom becomes the start
// of its day, DateTo the start of the following day (end exclusive).
func normalizeFilter(filter model.LeadFilter) model.LeadFilter {
	if filter.DateFrom != nil {
		from := dateOnly(*filter.DateFrom)
		filter.DateFrom = &from
	}
	if filter.DateTo != nil {
		to := dateOnly(*filter.DateTo).Add(24 * time.Hour)
		filter.DateTo = &to
	}
	return filter
}

func (s *LeadService) List(ctx context.Context, principal model.Principal, filter model.LeadFilter, page, limit int) (*LeadPage, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanViewLeads(principal.Role) {
		return nil, ErrPermissionDenied
	}

	page, limit = s.clampPage(page, limit)
	filter = normalizeFilter(filter)
	offset := (page - 1) * limit

	leads, err := s.leads.List(ctx, principal.OrgID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.leads.Count(ctx, principal.OrgID, filter)
	if err != nil {
		return nil, err
	}

	return &LeadPage{Leads: leads, Total: total, Page: page, Limit: limit}, nil
}

func (s *LeadService) Stats(ctx context.Context, principal model.Principal) (*model.LeadStats, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanViewLeads(principal.Role) {
		return nil, ErrPermissionDenied
	}

	rows, err := s.leads.StatsRows(ctx, principal.OrgID)
	if err != nil {
		return nil, err
	}
	stats := buildStats(rows, time.Now())
	return &stats, nil
}

// buildStats aggregates the full lead set locally. Sparse maps: only observed
// statuses and stages appear.
func buildStats(rows []model.LeadStatsRow, now time.Time) model.LeadStats {
	stats := model.LeadStats{
		ByStatus: make(map[model.LeadStatus]int64),
		ByStage:  make(map[model.LeadStage]int64),
	}

	for _, row := range rows {
		stats.Total++
		stats.ByStatus[row.Status]++
		stats.ByStage[row.Stage]++

		created := row.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.CreatedThisMonth++
		}
	}

	if stats.Total > 0 {
		stats.ConversionRate = float64(stats.ByStatus[model.LeadStatusWon]) / float64(stats.Total) * 100
	}
	return stats
}

func (s *LeadService) Create(ctx context.Context, principal model.Principal, input CreateLeadInput) (*model.Lead, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanCreateLeads(principal.Role) {
		return nil, ErrPermissionDenied
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "other"
	}
	if !s.validSource(source) {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, source)
	}

	// Captured leads always start at the top of the funnel, whatever the
	// client sent for status or stage.
	lead := model.Lead{
		OrganizationID:     principal.OrgID,
		ProjectID:          input.ProjectID,
		UnitID:             input.UnitID,
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		Email:              input.Email,
		Phone:              strings.TrimSpace(input.Phone),
		Source:             source,
		Status:             model.LeadStatusNew,
		Stage:              model.LeadStageInquiry,
		BudgetMin:          input.BudgetMin,
		BudgetMax:          input.BudgetMax,
		PreferredUnitTypes: input.PreferredUnitTypes,
		PreferredLocation:  input.PreferredLocation,
		Requirements:       input.Requirements,
		Notes:              input.Notes,
		AssignedTo:         input.AssignedTo,
		NextFollowup:       input.NextFollowup,
		Score:              input.Score,
		CreatedBy:          principal.UserID,
	}

	if err := lead.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.leads.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	if saved.ProjectID != nil {
		// Bookkeeping only: a counter failure must not mask a successful
		// capture.
		if err := s.projects.IncrementLeadsCount(ctx, *saved.ProjectID); err != nil {
			s.log.Warn().Err(err).
				Str("lead_id", saved.ID.String()).
				Str("project_id", saved.ProjectID.String()).
				Msg("leads_count increment failed")
		}
	}
	return saved, nil
}

func (s *LeadService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Lead, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanViewLeads(principal.Role) {
		return nil, ErrPermissionDenied
	}

	lead, err := s.leads.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateLeadInput) (*model.Lead, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanEditLeads(principal.Role) {
		return nil, ErrPermissionDenied
	}

	// Always edit against a fresh read; the stored record is the single
	// source of truth.
	lead, err := s.leads.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	applyLeadUpdate(lead, input)

	if !s.validSource(lead.Source) {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, lead.Source)
	}
	if err := lead.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.leads.Update(ctx, *lead)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func applyLeadUpdate(lead *model.Lead, input UpdateLeadInput) {
	if input.ProjectID != nil {
		lead.ProjectID = input.ProjectID
	}
	if input.UnitID != nil {
		lead.UnitID = input.UnitID
	}
	if input.FirstName != nil {
		lead.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		lead.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		lead.Email = input.Email
	}
	if input.Phone != nil {
		lead.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Source != nil {
		lead.Source = strings.TrimSpace(*input.Source)
	}
	if input.Status != nil {
		lead.Status = *input.Status
	}
	if input.Stage != nil {
		lead.Stage = *input.Stage
	}
	if input.BudgetMin != nil {
		lead.BudgetMin = input.BudgetMin
	}
	if input.BudgetMax != nil {
		lead.BudgetMax = input.BudgetMax
	}
	if input.PreferredUnitTypes != nil {
		lead.PreferredUnitTypes = input.PreferredUnitTypes
	}
	if input.PreferredLocation != nil {
		lead.PreferredLocation = input.PreferredLocation
	}
	if input.Requirements != nil {
		lead.Requirements = input.Requirements
	}
	if input.Notes != nil {
		lead.Notes = input.Notes
	}
	if input.AssignedTo != nil {
		lead.AssignedTo = input.AssignedTo
	}
	if input.NextFollowup != nil {
		lead.NextFollowup = input.NextFollowup
	}
	if input.LastContacted != nil {
		lead.LastContacted = input.LastContacted
	}
	if input.Score != nil {
		lead.Score = input.Score
	}
}

func (s *LeadService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if !rbac.CanDeleteLeads(principal.Role) {
		return ErrPermissionDenied
	}

	lead, err := s.leads.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if err := s.leads.Delete(ctx, principal.OrgID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if lead.ProjectID != nil {
		if err := s.projects.DecrementLeadsCount(ctx, *lead.ProjectID); err != nil {
			s.log.Warn().Err(err).
				Str("lead_id", id.String()).
				Str("project_id", lead.ProjectID.String()).
				Msg("leads_count decrement failed")
		}
	}
	return nil
}

// Export renders the full filtered lead list, unpaginated, as a spreadsheet.
func (s *LeadService) Export(ctx context.Context, principal model.Principal, filter model.LeadFilter) (*ExportResult, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanViewAnalytics(principal.Role) {
		return nil, ErrPermissionDenied
	}

	filter = normalizeFilter(filter)
	leads, err := s.leads.List(ctx, principal.OrgID, filter, exportLimit, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	content, err := s.excel.Generate(principal.OrgID.String(), leads, now)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("leads-%s.xlsx", now.Format("20060102-150405")),
		Content:  content,
	}, nil
}

// Sheet renders a single lead as a printable PDF summary.
func (s *LeadService) Sheet(ctx context.Context, principal model.Principal, id uuid.UUID) (*ExportResult, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanViewLeads(principal.Role) {
		return nil, ErrPermissionDenied
	}

	lead, err := s.leads.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	content, err := s.pdf.Generate(*lead)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(lead.FirstName + "-" + lead.LastName)
	if name == "" {
		name = lead.ID.String()
	}
	return &ExportResult{
		FileName: fmt.Sprintf("lead-%s.pdf", name),
		Content:  content,
	}, nil
}

func (s *LeadService) validSource(source string) bool {
	for _, known := range s.validSources {
		if source == known {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
