package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/config"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
)

var errUnexpectedCall = errors.New("unexpected store call")

type leadStoreStub struct {
	listFn   func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error)
	countFn  func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error)
	statsFn  func(ctx context.Context, orgID uuid.UUID) ([]model.LeadStatsRow, error)
	createFn func(ctx context.Context, lead model.Lead) (*model.Lead, error)
	getFn    func(ctx context.Context, orgID, id uuid.UUID) (*model.Lead, error)
	updateFn func(ctx context.Context, lead model.Lead) (*model.Lead, error)
	deleteFn func(ctx context.Context, orgID, id uuid.UUID) error
}

func (s *leadStoreStub) List(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error) {
	if s.listFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listFn(ctx, orgID, filter, limit, offset)
}

func (s *leadStoreStub) Count(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error) {
	if s.countFn == nil {
		return 0, errUnexpectedCall
	}
	return s.countFn(ctx, orgID, filter)
}

func (s *leadStoreStub) StatsRows(ctx context.Context, orgID uuid.UUID) ([]model.LeadStatsRow, error) {
	if s.statsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.statsFn(ctx, orgID)
}

func (s *leadStoreStub) Create(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if s.createFn == nil {
		return nil, errUnexpectedCall
	}
	return s.createFn(ctx, lead)
}

func (s *leadStoreStub) GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Lead, error) {
	if s.getFn == nil {
		return nil, errUnexpectedCall
	}
	return s.getFn(ctx, orgID, id)
}

func (s *leadStoreStub) Update(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if s.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return s.updateFn(ctx, lead)
}

func (s *leadStoreStub) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if s.deleteFn == nil {
		return errUnexpectedCall
	}
	return s.deleteFn(ctx, orgID, id)
}

type counterStub struct {
	incremented []uuid.UUID
	decremented []uuid.UUID
	err         error
}

func (c *counterStub) IncrementLeadsCount(ctx context.Context, projectID uuid.UUID) error {
	c.incremented = append(c.incremented, projectID)
	return c.err
}

func (c *counterStub) DecrementLeadsCount(ctx context.Context, projectID uuid.UUID) error {
	c.decremented = append(c.decremented, projectID)
	return c.err
}

type exporterStub struct{}

func (exporterStub) Generate(orgName string, leads []model.Lead, generatedAt time.Time) ([]byte, error) {
	return []byte("xlsx"), nil
}

type sheetStub struct{}

func (sheetStub) Generate(lead model.Lead) ([]byte, error) {
	return []byte("pdf"), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Leads: config.LeadsConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

func newTestService(store *leadStoreStub, counter *counterStub) *LeadService {
	return NewLeadService(store, counter, exporterStub{}, sheetStub{}, testConfig(), zerolog.Nop())
}

func principalWithRole(role string) model.Principal {
	return model.Principal{
		UserID: uuid.New(),
		OrgID:  uuid.New(),
		Role:   role,
	}
}

func TestList_ScopesToPrincipalOrganization(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)

	var gotOrg uuid.UUID
	var gotLimit, gotOffset int
	store := &leadStoreStub{
		listFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error) {
			gotOrg = orgID
			gotLimit = limit
			gotOffset = offset
			return []model.Lead{{ID: uuid.New(), OrganizationID: orgID}}, nil
		},
		countFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error) {
			assert.Equal(t, principal.OrgID, orgID)
			return 42, nil
		},
	}

	page, err := newTestService(store, &counterStub{}).List(context.Background(), principal, model.LeadFilter{}, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, principal.OrgID, gotOrg)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, int64(42), page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Leads, 1)
}

func TestList_ClampsPageAndLimit(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)

	var gotLimit, gotOffset int
	store := &leadStoreStub{
		listFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error) {
			gotLimit = limit
			gotOffset = offset
			return nil, nil
		},
		countFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(store, &counterStub{})

	page, err := svc.List(context.Background(), principal, model.LeadFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)

	page, err = svc.List(context.Background(), principal, model.LeadFilter{}, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, 100, gotOffset)
}

func TestList_NormalizesDateFilters(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)

	from := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 9, 15, 0, 0, time.UTC)

	var gotFilter model.LeadFilter
	store := &leadStoreStub{
		listFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error) {
			gotFilter = filter
			return nil, nil
		},
		countFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter) (int64, error) {
			return 0, nil
		},
	}

	_, err := newTestService(store, &counterStub{}).List(context.Background(), principal, model.LeadFilter{DateFrom: &from, DateTo: &to}, 1, 10)
	require.NoError(t, err)

	require.NotNil(t, gotFilter.DateFrom)
	require.NotNil(t, gotFilter.DateTo)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), *gotFilter.DateFrom)
	// End of range widens to the start of the following day, exclusive.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *gotFilter.DateTo)
}

func TestList_RequiresIdentityAndTenant(t *testing.T) {
	svc := newTestService(&leadStoreStub{}, &counterStub{})

	_, err := svc.List(context.Background(), model.Principal{}, model.LeadFilter{}, 1, 10)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.List(context.Background(), model.Principal{UserID: uuid.New(), Role: rbac.RoleAgent}, model.LeadFilter{}, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_ForcesNewStatusAndInquiryStage(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)
	projectID := uuid.New()
	counter := &counterStub{}

	var created model.Lead
	store := &leadStoreStub{
		createFn: func(ctx context.Context, lead model.Lead) (*model.Lead, error) {
			created = lead
			saved := lead
			saved.ID = uuid.New()
			return &saved, nil
		},
	}

	min := 800000.0
	max := 1200000.0
	lead, err := newTestService(store, counter).Create(context.Background(), principal, CreateLeadInput{
		ProjectID: &projectID,
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+971501234567",
		BudgetMin: &min,
		BudgetMax: &max,
	})
	require.NoError(t, err)

	assert.Equal(t, model.LeadStatusNew, created.Status)
	assert.Equal(t, model.LeadStageInquiry, created.Stage)
	assert.Equal(t, principal.OrgID, created.OrganizationID)
	assert.Equal(t, principal.UserID, created.CreatedBy)
	assert.Equal(t, "other", created.Source)
	assert.NotNil(t, lead)

	require.Len(t, counter.incremented, 1)
	assert.Equal(t, projectID, counter.incremented[0])
}

func TestCreate_RejectsInvalidBudgetBeforeStore(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)

	storeCalled := false
	store := &leadStoreStub{
		createFn: func(ctx context.Context, lead model.Lead) (*model.Lead, error) {
			storeCalled = true
			return &lead, nil
		},
	}

	min := 1200000.0
	max := 800000.0
	_, err := newTestService(store, &counterStub{}).Create(context.Background(), principal, CreateLeadInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+971501234567",
		BudgetMin: &min,
		BudgetMax: &max,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, storeCalled)
}

func TestCreate_RejectsUnknownSource(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)

	_, err := newTestService(&leadStoreStub{}, &counterStub{}).Create(context.Background(), principal, CreateLeadInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+971501234567",
		Source:    "telepathy",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_CounterFailureDoesNotMaskSuccess(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)
	projectID := uuid.New()

	store := &leadStoreStub{
		createFn: func(ctx context.Context, lead model.Lead) (*model.Lead, error) {
			saved := lead
			saved.ID = uuid.New()
			return &saved, nil
		},
	}
	counter := &counterStub{err: errors.New("connection reset")}

	lead, err := newTestService(store, counter).Create(context.Background(), principal, CreateLeadInput{
		ProjectID: &projectID,
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+971501234567",
	})
	require.NoError(t, err)
	assert.NotNil(t, lead)
}

func TestUpdate_RequiresElevatedRole(t *testing.T) {
	svc := newTestService(&leadStoreStub{}, &counterStub{})

	_, err := svc.Update(context.Background(), principalWithRole(rbac.RoleAgent), uuid.New(), UpdateLeadInput{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdate_AppliesPartialChanges(t *testing.T) {
	principal := principalWithRole(rbac.RoleDeveloper)
	id := uuid.New()

	existing := model.Lead{
		ID:             id,
		OrganizationID: principal.OrgID,
		FirstName:      "Jane",
		LastName:       "Doe",
		Phone:          "+971501234567",
		Source:         "website",
		Status:         model.LeadStatusNew,
		Stage:          model.LeadStageInquiry,
	}

	var updated model.Lead
	store := &leadStoreStub{
		getFn: func(ctx context.Context, orgID, gotID uuid.UUID) (*model.Lead, error) {
			assert.Equal(t, principal.OrgID, orgID)
			assert.Equal(t, id, gotID)
			fresh := existing
			return &fresh, nil
		},
		updateFn: func(ctx context.Context, lead model.Lead) (*model.Lead, error) {
			updated = lead
			return &lead, nil
		},
	}

	status := model.LeadStatusQualified
	stage := model.LeadStageSiteVisit
	notes := "asked for a site visit next week"
	_, err := newTestService(store, &counterStub{}).Update(context.Background(), principal, id, UpdateLeadInput{
		Status: &status,
		Stage:  &stage,
		Notes:  &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, model.LeadStatusQualified, updated.Status)
	assert.Equal(t, model.LeadStageSiteVisit, updated.Stage)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	// Untouched fields survive.
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "+971501234567", updated.Phone)
}

func TestUpdate_NotFound(t *testing.T) {
	principal := principalWithRole(rbac.RoleAdmin)
	store := &leadStoreStub{
		getFn: func(ctx context.Context, orgID, id uuid.UUID) (*model.Lead, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	_, err := newTestService(store, &counterStub{}).Update(context.Background(), principal, uuid.New(), UpdateLeadInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_DecrementsProjectCounter(t *testing.T) {
	principal := principalWithRole(rbac.RoleAdmin)
	id := uuid.New()
	projectID := uuid.New()
	counter := &counterStub{}

	store := &leadStoreStub{
		getFn: func(ctx context.Context, orgID, gotID uuid.UUID) (*model.Lead, error) {
			return &model.Lead{ID: gotID, OrganizationID: orgID, ProjectID: &projectID}, nil
		},
		deleteFn: func(ctx context.Context, orgID, gotID uuid.UUID) error {
			assert.Equal(t, principal.OrgID, orgID)
			assert.Equal(t, id, gotID)
			return nil
		},
	}

	err := newTestService(store, counter).Delete(context.Background(), principal, id)
	require.NoError(t, err)
	require.Len(t, counter.decremented, 1)
	assert.Equal(t, projectID, counter.decremented[0])
}

func TestDelete_AgentDenied(t *testing.T) {
	err := newTestService(&leadStoreStub{}, &counterStub{}).Delete(context.Background(), principalWithRole(rbac.RoleAgent), uuid.New())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestExport_RequiresAnalyticsCapability(t *testing.T) {
	svc := newTestService(&leadStoreStub{}, &counterStub{})

	_, err := svc.Export(context.Background(), principalWithRole(rbac.RoleAgent), model.LeadFilter{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestExport_ReturnsNamedFile(t *testing.T) {
	principal := principalWithRole(rbac.RoleDeveloper)
	store := &leadStoreStub{
		listFn: func(ctx context.Context, orgID uuid.UUID, filter model.LeadFilter, limit, offset int) ([]model.Lead, error) {
			assert.Equal(t, exportLimit, limit)
			assert.Equal(t, 0, offset)
			return []model.Lead{}, nil
		},
	}

	result, err := newTestService(store, &counterStub{}).Export(context.Background(), principal, model.LeadFilter{})
	require.NoError(t, err)
	assert.Contains(t, result.FileName, "leads-")
	assert.Contains(t, result.FileName, ".xlsx")
	assert.Equal(t, []byte("xlsx"), result.Content)
}

func TestStats_AggregatesByStatusAndStage(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)
	now := time.Now()
	lastYear := now.AddDate(-1, 0, 0)

	rows := []model.LeadStatsRow{
		{Status: model.LeadStatusNew, Stage: model.LeadStageInquiry, CreatedAt: now},
		{Status: model.LeadStatusNew, Stage: model.LeadStageInquiry, CreatedAt: now},
		{Status: model.LeadStatusWon, Stage: model.LeadStageClosed, CreatedAt: lastYear},
		{Status: model.LeadStatusLost, Stage: model.LeadStageProposal, CreatedAt: lastYear},
	}
	store := &leadStoreStub{
		statsFn: func(ctx context.Context, orgID uuid.UUID) ([]model.LeadStatsRow, error) {
			assert.Equal(t, principal.OrgID, orgID)
			return rows, nil
		},
	}

	stats, err := newTestService(store, &counterStub{}).Stats(context.Background(), principal)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus[model.LeadStatusNew])
	assert.Equal(t, int64(1), stats.ByStatus[model.LeadStatusWon])
	assert.Equal(t, int64(1), stats.ByStatus[model.LeadStatusLost])
	assert.Equal(t, int64(2), stats.ByStage[model.LeadStageInquiry])
	assert.Equal(t, int64(2), stats.CreatedThisMonth)
	assert.InDelta(t, 25.0, stats.ConversionRate, 0.0001)

	var statusSum int64
	for _, count := range stats.ByStatus {
		statusSum += count
	}
	assert.Equal(t, stats.Total, statusSum)
}

func TestBuildStats_Empty(t *testing.T) {
	stats := buildStats(nil, time.Now())

	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, float64(0), stats.ConversionRate)
	assert.Empty(t, stats.ByStatus)
	assert.Empty(t, stats.ByStage)
}

func TestBuildStats_MonthBoundary(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)
	rows := []model.LeadStatsRow{
		{Status: model.LeadStatusNew, Stage: model.LeadStageInquiry, CreatedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{Status: model.LeadStatusNew, Stage: model.LeadStageInquiry, CreatedAt: time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)},
		{Status: model.LeadStatusNew, Stage: model.LeadStageInquiry, CreatedAt: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
	}

	stats := buildStats(rows, now)
	assert.Equal(t, int64(1), stats.CreatedThisMonth)
}
