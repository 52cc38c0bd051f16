package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
)

type projectStoreStub struct {
	listFn   func(ctx context.Context, orgID uuid.UUID, status *string, limit, offset int) ([]model.Project, error)
	countFn  func(ctx context.Context, orgID uuid.UUID, status *string) (int64, error)
	getFn    func(ctx context.Context, orgID, id uuid.UUID) (*model.Project, error)
	createFn func(ctx context.Context, project model.Project) (*model.Project, error)
	updateFn func(ctx context.Context, project model.Project) (*model.Project, error)
	deleteFn func(ctx context.Context, orgID, id uuid.UUID) error
}

func (s *projectStoreStub) List(ctx context.Context, orgID uuid.UUID, status *string, limit, offset int) ([]model.Project, error) {
	if s.listFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listFn(ctx, orgID, status, limit, offset)
}

func (s *projectStoreStub) Count(ctx context.Context, orgID uuid.UUID, status *string) (int64, error) {
	if s.countFn == nil {
		return 0, errUnexpectedCall
	}
	return s.countFn(ctx, orgID, status)
}

func (s *projectStoreStub) GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Project, error) {
	if s.getFn == nil {
		return nil, errUnexpectedCall
	}
	return s.getFn(ctx, orgID, id)
}

func (s *projectStoreStub) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	if s.createFn == nil {
		return nil, errUnexpectedCall
	}
	return s.createFn(ctx, project)
}

func (s *projectStoreStub) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	if s.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return s.updateFn(ctx, project)
}

func (s *projectStoreStub) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if s.deleteFn == nil {
		return errUnexpectedCall
	}
	return s.deleteFn(ctx, orgID, id)
}

func newProjectService(store *projectStoreStub) *ProjectService {
	return NewProjectService(store, testConfig())
}

func TestProjectCreate_AgentDenied(t *testing.T) {
	svc := newProjectService(&projectStoreStub{})

	_, err := svc.Create(context.Background(), principalWithRole(rbac.RoleAgent), CreateProjectInput{Name: "Marina Heights"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProjectCreate_DefaultsActiveStatus(t *testing.T) {
	principal := principalWithRole(rbac.RoleDeveloper)

	var created model.Project
	store := &projectStoreStub{
		createFn: func(ctx context.Context, project model.Project) (*model.Project, error) {
			created = project
			saved := project
			saved.ID = uuid.New()
			return &saved, nil
		},
	}

	_, err := newProjectService(store).Create(context.Background(), principal, CreateProjectInput{
		Name:       "  Marina Heights  ",
		Location:   "Dubai Marina",
		TotalUnits: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, "Marina Heights", created.Name)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, principal.OrgID, created.OrganizationID)
	assert.Equal(t, principal.UserID, created.CreatedBy)
}

func TestProjectCreate_RequiresName(t *testing.T) {
	svc := newProjectService(&projectStoreStub{})

	_, err := svc.Create(context.Background(), principalWithRole(rbac.RoleDeveloper), CreateProjectInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectList_AnyRoleScopedToOrganization(t *testing.T) {
	principal := principalWithRole(rbac.RoleAgent)

	var gotOrg uuid.UUID
	store := &projectStoreStub{
		listFn: func(ctx context.Context, orgID uuid.UUID, status *string, limit, offset int) ([]model.Project, error) {
			gotOrg = orgID
			return []model.Project{{ID: uuid.New(), OrganizationID: orgID}}, nil
		},
		countFn: func(ctx context.Context, orgID uuid.UUID, status *string) (int64, error) {
			return 1, nil
		},
	}

	page, err := newProjectService(store).List(context.Background(), principal, nil, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, principal.OrgID, gotOrg)
	assert.Equal(t, int64(1), page.Total)
}

func TestProjectUpdate_RejectsEmptyName(t *testing.T) {
	store := &projectStoreStub{
		getFn: func(ctx context.Context, orgID, id uuid.UUID) (*model.Project, error) {
			return &model.Project{ID: id, OrganizationID: orgID, Name: "Marina Heights"}, nil
		},
	}
	svc := newProjectService(store)

	empty := "  "
	_, err := svc.Update(context.Background(), principalWithRole(rbac.RoleAdmin), uuid.New(), UpdateProjectInput{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectDelete_AgentDenied(t *testing.T) {
	err := newProjectService(&projectStoreStub{}).Delete(context.Background(), principalWithRole(rbac.RoleAgent), uuid.New())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
