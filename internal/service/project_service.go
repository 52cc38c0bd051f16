package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propline/crm-service/internal/config"
	"github.com/propline/crm-service/internal/model"
	"github.com/propline/crm-service/internal/rbac"
)

type ProjectStore interface {
	List(ctx context.Context, orgID uuid.UUID, status *string, limit, offset int) ([]model.Project, error)
	Count(ctx context.Context, orgID uuid.UUID, status *string) (int64, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	Update(ctx context.Context, project model.Project) (*model.Project, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type ProjectService struct {
	projects        ProjectStore
	defaultPageSize int
	maxPageSize     int
}

func NewProjectService(projects ProjectStore, cfg *config.Config) *ProjectService {
	return &ProjectService{
		projects:        projects,
		defaultPageSize: cfg.Leads.DefaultPageSize,
		maxPageSize:     cfg.Leads.MaxPageSize,
	}
}

type ProjectPage struct {
	Projects []model.Project
	Total    int64
	Page     int
	Limit    int
}

type CreateProjectInput struct {
	Name        string
	Location    string
	Description *string
	Status      string
	TotalUnits  int
}

type UpdateProjectInput struct {
	Name        *string
	Location    *string
	Description *string
	Status      *string
	TotalUnits  *int
}

func (s *ProjectService) List(ctx context.Context, principal model.Principal, status *string, page, limit int) (*ProjectPage, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	offset := (page - 1) * limit

	projects, err := s.projects.List(ctx, principal.OrgID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.projects.Count(ctx, principal.OrgID, status)
	if err != nil {
		return nil, err
	}

	return &ProjectPage{Projects: projects, Total: total, Page: page, Limit: limit}, nil
}

func (s *ProjectService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Project, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, principal.OrgID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, principal model.Principal, input CreateProjectInput) (*model.Project, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanCreateProject(principal.Role) {
		return nil, ErrPermissionDenied
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	status := input.Status
	if status == "" {
		status = "active"
	}

	return s.projects.Create(ctx, model.Project{
		OrganizationID: principal.OrgID,
		Name:           name,
		Location:       strings.TrimSpace(input.Location),
		Description:    input.Description,
		Status:         status,
		TotalUnits:     input.TotalUnits,
		CreatedBy:      principal.UserID,
	})
}

func (s *ProjectService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateProjectInput) (*model.Project, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if !rbac.CanEditProject(principal.Role) {
		return nil, ErrPermissionDenied
	}

	project, err := s.projects.GetByID(ctx, principal.OrgID, id)
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
		project.Name = name
	}
	if input.Location != nil {
		project.Location = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.TotalUnits != nil {
		project.TotalUnits = *input.TotalUnits
	}

	saved, err := s.projects.Update(ctx, *project)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *ProjectService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if !rbac.CanDeleteProject(principal.Role) {
		return ErrPermissionDenied
	}

	if err := s.projects.Delete(ctx, principal.OrgID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
