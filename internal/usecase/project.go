package usecase

import (
	"context"
	"errors"
	"strings"

	"project-service/internal/domain"
	"project-service/internal/repository"
	"project-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateProjectInput struct {
	Name        string
	Description *string
}

// ProjectService manages projects inside the caller's tenant
type ProjectService struct {
	projects    repository.ProjectRepository
	tasks       repository.TaskRepository
	memberships repository.MembershipRepository
	tx          repository.Transactor
	log         *zap.Logger
}

func NewProjectService(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	memberships repository.MembershipRepository,
	tx repository.Transactor,
	log *zap.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, memberships: memberships, tx: tx, log: log}
}

// CreateProject stores the project and makes the caller its owner in one transaction
func (s *ProjectService) CreateProject(ctx context.Context, user *domain.User, in CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if err := domain.CheckProjectName(name); err != nil {
		return nil, err
	}

	project := &domain.Project{TenantID: user.TenantID, Name: name, Description: in.Description}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.projects.Create(ctx, project); err != nil {
			return err
		}
		return s.memberships.Add(ctx, &domain.Membership{
			ProjectID: project.ID,
			UserID:    user.ID,
			Role:      domain.ProjectRoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.log).Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("tenant_id", project.TenantID.String()))
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, user *domain.User) ([]domain.Project, error) {
	return s.projects.ListByTenant(ctx, user.TenantID)
}

// GetProject returns ErrNotFound for projects of other tenants
func (s *ProjectService) GetProject(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id, user.TenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errProjectNotFound
	}
	return project, err
}

func (s *ProjectService) UpdateProject(ctx context.Context, user *domain.User, id uuid.UUID, patch domain.ProjectPatch) (*domain.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	project, err := s.GetProject(ctx, user, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(project)

	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project with its tasks and memberships atomically.
// It reports false when no project matches (id, tenant).
func (s *ProjectService) DeleteProject(ctx context.Context, user *domain.User, id uuid.UUID) (bool, error) {
	deleted := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.projects.GetByID(ctx, id, user.TenantID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		if err := s.tasks.DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := s.memberships.DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := s.projects.Delete(ctx, id, user.TenantID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		logger.FromContext(ctx, s.log).Info("Project deleted", zap.String("project_id", id.String()))
	}
	return deleted, nil
}
