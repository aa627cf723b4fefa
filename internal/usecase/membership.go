package usecase

import (
	"context"
	"errors"
	"fmt"

	"project-service/internal/domain"
	"project-service/internal/repository"
	"project-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddMemberInput struct {
	UserID uuid.UUID
	Role   string
}

// MembershipService manages who belongs to a project
type MembershipService struct {
	projects    repository.ProjectRepository
	users       repository.UserRepository
	memberships repository.MembershipRepository
	tx          repository.Transactor
	log         *zap.Logger
}

func NewMembershipService(
	projects repository.ProjectRepository,
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	tx repository.Transactor,
	log *zap.Logger,
) *MembershipService {
	return &MembershipService{projects: projects, users: users, memberships: memberships, tx: tx, log: log}
}

// GetProjectUsers lists the project's members that belong to the caller's tenant
func (s *MembershipService) GetProjectUsers(ctx context.Context, user *domain.User, projectID uuid.UUID) ([]domain.ProjectMember, error) {
	if err := s.visible(ctx, user, projectID); err != nil {
		return nil, err
	}
	return s.memberships.ListMembers(ctx, projectID, user.TenantID)
}

// AddProjectMember lets a project owner add a user of the same tenant
func (s *MembershipService) AddProjectMember(ctx context.Context, user *domain.User, projectID uuid.UUID, in AddMemberInput) (*domain.ProjectMember, error) {
	role := in.Role
	if role == "" {
		role = domain.ProjectRoleMember
	}
	if !domain.ValidProjectRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	if err := s.visible(ctx, user, projectID); err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, user, projectID); err != nil {
		return nil, err
	}

	target, err := s.users.GetInTenant(ctx, in.UserID, user.TenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	membership := &domain.Membership{ProjectID: projectID, UserID: target.ID, Role: role}
	if err := s.memberships.Add(ctx, membership); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: user is already a member of this project", domain.ErrConflict)
		}
		return nil, err
	}

	logger.FromContext(ctx, s.log).Info("Project member added",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", target.ID.String()),
		zap.String("role", role))
	return &domain.ProjectMember{User: *target, Role: membership.Role, JoinedAt: membership.JoinedAt}, nil
}

// RemoveProjectMember lets a project owner remove a member. The last owner stays.
func (s *MembershipService) RemoveProjectMember(ctx context.Context, user *domain.User, projectID, userID uuid.UUID) error {
	if err := s.visible(ctx, user, projectID); err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireOwner(ctx, user, projectID); err != nil {
			return err
		}

		membership, err := s.memberships.Get(ctx, projectID, userID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("membership %w", domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		if membership.Role == domain.ProjectRoleOwner {
			owners, err := s.memberships.CountByRole(ctx, projectID, domain.ProjectRoleOwner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return fmt.Errorf("%w: cannot remove the last owner of a project", domain.ErrValidation)
			}
		}

		if err := s.memberships.Remove(ctx, projectID, userID); err != nil {
			return err
		}
		logger.FromContext(ctx, s.log).Info("Project member removed",
			zap.String("project_id", projectID.String()),
			zap.String("user_id", userID.String()))
		return nil
	})
}

// ListMyProjects returns the projects the caller is a member of
func (s *MembershipService) ListMyProjects(ctx context.Context, user *domain.User) ([]domain.Project, error) {
	return s.projects.ListByMember(ctx, user.ID, user.TenantID)
}

func (s *MembershipService) visible(ctx context.Context, user *domain.User, projectID uuid.UUID) error {
	_, err := s.projects.GetByID(ctx, projectID, user.TenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return errProjectNotFound
	}
	return err
}

func (s *MembershipService) requireOwner(ctx context.Context, user *domain.User, projectID uuid.UUID) error {
	membership, err := s.memberships.Get(ctx, projectID, user.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: only project owners can manage members", domain.ErrForbidden)
	}
	if err != nil {
		return err
	}
	if membership.Role != domain.ProjectRoleOwner {
		return fmt.Errorf("%w: only project owners can manage members", domain.ErrForbidden)
	}
	return nil
}
