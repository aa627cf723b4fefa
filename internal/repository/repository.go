package repository

import (
	"context"

	"project-service/internal/domain"

	"github.com/google/uuid"
)

// Lookups that miss return domain.ErrNotFound; unique violations return domain.ErrConflict
// and connectivity failures domain.ErrTransientStore.

type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByDomain(ctx context.Context, slug string) (*domain.Tenant, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetInTenant returns the user only when it belongs to tenantID
	GetInTenant(ctx context.Context, id, tenantID uuid.UUID) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}

// ProjectRepository addresses every project by (id, tenant)
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id, tenantID uuid.UUID) (*domain.Project, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Project, error)
	ListByMember(ctx context.Context, userID, tenantID uuid.UUID) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id, tenantID uuid.UUID) error
}

// TaskRepository addresses every task by (id, project). Reads carry the assignee snapshot.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id, projectID uuid.UUID) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, status string) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, projectID uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type MembershipRepository interface {
	Add(ctx context.Context, membership *domain.Membership) error
	Get(ctx context.Context, projectID, userID uuid.UUID) (*domain.Membership, error)
	Remove(ctx context.Context, projectID, userID uuid.UUID) error
	CountByRole(ctx context.Context, projectID uuid.UUID, role string) (int64, error)
	// ListMembers joins users through project_users, restricted to tenantID
	ListMembers(ctx context.Context, projectID, tenantID uuid.UUID) ([]domain.ProjectMember, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

// Transactor runs fn inside one store transaction. Repositories called with the
// context passed to fn take part in it; nested calls join the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
