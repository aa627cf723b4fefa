package usecase

import (
	"context"
	"testing"
	"time"

	"project-service/internal/domain"
	"project-service/internal/repository"
	"project-service/internal/storetest"
	"project-service/pkg/jwtutil"
	"project-service/pkg/password"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	auth        *AuthService
	projects    *ProjectService
	tasks       *TaskService
	memberships *MembershipService
	tokens      *jwtutil.JWTUtil
	projectRepo *repository.GormProjectRepository
	taskRepo    *repository.GormTaskRepository
	memberRepo  *repository.GormMembershipRepository
	tx          *repository.GormTransactor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := storetest.Open(t)
	log := zap.NewNop()

	tokens, err := jwtutil.NewJWTUtil(jwtutil.JWTConfig{SigningKey: "test-key", Algorithm: "HS256", Expiration: 30 * time.Minute})
	if err != nil {
		t.Fatalf("jwt util: %v", err)
	}

	tenants := repository.NewTenantRepository(db)
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	memberships := repository.NewMembershipRepository(db)
	tx := repository.NewTransactor(db)

	return &env{
		auth:        NewAuthService(tenants, users, tx, password.NewHasher(bcrypt.MinCost), tokens, log),
		projects:    NewProjectService(projects, tasks, memberships, tx, log),
		tasks:       NewTaskService(projects, tasks, users, log),
		memberships: NewMembershipService(projects, users, memberships, tx, log),
		tokens:      tokens,
		projectRepo: projects,
		taskRepo:    tasks,
		memberRepo:  memberships,
		tx:          tx,
	}
}

func (e *env) register(t *testing.T, name, tenantDomain string) *domain.User {
	t.Helper()
	user, err := e.auth.RegisterUser(context.Background(), RegisterInput{
		Username:     name,
		Email:        name + "@example.com",
		Password:     "secret123",
		TenantName:   tenantDomain,
		TenantDomain: tenantDomain,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return user
}

func (e *env) createProject(t *testing.T, user *domain.User, name string) *domain.Project {
	t.Helper()
	project, err := e.projects.CreateProject(context.Background(), user, CreateProjectInput{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}
