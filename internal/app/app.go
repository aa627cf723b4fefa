// Package app wires configuration, storage, use cases and HTTP into one server.
package app

import (
	"project-service/internal/handler"
	"project-service/internal/repository"
	"project-service/internal/router"
	"project-service/internal/usecase"
	"project-service/pkg/config"
	"project-service/pkg/jwtutil"
	"project-service/pkg/password"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived resources the application is built from
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
	// Hasher defaults to bcrypt at the default cost
	Hasher usecase.PasswordHasher
}

// New builds the HTTP server for deps
func New(deps Deps) (*echo.Echo, error) {
	cfg := deps.Config
	log := deps.Logger

	tokens, err := jwtutil.NewJWTUtil(jwtutil.JWTConfig{
		SigningKey: cfg.JWT.SigningKey,
		Algorithm:  cfg.JWT.Algorithm,
		Expiration: cfg.JWT.Expiration(),
	})
	if err != nil {
		return nil, err
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = password.NewHasher(0)
	}

	tenants := repository.NewTenantRepository(deps.DB)
	users := repository.NewUserRepository(deps.DB)
	projects := repository.NewProjectRepository(deps.DB)
	tasks := repository.NewTaskRepository(deps.DB)
	memberships := repository.NewMembershipRepository(deps.DB)
	tx := repository.NewTransactor(deps.DB)

	authService := usecase.NewAuthService(tenants, users, tx, hasher, tokens, log)
	projectService := usecase.NewProjectService(projects, tasks, memberships, tx, log)
	taskService := usecase.NewTaskService(projects, tasks, users, log)
	membershipService := usecase.NewMembershipService(projects, users, memberships, tx, log)

	return router.New(router.Handlers{
		Auth:        handler.NewAuthHandler(authService, log),
		Projects:    handler.NewProjectHandler(projectService, log),
		Tasks:       handler.NewTaskHandler(taskService, log),
		Memberships: handler.NewMembershipHandler(membershipService, log),
		Health:      handler.NewHealthHandler(deps.DB, cfg.ServiceName),
		Resolver:    authService,
	}, router.Options{
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       log,
	}), nil
}
