package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"project-service/internal/domain"
	"project-service/internal/repository"
	"project-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errProjectNotFound = fmt.Errorf("project %w", domain.ErrNotFound)
	errTaskNotFound    = fmt.Errorf("task %w", domain.ErrNotFound)
)

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// TaskService manages tasks. Every operation resolves the parent project within the
// caller's tenant first, and every assignee must belong to that tenant.
type TaskService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
	log      *zap.Logger
}

func NewTaskService(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	users repository.UserRepository,
	log *zap.Logger,
) *TaskService {
	return &TaskService{projects: projects, tasks: tasks, users: users, log: log}
}

func (s *TaskService) CreateTask(ctx context.Context, user *domain.User, projectID uuid.UUID, in CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if err := domain.CheckTaskTitle(title); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !domain.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	project, err := s.project(ctx, user, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, project.TenantID, in.AssigneeID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ProjectID:   project.ID,
		Title:       title,
		Description: in.Description,
		Status:      status,
		AssigneeID:  in.AssigneeID,
		DueDate:     in.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.log).Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", project.ID.String()))
	return task, nil
}

// ListTasks returns the project's tasks; an empty status lists all of them
func (s *TaskService) ListTasks(ctx context.Context, user *domain.User, projectID uuid.UUID, status string) ([]domain.Task, error) {
	if status != "" && !domain.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if _, err := s.project(ctx, user, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID, status)
}

func (s *TaskService) GetTask(ctx context.Context, user *domain.User, projectID, taskID uuid.UUID) (*domain.Task, error) {
	if _, err := s.project(ctx, user, projectID); err != nil {
		return nil, err
	}
	return s.task(ctx, projectID, taskID)
}

// UpdateTask merges patch onto the task. An empty patch returns the task unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, user *domain.User, projectID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	project, err := s.project(ctx, user, projectID)
	if err != nil {
		return nil, err
	}
	task, err := s.task(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return task, nil
	}

	if assigneeID, ok := patch.AssigneeID.Get(); ok {
		if err := s.checkAssignee(ctx, project.TenantID, &assigneeID); err != nil {
			return nil, err
		}
	}

	patch.Apply(task)
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// DeleteTask reports false when the project exists but the task does not
func (s *TaskService) DeleteTask(ctx context.Context, user *domain.User, projectID, taskID uuid.UUID) (bool, error) {
	if _, err := s.project(ctx, user, projectID); err != nil {
		return false, err
	}
	err := s.tasks.Delete(ctx, taskID, projectID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *TaskService) project(ctx context.Context, user *domain.User, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID, user.TenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errProjectNotFound
	}
	return project, err
}

func (s *TaskService) task(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID, projectID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errTaskNotFound
	}
	return task, err
}

func (s *TaskService) checkAssignee(ctx context.Context, tenantID uuid.UUID, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	_, err := s.users.GetInTenant(ctx, *assigneeID, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.FromContext(ctx, s.log).Info("Rejected assignee outside tenant",
			zap.String("assignee_id", assigneeID.String()),
			zap.String("tenant_id", tenantID.String()))
		return domain.ErrInvalidAssignee
	}
	return err
}
