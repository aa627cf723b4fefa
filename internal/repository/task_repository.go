package repository

import (
	"context"
	"time"

	"project-service/internal/domain"
	"project-service/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts the task and reloads it with its assignee snapshot
func (r *GormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	row := model.Task{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		AssigneeID:  task.AssigneeID,
		DueDate:     task.DueDate,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translateError(err)
	}
	created, err := r.GetByID(ctx, row.ID, row.ProjectID)
	if err != nil {
		return err
	}
	*task = *created
	return nil
}

func (r *GormTaskRepository) GetByID(ctx context.Context, id, projectID uuid.UUID) (*domain.Task, error) {
	var row model.Task
	err := conn(ctx, r.db).Preload("Assignee").
		Where("id = ? AND project_id = ?", id, projectID).
		First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainTask(&row), nil
}

// ListByProject returns the project's tasks, optionally restricted to one status
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, status string) ([]domain.Task, error) {
	query := conn(ctx, r.db).Preload("Assignee").Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rows []model.Task
	if err := query.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, *toDomainTask(&rows[i]))
	}
	return tasks, nil
}

// Update writes every mutable column; callers merge patches beforehand
func (r *GormTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	result := conn(ctx, r.db).Model(&model.Task{}).
		Where("id = ? AND project_id = ?", task.ID, task.ProjectID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"assignee_id": task.AssigneeID,
			"due_date":    task.DueDate,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	updated, err := r.GetByID(ctx, task.ID, task.ProjectID)
	if err != nil {
		return err
	}
	*task = *updated
	return nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, id, projectID uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ? AND project_id = ?", id, projectID).Delete(&model.Task{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormTaskRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	err := conn(ctx, r.db).Where("project_id = ?", projectID).Delete(&model.Task{}).Error
	return translateError(err)
}
