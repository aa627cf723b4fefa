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

type GormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	row := model.Project{
		ID:          project.ID,
		TenantID:    project.TenantID,
		Name:        project.Name,
		Description: project.Description,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translateError(err)
	}
	*project = *toDomainProject(&row)
	return nil
}

func (r *GormProjectRepository) GetByID(ctx context.Context, id, tenantID uuid.UUID) (*domain.Project, error) {
	var row model.Project
	err := conn(ctx, r.db).Where("id = ? AND tenant_id = ?", id, tenantID).First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainProject(&row), nil
}

func (r *GormProjectRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Project, error) {
	var rows []model.Project
	err := conn(ctx, r.db).Where("tenant_id = ?", tenantID).Order("created_at, id").Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainProjects(rows), nil
}

func (r *GormProjectRepository) ListByMember(ctx context.Context, userID, tenantID uuid.UUID) ([]domain.Project, error) {
	var rows []model.Project
	err := conn(ctx, r.db).
		Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("project_users.user_id = ? AND projects.tenant_id = ?", userID, tenantID).
		Order("projects.created_at, projects.id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainProjects(rows), nil
}

// Update writes name and description and refreshes updated_at
func (r *GormProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	now := time.Now()
	result := conn(ctx, r.db).Model(&model.Project{}).
		Where("id = ? AND tenant_id = ?", project.ID, project.TenantID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"updated_at":  now,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	project.UpdatedAt = now
	return nil
}

func (r *GormProjectRepository) Delete(ctx context.Context, id, tenantID uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&model.Project{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
