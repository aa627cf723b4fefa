package repository

import (
	"context"

	"project-service/internal/domain"
	"project-service/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormMembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

func (r *GormMembershipRepository) Add(ctx context.Context, membership *domain.Membership) error {
	row := model.ProjectMembership{
		ProjectID: membership.ProjectID,
		UserID:    membership.UserID,
		Role:      membership.Role,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translateError(err)
	}
	*membership = *toDomainMembership(&row)
	return nil
}

func (r *GormMembershipRepository) Get(ctx context.Context, projectID, userID uuid.UUID) (*domain.Membership, error) {
	var row model.ProjectMembership
	err := conn(ctx, r.db).Where("project_id = ? AND user_id = ?", projectID, userID).First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainMembership(&row), nil
}

func (r *GormMembershipRepository) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	result := conn(ctx, r.db).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMembership{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormMembershipRepository) CountByRole(ctx context.Context, projectID uuid.UUID, role string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.ProjectMembership{}).
		Where("project_id = ? AND role = ?", projectID, role).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *GormMembershipRepository) ListMembers(ctx context.Context, projectID, tenantID uuid.UUID) ([]domain.ProjectMember, error) {
	var rows []model.ProjectMembership
	err := conn(ctx, r.db).Preload("User").
		Joins("JOIN users ON users.id = project_users.user_id").
		Where("project_users.project_id = ? AND users.tenant_id = ?", projectID, tenantID).
		Order("project_users.joined_at, project_users.user_id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	members := make([]domain.ProjectMember, 0, len(rows))
	for _, row := range rows {
		if row.User == nil {
			continue
		}
		members = append(members, domain.ProjectMember{
			User:     *toDomainUser(row.User),
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return members, nil
}

func (r *GormMembershipRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	err := conn(ctx, r.db).Where("project_id = ?", projectID).Delete(&model.ProjectMembership{}).Error
	return translateError(err)
}
