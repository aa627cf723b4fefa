package repository

import (
	"context"

	"project-service/internal/domain"
	"project-service/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	row := model.User{
		ID:           user.ID,
		TenantID:     user.TenantID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translateError(err)
	}
	*user = *toDomainUser(&row)
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var row model.User
	if err := conn(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainUser(&row), nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row model.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainUser(&row), nil
}

func (r *GormUserRepository) GetInTenant(ctx context.Context, id, tenantID uuid.UUID) (*domain.User, error) {
	var row model.User
	if err := conn(ctx, r.db).Where("id = ? AND tenant_id = ?", id, tenantID).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainUser(&row), nil
}

func (r *GormUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}
