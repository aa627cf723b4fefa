package repository

import (
	"context"

	"project-service/internal/domain"
	"project-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormTenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

func (r *GormTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	row := model.Tenant{ID: tenant.ID, Name: tenant.Name, Domain: tenant.Domain}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translateError(err)
	}
	*tenant = *toDomainTenant(&row)
	return nil
}

func (r *GormTenantRepository) GetByDomain(ctx context.Context, slug string) (*domain.Tenant, error) {
	var row model.Tenant
	if err := conn(ctx, r.db).Where("domain = ?", slug).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainTenant(&row), nil
}
