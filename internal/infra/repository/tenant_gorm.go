package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

func (r *TenantGormRepository) GetBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND active = ?", strings.ToLower(strings.TrimSpace(slug)), true).
		First(&tenant).Error; err != nil {
		return nil, notFound(err, "tenant_not_found")
	}
	return &tenant, nil
}

func (r *TenantGormRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&tenant).Error; err != nil {
		return nil, notFound(err, "tenant_not_found")
	}
	return &tenant, nil
}
