package repositories

import (
	"context"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PackageRepository handles package data access
type PackageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create logs a new package
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// GetByID gets a package by ID
func (r *PackageRepository) GetByID(ctx context.Context, id uint) (*models.Package, error) {
	var pkg models.Package
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("LoggedBy").
		First(&pkg, id).Error
	return &pkg, err
}

// ListByProperty lists packages of a property with pagination
func (r *PackageRepository) ListByProperty(ctx context.Context, propertyID uint, status string, offset, limit int) ([]*models.Package, int64, error) {
	var packages []*models.Package
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Package{}).Where("property_id = ?", propertyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.
		Preload("Tenant").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&packages).Error

	return packages, total, err
}

// ListByTenant lists packages addressed to a user
func (r *PackageRepository) ListByTenant(ctx context.Context, tenantID uint, status string) ([]*models.Package, error) {
	var packages []*models.Package
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&packages).Error
	return packages, err
}

// Update updates a package
func (r *PackageRepository) Update(ctx context.Context, pkg *models.Package) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}
