package repositories

import (
	"context"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DocumentRepository handles document data access
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

// GetByID gets a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&document, id).Error
	return &document, err
}

// ListByOwner lists documents owned by a user
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*models.Document, int64, error) {
	var documents []*models.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Document{}).Where("owner_id = ?", ownerID)
	query.Count(&total)

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&documents).Error

	return documents, total, err
}

// ListByProperty lists documents attached to a property
func (r *DocumentRepository) ListByProperty(ctx context.Context, propertyID uint, offset, limit int) ([]*models.Document, int64, error) {
	var documents []*models.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Document{}).Where("property_id = ?", propertyID)
	query.Count(&total)

	err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&documents).Error

	return documents, total, err
}

// Delete soft deletes a document record
func (r *DocumentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, id).Error
}
