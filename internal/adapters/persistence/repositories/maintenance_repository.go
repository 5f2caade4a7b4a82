package repositories

import (
	"context"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// MaintenanceRepository handles maintenance request data access
type MaintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create creates a new maintenance request
func (r *MaintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID gets a maintenance request by ID with relations
func (r *MaintenanceRepository) GetByID(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Unit").
		Preload("Tenant").
		Preload("AssignedTo").
		First(&request, id).Error
	return &request, err
}

// ListByProperty lists maintenance requests of a property with pagination
func (r *MaintenanceRepository) ListByProperty(ctx context.Context, propertyID uint, status string, offset, limit int) ([]*models.MaintenanceRequest, int64, error) {
	var requests []*models.MaintenanceRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MaintenanceRequest{}).Where("property_id = ?", propertyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.
		Preload("Unit").
		Preload("Tenant").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}

// ListByTenant lists maintenance requests submitted by a tenant
func (r *MaintenanceRepository) ListByTenant(ctx context.Context, tenantID uint) ([]*models.MaintenanceRequest, error) {
	var requests []*models.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("AssignedTo").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// CountByPropertyAndStatus counts requests of a property with the status
func (r *MaintenanceRepository) CountByPropertyAndStatus(ctx context.Context, propertyID uint, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequest{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

// CountByStatus counts all requests with the given statuses
func (r *MaintenanceRepository) CountByStatus(ctx context.Context, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequest{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

// CountByTenantAndStatus counts a tenant's requests with the given statuses
func (r *MaintenanceRepository) CountByTenantAndStatus(ctx context.Context, tenantID uint, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequest{}).
		Where("tenant_id = ?", tenantID).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

// Update updates a maintenance request
func (r *MaintenanceRepository) Update(ctx context.Context, request *models.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete soft deletes a maintenance request
func (r *MaintenanceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MaintenanceRequest{}, id).Error
}

// MaintenanceEventRepository handles maintenance history data access
type MaintenanceEventRepository struct {
	db *gorm.DB
}

// NewMaintenanceEventRepository creates a new maintenance event repository
func NewMaintenanceEventRepository(db *gorm.DB) *MaintenanceEventRepository {
	return &MaintenanceEventRepository{db: db}
}

// Create creates a new maintenance event
func (r *MaintenanceEventRepository) Create(ctx context.Context, event *models.MaintenanceEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByRequestID gets events of a request (history)
func (r *MaintenanceEventRepository) GetByRequestID(ctx context.Context, requestID uint) ([]*models.MaintenanceEvent, error) {
	var events []*models.MaintenanceEvent
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}
