package repositories

import (
	"context"
	"time"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LeaseRepository handles lease data access
type LeaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *gorm.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// Create creates a new lease
func (r *LeaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

// GetByID gets a lease by ID with relations
func (r *LeaseRepository) GetByID(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Unit").
		Preload("Tenant").
		First(&lease, id).Error
	return &lease, err
}

// ListByProperty lists leases of a property with pagination
func (r *LeaseRepository) ListByProperty(ctx context.Context, propertyID uint, offset, limit int) ([]*models.Lease, int64, error) {
	var leases []*models.Lease
	var total int64

	r.db.WithContext(ctx).Model(&models.Lease{}).Where("property_id = ?", propertyID).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("Tenant").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&leases).Error

	return leases, total, err
}

// ListByTenant lists leases of a tenant
func (r *LeaseRepository) ListByTenant(ctx context.Context, tenantID uint) ([]*models.Lease, error) {
	var leases []*models.Lease
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Unit").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&leases).Error
	return leases, err
}

// GetActiveByUnit gets the active lease on a unit, nil when there is none
func (r *LeaseRepository) GetActiveByUnit(ctx context.Context, unitID uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Where("status = ?", models.LeaseActive).
		First(&lease).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lease, nil
}

// GetActiveByTenant gets the tenant's active lease, nil when there is none
func (r *LeaseRepository) GetActiveByTenant(ctx context.Context, tenantID uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Unit").
		Where("tenant_id = ?", tenantID).
		Where("status = ?", models.LeaseActive).
		First(&lease).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &lease, nil
}

// ListExpiringBetween lists active leases ending inside the window
func (r *LeaseRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Lease, error) {
	var leases []*models.Lease
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Tenant").
		Where("status = ?", models.LeaseActive).
		Where("end_date BETWEEN ? AND ?", from, to).
		Find(&leases).Error
	return leases, err
}

// Update updates a lease
func (r *LeaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

// Delete soft deletes a lease
func (r *LeaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Lease{}, id).Error
}

// BuildingAssignmentRepository handles building assignment data access
type BuildingAssignmentRepository struct {
	db *gorm.DB
}

// NewBuildingAssignmentRepository creates a new building assignment repository
func NewBuildingAssignmentRepository(db *gorm.DB) *BuildingAssignmentRepository {
	return &BuildingAssignmentRepository{db: db}
}

// Create creates a new assignment
func (r *BuildingAssignmentRepository) Create(ctx context.Context, assignment *models.BuildingAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// GetByID gets an assignment by ID
func (r *BuildingAssignmentRepository) GetByID(ctx context.Context, id uint) (*models.BuildingAssignment, error) {
	var assignment models.BuildingAssignment
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("User").
		First(&assignment, id).Error
	return &assignment, err
}

// HasActive reports whether the user holds an active assignment to the property
func (r *BuildingAssignmentRepository) HasActive(ctx context.Context, userID, propertyID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BuildingAssignment{}).
		Where("user_id = ?", userID).
		Where("property_id = ?", propertyID).
		Where("is_active = ?", true).
		Count(&count).Error
	return count > 0, err
}

// ListByProperty lists assignments of a property
func (r *BuildingAssignmentRepository) ListByProperty(ctx context.Context, propertyID uint) ([]*models.BuildingAssignment, error) {
	var assignments []*models.BuildingAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// ListByUser lists assignments of a user
func (r *BuildingAssignmentRepository) ListByUser(ctx context.Context, userID uint) ([]*models.BuildingAssignment, error) {
	var assignments []*models.BuildingAssignment
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// Update updates an assignment
func (r *BuildingAssignmentRepository) Update(ctx context.Context, assignment *models.BuildingAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}
