package repositories

import (
	"context"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PropertyRepository handles property data access
type PropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create creates a new property
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// GetByID gets a property by ID with relations
func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Amenities").
		First(&property, id).Error
	return &property, err
}

// List lists properties with pagination
func (r *PropertyRepository) List(ctx context.Context, offset, limit int) ([]*models.Property, int64, error) {
	var properties []*models.Property
	var total int64

	r.db.WithContext(ctx).Model(&models.Property{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Manager").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&properties).Error

	return properties, total, err
}

// ListByManager lists properties managed by a user
func (r *PropertyRepository) ListByManager(ctx context.Context, managerID uint, offset, limit int) ([]*models.Property, int64, error) {
	var properties []*models.Property
	var total int64

	r.db.WithContext(ctx).Model(&models.Property{}).Where("manager_id = ?", managerID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&properties).Error

	return properties, total, err
}

// Count counts all properties
func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).Count(&count).Error
	return count, err
}

// Update updates a property
func (r *PropertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// Delete soft deletes a property
func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, id).Error
}

// AmenityRepository handles amenity data access
type AmenityRepository struct {
	db *gorm.DB
}

// NewAmenityRepository creates a new amenity repository
func NewAmenityRepository(db *gorm.DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

// Create creates a new amenity
func (r *AmenityRepository) Create(ctx context.Context, amenity *models.Amenity) error {
	return r.db.WithContext(ctx).Create(amenity).Error
}

// GetByID gets an amenity by ID
func (r *AmenityRepository) GetByID(ctx context.Context, id uint) (*models.Amenity, error) {
	var amenity models.Amenity
	err := r.db.WithContext(ctx).First(&amenity, id).Error
	return &amenity, err
}

// ListByProperty lists active amenities of a property
func (r *AmenityRepository) ListByProperty(ctx context.Context, propertyID uint) ([]*models.Amenity, error) {
	var amenities []*models.Amenity
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&amenities).Error
	return amenities, err
}

// Update updates an amenity
func (r *AmenityRepository) Update(ctx context.Context, amenity *models.Amenity) error {
	return r.db.WithContext(ctx).Save(amenity).Error
}

// Delete soft deletes an amenity
func (r *AmenityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Amenity{}, id).Error
}

// UnitRepository handles unit data access
type UnitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// Create creates a new unit
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

// GetByID gets a unit by ID with relations
func (r *UnitRepository) GetByID(ctx context.Context, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("CurrentTenant").
		First(&unit, id).Error
	return &unit, err
}

// ListByProperty lists units of a property with pagination
func (r *UnitRepository) ListByProperty(ctx context.Context, propertyID uint, status string, offset, limit int) ([]*models.Unit, int64, error) {
	var units []*models.Unit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Unit{}).Where("property_id = ?", propertyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.
		Preload("CurrentTenant").
		Order("unit_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&units).Error

	return units, total, err
}

// GetByTenant gets the unit currently occupied by a tenant
func (r *UnitRepository) GetByTenant(ctx context.Context, tenantID uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("current_tenant_id = ?", tenantID).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// Update updates a unit
func (r *UnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// Delete soft deletes a unit
func (r *UnitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Unit{}, id).Error
}

// Count counts all units
func (r *UnitRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Unit{}).Count(&count).Error
	return count, err
}

// CountByPropertyAndStatus counts units of a property grouped by status
func (r *UnitRepository) CountByPropertyAndStatus(ctx context.Context, propertyID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Select("status, count(*) as count").
		Where("property_id = ?", propertyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		models.UnitAvailable:   0,
		models.UnitOccupied:    0,
		models.UnitMaintenance: 0,
		models.UnitReserved:    0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
