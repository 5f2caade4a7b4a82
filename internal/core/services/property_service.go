package services

import (
	"context"
	"errors"
	"log"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"gorm.io/gorm"
)

// Property service errors
var (
	ErrPropertyNotFound  = errors.New("property not found")
	ErrAmenityNotFound   = errors.New("amenity not found")
	ErrUnitNotFound      = errors.New("unit not found")
	ErrUnitNotAvailable  = errors.New("unit is not available")
	ErrUnitNotOccupied   = errors.New("unit is not occupied")
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrInvalidUnitStatus = errors.New("invalid unit status")
)

// PropertyService handles property, amenity and unit business logic
type PropertyService struct {
	propertyRepo *repositories.PropertyRepository
	amenityRepo  *repositories.AmenityRepository
	unitRepo     *repositories.UnitRepository
	userRepo     repositories.UserRepository
}

// NewPropertyService creates a new property service
func NewPropertyService(
	propertyRepo *repositories.PropertyRepository,
	amenityRepo *repositories.AmenityRepository,
	unitRepo *repositories.UnitRepository,
	userRepo repositories.UserRepository,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		amenityRepo:  amenityRepo,
		unitRepo:     unitRepo,
		userRepo:     userRepo,
	}
}

// CreatePropertyInput represents property creation input
type CreatePropertyInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Address     string `json:"address" validate:"required,max=255"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	ManagerID   uint   `json:"manager_id" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CreateProperty creates a new property (admin only)
func (s *PropertyService) CreateProperty(ctx context.Context, input *CreatePropertyInput) (*models.Property, error) {
	manager, err := s.userRepo.GetByID(ctx, input.ManagerID)
	if err != nil || manager.Role != models.RolePropertyManager {
		return nil, ErrUserNotFound
	}

	property := &models.Property{
		Name:        input.Name,
		Address:     input.Address,
		City:        input.City,
		PostalCode:  input.PostalCode,
		ManagerID:   input.ManagerID,
		Description: input.Description,
		IsActive:    true,
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}

	log.Printf("✅ Property created: %s (manager %d)", property.Name, property.ManagerID)
	return property, nil
}

// GetProperty gets a property by ID
func (s *PropertyService) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

// ListProperties lists properties. Managers see their own, admins see all.
func (s *PropertyService) ListProperties(ctx context.Context, actor authz.Actor, offset, limit int) ([]*models.Property, int64, error) {
	if actor.Role == models.RolePropertyManager {
		return s.propertyRepo.ListByManager(ctx, actor.UserID, offset, limit)
	}
	return s.propertyRepo.List(ctx, offset, limit)
}

// UpdatePropertyInput represents property update input
type UpdatePropertyInput struct {
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateProperty updates a property's fields
func (s *PropertyService) UpdateProperty(ctx context.Context, actor authz.Actor, id uint, input *UpdatePropertyInput) (*models.Property, error) {
	property, err := s.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if input.Name != "" {
		property.Name = input.Name
	}
	if input.Address != "" {
		property.Address = input.Address
	}
	if input.City != "" {
		property.City = input.City
	}
	if input.PostalCode != "" {
		property.PostalCode = input.PostalCode
	}
	if input.Description != "" {
		property.Description = input.Description
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty soft deletes a property (admin only)
func (s *PropertyService) DeleteProperty(ctx context.Context, id uint) error {
	if _, err := s.GetProperty(ctx, id); err != nil {
		return err
	}
	return s.propertyRepo.Delete(ctx, id)
}

// CreateAmenityInput represents amenity creation input
type CreateAmenityInput struct {
	PropertyID  uint   `json:"property_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

// CreateAmenity adds a bookable amenity to a property
func (s *PropertyService) CreateAmenity(ctx context.Context, actor authz.Actor, input *CreateAmenityInput) (*models.Amenity, error) {
	property, err := s.GetProperty(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	amenity := &models.Amenity{
		PropertyID:  input.PropertyID,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}

	if err := s.amenityRepo.Create(ctx, amenity); err != nil {
		return nil, err
	}
	return amenity, nil
}

// ListAmenities lists the amenities of a property
func (s *PropertyService) ListAmenities(ctx context.Context, propertyID uint) ([]*models.Amenity, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.amenityRepo.ListByProperty(ctx, propertyID)
}

// CreateUnitInput represents unit creation input
type CreateUnitInput struct {
	PropertyID   uint    `json:"property_id" validate:"required"`
	UnitNumber   string  `json:"unit_number" validate:"required,max=20"`
	Floor        int     `json:"floor,omitempty"`
	Bedrooms     int     `json:"bedrooms,omitempty"`
	SquareMeters float64 `json:"square_meters,omitempty"`
	RentAmount   float64 `json:"rent_amount" validate:"required,gt=0"`
}

// CreateUnit adds a unit to a property
func (s *PropertyService) CreateUnit(ctx context.Context, actor authz.Actor, input *CreateUnitInput) (*models.Unit, error) {
	property, err := s.GetProperty(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	unit := &models.Unit{
		PropertyID:   input.PropertyID,
		UnitNumber:   input.UnitNumber,
		Floor:        input.Floor,
		Bedrooms:     input.Bedrooms,
		SquareMeters: input.SquareMeters,
		RentAmount:   input.RentAmount,
		Status:       models.UnitAvailable,
	}

	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit gets a unit by ID
func (s *PropertyService) GetUnit(ctx context.Context, id uint) (*models.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return unit, nil
}

// ListUnits lists units of a property with optional status filter
func (s *PropertyService) ListUnits(ctx context.Context, propertyID uint, status string, offset, limit int) ([]*models.Unit, int64, error) {
	if status != "" {
		switch status {
		case models.UnitAvailable, models.UnitOccupied, models.UnitMaintenance, models.UnitReserved:
		default:
			return nil, 0, ErrInvalidUnitStatus
		}
	}
	return s.unitRepo.ListByProperty(ctx, propertyID, status, offset, limit)
}

// AssignTenant places a tenant into an AVAILABLE unit, marking it OCCUPIED.
// A unit's current tenant is set exactly when its status is OCCUPIED; both
// fields change together here and in ReleaseUnit.
func (s *PropertyService) AssignTenant(ctx context.Context, actor authz.Actor, unitID, tenantID uint) (*models.Unit, error) {
	unit, err := s.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	property, err := s.GetProperty(ctx, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if unit.Status != models.UnitAvailable {
		return nil, ErrUnitNotAvailable
	}

	tenant, err := s.userRepo.GetByID(ctx, tenantID)
	if err != nil || tenant.Role != models.RoleTenant {
		return nil, ErrTenantNotFound
	}

	unit.Status = models.UnitOccupied
	unit.CurrentTenantID = &tenantID

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}

	log.Printf("✅ Tenant %d assigned to unit %d", tenantID, unitID)
	return unit, nil
}

// ReleaseUnit clears the occupant and returns the unit to AVAILABLE
func (s *PropertyService) ReleaseUnit(ctx context.Context, actor authz.Actor, unitID uint) (*models.Unit, error) {
	unit, err := s.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	property, err := s.GetProperty(ctx, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if unit.Status != models.UnitOccupied {
		return nil, ErrUnitNotOccupied
	}

	unit.Status = models.UnitAvailable
	unit.CurrentTenantID = nil

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}

	log.Printf("✅ Unit %d released", unitID)
	return unit, nil
}

// SetUnitStatus moves a vacant unit between AVAILABLE, MAINTENANCE and
// RESERVED. OCCUPIED is reachable only through AssignTenant.
func (s *PropertyService) SetUnitStatus(ctx context.Context, actor authz.Actor, unitID uint, status string) (*models.Unit, error) {
	switch status {
	case models.UnitAvailable, models.UnitMaintenance, models.UnitReserved:
	default:
		return nil, ErrInvalidUnitStatus
	}

	unit, err := s.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	property, err := s.GetProperty(ctx, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if unit.Status == models.UnitOccupied {
		return nil, ErrUnitNotAvailable
	}

	unit.Status = status
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}
