package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"gorm.io/gorm"
)

// Package service errors
var (
	ErrPackageNotFound = errors.New("package not found")
	ErrPackagePickedUp = errors.New("package already picked up")
)

// PackageService handles front-desk package logging
type PackageService struct {
	packageRepo    *repositories.PackageRepository
	propertyRepo   *repositories.PropertyRepository
	assignmentRepo *repositories.BuildingAssignmentRepository
	userRepo       repositories.UserRepository
	notifyService  *NotificationService
}

// NewPackageService creates a new package service
func NewPackageService(
	packageRepo *repositories.PackageRepository,
	propertyRepo *repositories.PropertyRepository,
	assignmentRepo *repositories.BuildingAssignmentRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *PackageService {
	return &PackageService{
		packageRepo:    packageRepo,
		propertyRepo:   propertyRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		notifyService:  notifyService,
	}
}

// LogPackageInput represents package logging input
type LogPackageInput struct {
	PropertyID     uint   `json:"property_id" validate:"required"`
	TenantID       uint   `json:"tenant_id" validate:"required"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// Log records a delivery at the front desk and notifies the tenant. The
// logging staff member must hold an active assignment to the property.
func (s *PackageService) Log(ctx context.Context, actor authz.Actor, input *LogPackageInput) (*models.Package, error) {
	if !authz.IsStaff(actor) {
		return nil, ErrNotAllowed
	}

	if actor.Role != models.RoleAdmin {
		active, err := s.assignmentRepo.HasActive(ctx, actor.UserID, input.PropertyID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrNoActiveAssignment
		}
	}

	if _, err := s.userRepo.GetByID(ctx, input.TenantID); err != nil {
		return nil, ErrTenantNotFound
	}

	pkg := &models.Package{
		PropertyID:     input.PropertyID,
		TenantID:       input.TenantID,
		Carrier:        input.Carrier,
		TrackingNumber: input.TrackingNumber,
		Status:         models.PackageLogged,
		LoggedByID:     actor.UserID,
	}

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	log.Printf("✅ Package %d logged for tenant %d", pkg.ID, input.TenantID)

	if s.notifyService != nil {
		msg := "A package has arrived for you at the front desk."
		if input.Carrier != "" {
			msg = fmt.Sprintf("A package from %s has arrived for you at the front desk.", input.Carrier)
		}
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      input.TenantID,
			PropertyID:  &input.PropertyID,
			Title:       "Package arrived",
			Message:     msg,
			Type:        models.NotifyPackage,
			ReferenceID: &pkg.ID,
		})
	}

	return pkg, nil
}

// MarkPickedUp records the tenant collecting the package
func (s *PackageService) MarkPickedUp(ctx context.Context, actor authz.Actor, id uint) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	if !authz.IsStaff(actor) && pkg.TenantID != actor.UserID {
		return nil, ErrNotAllowed
	}

	if pkg.Status == models.PackagePickedUp {
		return nil, ErrPackagePickedUp
	}

	now := time.Now()
	pkg.Status = models.PackagePickedUp
	pkg.PickedUpAt = &now

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}

	log.Printf("✅ Package %d picked up", pkg.ID)
	return pkg, nil
}

// ListForProperty lists a property's packages with optional status filter
func (s *PackageService) ListForProperty(ctx context.Context, actor authz.Actor, propertyID uint, status string, offset, limit int) ([]*models.Package, int64, error) {
	if !authz.IsStaff(actor) {
		return nil, 0, ErrNotAllowed
	}
	return s.packageRepo.ListByProperty(ctx, propertyID, status, offset, limit)
}

// ListByTenant lists packages addressed to a tenant
func (s *PackageService) ListByTenant(ctx context.Context, tenantID uint, status string) ([]*models.Package, error) {
	return s.packageRepo.ListByTenant(ctx, tenantID, status)
}
