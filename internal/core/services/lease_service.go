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

// Lease service errors
var (
	ErrLeaseNotFound    = errors.New("lease not found")
	ErrLeaseNotActive   = errors.New("lease is not active")
	ErrUnitHasLease     = errors.New("unit already has an active lease")
	ErrTenantHasLease   = errors.New("tenant already has an active lease")
	ErrInvalidDateRange = errors.New("end date must be after start date")
)

// LeaseService handles lease lifecycle logic. Creating a lease occupies the
// unit; terminating or expiring it releases the unit again.
type LeaseService struct {
	leaseRepo     *repositories.LeaseRepository
	unitRepo      *repositories.UnitRepository
	propertyRepo  *repositories.PropertyRepository
	userRepo      repositories.UserRepository
	notifyService *NotificationService
}

// NewLeaseService creates a new lease service
func NewLeaseService(
	leaseRepo *repositories.LeaseRepository,
	unitRepo *repositories.UnitRepository,
	propertyRepo *repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *LeaseService {
	return &LeaseService{
		leaseRepo:     leaseRepo,
		unitRepo:      unitRepo,
		propertyRepo:  propertyRepo,
		userRepo:      userRepo,
		notifyService: notifyService,
	}
}

// CreateLeaseInput represents lease creation input
type CreateLeaseInput struct {
	UnitID        uint      `json:"unit_id" validate:"required"`
	TenantID      uint      `json:"tenant_id" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	MonthlyRent   float64   `json:"monthly_rent" validate:"required,gt=0"`
	DepositAmount float64   `json:"deposit_amount,omitempty"`
}

// Create creates an ACTIVE lease and occupies the unit
func (s *LeaseService) Create(ctx context.Context, actor authz.Actor, input *CreateLeaseInput) (*models.Lease, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	unit, err := s.unitRepo.GetByID(ctx, input.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if unit.Status != models.UnitAvailable {
		return nil, ErrUnitNotAvailable
	}

	tenant, err := s.userRepo.GetByID(ctx, input.TenantID)
	if err != nil || tenant.Role != models.RoleTenant {
		return nil, ErrTenantNotFound
	}

	existing, err := s.leaseRepo.GetActiveByUnit(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUnitHasLease
	}

	existing, err = s.leaseRepo.GetActiveByTenant(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTenantHasLease
	}

	lease := &models.Lease{
		PropertyID:    unit.PropertyID,
		UnitID:        input.UnitID,
		TenantID:      input.TenantID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		MonthlyRent:   input.MonthlyRent,
		DepositAmount: input.DepositAmount,
		Status:        models.LeaseActive,
	}

	if err := s.leaseRepo.Create(ctx, lease); err != nil {
		return nil, err
	}

	unit.Status = models.UnitOccupied
	unit.CurrentTenantID = &input.TenantID
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}

	log.Printf("✅ Lease %d created: unit %d, tenant %d", lease.ID, unit.ID, input.TenantID)

	if s.notifyService != nil {
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      input.TenantID,
			PropertyID:  &unit.PropertyID,
			Title:       "Lease signed",
			Message:     fmt.Sprintf("Your lease for unit %s is active until %s.", unit.UnitNumber, input.EndDate.Format("2006-01-02")),
			Type:        models.NotifyLease,
			ReferenceID: &lease.ID,
		})
	}

	return lease, nil
}

// Get gets a lease by ID. Tenants may only read their own lease.
func (s *LeaseService) Get(ctx context.Context, actor authz.Actor, id uint) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Resource{OwnerID: lease.TenantID, ManagerID: property.ManagerID}, authz.ActionView) {
		return nil, ErrNotAllowed
	}

	return lease, nil
}

// ListByProperty lists leases of a property
func (s *LeaseService) ListByProperty(ctx context.Context, actor authz.Actor, propertyID uint, offset, limit int) ([]*models.Lease, int64, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPropertyNotFound
		}
		return nil, 0, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, 0, ErrNotAllowed
	}

	return s.leaseRepo.ListByProperty(ctx, propertyID, offset, limit)
}

// ListByTenant lists a tenant's leases, newest first
func (s *LeaseService) ListByTenant(ctx context.Context, tenantID uint) ([]*models.Lease, error) {
	return s.leaseRepo.ListByTenant(ctx, tenantID)
}

// Terminate ends an ACTIVE lease early and releases the unit
func (s *LeaseService) Terminate(ctx context.Context, actor authz.Actor, id uint, note string) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if lease.Status != models.LeaseActive {
		return nil, ErrLeaseNotActive
	}

	now := time.Now()
	lease.Status = models.LeaseTerminated
	lease.TerminatedAt = &now

	if err := s.leaseRepo.Update(ctx, lease); err != nil {
		return nil, err
	}

	if err := s.releaseLeasedUnit(ctx, lease); err != nil {
		return nil, err
	}

	log.Printf("✅ Lease %d terminated", lease.ID)

	if s.notifyService != nil {
		msg := "Your lease has been terminated."
		if note != "" {
			msg = msg + " " + note
		}
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      lease.TenantID,
			PropertyID:  &lease.PropertyID,
			Title:       "Lease terminated",
			Message:     msg,
			Type:        models.NotifyLease,
			ReferenceID: &lease.ID,
		})
	}

	return lease, nil
}

// ExpireDueLeases marks ACTIVE leases past their end date EXPIRED and
// releases their units. Called by the scheduler.
func (s *LeaseService) ExpireDueLeases(ctx context.Context) (int, error) {
	epoch := time.Time{}
	leases, err := s.leaseRepo.ListExpiringBetween(ctx, epoch, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, lease := range leases {
		lease.Status = models.LeaseExpired
		if err := s.leaseRepo.Update(ctx, lease); err != nil {
			log.Printf("⚠️ Failed to expire lease %d: %v", lease.ID, err)
			continue
		}
		if err := s.releaseLeasedUnit(ctx, lease); err != nil {
			log.Printf("⚠️ Failed to release unit for lease %d: %v", lease.ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("✅ Expired %d leases", expired)
	}
	return expired, nil
}

// releaseLeasedUnit returns a lease's unit to AVAILABLE if this tenant
// still occupies it.
func (s *LeaseService) releaseLeasedUnit(ctx context.Context, lease *models.Lease) error {
	unit, err := s.unitRepo.GetByID(ctx, lease.UnitID)
	if err != nil {
		return err
	}

	if unit.Status != models.UnitOccupied || unit.CurrentTenantID == nil || *unit.CurrentTenantID != lease.TenantID {
		return nil
	}

	unit.Status = models.UnitAvailable
	unit.CurrentTenantID = nil
	return s.unitRepo.Update(ctx, unit)
}
