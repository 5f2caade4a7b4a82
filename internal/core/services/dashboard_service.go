package services

import (
	"context"
	"errors"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"gorm.io/gorm"
)

// DashboardService aggregates operational numbers for the management,
// tenant and admin views
type DashboardService struct {
	propertyRepo    *repositories.PropertyRepository
	unitRepo        *repositories.UnitRepository
	maintenanceRepo *repositories.MaintenanceRepository
	paymentRepo     *repositories.PaymentRepository
	leaseRepo       *repositories.LeaseRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	propertyRepo *repositories.PropertyRepository,
	unitRepo *repositories.UnitRepository,
	maintenanceRepo *repositories.MaintenanceRepository,
	paymentRepo *repositories.PaymentRepository,
	leaseRepo *repositories.LeaseRepository,
) *DashboardService {
	return &DashboardService{
		propertyRepo:    propertyRepo,
		unitRepo:        unitRepo,
		maintenanceRepo: maintenanceRepo,
		paymentRepo:     paymentRepo,
		leaseRepo:       leaseRepo,
	}
}

// PropertySummary is the per-property dashboard payload
type PropertySummary struct {
	PropertyID      uint             `json:"property_id"`
	PropertyName    string           `json:"property_name"`
	UnitCounts      map[string]int64 `json:"unit_counts"`
	OccupancyRate   float64          `json:"occupancy_rate"`
	OpenMaintenance int64            `json:"open_maintenance"`
	Revenue30Days   float64          `json:"revenue_30_days"`
}

// Summary builds the dashboard numbers for one property
func (s *DashboardService) Summary(ctx context.Context, actor authz.Actor, propertyID uint) (*PropertySummary, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	unitCounts, err := s.unitRepo.CountByPropertyAndStatus(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range unitCounts {
		total += n
	}
	occupancy := 0.0
	if total > 0 {
		occupancy = float64(unitCounts[models.UnitOccupied]) / float64(total)
	}

	openStatuses := []string{models.MaintenancePending, models.MaintenanceAssigned, models.MaintenanceInProgress}
	openMaintenance, err := s.maintenanceRepo.CountByPropertyAndStatus(ctx, propertyID, openStatuses)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	revenue, err := s.paymentRepo.SumCompletedByPropertySince(ctx, propertyID, since)
	if err != nil {
		return nil, err
	}

	return &PropertySummary{
		PropertyID:      property.ID,
		PropertyName:    property.Name,
		UnitCounts:      unitCounts,
		OccupancyRate:   occupancy,
		OpenMaintenance: openMaintenance,
		Revenue30Days:   revenue,
	}, nil
}

// TenantSummary is the tenant home-screen payload
type TenantSummary struct {
	Lease       *models.Lease   `json:"lease"`
	NextPayment *models.Payment `json:"next_payment"`
	OpenTickets int64           `json:"open_tickets"`
}

// MySummary builds the tenant's own dashboard: active lease, next pending
// payment and open maintenance tickets
func (s *DashboardService) MySummary(ctx context.Context, tenantID uint) (*TenantSummary, error) {
	lease, err := s.leaseRepo.GetActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	nextPayment, err := s.paymentRepo.GetNextPendingByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	openStatuses := []string{models.MaintenancePending, models.MaintenanceAssigned, models.MaintenanceInProgress}
	openTickets, err := s.maintenanceRepo.CountByTenantAndStatus(ctx, tenantID, openStatuses)
	if err != nil {
		return nil, err
	}

	return &TenantSummary{
		Lease:       lease,
		NextPayment: nextPayment,
		OpenTickets: openTickets,
	}, nil
}

// AdminSummary is the platform-wide dashboard payload
type AdminSummary struct {
	Properties      int64   `json:"properties"`
	Units           int64   `json:"units"`
	OpenMaintenance int64   `json:"open_maintenance"`
	Revenue30Days   float64 `json:"revenue_30_days"`
}

// GlobalSummary builds the platform-wide counts for the admin view
func (s *DashboardService) GlobalSummary(ctx context.Context) (*AdminSummary, error) {
	properties, err := s.propertyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	units, err := s.unitRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	openStatuses := []string{models.MaintenancePending, models.MaintenanceAssigned, models.MaintenanceInProgress}
	openMaintenance, err := s.maintenanceRepo.CountByStatus(ctx, openStatuses)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	revenue, err := s.paymentRepo.SumCompletedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	return &AdminSummary{
		Properties:      properties,
		Units:           units,
		OpenMaintenance: openMaintenance,
		Revenue30Days:   revenue,
	}, nil
}
