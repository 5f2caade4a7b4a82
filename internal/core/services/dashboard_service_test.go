package services

import (
	"context"
	"testing"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(db *gorm.DB) *DashboardService {
	return NewDashboardService(
		repositories.NewPropertyRepository(db),
		repositories.NewUnitRepository(db),
		repositories.NewMaintenanceRepository(db),
		repositories.NewPaymentRepository(db),
		repositories.NewLeaseRepository(db),
	)
}

func TestPropertySummary_OccupancyAndOpenTickets(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)

	occupied := createTestUnit(t, db, property.ID, models.UnitOccupied)
	createTestUnit(t, db, property.ID, models.UnitAvailable)
	createTestUnit(t, db, property.ID, models.UnitAvailable)
	createTestUnit(t, db, property.ID, models.UnitMaintenance)

	require.NoError(t, db.Create(&models.MaintenanceRequest{
		PropertyID: property.ID,
		UnitID:     occupied.ID,
		TenantID:   tenant.ID,
		Title:      "Stuck window",
		Status:     models.MaintenancePending,
	}).Error)
	require.NoError(t, db.Create(&models.MaintenanceRequest{
		PropertyID: property.ID,
		UnitID:     occupied.ID,
		TenantID:   tenant.ID,
		Title:      "Done already",
		Status:     models.MaintenanceCompleted,
	}).Error)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	summary, err := svc.Summary(ctx, actor, property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.UnitCounts[models.UnitOccupied])
	assert.Equal(t, int64(2), summary.UnitCounts[models.UnitAvailable])
	assert.InDelta(t, 0.25, summary.OccupancyRate, 0.001)
	assert.Equal(t, int64(1), summary.OpenMaintenance)

	other := createTestUser(t, db, models.RolePropertyManager)
	_, err = svc.Summary(ctx, authz.Actor{UserID: other.ID, Role: models.RolePropertyManager}, property.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestMySummary_LeaseNextPaymentOpenTickets(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	manager, tenant, property := paymentFixture(t, db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	due := time.Now().AddDate(0, 0, 7)
	paySvc := newPaymentService(db)
	payment, err := paySvc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 1200, DueDate: &due})
	require.NoError(t, err)

	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)
	require.NoError(t, db.Create(&models.MaintenanceRequest{
		PropertyID: property.ID,
		UnitID:     unit.ID,
		TenantID:   tenant.ID,
		Title:      "Dripping tap",
		Status:     models.MaintenanceAssigned,
	}).Error)

	summary, err := svc.MySummary(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, summary.Lease)
	assert.Equal(t, models.LeaseActive, summary.Lease.Status)
	require.NotNil(t, summary.NextPayment)
	assert.Equal(t, payment.ID, summary.NextPayment.ID)
	assert.Equal(t, int64(1), summary.OpenTickets)
}

func TestMySummary_EmptyForFreshTenant(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(db)

	tenant := createTestUser(t, db, models.RoleTenant)

	summary, err := svc.MySummary(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Nil(t, summary.Lease)
	assert.Nil(t, summary.NextPayment)
	assert.Equal(t, int64(0), summary.OpenTickets)
}

func TestGlobalSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	first := createTestProperty(t, db, manager.ID)
	second := createTestProperty(t, db, manager.ID)
	createTestUnit(t, db, first.ID, models.UnitAvailable)
	createTestUnit(t, db, second.ID, models.UnitOccupied)
	createTestUnit(t, db, second.ID, models.UnitAvailable)

	summary, err := svc.GlobalSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Properties)
	assert.Equal(t, int64(3), summary.Units)
	assert.Equal(t, int64(0), summary.OpenMaintenance)
	assert.Equal(t, 0.0, summary.Revenue30Days)
}
