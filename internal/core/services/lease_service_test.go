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

func newLeaseService(db *gorm.DB) *LeaseService {
	return NewLeaseService(
		repositories.NewLeaseRepository(db),
		repositories.NewUnitRepository(db),
		repositories.NewPropertyRepository(db),
		repositories.NewUserRepository(db),
		newTestNotifyService(db),
	)
}

func leaseInput(unitID, tenantID uint, start, end time.Time) *CreateLeaseInput {
	return &CreateLeaseInput{
		UnitID:      unitID,
		TenantID:    tenantID,
		StartDate:   start,
		EndDate:     end,
		MonthlyRent: 1200,
	}
}

func TestCreateLease_OccupiesUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	start := time.Now()

	lease, err := svc.Create(ctx, actor, leaseInput(unit.ID, tenant.ID, start, start.AddDate(1, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, models.LeaseActive, lease.Status)
	assert.Equal(t, property.ID, lease.PropertyID)

	var updated models.Unit
	require.NoError(t, db.First(&updated, unit.ID).Error)
	assert.Equal(t, models.UnitOccupied, updated.Status)
	require.NotNil(t, updated.CurrentTenantID)
	assert.Equal(t, tenant.ID, *updated.CurrentTenantID)
}

func TestCreateLease_InvalidDateRange(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	start := time.Now()

	_, err := svc.Create(context.Background(), actor, leaseInput(unit.ID, tenant.ID, start, start))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateLease_UnitAlreadyLeased(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	other := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	start := time.Now()

	_, err := svc.Create(ctx, actor, leaseInput(unit.ID, tenant.ID, start, start.AddDate(1, 0, 0)))
	require.NoError(t, err)

	// Unit is now OCCUPIED, so the second lease fails before the active
	// lease lookup.
	_, err = svc.Create(ctx, actor, leaseInput(unit.ID, other.ID, start, start.AddDate(1, 0, 0)))
	assert.ErrorIs(t, err, ErrUnitNotAvailable)
}

func TestCreateLease_TenantAlreadyHasLease(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	first := createTestUnit(t, db, property.ID, models.UnitAvailable)
	second := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	start := time.Now()

	_, err := svc.Create(ctx, actor, leaseInput(first.ID, tenant.ID, start, start.AddDate(1, 0, 0)))
	require.NoError(t, err)

	_, err = svc.Create(ctx, actor, leaseInput(second.ID, tenant.ID, start, start.AddDate(1, 0, 0)))
	assert.ErrorIs(t, err, ErrTenantHasLease)
}

func TestTerminateLease_ReleasesUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	start := time.Now()

	lease, err := svc.Create(ctx, actor, leaseInput(unit.ID, tenant.ID, start, start.AddDate(1, 0, 0)))
	require.NoError(t, err)

	terminated, err := svc.Terminate(ctx, actor, lease.ID, "moving out early")
	require.NoError(t, err)
	assert.Equal(t, models.LeaseTerminated, terminated.Status)
	require.NotNil(t, terminated.TerminatedAt)

	var updated models.Unit
	require.NoError(t, db.First(&updated, unit.ID).Error)
	assert.Equal(t, models.UnitAvailable, updated.Status)
	assert.Nil(t, updated.CurrentTenantID)

	_, err = svc.Terminate(ctx, actor, lease.ID, "")
	assert.ErrorIs(t, err, ErrLeaseNotActive)
}

func TestTerminateLease_KeepsUnitForNewOccupant(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	other := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	start := time.Now()

	lease, err := svc.Create(ctx, actor, leaseInput(unit.ID, tenant.ID, start, start.AddDate(1, 0, 0)))
	require.NoError(t, err)

	// Someone else took over the unit out of band; termination of the old
	// lease must not evict them.
	require.NoError(t, db.Model(&models.Unit{}).Where("id = ?", unit.ID).
		Update("current_tenant_id", other.ID).Error)

	_, err = svc.Terminate(ctx, actor, lease.ID, "")
	require.NoError(t, err)

	var updated models.Unit
	require.NoError(t, db.First(&updated, unit.ID).Error)
	assert.Equal(t, models.UnitOccupied, updated.Status)
	require.NotNil(t, updated.CurrentTenantID)
	assert.Equal(t, other.ID, *updated.CurrentTenantID)
}

func TestExpireDueLeases(t *testing.T) {
	db := setupTestDB(t)
	svc := newLeaseService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	pastTenant := createTestUser(t, db, models.RoleTenant)
	currentTenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	pastUnit := createTestUnit(t, db, property.ID, models.UnitAvailable)
	currentUnit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	pastLease, err := svc.Create(ctx, actor, leaseInput(pastUnit.ID, pastTenant.ID,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(0, 0, 2)))
	require.NoError(t, err)
	currentLease, err := svc.Create(ctx, actor, leaseInput(currentUnit.ID, currentTenant.ID,
		time.Now(), time.Now().AddDate(1, 0, 0)))
	require.NoError(t, err)

	// Backdate the first lease's end past due.
	require.NoError(t, db.Model(&models.Lease{}).Where("id = ?", pastLease.ID).
		Update("end_date", time.Now().AddDate(0, 0, -1)).Error)

	expired, err := svc.ExpireDueLeases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var reloaded models.Lease
	require.NoError(t, db.First(&reloaded, pastLease.ID).Error)
	assert.Equal(t, models.LeaseExpired, reloaded.Status)

	require.NoError(t, db.First(&reloaded, currentLease.ID).Error)
	assert.Equal(t, models.LeaseActive, reloaded.Status)

	var unit models.Unit
	require.NoError(t, db.First(&unit, pastUnit.ID).Error)
	assert.Equal(t, models.UnitAvailable, unit.Status)
	assert.Nil(t, unit.CurrentTenantID)
}
