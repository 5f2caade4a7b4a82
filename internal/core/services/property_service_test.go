package services

import (
	"context"
	"testing"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPropertyService(db *gorm.DB) *PropertyService {
	return NewPropertyService(
		repositories.NewPropertyRepository(db),
		repositories.NewAmenityRepository(db),
		repositories.NewUnitRepository(db),
		repositories.NewUserRepository(db),
	)
}

func TestAssignTenant_OccupiesUnitAndSetsTenant(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	updated, err := svc.AssignTenant(ctx, actor, unit.ID, tenant.ID)
	require.NoError(t, err)

	assert.Equal(t, models.UnitOccupied, updated.Status)
	require.NotNil(t, updated.CurrentTenantID)
	assert.Equal(t, tenant.ID, *updated.CurrentTenantID)
}

func TestAssignTenant_UnitNotAvailable(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitMaintenance)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.AssignTenant(ctx, actor, unit.ID, tenant.ID)
	assert.ErrorIs(t, err, ErrUnitNotAvailable)
}

func TestAssignTenant_RejectsNonTenant(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	staff := createTestUser(t, db, models.RoleBuildingStaff)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.AssignTenant(ctx, actor, unit.ID, staff.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestAssignTenant_ForeignManagerForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	other := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: other.ID, Role: models.RolePropertyManager}

	_, err := svc.AssignTenant(ctx, actor, unit.ID, tenant.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestReleaseUnit_ClearsTenantWithStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.AssignTenant(ctx, actor, unit.ID, tenant.ID)
	require.NoError(t, err)

	released, err := svc.ReleaseUnit(ctx, actor, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UnitAvailable, released.Status)
	assert.Nil(t, released.CurrentTenantID)
}

func TestReleaseUnit_NotOccupied(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.ReleaseUnit(ctx, actor, unit.ID)
	assert.ErrorIs(t, err, ErrUnitNotOccupied)
}

func TestSetUnitStatus_OccupiedUnreachable(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.SetUnitStatus(ctx, actor, unit.ID, models.UnitOccupied)
	assert.ErrorIs(t, err, ErrInvalidUnitStatus)

	updated, err := svc.SetUnitStatus(ctx, actor, unit.ID, models.UnitMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.UnitMaintenance, updated.Status)
}

func TestSetUnitStatus_OccupiedUnitRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.AssignTenant(ctx, actor, unit.ID, tenant.ID)
	require.NoError(t, err)

	_, err = svc.SetUnitStatus(ctx, actor, unit.ID, models.UnitReserved)
	assert.ErrorIs(t, err, ErrUnitNotAvailable)
}

func TestCreateProperty_RequiresManagerRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newPropertyService(db)

	tenant := createTestUser(t, db, models.RoleTenant)

	_, err := svc.CreateProperty(context.Background(), &CreatePropertyInput{
		Name:      "Tower",
		Address:   "1 Street",
		ManagerID: tenant.ID,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
