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

func newMaintenanceService(db *gorm.DB) *MaintenanceService {
	return NewMaintenanceService(
		repositories.NewMaintenanceRepository(db),
		repositories.NewMaintenanceEventRepository(db),
		repositories.NewUnitRepository(db),
		repositories.NewPropertyRepository(db),
		repositories.NewBuildingAssignmentRepository(db),
		repositories.NewUserRepository(db),
		newTestNotifyService(db),
	)
}

func TestCreateRequest_RequiresActiveAssignment(t *testing.T) {
	db := setupTestDB(t)
	svc := newMaintenanceService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)

	input := &CreateRequestInput{UnitID: unit.ID, Title: "Leaking faucet"}

	_, err := svc.Create(ctx, tenant.ID, input)
	assert.ErrorIs(t, err, ErrNoActiveAssignment)

	createTestAssignment(t, db, property.ID, tenant.ID)

	request, err := svc.Create(ctx, tenant.ID, input)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenancePending, request.Status)
	assert.Equal(t, "NORMAL", request.Priority)
	assert.Equal(t, property.ID, request.PropertyID)
}

func TestAssignRequest_RejectsNonStaff(t *testing.T) {
	db := setupTestDB(t)
	svc := newMaintenanceService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	otherTenant := createTestUser(t, db, models.RoleTenant)
	staff := createTestUser(t, db, models.RoleBuildingStaff)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)
	createTestAssignment(t, db, property.ID, tenant.ID)

	request, err := svc.Create(ctx, tenant.ID, &CreateRequestInput{UnitID: unit.ID, Title: "Broken lock"})
	require.NoError(t, err)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err = svc.Assign(ctx, actor, request.ID, otherTenant.ID)
	assert.ErrorIs(t, err, ErrAssigneeNotStaff)

	assigned, err := svc.Assign(ctx, actor, request.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, staff.ID, *assigned.AssignedToID)
}

func TestUpdateStatus_ValidatesMembershipNotOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newMaintenanceService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)
	createTestAssignment(t, db, property.ID, tenant.ID)

	request, err := svc.Create(ctx, tenant.ID, &CreateRequestInput{UnitID: unit.ID, Title: "No hot water"})
	require.NoError(t, err)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err = svc.UpdateStatus(ctx, actor, request.ID, "FIXED", "")
	assert.ErrorIs(t, err, ErrInvalidMaintenanceStatus)

	// Any member of the status set is accepted, ordering is not enforced:
	// a PENDING ticket may jump straight to IN_PROGRESS and back.
	updated, err := svc.UpdateStatus(ctx, actor, request.ID, models.MaintenanceInProgress, "working on it")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceInProgress, updated.Status)

	updated, err = svc.UpdateStatus(ctx, actor, request.ID, models.MaintenancePending, "parts missing")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenancePending, updated.Status)
}

func TestCompleteRequest_ClosedStaysClosed(t *testing.T) {
	db := setupTestDB(t)
	svc := newMaintenanceService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)
	createTestAssignment(t, db, property.ID, tenant.ID)

	request, err := svc.Create(ctx, tenant.ID, &CreateRequestInput{UnitID: unit.ID, Title: "Squeaky door"})
	require.NoError(t, err)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	completed, err := svc.Complete(ctx, actor, request.ID, &CompleteInput{Note: "oiled hinges", LaborHours: 0.5})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCompleted, completed.Status)
	assert.NotEmpty(t, completed.Completion)

	_, err = svc.UpdateStatus(ctx, actor, request.ID, models.MaintenanceInProgress, "")
	assert.ErrorIs(t, err, ErrRequestClosed)
	_, err = svc.Complete(ctx, actor, request.ID, &CompleteInput{})
	assert.ErrorIs(t, err, ErrRequestClosed)
	_, err = svc.Cancel(ctx, actor, request.ID, "")
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestCancelRequest_RequesterMayCancelOwn(t *testing.T) {
	db := setupTestDB(t)
	svc := newMaintenanceService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	stranger := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)
	createTestAssignment(t, db, property.ID, tenant.ID)

	request, err := svc.Create(ctx, tenant.ID, &CreateRequestInput{UnitID: unit.ID, Title: "False alarm"})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, authz.Actor{UserID: stranger.ID, Role: models.RoleTenant}, request.ID, "")
	assert.ErrorIs(t, err, ErrNotAllowed)

	cancelled, err := svc.Cancel(ctx, authz.Actor{UserID: tenant.ID, Role: models.RoleTenant}, request.ID, "sorted itself out")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCancelled, cancelled.Status)
}

func TestHistory_RecordsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newMaintenanceService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	staff := createTestUser(t, db, models.RoleBuildingStaff)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitOccupied)
	createTestAssignment(t, db, property.ID, tenant.ID)

	request, err := svc.Create(ctx, tenant.ID, &CreateRequestInput{UnitID: unit.ID, Title: "Flickering light"})
	require.NoError(t, err)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	_, err = svc.Assign(ctx, actor, request.ID, staff.ID)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, actor, request.ID, &CompleteInput{Note: "replaced ballast"})
	require.NoError(t, err)

	history, err := svc.History(ctx, authz.Actor{UserID: tenant.ID, Role: models.RoleTenant}, request.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.MaintEventCreate, history[0].EventType)
	assert.Equal(t, models.MaintEventAssign, history[1].EventType)
	assert.Equal(t, models.MaintEventComplete, history[2].EventType)
	assert.Equal(t, models.MaintenanceAssigned, history[2].FromStatus)
	assert.Equal(t, models.MaintenanceCompleted, history[2].ToStatus)
}
