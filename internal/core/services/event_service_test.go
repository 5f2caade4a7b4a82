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

func newEventService(db *gorm.DB) *EventService {
	return NewEventService(
		repositories.NewEventRepository(db),
		repositories.NewEventRegistrationRepository(db),
		repositories.NewPropertyRepository(db),
		repositories.NewBuildingAssignmentRepository(db),
		newTestNotifyService(db),
	)
}

func createTestEvent(t *testing.T, svc *EventService, actor authz.Actor, propertyID uint, capacity int) *models.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), actor, &CreateEventInput{
		PropertyID:   propertyID,
		Title:        "Rooftop BBQ",
		StartsAt:     time.Now().AddDate(0, 0, 7),
		MaxAttendees: capacity,
	})
	require.NoError(t, err)
	return event
}

func TestRegisterEvent_ConfirmsUnderCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	createTestAssignment(t, db, property.ID, tenant.ID)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 10)

	registration, err := svc.Register(ctx, tenant.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, registration.Status)

	reloaded, err := svc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CurrentAttendees)

	_, err = svc.Register(ctx, tenant.ID, event.ID)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterEvent_WaitlistsAtCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	property := createTestProperty(t, db, manager.ID)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 1)

	first := createTestUser(t, db, models.RoleTenant)
	second := createTestUser(t, db, models.RoleTenant)
	third := createTestUser(t, db, models.RoleTenant)
	for _, u := range []*models.User{first, second, third} {
		createTestAssignment(t, db, property.ID, u.ID)
	}

	reg, err := svc.Register(ctx, first.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, reg.Status)

	reg, err = svc.Register(ctx, second.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWaitlisted, reg.Status)
	assert.Equal(t, 1, reg.Position)

	reg, err = svc.Register(ctx, third.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWaitlisted, reg.Status)
	assert.Equal(t, 2, reg.Position)

	reloaded, err := svc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CurrentAttendees)
	assert.Equal(t, 2, reloaded.WaitlistCount)
}

func TestRegisterEvent_RequiresActiveAssignment(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)

	manager := createTestUser(t, db, models.RolePropertyManager)
	outsider := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 10)

	_, err := svc.Register(context.Background(), outsider.ID, event.ID)
	assert.ErrorIs(t, err, ErrNoActiveAssignment)
}

func TestRegisterEvent_PastEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	createTestAssignment(t, db, property.ID, tenant.ID)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 10)

	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("starts_at", time.Now().AddDate(0, 0, -1)).Error)

	_, err := svc.Register(context.Background(), tenant.ID, event.ID)
	assert.ErrorIs(t, err, ErrEventInPast)
}

func TestCancelRegistration_FreesSeat(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	createTestAssignment(t, db, property.ID, tenant.ID)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 5)

	_, err := svc.Register(ctx, tenant.ID, event.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelRegistration(ctx, tenant.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCancelled, cancelled.Status)

	reloaded, err := svc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.CurrentAttendees)

	_, err = svc.CancelRegistration(ctx, tenant.ID, event.ID)
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestCancelRegistration_WaitlistedShrinksWaitlist(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	property := createTestProperty(t, db, manager.ID)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 1)

	confirmed := createTestUser(t, db, models.RoleTenant)
	waitlisted := createTestUser(t, db, models.RoleTenant)
	createTestAssignment(t, db, property.ID, confirmed.ID)
	createTestAssignment(t, db, property.ID, waitlisted.ID)

	_, err := svc.Register(ctx, confirmed.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, waitlisted.ID, event.ID)
	require.NoError(t, err)

	_, err = svc.CancelRegistration(ctx, waitlisted.ID, event.ID)
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CurrentAttendees)
	assert.Equal(t, 0, reloaded.WaitlistCount)
}

func TestRegisterEvent_ReusesCancelledRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	createTestAssignment(t, db, property.ID, tenant.ID)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	event := createTestEvent(t, svc, actor, property.ID, 5)

	first, err := svc.Register(ctx, tenant.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.CancelRegistration(ctx, tenant.ID, event.ID)
	require.NoError(t, err)

	second, err := svc.Register(ctx, tenant.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.RegistrationConfirmed, second.Status)

	var count int64
	require.NoError(t, db.Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", event.ID, tenant.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateEvent_InvalidCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := newEventService(db)

	manager := createTestUser(t, db, models.RolePropertyManager)
	property := createTestProperty(t, db, manager.ID)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.Create(context.Background(), actor, &CreateEventInput{
		PropertyID:   property.ID,
		Title:        "Empty room party",
		StartsAt:     time.Now().AddDate(0, 0, 7),
		MaxAttendees: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
