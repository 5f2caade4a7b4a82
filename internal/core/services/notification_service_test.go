package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_StoresUnreadRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)

	notification, err := svc.Notify(ctx, &NotifyInput{
		UserID:  tenant.ID,
		Title:   "Rent due",
		Message: "Your rent for September is due.",
		Type:    models.NotifyPayment,
	})
	require.NoError(t, err)
	assert.Equal(t, models.NotificationUnread, notification.Status)
	assert.Equal(t, models.NotifyPayment, notification.Type)
	// No push token and no SMTP host configured, so neither channel fires.
	assert.False(t, notification.PushSent)
	assert.False(t, notification.EmailSent)

	count, err := svc.CountUnread(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotify_DefaultsToGeneralType(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)

	tenant := createTestUser(t, db, models.RoleTenant)

	notification, err := svc.Notify(context.Background(), &NotifyInput{
		UserID:  tenant.ID,
		Title:   "Hello",
		Message: "Welcome aboard.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.NotifyGeneral, notification.Type)
}

func TestNotify_UnknownRecipient(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)

	_, err := svc.Notify(context.Background(), &NotifyInput{
		UserID:  9999,
		Title:   "Ghost mail",
		Message: "Nobody should ever see this.",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The recipient check runs before the insert, so nothing is stored.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSendPush_RoutesByDeviceType(t *testing.T) {
	hits := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db := setupTestDB(t)
	cfg := testConfig()
	cfg.Push.ExpoURL = server.URL + "/expo"
	cfg.Push.FCMURL = server.URL + "/fcm"
	cfg.Push.FCMServerKey = "test-server-key"
	svc := NewNotificationService(
		repositories.NewNotificationRepository(db),
		repositories.NewBuildingAssignmentRepository(db),
		repositories.NewUserRepository(db),
		cfg,
	)

	tests := []struct {
		name       string
		deviceType string
		token      string
		wantPath   string
	}{
		{"ios goes to expo", models.DeviceIOS, "ExponentPushToken[abc]", "/expo"},
		{"android goes to expo", models.DeviceAndroid, "ExponentPushToken[def]", "/expo"},
		{"web goes to fcm", models.DeviceWeb, "fcm-token-1", "/fcm"},
		{"no device type, expo-shaped token", "", "ExponentPushToken[ghi]", "/expo"},
		{"no device type, opaque token", "", "fcm-token-2", "/fcm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{DeviceType: tt.deviceType, PushToken: tt.token}
			require.NoError(t, svc.sendPush(user, "Ping", "Routing check."))
			assert.Equal(t, tt.wantPath, <-hits)
		})
	}
}

func TestAnnounce_RequiresActiveAssignment(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)
	ctx := context.Background()

	manager := createTestUser(t, db, models.RolePropertyManager)
	staff := createTestUser(t, db, models.RoleBuildingStaff)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)

	input := &AnnounceInput{
		PropertyID: property.ID,
		UserID:     tenant.ID,
		Title:      "Water shutoff",
		Message:    "Water is off tomorrow from 9 to 11.",
	}

	_, err := svc.Announce(ctx, staff.ID, models.RoleBuildingStaff, input)
	assert.ErrorIs(t, err, ErrNoActiveAssignment)

	// The failed announce must not leave a row behind.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	createTestAssignment(t, db, property.ID, staff.ID)

	notification, err := svc.Announce(ctx, staff.ID, models.RoleBuildingStaff, input)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, notification.UserID)
	assert.Equal(t, models.NotificationUnread, notification.Status)
}

func TestAnnounce_AdminSkipsAssignmentCheck(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)

	manager := createTestUser(t, db, models.RolePropertyManager)
	admin := createTestUser(t, db, models.RoleAdmin)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)

	_, err := svc.Announce(context.Background(), admin.ID, models.RoleAdmin, &AnnounceInput{
		PropertyID: property.ID,
		UserID:     tenant.ID,
		Title:      "Policy update",
		Message:    "New parking rules start Monday.",
	})
	require.NoError(t, err)
}

func TestMarkRead_RecipientOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)
	other := createTestUser(t, db, models.RoleTenant)

	notification, err := svc.Notify(ctx, &NotifyInput{
		UserID:  tenant.ID,
		Title:   "Package arrived",
		Message: "A package is waiting at the front desk.",
		Type:    models.NotifyPackage,
	})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, notification.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)

	read, err := svc.MarkRead(ctx, notification.ID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationRead, read.Status)
}

func TestMarkAllRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)

	for i := 0; i < 3; i++ {
		_, err := svc.Notify(ctx, &NotifyInput{
			UserID:  tenant.ID,
			Title:   "Reminder",
			Message: "Something happened.",
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(ctx, tenant.ID))

	count, err := svc.CountUnread(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestArchiveNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifyService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)

	notification, err := svc.Notify(ctx, &NotifyInput{
		UserID:  tenant.ID,
		Title:   "Old news",
		Message: "This one is done.",
	})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, notification.ID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationArchived, archived.Status)

	items, total, err := svc.List(ctx, tenant.ID, models.NotificationArchived, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, notification.ID, items[0].ID)
}
