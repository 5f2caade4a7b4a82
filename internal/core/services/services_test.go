package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database, named per test so parallel
// tests don't share state
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "test",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

// newTestNotifyService builds a notification service with no push or SMTP
// configuration, so delivery attempts are skipped and rows are stored only
func newTestNotifyService(db *gorm.DB) *NotificationService {
	return NewNotificationService(
		repositories.NewNotificationRepository(db),
		repositories.NewBuildingAssignmentRepository(db),
		repositories.NewUserRepository(db),
		testConfig(),
	)
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := &models.User{
		FullName: "Test " + role,
		Email:    fmt.Sprintf("%s-%d@example.com", strings.ToLower(role), time.Now().UnixNano()),
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProperty(t *testing.T, db *gorm.DB, managerID uint) *models.Property {
	t.Helper()

	property := &models.Property{
		Name:      "Test Tower",
		Address:   "1 Test Street",
		ManagerID: managerID,
		IsActive:  true,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func createTestUnit(t *testing.T, db *gorm.DB, propertyID uint, status string) *models.Unit {
	t.Helper()

	unit := &models.Unit{
		PropertyID: propertyID,
		UnitNumber: fmt.Sprintf("%d", time.Now().UnixNano()%10000),
		RentAmount: 1200,
		Status:     status,
	}
	require.NoError(t, db.Create(unit).Error)
	return unit
}

func createTestAssignment(t *testing.T, db *gorm.DB, propertyID, userID uint) *models.BuildingAssignment {
	t.Helper()

	assignment := &models.BuildingAssignment{
		PropertyID: propertyID,
		UserID:     userID,
		StartDate:  time.Now().AddDate(0, -1, 0),
		IsActive:   true,
	}
	require.NoError(t, db.Create(assignment).Error)
	return assignment
}

func createTestAmenity(t *testing.T, db *gorm.DB, propertyID uint, active bool) *models.Amenity {
	t.Helper()

	amenity := &models.Amenity{
		PropertyID: propertyID,
		Name:       "Pool",
		IsActive:   true,
	}
	require.NoError(t, db.Create(amenity).Error)
	if !active {
		// default:true on the column means create won't persist false
		require.NoError(t, db.Model(amenity).Update("is_active", false).Error)
		amenity.IsActive = false
	}
	return amenity
}
