package services

import (
	"context"
	"testing"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(
		repositories.NewUserRepository(db),
		repositories.NewOnboardingStepRepository(db),
	)
}

func seedOnboarding(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	steps := []*models.OnboardingStep{
		{UserID: userID, Code: models.StepProfile, Name: "Profile", StepOrder: 1, Status: models.StepStatusPending},
		{UserID: userID, Code: models.StepDocuments, Name: "Documents", StepOrder: 2, Status: models.StepStatusPending},
		{UserID: userID, Code: models.StepLeaseReview, Name: "Lease review", StepOrder: 3, Status: models.StepStatusPending},
		{UserID: userID, Code: models.StepMoveIn, Name: "Move in", StepOrder: 4, Status: models.StepStatusPending},
	}
	require.NoError(t, repositories.NewOnboardingStepRepository(db).CreateBatch(context.Background(), steps))
}

func TestCompleteOnboardingStep_InOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)
	seedOnboarding(t, db, tenant.ID)

	step, err := svc.CompleteOnboardingStep(ctx, tenant.ID, models.StepProfile)
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusCompleted, step.Status)
	require.NotNil(t, step.CompletedAt)
}

func TestCompleteOnboardingStep_OutOfOrderRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)
	seedOnboarding(t, db, tenant.ID)

	_, err := svc.CompleteOnboardingStep(ctx, tenant.ID, models.StepDocuments)
	assert.ErrorIs(t, err, ErrStepOrderViolated)
}

func TestCompleteOnboardingStep_TwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)
	seedOnboarding(t, db, tenant.ID)

	_, err := svc.CompleteOnboardingStep(ctx, tenant.ID, models.StepProfile)
	require.NoError(t, err)

	_, err = svc.CompleteOnboardingStep(ctx, tenant.ID, models.StepProfile)
	assert.ErrorIs(t, err, ErrStepDone)
}

func TestCompleteOnboardingStep_LastStepFlipsOnboarded(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)
	seedOnboarding(t, db, tenant.ID)

	for _, code := range []string{models.StepProfile, models.StepDocuments, models.StepLeaseReview} {
		_, err := svc.CompleteOnboardingStep(ctx, tenant.ID, code)
		require.NoError(t, err)
	}

	user, err := svc.GetProfile(ctx, tenant.ID)
	require.NoError(t, err)
	assert.False(t, user.IsOnboarded)

	_, err = svc.CompleteOnboardingStep(ctx, tenant.ID, models.StepMoveIn)
	require.NoError(t, err)

	user, err = svc.GetProfile(ctx, tenant.ID)
	require.NoError(t, err)
	assert.True(t, user.IsOnboarded)
}

func TestCompleteOnboardingStep_UnknownCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	tenant := createTestUser(t, db, models.RoleTenant)
	seedOnboarding(t, db, tenant.ID)

	_, err := svc.CompleteOnboardingStep(context.Background(), tenant.ID, "NOPE")
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestCreateStaff_RejectsTenantRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	_, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		FullName: "X",
		Email:    "x@example.com",
		Password: "supersecret1",
		Role:     models.RoleTenant,
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user := createTestUser(t, db, models.RoleTenant)

	_, err := svc.SetRole(ctx, user.ID, "SUPERUSER")
	assert.ErrorIs(t, err, ErrInvalidRole)

	updated, err := svc.SetRole(ctx, user.ID, models.RoleBuildingStaff)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuildingStaff, updated.Role)
}

func TestRegisterPushToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	tenant := createTestUser(t, db, models.RoleTenant)

	err := svc.RegisterPushToken(ctx, tenant.ID, &RegisterPushTokenInput{
		PushToken:  "ExponentPushToken[abc]",
		DeviceType: models.DeviceIOS,
	})
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[abc]", user.PushToken)

	require.NoError(t, svc.UnregisterPushToken(ctx, tenant.ID))

	user, err = svc.GetProfile(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, user.PushToken)
}
