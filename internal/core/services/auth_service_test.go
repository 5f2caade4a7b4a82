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

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		repositories.NewOnboardingStepRepository(db),
		testConfig(),
	)
}

func TestRegister_CreatesTenantWithOnboardingSteps(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{
		FullName: "Alice Tenant",
		Email:    "alice@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, models.RoleTenant, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	var steps []models.OnboardingStep
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).Order("step_order ASC").Find(&steps).Error)
	require.Len(t, steps, 4)
	assert.Equal(t, models.StepProfile, steps[0].Code)
	assert.Equal(t, models.StepMoveIn, steps[3].Code)
	for _, step := range steps {
		assert.Equal(t, models.StepStatusPending, step.Status)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{FullName: "A", Email: "dup@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{FullName: "B", Email: "dup@example.com", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegister_WeakPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{FullName: "A", Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{FullName: "A", Email: "a@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "a@example.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{FullName: "A", Email: "a@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", resp.User.ID).Update("is_active", false).Error)

	_, err = svc.Login(ctx, &LoginInput{Email: "a@example.com", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshToken_RotatesAndRevokesOld(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{FullName: "A", Email: "a@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The spent token must not be accepted again
	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The rotated token still works
	_, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{FullName: "A", Email: "a@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestChangePassword_RevokesSessionsAndSwapsCredential(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{FullName: "A", Email: "pw@example.com", Password: "supersecret1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordInput{
		CurrentPassword: "wrong-password",
		NewPassword:     "evenmoresecret2",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordInput{
		CurrentPassword: "supersecret1",
		NewPassword:     "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordInput{
		CurrentPassword: "supersecret1",
		NewPassword:     "evenmoresecret2",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "pw@example.com", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginInput{Email: "pw@example.com", Password: "evenmoresecret2"})
	require.NoError(t, err)

	// Sessions minted before the change are dead.
	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshToken_Garbage(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
