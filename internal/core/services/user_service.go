package services

import (
	"context"
	"errors"
	"log"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrStepNotFound      = errors.New("onboarding step not found")
	ErrStepOrderViolated = errors.New("previous onboarding steps not completed")
	ErrStepDone          = errors.New("onboarding step already completed")
)

// UserService handles user profile, provisioning and onboarding logic
type UserService struct {
	userRepo       repositories.UserRepository
	onboardingRepo *repositories.OnboardingStepRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	onboardingRepo *repositories.OnboardingStepRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
	}
}

// GetProfile gets a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateProfile updates a user's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterPushTokenInput represents push token registration input
type RegisterPushTokenInput struct {
	PushToken  string `json:"push_token" validate:"required"`
	DeviceType string `json:"device_type" validate:"required"`
}

// RegisterPushToken stores the device push token for a user. Re-registering
// replaces the previous token; a device belongs to one account at a time.
func (s *UserService) RegisterPushToken(ctx context.Context, userID uint, input *RegisterPushTokenInput) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	user.PushToken = input.PushToken
	user.DeviceType = input.DeviceType

	return s.userRepo.Update(ctx, user)
}

// UnregisterPushToken clears the stored push token (logout on device)
func (s *UserService) UnregisterPushToken(ctx context.Context, userID uint) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	user.PushToken = ""
	user.DeviceType = ""

	return s.userRepo.Update(ctx, user)
}

// CreateStaffInput represents admin-side account provisioning input
type CreateStaffInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role" validate:"required"`
}

// CreateStaff provisions a staff account (admin only). Tenants register
// themselves through the auth endpoints instead.
func (s *UserService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*models.User, error) {
	switch input.Role {
	case models.RolePropertyManager, models.RoleBuildingStaff, models.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: hashed,
		Phone:    input.Phone,
		Role:     input.Role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Staff account created: %s (%s)", user.Email, user.Role)
	return user, nil
}

// List lists users with optional role filter (admin only)
func (s *UserService) List(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, role, offset, limit)
}

// SetActive activates or deactivates an account (admin only)
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d active=%t", userID, active)
	return user, nil
}

// SetRole changes an account's role (admin only)
func (s *UserService) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	switch role {
	case models.RoleTenant, models.RolePropertyManager, models.RoleBuildingStaff, models.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d role set to %s", userID, role)
	return user, nil
}

// ListOnboardingSteps lists a user's onboarding checklist in order
func (s *UserService) ListOnboardingSteps(ctx context.Context, userID uint) ([]*models.OnboardingStep, error) {
	return s.onboardingRepo.ListByUser(ctx, userID)
}

// CompleteOnboardingStep marks a step COMPLETED. Steps complete in seeded
// order; completing the last one flips the user's onboarded flag.
func (s *UserService) CompleteOnboardingStep(ctx context.Context, userID uint, code string) (*models.OnboardingStep, error) {
	step, err := s.onboardingRepo.GetByUserAndCode(ctx, userID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}

	if step.Status == models.StepStatusCompleted {
		return nil, ErrStepDone
	}

	steps, err := s.onboardingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, prev := range steps {
		if prev.StepOrder < step.StepOrder && prev.Status != models.StepStatusCompleted {
			return nil, ErrStepOrderViolated
		}
	}

	now := time.Now()
	step.Status = models.StepStatusCompleted
	step.CompletedAt = &now
	if err := s.onboardingRepo.Update(ctx, step); err != nil {
		return nil, err
	}

	pending, err := s.onboardingRepo.CountPendingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending == 0 {
		user, err := s.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.IsOnboarded = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("✅ User %d completed onboarding", userID)
	}

	return step, nil
}
