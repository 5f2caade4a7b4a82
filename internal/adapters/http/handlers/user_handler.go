package handlers

import (
	"errors"
	"strings"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user profile, provisioning and onboarding endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfile updates the caller's profile
// @Summary Update profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", fiber.Map{"user": user.ToResponse()})
}

// RegisterPushToken stores the caller's device push token
// @Summary Register push token
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/me/push-token [post]
func (h *UserHandler) RegisterPushToken(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.RegisterPushTokenInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PushToken == "" {
		return response.BadRequest(c, "Push token is required")
	}
	switch req.DeviceType {
	case models.DeviceIOS, models.DeviceAndroid, models.DeviceWeb:
	default:
		return response.BadRequest(c, "Device type must be ios, android or web")
	}

	if err := h.userService.RegisterPushToken(c.Context(), userID, &req); err != nil {
		return response.InternalServerError(c, "Failed to register push token")
	}

	return response.Success(c, "Push token registered", nil)
}

// UnregisterPushToken clears the caller's push token
// @Summary Unregister push token
// @Tags Users
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/me/push-token [delete]
func (h *UserHandler) UnregisterPushToken(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := h.userService.UnregisterPushToken(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to unregister push token")
	}

	return response.Success(c, "Push token removed", nil)
}

// CreateStaffRequest represents staff provisioning request body
type CreateStaffRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// CreateStaff provisions a staff account (admin only)
// @Summary Create staff account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStaffRequest true "Staff account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return response.BadRequest(c, "Full name, email, password and role are required")
	}

	user, err := h.userService.CreateStaff(c.Context(), &services.CreateStaffInput{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Role must be PROPERTY_MANAGER, BUILDING_STAFF or ADMIN")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password does not meet requirements")
		case errors.Is(err, services.ErrEmailAlreadyUsed):
			return response.Conflict(c, "Email already registered")
		default:
			return response.InternalServerError(c, "Failed to create account")
		}
	}

	return response.Created(c, "Account created", fiber.Map{"user": user.ToResponse()})
}

// List lists users (admin only)
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	role := c.Query("role")

	users, total, err := h.userService.List(c.Context(), role, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return response.Success(c, "Users retrieved", pagination.NewResponse(items, params, total))
}

// SetActiveRequest represents account activation request body
type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetActive activates or deactivates an account (admin only)
// @Summary Activate or deactivate user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/{id}/active [patch]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.Success(c, "User updated", fiber.Map{"user": user.ToResponse()})
}

// Get gets a user by ID (admin only)
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetProfile(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved", fiber.Map{"user": user.ToResponse()})
}

// SetRoleRequest represents role change request body
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetRole changes an account's role (admin only)
// @Summary Set user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/role [patch]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "role is required")
	}

	user, err := h.userService.SetRole(c.Context(), uint(id), strings.ToUpper(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown role")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update role")
		}
	}

	return response.Success(c, "Role updated", fiber.Map{"user": user.ToResponse()})
}

// ListOnboardingSteps lists the caller's onboarding checklist
// @Summary List onboarding steps
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /onboarding/steps [get]
func (h *UserHandler) ListOnboardingSteps(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	steps, err := h.userService.ListOnboardingSteps(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list onboarding steps")
	}

	return response.Success(c, "Onboarding steps retrieved", fiber.Map{"steps": steps})
}

// CompleteOnboardingStep marks one step of the caller's checklist done
// @Summary Complete onboarding step
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Param code path string true "Step code"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /onboarding/steps/{code}/complete [post]
func (h *UserHandler) CompleteOnboardingStep(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	code := strings.ToUpper(c.Params("code"))

	step, err := h.userService.CompleteOnboardingStep(c.Context(), userID, code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStepNotFound):
			return response.NotFound(c, "Onboarding step not found")
		case errors.Is(err, services.ErrStepDone):
			return response.Conflict(c, "Step already completed")
		case errors.Is(err, services.ErrStepOrderViolated):
			return response.Conflict(c, "Complete previous steps first")
		default:
			return response.InternalServerError(c, "Failed to complete step")
		}
	}

	return response.Success(c, "Step completed", fiber.Map{"step": step})
}
