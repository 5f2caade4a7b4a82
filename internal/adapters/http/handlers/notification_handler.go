package handlers

import (
	"errors"
	"strings"

	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the caller's notifications
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	params := pagination.GetParams(c)
	status := strings.ToUpper(c.Query("status"))

	notifications, total, err := h.notificationService.List(c.Context(), userID, status, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Success(c, "Notifications retrieved", pagination.NewResponse(notifications, params, total))
}

// UnreadCount gets the caller's unread notification count
// @Summary Get unread notification count
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	count, err := h.notificationService.CountUnread(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	return response.Success(c, "Unread count retrieved", fiber.Map{"count": count})
}

// MarkRead marks a notification read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid notification ID")
	}

	notification, err := h.notificationService.MarkRead(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			return response.NotFound(c, "Notification not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "This notification belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to mark notification read")
		}
	}

	return response.Success(c, "Notification marked read", fiber.Map{"notification": notification})
}

// MarkAllRead marks all of the caller's unread notifications read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := h.notificationService.MarkAllRead(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}

	return response.Success(c, "All notifications marked read", nil)
}

// Archive archives a notification
// @Summary Archive notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/{id}/archive [post]
func (h *NotificationHandler) Archive(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid notification ID")
	}

	notification, err := h.notificationService.Archive(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			return response.NotFound(c, "Notification not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "This notification belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to archive notification")
		}
	}

	return response.Success(c, "Notification archived", fiber.Map{"notification": notification})
}

// Announce sends a notification to a resident on behalf of building staff
// @Summary Announce to a resident
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /notifications/announce [post]
func (h *NotificationHandler) Announce(c *fiber.Ctx) error {
	senderID := c.Locals("userID").(uint)
	senderRole := c.Locals("role").(string)

	var req services.AnnounceInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PropertyID == 0 || req.UserID == 0 || req.Title == "" || req.Message == "" {
		return response.BadRequest(c, "property_id, user_id, title and message are required")
	}

	notification, err := h.notificationService.Announce(c.Context(), senderID, senderRole, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.BadRequest(c, "Recipient not found")
		case errors.Is(err, services.ErrNoActiveAssignment):
			return response.Forbidden(c, "You are not assigned to this building")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "Only staff can send announcements")
		default:
			return response.InternalServerError(c, "Failed to send announcement")
		}
	}

	return response.Created(c, "Announcement sent", fiber.Map{"notification": notification})
}
