package handlers

import (
	"errors"

	"dwellhub/internal/adapters/http/middleware"
	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles community event endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create creates a community event
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /events [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)

	var req services.CreateEventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PropertyID == 0 || req.Title == "" || req.StartsAt.IsZero() {
		return response.BadRequest(c, "property_id, title and starts_at are required")
	}

	event, err := h.eventService.Create(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCapacity):
			return response.BadRequest(c, "max_attendees must be positive")
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to create event")
		}
	}

	return response.Created(c, "Event created", fiber.Map{"event": event})
}

// Get gets an event
// @Summary Get event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to get event")
	}

	return response.Success(c, "Event retrieved", fiber.Map{"event": event})
}

// ListByProperty lists a property's events
// @Summary List property events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id}/events [get]
func (h *EventHandler) ListByProperty(c *fiber.Ctx) error {
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)

	events, total, err := h.eventService.ListForProperty(c.Context(), uint(propertyID), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	return response.Success(c, "Events retrieved", pagination.NewResponse(events, params, total))
}

// Register registers the caller for an event
// @Summary Register for event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	registration, err := h.eventService.Register(c.Context(), userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrEventInPast):
			return response.BadRequest(c, "Event has already started")
		case errors.Is(err, services.ErrAlreadyRegistered):
			return response.Conflict(c, "Already registered for this event")
		case errors.Is(err, services.ErrNoActiveAssignment):
			return response.Forbidden(c, "You are not assigned to this building")
		default:
			return response.InternalServerError(c, "Failed to register for event")
		}
	}

	return response.Created(c, "Registered for event", fiber.Map{"registration": registration})
}

// CancelRegistration cancels the caller's registration
// @Summary Cancel event registration
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /events/{id}/register [delete]
func (h *EventHandler) CancelRegistration(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	registration, err := h.eventService.CancelRegistration(c.Context(), userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrRegistrationNotFound):
			return response.NotFound(c, "Registration not found")
		case errors.Is(err, services.ErrRegistrationClosed):
			return response.BadRequest(c, "Registration is already cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel registration")
		}
	}

	return response.Success(c, "Registration cancelled", fiber.Map{"registration": registration})
}

// ListAttendees lists an event's registrations
// @Summary List event attendees
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /events/{id}/attendees [get]
func (h *EventHandler) ListAttendees(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	registrations, err := h.eventService.ListAttendees(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list attendees")
		}
	}

	return response.Success(c, "Attendees retrieved", fiber.Map{"registrations": registrations})
}

// Delete cancels an event and notifies registrants
// @Summary Delete event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.eventService.Delete(c.Context(), actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to delete event")
		}
	}

	return response.Success(c, "Event deleted", nil)
}
