package handlers

import (
	"errors"
	"strings"

	"dwellhub/internal/adapters/http/middleware"
	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles amenity booking endpoints
type BookingHandler struct {
	bookingService *services.AmenityBookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.AmenityBookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create files a booking request
// @Summary Create amenity booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreateBookingInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.AmenityID == 0 || req.StartTime == "" || req.EndTime == "" {
		return response.BadRequest(c, "amenity_id, start_time and end_time are required")
	}

	booking, err := h.bookingService.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTimeSlot):
			return response.BadRequest(c, "Invalid time slot, use HH:MM with start before end")
		case errors.Is(err, services.ErrAmenityNotFound):
			return response.NotFound(c, "Amenity not found")
		case errors.Is(err, services.ErrAmenityInactive):
			return response.BadRequest(c, "Amenity is not bookable")
		case errors.Is(err, services.ErrNoActiveAssignment):
			return response.Forbidden(c, "You are not assigned to this building")
		case errors.Is(err, services.ErrBookingConflict):
			return response.BadRequest(c, "Slot conflicts with an approved booking")
		default:
			return response.InternalServerError(c, "Failed to create booking")
		}
	}

	return response.Created(c, "Booking requested", fiber.Map{"booking": booking})
}

// Get gets a booking
// @Summary Get booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	booking, err := h.bookingService.Get(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return response.NotFound(c, "Booking not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't view this booking")
		default:
			return response.InternalServerError(c, "Failed to get booking")
		}
	}

	return response.Success(c, "Booking retrieved", fiber.Map{"booking": booking})
}

// ListByProperty lists a property's bookings
// @Summary List property bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /properties/{id}/bookings [get]
func (h *BookingHandler) ListByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)
	status := strings.ToUpper(c.Query("status"))

	bookings, total, err := h.bookingService.ListForProperty(c.Context(), actor, uint(propertyID), status, params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list bookings")
		}
	}

	return response.Success(c, "Bookings retrieved", pagination.NewResponse(bookings, params, total))
}

// ListMine lists the caller's bookings
// @Summary List my bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bookings/me [get]
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	bookings, err := h.bookingService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list bookings")
	}

	return response.Success(c, "Bookings retrieved", fiber.Map{"bookings": bookings})
}

// Approve approves a pending booking
// @Summary Approve booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/approve [post]
func (h *BookingHandler) Approve(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	booking, err := h.bookingService.Approve(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return response.NotFound(c, "Booking not found")
		case errors.Is(err, services.ErrBookingNotPending):
			return response.BadRequest(c, "Booking is not pending")
		case errors.Is(err, services.ErrBookingConflict):
			return response.Conflict(c, "Slot conflicts with an approved booking")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to approve booking")
		}
	}

	return response.Success(c, "Booking approved", fiber.Map{"booking": booking})
}

// RejectBookingRequest represents booking rejection request body
type RejectBookingRequest struct {
	Note string `json:"note,omitempty"`
}

// Reject rejects a pending booking
// @Summary Reject booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	var req RejectBookingRequest
	_ = c.BodyParser(&req)

	booking, err := h.bookingService.Reject(c.Context(), actor, uint(id), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return response.NotFound(c, "Booking not found")
		case errors.Is(err, services.ErrBookingNotPending):
			return response.BadRequest(c, "Booking is not pending")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to reject booking")
		}
	}

	return response.Success(c, "Booking rejected", fiber.Map{"booking": booking})
}

// Cancel cancels a booking
// @Summary Cancel booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	booking, err := h.bookingService.Cancel(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return response.NotFound(c, "Booking not found")
		case errors.Is(err, services.ErrBookingClosed):
			return response.BadRequest(c, "Booking is already closed")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't cancel this booking")
		default:
			return response.InternalServerError(c, "Failed to cancel booking")
		}
	}

	return response.Success(c, "Booking cancelled", fiber.Map{"booking": booking})
}
