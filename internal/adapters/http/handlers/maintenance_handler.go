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

// MaintenanceHandler handles maintenance ticket endpoints
type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// Create opens a maintenance request
// @Summary Create maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /maintenance [post]
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreateRequestInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.UnitID == 0 || strings.TrimSpace(req.Title) == "" {
		return response.BadRequest(c, "unit_id and title are required")
	}

	request, err := h.maintenanceService.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			return response.NotFound(c, "Unit not found")
		case errors.Is(err, services.ErrNoActiveAssignment):
			return response.Forbidden(c, "You are not assigned to this building")
		default:
			return response.InternalServerError(c, "Failed to create maintenance request")
		}
	}

	return response.Created(c, "Maintenance request created", fiber.Map{"request": request})
}

// Get gets a maintenance request
// @Summary Get maintenance request
// @Tags Maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/{id} [get]
func (h *MaintenanceHandler) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	request, err := h.maintenanceService.Get(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Maintenance request not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't view this request")
		default:
			return response.InternalServerError(c, "Failed to get maintenance request")
		}
	}

	return response.Success(c, "Maintenance request retrieved", fiber.Map{"request": request})
}

// ListByProperty lists a property's maintenance requests
// @Summary List property maintenance requests
// @Tags Maintenance
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /properties/{id}/maintenance [get]
func (h *MaintenanceHandler) ListByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)
	status := strings.ToUpper(c.Query("status"))

	requests, total, err := h.maintenanceService.ListForProperty(c.Context(), actor, uint(propertyID), status, params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidMaintenanceStatus):
			return response.BadRequest(c, "Invalid status filter")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list maintenance requests")
		}
	}

	return response.Success(c, "Maintenance requests retrieved", pagination.NewResponse(requests, params, total))
}

// ListMine lists the caller's maintenance requests
// @Summary List my maintenance requests
// @Tags Maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/me [get]
func (h *MaintenanceHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := h.maintenanceService.ListByTenant(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list maintenance requests")
	}

	return response.Success(c, "Maintenance requests retrieved", fiber.Map{"requests": requests})
}

// AssignRequest represents ticket assignment request body
type AssignRequest struct {
	StaffID uint `json:"staff_id" validate:"required"`
}

// Assign assigns a ticket to a staff member
// @Summary Assign maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/{id}/assign [post]
func (h *MaintenanceHandler) Assign(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.StaffID == 0 {
		return response.BadRequest(c, "staff_id is required")
	}

	request, err := h.maintenanceService.Assign(c.Context(), actor, uint(id), req.StaffID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Maintenance request not found")
		case errors.Is(err, services.ErrRequestClosed):
			return response.BadRequest(c, "Request is already closed")
		case errors.Is(err, services.ErrAssigneeNotStaff):
			return response.BadRequest(c, "Assignee must be a staff member")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to assign maintenance request")
		}
	}

	return response.Success(c, "Maintenance request assigned", fiber.Map{"request": request})
}

// UpdateStatusRequest represents ticket status change request body
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note,omitempty"`
}

// UpdateStatus moves a ticket through its workflow
// @Summary Update maintenance request status
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/{id}/status [patch]
func (h *MaintenanceHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "status is required")
	}

	request, err := h.maintenanceService.UpdateStatus(c.Context(), actor, uint(id), strings.ToUpper(req.Status), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Maintenance request not found")
		case errors.Is(err, services.ErrInvalidMaintenanceStatus):
			return response.BadRequest(c, "Invalid status")
		case errors.Is(err, services.ErrRequestClosed):
			return response.BadRequest(c, "Request is already closed")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't update this request")
		default:
			return response.InternalServerError(c, "Failed to update maintenance request")
		}
	}

	return response.Success(c, "Maintenance request updated", fiber.Map{"request": request})
}

// Complete closes a ticket with a completion record
// @Summary Complete maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/{id}/complete [post]
func (h *MaintenanceHandler) Complete(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req services.CompleteInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	request, err := h.maintenanceService.Complete(c.Context(), actor, uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Maintenance request not found")
		case errors.Is(err, services.ErrRequestClosed):
			return response.BadRequest(c, "Request is already closed")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't complete this request")
		default:
			return response.InternalServerError(c, "Failed to complete maintenance request")
		}
	}

	return response.Success(c, "Maintenance request completed", fiber.Map{"request": request})
}

// CancelRequest represents ticket cancellation request body
type CancelRequest struct {
	Note string `json:"note,omitempty"`
}

// Cancel cancels an open ticket
// @Summary Cancel maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/{id}/cancel [post]
func (h *MaintenanceHandler) Cancel(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req CancelRequest
	_ = c.BodyParser(&req)

	request, err := h.maintenanceService.Cancel(c.Context(), actor, uint(id), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Maintenance request not found")
		case errors.Is(err, services.ErrRequestClosed):
			return response.BadRequest(c, "Request is already closed")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't cancel this request")
		default:
			return response.InternalServerError(c, "Failed to cancel maintenance request")
		}
	}

	return response.Success(c, "Maintenance request cancelled", fiber.Map{"request": request})
}

// History lists a ticket's audit trail
// @Summary Get maintenance request history
// @Tags Maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /maintenance/{id}/history [get]
func (h *MaintenanceHandler) History(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	events, err := h.maintenanceService.History(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Maintenance request not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't view this request")
		default:
			return response.InternalServerError(c, "Failed to get request history")
		}
	}

	return response.Success(c, "Request history retrieved", fiber.Map{"events": events})
}
