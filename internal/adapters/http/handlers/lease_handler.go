package handlers

import (
	"errors"

	"dwellhub/internal/adapters/http/middleware"
	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LeaseHandler handles lease and building assignment endpoints
type LeaseHandler struct {
	leaseService      *services.LeaseService
	assignmentService *services.AssignmentService
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(leaseService *services.LeaseService, assignmentService *services.AssignmentService) *LeaseHandler {
	return &LeaseHandler{
		leaseService:      leaseService,
		assignmentService: assignmentService,
	}
}

// Create creates a lease
// @Summary Create lease
// @Tags Leases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /leases [post]
func (h *LeaseHandler) Create(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)

	var req services.CreateLeaseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.UnitID == 0 || req.TenantID == 0 {
		return response.BadRequest(c, "unit_id and tenant_id are required")
	}
	if req.MonthlyRent <= 0 {
		return response.BadRequest(c, "Monthly rent must be positive")
	}

	lease, err := h.leaseService.Create(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDateRange):
			return response.BadRequest(c, "End date must be after start date")
		case errors.Is(err, services.ErrUnitNotFound):
			return response.NotFound(c, "Unit not found")
		case errors.Is(err, services.ErrUnitNotAvailable):
			return response.BadRequest(c, "Unit is not available")
		case errors.Is(err, services.ErrTenantNotFound):
			return response.BadRequest(c, "Tenant not found")
		case errors.Is(err, services.ErrUnitHasLease):
			return response.Conflict(c, "Unit already has an active lease")
		case errors.Is(err, services.ErrTenantHasLease):
			return response.Conflict(c, "Tenant already has an active lease")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to create lease")
		}
	}

	return response.Created(c, "Lease created", fiber.Map{"lease": lease})
}

// Get gets a lease
// @Summary Get lease
// @Tags Leases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /leases/{id} [get]
func (h *LeaseHandler) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid lease ID")
	}

	lease, err := h.leaseService.Get(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeaseNotFound):
			return response.NotFound(c, "Lease not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't view this lease")
		default:
			return response.InternalServerError(c, "Failed to get lease")
		}
	}

	return response.Success(c, "Lease retrieved", fiber.Map{"lease": lease})
}

// ListByProperty lists a property's leases
// @Summary List property leases
// @Tags Leases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id}/leases [get]
func (h *LeaseHandler) ListByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)

	leases, total, err := h.leaseService.ListByProperty(c.Context(), actor, uint(propertyID), params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list leases")
		}
	}

	return response.Success(c, "Leases retrieved", pagination.NewResponse(leases, params, total))
}

// ListMine lists the caller's leases
// @Summary List my leases
// @Tags Leases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /leases/me [get]
func (h *LeaseHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	leases, err := h.leaseService.ListByTenant(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list leases")
	}

	return response.Success(c, "Leases retrieved", fiber.Map{"leases": leases})
}

// TerminateRequest represents lease termination request body
type TerminateRequest struct {
	Note string `json:"note"`
}

// Terminate ends an active lease early
// @Summary Terminate lease
// @Tags Leases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /leases/{id}/terminate [post]
func (h *LeaseHandler) Terminate(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid lease ID")
	}

	var req TerminateRequest
	_ = c.BodyParser(&req)

	lease, err := h.leaseService.Terminate(c.Context(), actor, uint(id), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeaseNotFound):
			return response.NotFound(c, "Lease not found")
		case errors.Is(err, services.ErrLeaseNotActive):
			return response.BadRequest(c, "Lease is not active")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to terminate lease")
		}
	}

	return response.Success(c, "Lease terminated", fiber.Map{"lease": lease})
}

// CreateAssignment assigns a user to a property
// @Summary Create building assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Router /assignments [post]
func (h *LeaseHandler) CreateAssignment(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)

	var req services.CreateAssignmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PropertyID == 0 || req.UserID == 0 {
		return response.BadRequest(c, "property_id and user_id are required")
	}

	assignment, err := h.assignmentService.Create(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrUserNotFound):
			return response.BadRequest(c, "User not found")
		case errors.Is(err, services.ErrAssignmentExists):
			return response.Conflict(c, "User already assigned to this property")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to create assignment")
		}
	}

	return response.Created(c, "Assignment created", fiber.Map{"assignment": assignment})
}

// EndAssignment closes an assignment
// @Summary End building assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /assignments/{id}/end [post]
func (h *LeaseHandler) EndAssignment(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	assignment, err := h.assignmentService.End(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAssignmentNotFound):
			return response.NotFound(c, "Assignment not found")
		case errors.Is(err, services.ErrAssignmentEnded):
			return response.BadRequest(c, "Assignment already ended")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to end assignment")
		}
	}

	return response.Success(c, "Assignment ended", fiber.Map{"assignment": assignment})
}

// ListAssignmentsByProperty lists a property's assignments
// @Summary List property assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id}/assignments [get]
func (h *LeaseHandler) ListAssignmentsByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	assignments, err := h.assignmentService.ListByProperty(c.Context(), actor, uint(propertyID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list assignments")
		}
	}

	return response.Success(c, "Assignments retrieved", fiber.Map{"assignments": assignments})
}

// ListMyAssignments lists the caller's building assignments
// @Summary List my assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /assignments/me [get]
func (h *LeaseHandler) ListMyAssignments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	assignments, err := h.assignmentService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list assignments")
	}

	return response.Success(c, "Assignments retrieved", fiber.Map{"assignments": assignments})
}
