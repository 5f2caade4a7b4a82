package handlers

import (
	"errors"

	"dwellhub/internal/adapters/http/middleware"
	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PropertyHandler handles property, amenity and unit endpoints
type PropertyHandler struct {
	propertyService  *services.PropertyService
	dashboardService *services.DashboardService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *services.PropertyService, dashboardService *services.DashboardService) *PropertyHandler {
	return &PropertyHandler{
		propertyService:  propertyService,
		dashboardService: dashboardService,
	}
}

// Create creates a property (admin only)
// @Summary Create property
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var req services.CreatePropertyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" || req.Address == "" || req.ManagerID == 0 {
		return response.BadRequest(c, "Name, address and manager_id are required")
	}

	property, err := h.propertyService.CreateProperty(c.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.BadRequest(c, "Manager not found or not a property manager")
		}
		return response.InternalServerError(c, "Failed to create property")
	}

	return response.Created(c, "Property created", fiber.Map{"property": property})
}

// Get gets a property
// @Summary Get property
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	property, err := h.propertyService.GetProperty(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to get property")
	}

	return response.Success(c, "Property retrieved", fiber.Map{"property": property})
}

// List lists properties visible to the caller
// @Summary List properties
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	params := pagination.GetParams(c)

	properties, total, err := h.propertyService.ListProperties(c.Context(), actor, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list properties")
	}

	return response.Success(c, "Properties retrieved", pagination.NewResponse(properties, params, total))
}

// Update updates a property
// @Summary Update property
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id} [patch]
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	var req services.UpdatePropertyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	property, err := h.propertyService.UpdateProperty(c.Context(), actor, uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to update property")
		}
	}

	return response.Success(c, "Property updated", fiber.Map{"property": property})
}

// Delete soft deletes a property (admin only)
// @Summary Delete property
// @Tags Properties
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	if err := h.propertyService.DeleteProperty(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to delete property")
	}

	return response.Success(c, "Property deleted", nil)
}

// CreateAmenity adds an amenity to a property
// @Summary Create amenity
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Router /properties/{id}/amenities [post]
func (h *PropertyHandler) CreateAmenity(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	var req services.CreateAmenityInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.PropertyID = uint(propertyID)

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	amenity, err := h.propertyService.CreateAmenity(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to create amenity")
		}
	}

	return response.Created(c, "Amenity created", fiber.Map{"amenity": amenity})
}

// ListAmenities lists a property's amenities
// @Summary List amenities
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id}/amenities [get]
func (h *PropertyHandler) ListAmenities(c *fiber.Ctx) error {
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	amenities, err := h.propertyService.ListAmenities(c.Context(), uint(propertyID))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to list amenities")
	}

	return response.Success(c, "Amenities retrieved", fiber.Map{"amenities": amenities})
}

// CreateUnit adds a unit to a property
// @Summary Create unit
// @Tags Units
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Router /properties/{id}/units [post]
func (h *PropertyHandler) CreateUnit(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	var req services.CreateUnitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.PropertyID = uint(propertyID)

	if req.UnitNumber == "" {
		return response.BadRequest(c, "Unit number is required")
	}
	if req.RentAmount <= 0 {
		return response.BadRequest(c, "Rent amount must be positive")
	}

	unit, err := h.propertyService.CreateUnit(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to create unit")
		}
	}

	return response.Created(c, "Unit created", fiber.Map{"unit": unit})
}

// ListUnits lists a property's units
// @Summary List units
// @Tags Units
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} response.Response
// @Router /properties/{id}/units [get]
func (h *PropertyHandler) ListUnits(c *fiber.Ctx) error {
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)

	units, total, err := h.propertyService.ListUnits(c.Context(), uint(propertyID), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUnitStatus) {
			return response.BadRequest(c, "Invalid status filter")
		}
		return response.InternalServerError(c, "Failed to list units")
	}

	return response.Success(c, "Units retrieved", pagination.NewResponse(units, params, total))
}

// AssignTenantRequest represents tenant assignment request body
type AssignTenantRequest struct {
	TenantID uint `json:"tenant_id"`
}

// AssignTenant places a tenant into an available unit
// @Summary Assign tenant to unit
// @Tags Units
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /units/{id}/assign [post]
func (h *PropertyHandler) AssignTenant(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	unitID, err := c.ParamsInt("id")
	if err != nil || unitID < 1 {
		return response.BadRequest(c, "Invalid unit ID")
	}

	var req AssignTenantRequest
	if err := c.BodyParser(&req); err != nil || req.TenantID == 0 {
		return response.BadRequest(c, "tenant_id is required")
	}

	unit, err := h.propertyService.AssignTenant(c.Context(), actor, uint(unitID), req.TenantID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			return response.NotFound(c, "Unit not found")
		case errors.Is(err, services.ErrUnitNotAvailable):
			return response.BadRequest(c, "Unit is not available")
		case errors.Is(err, services.ErrTenantNotFound):
			return response.BadRequest(c, "Tenant not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to assign tenant")
		}
	}

	return response.Success(c, "Tenant assigned", fiber.Map{"unit": unit})
}

// ReleaseUnit clears a unit's occupant
// @Summary Release unit
// @Tags Units
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /units/{id}/release [post]
func (h *PropertyHandler) ReleaseUnit(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	unitID, err := c.ParamsInt("id")
	if err != nil || unitID < 1 {
		return response.BadRequest(c, "Invalid unit ID")
	}

	unit, err := h.propertyService.ReleaseUnit(c.Context(), actor, uint(unitID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			return response.NotFound(c, "Unit not found")
		case errors.Is(err, services.ErrUnitNotOccupied):
			return response.BadRequest(c, "Unit is not occupied")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to release unit")
		}
	}

	return response.Success(c, "Unit released", fiber.Map{"unit": unit})
}

// SetUnitStatusRequest represents unit status change request body
type SetUnitStatusRequest struct {
	Status string `json:"status"`
}

// SetUnitStatus moves a vacant unit between statuses
// @Summary Set unit status
// @Tags Units
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /units/{id}/status [patch]
func (h *PropertyHandler) SetUnitStatus(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	unitID, err := c.ParamsInt("id")
	if err != nil || unitID < 1 {
		return response.BadRequest(c, "Invalid unit ID")
	}

	var req SetUnitStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return response.BadRequest(c, "status is required")
	}

	unit, err := h.propertyService.SetUnitStatus(c.Context(), actor, uint(unitID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			return response.NotFound(c, "Unit not found")
		case errors.Is(err, services.ErrInvalidUnitStatus):
			return response.BadRequest(c, "Invalid status")
		case errors.Is(err, services.ErrUnitNotAvailable):
			return response.BadRequest(c, "Release the unit first")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to update unit")
		}
	}

	return response.Success(c, "Unit updated", fiber.Map{"unit": unit})
}

// Dashboard returns the property's operational summary
// @Summary Property dashboard
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id}/dashboard [get]
func (h *PropertyHandler) Dashboard(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}

	summary, err := h.dashboardService.Summary(c.Context(), actor, uint(propertyID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to build dashboard")
		}
	}

	return response.Success(c, "Dashboard retrieved", summary)
}

// MyDashboard returns the caller's tenant home-screen summary
// @Summary Tenant dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/me [get]
func (h *PropertyHandler) MyDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	summary, err := h.dashboardService.MySummary(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved", summary)
}

// AdminDashboard returns the platform-wide summary (admin only)
// @Summary Admin dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/admin [get]
func (h *PropertyHandler) AdminDashboard(c *fiber.Ctx) error {
	summary, err := h.dashboardService.GlobalSummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved", summary)
}
