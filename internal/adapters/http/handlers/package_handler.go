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

// PackageHandler handles front-desk package endpoints
type PackageHandler struct {
	packageService *services.PackageService
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packageService *services.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// Log records a delivery at the front desk
// @Summary Log package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /packages [post]
func (h *PackageHandler) Log(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)

	var req services.LogPackageInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PropertyID == 0 || req.TenantID == 0 {
		return response.BadRequest(c, "property_id and tenant_id are required")
	}

	pkg, err := h.packageService.Log(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrTenantNotFound):
			return response.BadRequest(c, "Tenant not found")
		case errors.Is(err, services.ErrNoActiveAssignment):
			return response.Forbidden(c, "You are not assigned to this building")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "Only staff can log packages")
		default:
			return response.InternalServerError(c, "Failed to log package")
		}
	}

	return response.Created(c, "Package logged", fiber.Map{"package": pkg})
}

// MarkPickedUp marks a package picked up
// @Summary Mark package picked up
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /packages/{id}/pickup [post]
func (h *PackageHandler) MarkPickedUp(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid package ID")
	}

	pkg, err := h.packageService.MarkPickedUp(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPackageNotFound):
			return response.NotFound(c, "Package not found")
		case errors.Is(err, services.ErrPackagePickedUp):
			return response.BadRequest(c, "Package already picked up")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't update this package")
		default:
			return response.InternalServerError(c, "Failed to update package")
		}
	}

	return response.Success(c, "Package picked up", fiber.Map{"package": pkg})
}

// ListByProperty lists a property's packages
// @Summary List property packages
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /properties/{id}/packages [get]
func (h *PackageHandler) ListByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)
	status := strings.ToUpper(c.Query("status"))

	packages, total, err := h.packageService.ListForProperty(c.Context(), actor, uint(propertyID), status, params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "Only staff can list property packages")
		default:
			return response.InternalServerError(c, "Failed to list packages")
		}
	}

	return response.Success(c, "Packages retrieved", pagination.NewResponse(packages, params, total))
}

// ListMine lists packages addressed to the caller
// @Summary List my packages
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /packages/me [get]
func (h *PackageHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	status := strings.ToUpper(c.Query("status"))

	packages, err := h.packageService.ListByTenant(c.Context(), userID, status)
	if err != nil {
		return response.InternalServerError(c, "Failed to list packages")
	}

	return response.Success(c, "Packages retrieved", fiber.Map{"packages": packages})
}
