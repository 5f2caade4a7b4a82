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

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create opens a pending payment against a tenant
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)

	var req services.CreatePaymentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.TenantID == 0 {
		return response.BadRequest(c, "tenant_id is required")
	}
	if req.Amount <= 0 {
		return response.BadRequest(c, "Amount must be positive")
	}

	payment, err := h.paymentService.Create(c.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeaseNotFound):
			return response.BadRequest(c, "No active lease found for tenant")
		case errors.Is(err, services.ErrLeaseNotActive):
			return response.BadRequest(c, "Lease is not active")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to create payment")
		}
	}

	return response.Created(c, "Payment created", fiber.Map{"payment": payment})
}

// Get gets a payment
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.paymentService.Get(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't view this payment")
		default:
			return response.InternalServerError(c, "Failed to get payment")
		}
	}

	return response.Success(c, "Payment retrieved", fiber.Map{"payment": payment})
}

// ListByProperty lists a property's payments
// @Summary List property payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /properties/{id}/payments [get]
func (h *PaymentHandler) ListByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)
	status := strings.ToUpper(c.Query("status"))

	payments, total, err := h.paymentService.ListForProperty(c.Context(), actor, uint(propertyID), status, params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidPaymentStatus):
			return response.BadRequest(c, "Invalid status filter")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list payments")
		}
	}

	return response.Success(c, "Payments retrieved", pagination.NewResponse(payments, params, total))
}

// ListMine lists the caller's payments
// @Summary List my payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/me [get]
func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	payments, err := h.paymentService.ListByTenant(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved", fiber.Map{"payments": payments})
}

// NextPending gets the caller's next due payment
// @Summary Get next pending payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/me/next [get]
func (h *PaymentHandler) NextPending(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	payment, err := h.paymentService.NextPending(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "No pending payment")
		}
		return response.InternalServerError(c, "Failed to get next payment")
	}

	return response.Success(c, "Next payment retrieved", fiber.Map{"payment": payment})
}

// Pay settles a pending payment
// @Summary Pay a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments/{id}/pay [post]
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req services.PayInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Method == "" {
		return response.BadRequest(c, "method is required")
	}
	req.Method = strings.ToUpper(req.Method)

	payment, err := h.paymentService.Pay(c.Context(), userID, uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, services.ErrInvalidPayMethod):
			return response.BadRequest(c, "Invalid payment method")
		case errors.Is(err, services.ErrPaymentNotPending):
			return response.BadRequest(c, "Payment is not pending")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "This payment belongs to another tenant")
		default:
			return response.InternalServerError(c, "Failed to process payment")
		}
	}

	return response.Success(c, "Payment completed", fiber.Map{"payment": payment})
}

// PaymentStatusRequest represents payment status change request body
type PaymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus sets a payment's status
// @Summary Update payment status
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req PaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "status is required")
	}

	payment, err := h.paymentService.UpdateStatus(c.Context(), actor, uint(id), strings.ToUpper(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, services.ErrInvalidPaymentStatus):
			return response.BadRequest(c, "Invalid status")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to update payment")
		}
	}

	return response.Success(c, "Payment updated", fiber.Map{"payment": payment})
}
