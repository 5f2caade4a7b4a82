package handlers

import (
	"errors"
	"strconv"

	"dwellhub/internal/adapters/http/middleware"
	"dwellhub/internal/core/services"
	"dwellhub/internal/pkg/pagination"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document upload and download endpoints
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload stores an uploaded file
// @Summary Upload document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param property_id formData int false "Property to attach the document to"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	var propertyID *uint
	if raw := c.FormValue("property_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return response.BadRequest(c, "Invalid property_id")
		}
		id := uint(parsed)
		propertyID = &id
	}

	document, err := h.documentService.Upload(c.Context(), userID, propertyID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			return response.BadRequest(c, "File exceeds the upload size limit")
		case errors.Is(err, services.ErrEmptyFile):
			return response.BadRequest(c, "File is empty")
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.BadRequest(c, "Property not found")
		default:
			return response.InternalServerError(c, "Failed to upload document")
		}
	}

	return response.Created(c, "Document uploaded", fiber.Map{"document": document})
}

// Get gets a document's metadata
// @Summary Get document
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	document, err := h.documentService.Get(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			return response.NotFound(c, "Document not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't view this document")
		default:
			return response.InternalServerError(c, "Failed to get document")
		}
	}

	return response.Success(c, "Document retrieved", fiber.Map{"document": document})
}

// Download streams a document's file
// @Summary Download document
// @Tags Documents
// @Produce octet-stream
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	path, document, err := h.documentService.FilePath(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			return response.NotFound(c, "Document not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't download this document")
		default:
			return response.InternalServerError(c, "Failed to download document")
		}
	}

	c.Set(fiber.HeaderContentType, document.ContentType)
	return c.Download(path, document.Name)
}

// ListMine lists the caller's documents
// @Summary List my documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /documents/me [get]
func (h *DocumentHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	params := pagination.GetParams(c)

	documents, total, err := h.documentService.ListByOwner(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list documents")
	}

	return response.Success(c, "Documents retrieved", pagination.NewResponse(documents, params, total))
}

// ListByProperty lists a property's documents
// @Summary List property documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/{id}/documents [get]
func (h *DocumentHandler) ListByProperty(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	propertyID, err := c.ParamsInt("id")
	if err != nil || propertyID < 1 {
		return response.BadRequest(c, "Invalid property ID")
	}
	params := pagination.GetParams(c)

	documents, total, err := h.documentService.ListForProperty(c.Context(), actor, uint(propertyID), params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You don't manage this property")
		default:
			return response.InternalServerError(c, "Failed to list documents")
		}
	}

	return response.Success(c, "Documents retrieved", pagination.NewResponse(documents, params, total))
}

// Delete removes a document and its stored file
// @Summary Delete document
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	if err := h.documentService.Delete(c.Context(), actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			return response.NotFound(c, "Document not found")
		case errors.Is(err, services.ErrNotAllowed):
			return response.Forbidden(c, "You can't delete this document")
		default:
			return response.InternalServerError(c, "Failed to delete document")
		}
	}

	return response.Success(c, "Document deleted", nil)
}
