package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/application/usecase"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// RequestHandler solicitudes internas del dashboard.
type RequestHandler struct {
	uc *usecase.RequestUseCase
}

// NewRequestHandler construye el handler de solicitudes.
func NewRequestHandler(uc *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create POST /api/requests
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Create(c.UserContext(), p.UserID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// List GET /api/requests — las del propio principal, o ?status= para la
// vista de gestor (la ruta de status va detrás del guard CanManageRequests).
func (h *RequestHandler) List(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	ctx := c.UserContext()
	if status := c.Query("status"); status != "" {
		if !p.CanManageRequests {
			return forbidden(c)
		}
		reqs, err := h.uc.ListByStatus(ctx, status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(reqs)
	}
	reqs, err := h.uc.ListMine(ctx, p.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// ListOpen GET /api/requests/open — bandeja del gestor.
func (h *RequestHandler) ListOpen(c *fiber.Ctx) error {
	reqs, err := h.uc.ListByStatus(c.UserContext(), entity.RequestStatusOpen)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// UpdateStatus PATCH /api/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateRequestStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}
