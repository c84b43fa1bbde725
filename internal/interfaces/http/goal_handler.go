package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/application/usecase"
	"github.com/shopspring/decimal"
)

// GoalHandler metas por usuario.
type GoalHandler struct {
	uc *usecase.GoalUseCase
}

// NewGoalHandler construye el handler de metas.
func NewGoalHandler(uc *usecase.GoalUseCase) *GoalHandler {
	return &GoalHandler{uc: uc}
}

// Create POST /api/goals
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGoalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	goal, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// List GET /api/goals — por usuario (?user_id=) o por período (?period=).
// Sin parámetros, las metas del propio principal.
func (h *GoalHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if period := c.Query("period"); period != "" {
		goals, err := h.uc.ListByPeriod(ctx, period)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(goals)
	}
	userID := c.Query("user_id")
	if userID == "" {
		p, ok := GetPermissions(c)
		if !ok {
			return unauthorized(c)
		}
		userID = p.UserID
	}
	goals, err := h.uc.ListByUser(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goals)
}

// UpdateActual PATCH /api/goals/:id/actual
func (h *GoalHandler) UpdateActual(c *fiber.Ctx) error {
	var in struct {
		ActualValue decimal.Decimal `json:"actual_value"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	goal, err := h.uc.UpdateActual(c.UserContext(), c.Params("id"), in.ActualValue)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goal)
}

// Delete DELETE /api/goals/:id
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
