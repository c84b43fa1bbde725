package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/application/usecase"
)

// ScoreHandler puntuaciones del minijuego.
type ScoreHandler struct {
	uc *usecase.ScoreUseCase
}

// NewScoreHandler construye el handler de puntuaciones.
func NewScoreHandler(uc *usecase.ScoreUseCase) *ScoreHandler {
	return &ScoreHandler{uc: uc}
}

// Submit POST /api/game/scores
func (h *ScoreHandler) Submit(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.SubmitScoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Submit(c.UserContext(), p.UserID, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Leaderboard GET /api/game/leaderboard
func (h *ScoreHandler) Leaderboard(c *fiber.Ctx) error {
	out, err := h.uc.Leaderboard(c.UserContext(), c.QueryInt("limit", 25))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
