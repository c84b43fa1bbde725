package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/application/refresh"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/cache"
)

// RefreshHandler triggers de refresh, poll de estado y el override manual de
// invalidación del operador.
type RefreshHandler struct {
	coord *refresh.Coordinator
	cache *cache.Gateway
}

// NewRefreshHandler construye el handler de refresh.
func NewRefreshHandler(coord *refresh.Coordinator, cg *cache.Gateway) *RefreshHandler {
	return &RefreshHandler{coord: coord, cache: cg}
}

// Trigger POST /api/refresh — 202 si se aceptó, 429 con minutos restantes si
// la ventana de cooldown sigue activa.
func (h *RefreshHandler) Trigger(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	run, err := h.coord.Trigger(c.UserContext(), p.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.TriggerRefreshResponse{
		RunID:            run.ID,
		EstimatedMinutes: h.coord.EstimatedMinutes(),
	})
}

// TriggerScheduled POST /api/refresh/scheduled — tick del scheduler. Un
// cooldown activo es 200 con outcome=skipped_cooldown, nunca 429: el
// scheduler no distingue "ya refrescado hace poco" de éxito.
func (h *RefreshHandler) TriggerScheduled(c *fiber.Ctx) error {
	out, err := h.coord.TriggerScheduled(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ScheduledRefreshResponse{Outcome: "skipped_cooldown"}
	if out.Triggered {
		resp.Outcome = "triggered"
		resp.RunID = out.RunID
	}
	return c.JSON(resp)
}

// GetRun GET /api/refresh/runs/:id — poll de estado. El poll que observa el
// éxito dispara la cascada de invalidación.
func (h *RefreshHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.coord.PollStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRunDTO(run))
}

// ListRuns GET /api/refresh/runs — ledger reciente para auditoría.
func (h *RefreshHandler) ListRuns(c *fiber.Ctx) error {
	runs, err := h.coord.List(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RefreshRunDTO, 0, len(runs))
	for i := range runs {
		out = append(out, *toRunDTO(&runs[i]))
	}
	return c.JSON(out)
}

// InvalidateCache POST /api/admin/cache/invalidate — override manual del
// operador. Con ?tag= invalida una superficie; sin él, ambas.
func (h *RefreshHandler) InvalidateCache(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if raw := c.Query("tag"); raw != "" {
		tag, ok := cache.ParseTag(raw)
		if !ok {
			return respondError(c, fmt.Errorf("%w: tag de caché desconocido %q", domain.ErrInvalidInput, raw))
		}
		if err := h.cache.Invalidate(ctx, tag); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"invalidated": []string{raw}})
	}
	if err := h.cache.InvalidateAll(ctx); err != nil {
		return respondError(c, err)
	}
	tags := make([]string, 0, len(cache.Tags))
	for _, t := range cache.Tags {
		tags = append(tags, string(t))
	}
	return c.JSON(fiber.Map{"invalidated": tags})
}

func toRunDTO(r *entity.RefreshRun) *dto.RefreshRunDTO {
	return &dto.RefreshRunDTO{
		ID:            r.ID,
		PipelineRunID: r.PipelineRunID,
		TriggeredBy:   r.TriggeredBy,
		State:         r.State,
		TriggeredAt:   r.TriggeredAt,
		CompletedAt:   r.CompletedAt,
		CooldownUntil: r.CooldownUntil,
		FailureReason: r.FailureReason,
	}
}
