package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/russellmoss/dashboard-api/internal/application/analytics"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
)

// urlParam devuelve un parámetro de ruta ya decodificado (los nombres de
// asesor llevan espacios).
func urlParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parámetro %s malformado", domain.ErrInvalidInput, name)
	}
	return decoded, nil
}

// AnalyticsHandler endpoints analíticos del dashboard y del hub. Los page
// guards van como middleware en el router; el servicio los reevalúa antes de
// tocar el warehouse.
type AnalyticsHandler struct {
	svc *analytics.Service
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func parseAnalyticsQuery(c *fiber.Ctx) dto.AnalyticsQuery {
	var q dto.AnalyticsQuery
	// QueryParser tolera parámetros repetidos (sga_names=a&sga_names=b).
	_ = c.QueryParser(&q)
	return q
}

// FunnelSummary GET /api/analytics/funnel
func (h *AnalyticsHandler) FunnelSummary(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.svc.FunnelSummary(c.UserContext(), p, parseAnalyticsQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// FunnelTrend GET /api/analytics/funnel/trend/:transition
func (h *AnalyticsHandler) FunnelTrend(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.svc.FunnelTrend(c.UserContext(), p, c.Params("transition"), parseAnalyticsQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Leaderboard GET /api/analytics/leaderboard
func (h *AnalyticsHandler) Leaderboard(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.svc.Leaderboard(c.UserContext(), p, parseAnalyticsQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AdvisorDetail GET /api/analytics/advisors/:name
func (h *AnalyticsHandler) AdvisorDetail(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	name, err := urlParam(c, "name")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.AdvisorDetail(c.UserContext(), p, name, parseAnalyticsQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// HubSummary GET /api/hub/summary
func (h *AnalyticsHandler) HubSummary(c *fiber.Ctx) error {
	p, ok := GetPermissions(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.svc.HubSummary(c.UserContext(), p, parseAnalyticsQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
