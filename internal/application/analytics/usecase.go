// Package analytics orquesta las consultas analíticas del gateway: resuelve
// el filtro efectivo de fila, memoiza detrás del CacheGateway y proyecta la
// vista anonimizada cuando el rol lo exige. Los cálculos puros viven en
// internal/domain/funnel y internal/domain/ranking; aquí solo se componen.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/funnel"
	"github.com/russellmoss/dashboard-api/internal/domain/ranking"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/cache"
	"github.com/russellmoss/dashboard-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// defaultWindowMonths ventana por defecto cuando el caller no manda fechas.
const defaultWindowMonths = 12

// Service casos de uso analíticos. Todas las operaciones reciben los
// Permissions ya resueltos del principal y aplican sus propios guards antes
// de tocar el warehouse: un deny nunca lanza consulta.
type Service struct {
	source repository.AnalyticsSource
	cache  *cache.Gateway
	anon   *access.Anonymizer
	aggTTL time.Duration
	detTTL time.Duration
	log    *logger.Logger
}

// NewService construye el servicio analítico.
func NewService(source repository.AnalyticsSource, cg *cache.Gateway, anon *access.Anonymizer, aggTTL, detTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		source: source,
		cache:  cg,
		anon:   anon,
		aggTTL: aggTTL,
		detTTL: detTTL,
		log:    log.Component("analytics"),
	}
}

// queryParams parámetros ya validados de una consulta.
type queryParams struct {
	from, to time.Time
	mode     funnel.Mode
	gran     funnel.Granularity
	filter   access.AdvisorFilter
}

// cacheArgs identidad de la consulta para el fingerprint. Incluye el flag de
// anonimización: la vista enmascarada y la cruda jamás comparten entrada.
type cacheArgs struct {
	Filter      access.AdvisorFilter `json:"filter"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Mode        string               `json:"mode,omitempty"`
	Granularity string               `json:"granularity,omitempty"`
	Transition  string               `json:"transition,omitempty"`
	Advisor     string               `json:"advisor,omitempty"`
	Anonymize   bool                 `json:"anonymize,omitempty"`
}

// parseQuery valida fechas, modo y granularidad. Los defaults se anclan al
// día UTC (no al instante) para que las claves de caché sean estables dentro
// del mismo día.
func parseQuery(q dto.AnalyticsQuery) (queryParams, error) {
	var p queryParams

	today := time.Now().UTC().Truncate(24 * time.Hour)
	p.to = today.AddDate(0, 0, 1) // ventana semiabierta [from, to)
	if q.EndDate != "" {
		d, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return p, fmt.Errorf("%w: end_date inválida", domain.ErrInvalidInput)
		}
		p.to = d.AddDate(0, 0, 1)
	}

	p.from = p.to.AddDate(0, -defaultWindowMonths, 0)
	if q.StartDate != "" {
		d, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return p, fmt.Errorf("%w: start_date inválida", domain.ErrInvalidInput)
		}
		p.from = d
	}
	if !p.from.Before(p.to) {
		return p, fmt.Errorf("%w: start_date debe ser anterior a end_date", domain.ErrInvalidInput)
	}

	mode, ok := funnel.ParseMode(q.Mode)
	if !ok {
		return p, fmt.Errorf("%w: mode debe ser period o cohort", domain.ErrInvalidInput)
	}
	p.mode = mode

	gran, ok := funnel.ParseGranularity(q.Granularity)
	if !ok {
		return p, fmt.Errorf("%w: granularity debe ser month o quarter", domain.ErrInvalidInput)
	}
	p.gran = gran

	p.filter = access.AdvisorFilter{
		SGANames:       q.SGANames,
		SGMNames:       q.SGMNames,
		RecruiterNames: q.RecruiterNames,
	}
	return p, nil
}

// guard aplica el page guard. Deny → ErrForbidden, sin tocar el warehouse.
func guard(p access.Permissions, page access.PageID) error {
	if !access.RequiresPage(p, page) {
		return domain.ErrForbidden
	}
	return nil
}

// FunnelSummary conversión de las cuatro transiciones en la ventana pedida.
func (s *Service) FunnelSummary(ctx context.Context, p access.Permissions, q dto.AnalyticsQuery) (dto.FunnelSummaryDTO, error) {
	var zero dto.FunnelSummaryDTO
	if err := guard(p, access.PageFunnel); err != nil {
		return zero, err
	}
	params, err := parseQuery(q)
	if err != nil {
		return zero, err
	}
	filter := access.EffectiveAdvisorFilter(p, params.filter)
	args := cacheArgs{
		Filter: filter,
		From:   params.from.Format(dateLayout),
		To:     params.to.Format(dateLayout),
		Mode:   string(params.mode),
	}
	cq := cache.Query{FuncID: "funnel_summary", Tag: cache.TagDashboard, TTL: s.aggTTL}
	return cache.GetOrCompute(ctx, s.cache, cq, args, func(ctx context.Context) (dto.FunnelSummaryDTO, error) {
		records, err := s.source.FetchFunnelRecords(ctx, filter, params.from, params.to)
		if err != nil {
			return zero, err
		}
		return dto.FunnelSummaryDTO{
			Summary: funnel.Summarize(records, params.mode, params.from, params.to),
		}, nil
	})
}

// FunnelTrend serie temporal de una transición con buckets contiguos.
func (s *Service) FunnelTrend(ctx context.Context, p access.Permissions, transition string, q dto.AnalyticsQuery) (dto.FunnelTrendDTO, error) {
	var zero dto.FunnelTrendDTO
	if err := guard(p, access.PageFunnel); err != nil {
		return zero, err
	}
	t, ok := funnel.ParseTransition(transition)
	if !ok {
		return zero, fmt.Errorf("%w: transición desconocida %q", domain.ErrInvalidInput, transition)
	}
	params, err := parseQuery(q)
	if err != nil {
		return zero, err
	}
	filter := access.EffectiveAdvisorFilter(p, params.filter)
	args := cacheArgs{
		Filter:      filter,
		From:        params.from.Format(dateLayout),
		To:          params.to.Format(dateLayout),
		Mode:        string(params.mode),
		Granularity: string(params.gran),
		Transition:  string(t),
	}
	cq := cache.Query{FuncID: "funnel_trend", Tag: cache.TagDashboard, TTL: s.aggTTL}
	return cache.GetOrCompute(ctx, s.cache, cq, args, func(ctx context.Context) (dto.FunnelTrendDTO, error) {
		records, err := s.source.FetchFunnelRecords(ctx, filter, params.from, params.to)
		if err != nil {
			return zero, err
		}
		return dto.FunnelTrendDTO{
			Transition: string(t),
			Mode:       string(params.mode),
			Points:     funnel.Trend(records, t, params.mode, params.from, params.to, params.gran),
		}, nil
	})
}

// Leaderboard ranking de asesores por cierres, con empates en competición
// estándar. Para capital_partner los nombres ya llegan seudonimizados: el
// ranking se calcula sobre la proyección, nunca al revés.
func (s *Service) Leaderboard(ctx context.Context, p access.Permissions, q dto.AnalyticsQuery) (dto.LeaderboardDTO, error) {
	var zero dto.LeaderboardDTO
	if err := guard(p, access.PageLeaderboard); err != nil {
		return zero, err
	}
	params, err := parseQuery(q)
	if err != nil {
		return zero, err
	}
	filter := access.EffectiveAdvisorFilter(p, params.filter)
	anonymize := access.RequiresAnonymization(p)
	args := cacheArgs{
		Filter:    filter,
		From:      params.from.Format(dateLayout),
		To:        params.to.Format(dateLayout),
		Anonymize: anonymize,
	}
	cq := cache.Query{FuncID: "leaderboard", Tag: cache.TagDashboard, TTL: s.aggTTL}
	return cache.GetOrCompute(ctx, s.cache, cq, args, func(ctx context.Context) (dto.LeaderboardDTO, error) {
		rows, err := s.source.FetchAdvisorRows(ctx, filter, params.from, params.to)
		if err != nil {
			return zero, err
		}
		if anonymize {
			rows = s.anon.AdvisorRows(rows)
		}
		entries := make([]ranking.Entry, 0, len(rows))
		for _, r := range rows {
			entries = append(entries, ranking.Entry{Name: r.AdvisorName, Count: r.ClosedCount})
		}
		return dto.LeaderboardDTO{Entries: ranking.Rank(entries)}, nil
	})
}

// AdvisorDetail drill-down de un asesor. La búsqueda se hace sobre la misma
// proyección que vio el caller: un capital_partner consulta por seudónimo y
// recibe la fila enmascarada, sin ruta de vuelta al nombre real.
func (s *Service) AdvisorDetail(ctx context.Context, p access.Permissions, advisorName string, q dto.AnalyticsQuery) (dto.AdvisorDetailDTO, error) {
	var zero dto.AdvisorDetailDTO
	if err := guard(p, access.PageAdvisorDetail); err != nil {
		return zero, err
	}
	if advisorName == "" {
		return zero, fmt.Errorf("%w: falta el nombre del asesor", domain.ErrInvalidInput)
	}
	params, err := parseQuery(q)
	if err != nil {
		return zero, err
	}
	filter := access.EffectiveAdvisorFilter(p, params.filter)
	anonymize := access.RequiresAnonymization(p)
	args := cacheArgs{
		Filter:    filter,
		From:      params.from.Format(dateLayout),
		To:        params.to.Format(dateLayout),
		Advisor:   advisorName,
		Anonymize: anonymize,
	}
	cq := cache.Query{FuncID: "advisor_detail", Tag: cache.TagDashboard, TTL: s.detTTL}
	return cache.GetOrCompute(ctx, s.cache, cq, args, func(ctx context.Context) (dto.AdvisorDetailDTO, error) {
		rows, err := s.source.FetchAdvisorRows(ctx, filter, params.from, params.to)
		if err != nil {
			return zero, err
		}
		if anonymize {
			rows = s.anon.AdvisorRows(rows)
		}
		for _, r := range rows {
			if r.AdvisorName == advisorName {
				return dto.AdvisorDetailDTO{
					AdvisorName: r.AdvisorName,
					SGAName:     r.SGAName,
					SGMName:     r.SGMName,
					AUM:         r.AUM,
					ClosedCount: r.ClosedCount,
				}, nil
			}
		}
		return zero, domain.ErrNotFound
	})
}

// HubSummary resumen de la segunda superficie: AUM total, cierres agregados
// y desglose por SGM. El desglose por equipo se omite para capital_partner
// (el proyector borra el campo SGM, así que no hay agrupación que mostrar).
func (s *Service) HubSummary(ctx context.Context, p access.Permissions, q dto.AnalyticsQuery) (dto.HubSummaryDTO, error) {
	var zero dto.HubSummaryDTO
	if err := guard(p, access.PageHub); err != nil {
		return zero, err
	}
	params, err := parseQuery(q)
	if err != nil {
		return zero, err
	}
	filter := access.EffectiveAdvisorFilter(p, params.filter)
	anonymize := access.RequiresAnonymization(p)
	args := cacheArgs{
		Filter:    filter,
		From:      params.from.Format(dateLayout),
		To:        params.to.Format(dateLayout),
		Anonymize: anonymize,
	}
	cq := cache.Query{FuncID: "hub_summary", Tag: cache.TagHub, TTL: s.aggTTL}
	return cache.GetOrCompute(ctx, s.cache, cq, args, func(ctx context.Context) (dto.HubSummaryDTO, error) {
		rows, err := s.source.FetchAdvisorRows(ctx, filter, params.from, params.to)
		if err != nil {
			return zero, err
		}
		return summarizeHub(rows, anonymize), nil
	})
}

func summarizeHub(rows []entity.AdvisorRow, anonymize bool) dto.HubSummaryDTO {
	out := dto.HubSummaryDTO{
		TotalAUM:     decimal.Zero,
		AdvisorCount: len(rows),
	}
	bySGM := make(map[string]int)
	for _, r := range rows {
		out.TotalAUM = out.TotalAUM.Add(r.AUM)
		out.TotalClosed += r.ClosedCount
		if r.SGMName != "" {
			bySGM[r.SGMName] += r.ClosedCount
		}
	}
	if !anonymize {
		entries := make([]ranking.Entry, 0, len(bySGM))
		for name, count := range bySGM {
			entries = append(entries, ranking.Entry{Name: name, Count: count})
		}
		out.ClosedBySGM = ranking.Rank(entries)
	}
	return out
}
