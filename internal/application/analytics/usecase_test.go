package analytics_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/application/analytics"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/cache"
	"github.com/russellmoss/dashboard-api/pkg/logger"
	"github.com/russellmoss/dashboard-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del warehouse
// ──────────────────────────────────────────────────────────────────────────────

type fakeSource struct {
	mu          sync.Mutex
	funnelCalls int
	rowCalls    int
	lastFilter  access.AdvisorFilter
	records     []entity.FunnelRecord
	rows        []entity.AdvisorRow
}

func (f *fakeSource) FetchFunnelRecords(ctx context.Context, filter access.AdvisorFilter, from, to time.Time) ([]entity.FunnelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.funnelCalls++
	f.lastFilter = filter
	return f.records, nil
}

func (f *fakeSource) FetchAdvisorRows(ctx context.Context, filter access.AdvisorFilter, from, to time.Time) ([]entity.AdvisorRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowCalls++
	f.lastFilter = filter
	return f.rows, nil
}

func newService(t *testing.T, src *fakeSource) *analytics.Service {
	t.Helper()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	met := metrics.New(prometheus.NewRegistry())
	gw := cache.NewGateway(cache.NewMemoryBackend(), 0, log, met)
	anon := access.NewAnonymizer("salt-de-test")
	return analytics.NewService(src, gw, anon, time.Hour, 15*time.Minute, log)
}

func permsFor(t *testing.T, role string) access.Permissions {
	t.Helper()
	d := access.SessionDescriptor{UserID: "u-1", Email: "user@example.com", Role: role}
	switch role {
	case "sga":
		d.SGAFilter = "Jane Doe"
	case "sgm":
		d.SGMFilter = "Casey Morgan"
	case "recruiter":
		d.RecruiterFilter = "Alex Reed"
	}
	p, err := access.Resolve(d)
	require.NoError(t, err)
	return p
}

func window() dto.AnalyticsQuery {
	return dto.AnalyticsQuery{StartDate: "2026-01-01", EndDate: "2026-06-30"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards antes de cualquier consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestFunnelSummary_RecruiterDenegadoSinTocarElWarehouse(t *testing.T) {
	src := &fakeSource{}
	svc := newService(t, src)

	_, err := svc.FunnelSummary(context.Background(), permsFor(t, "recruiter"), window())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, src.funnelCalls, "un deny nunca lanza consulta")
}

func TestHubSummary_SGADenegado(t *testing.T) {
	src := &fakeSource{}
	svc := newService(t, src)

	_, err := svc.HubSummary(context.Background(), permsFor(t, "sga"), window())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, src.rowCalls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtro personal
// ──────────────────────────────────────────────────────────────────────────────

// El filtro personal reemplaza al pedido antes de llegar al warehouse.
func TestFunnelSummary_ElFiltroPersonalLlegaAlWarehouse(t *testing.T) {
	src := &fakeSource{}
	svc := newService(t, src)

	q := window()
	q.SGANames = []string{"John Smith"} // intento de mirar a otro sga
	_, err := svc.FunnelSummary(context.Background(), permsFor(t, "sga"), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, src.lastFilter.SGANames)
}

// ──────────────────────────────────────────────────────────────────────────────
// Memoización
// ──────────────────────────────────────────────────────────────────────────────

func TestFunnelSummary_SegundaLlamadaServidaDeCache(t *testing.T) {
	src := &fakeSource{}
	svc := newService(t, src)
	ctx := context.Background()
	p := permsFor(t, "manager")

	_, err := svc.FunnelSummary(ctx, p, window())
	require.NoError(t, err)
	_, err = svc.FunnelSummary(ctx, p, window())
	require.NoError(t, err)
	assert.Equal(t, 1, src.funnelCalls)
}

// Vistas enmascarada y cruda jamás comparten entrada de caché: un manager y
// un capital_partner con la misma consulta computan por separado.
func TestLeaderboard_VistaAnonimaYCrudaNoCompartenCache(t *testing.T) {
	src := &fakeSource{rows: []entity.AdvisorRow{
		{AdvisorName: "Jane Doe", ClosedCount: 5},
	}}
	svc := newService(t, src)
	ctx := context.Background()

	crudo, err := svc.Leaderboard(ctx, permsFor(t, "manager"), window())
	require.NoError(t, err)
	masked, err := svc.Leaderboard(ctx, permsFor(t, "capital_partner"), window())
	require.NoError(t, err)

	assert.Equal(t, 2, src.rowCalls, "flags de anonimización distintos → entradas distintas")
	assert.Equal(t, "Jane Doe", crudo.Entries[0].Name)
	assert.True(t, strings.HasPrefix(masked.Entries[0].Name, "Advisor "))
}

func TestFunnelSummary_FechaInvalida(t *testing.T) {
	svc := newService(t, &fakeSource{})
	q := dto.AnalyticsQuery{StartDate: "01/02/2026"}
	_, err := svc.FunnelSummary(context.Background(), permsFor(t, "manager"), q)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFunnelTrend_TransicionDesconocida(t *testing.T) {
	svc := newService(t, &fakeSource{})
	_, err := svc.FunnelTrend(context.Background(), permsFor(t, "manager"), "closed_to_contacted", window())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Drill-down anonimizado
// ──────────────────────────────────────────────────────────────────────────────

// El capital_partner consulta por el seudónimo que vio en el leaderboard y
// recibe la fila enmascarada; el nombre real nunca resuelve.
func TestAdvisorDetail_CapitalPartnerConsultaPorSeudonimo(t *testing.T) {
	src := &fakeSource{rows: []entity.AdvisorRow{
		{AdvisorName: "Jane Doe", SGAName: "John Smith", AUM: decimal.NewFromInt(100), ClosedCount: 3},
	}}
	svc := newService(t, src)
	ctx := context.Background()
	cp := permsFor(t, "capital_partner")

	board, err := svc.Leaderboard(ctx, cp, window())
	require.NoError(t, err)
	alias := board.Entries[0].Name

	detail, err := svc.AdvisorDetail(ctx, cp, alias, window())
	require.NoError(t, err)
	assert.Equal(t, alias, detail.AdvisorName)
	assert.Empty(t, detail.SGAName, "el drill-down enmascarado no expone el sga")
	assert.Equal(t, 3, detail.ClosedCount)

	_, err = svc.AdvisorDetail(ctx, cp, "Jane Doe", window())
	assert.ErrorIs(t, err, domain.ErrNotFound, "el nombre real no debe resolver para capital_partner")
}

func TestAdvisorDetail_NombreRealParaRolesSinMascara(t *testing.T) {
	src := &fakeSource{rows: []entity.AdvisorRow{
		{AdvisorName: "Jane Doe", SGAName: "John Smith", ClosedCount: 3},
	}}
	svc := newService(t, src)

	detail, err := svc.AdvisorDetail(context.Background(), permsFor(t, "manager"), "Jane Doe", window())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", detail.AdvisorName)
	assert.Equal(t, "John Smith", detail.SGAName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Hub
// ──────────────────────────────────────────────────────────────────────────────

func TestHubSummary_AgregadosPorSGM(t *testing.T) {
	src := &fakeSource{rows: []entity.AdvisorRow{
		{AdvisorName: "A", SGMName: "Casey Morgan", AUM: decimal.NewFromInt(100), ClosedCount: 2},
		{AdvisorName: "B", SGMName: "Casey Morgan", AUM: decimal.NewFromInt(50), ClosedCount: 1},
		{AdvisorName: "C", SGMName: "Riley Quinn", AUM: decimal.NewFromInt(25), ClosedCount: 4},
	}}
	svc := newService(t, src)

	out, err := svc.HubSummary(context.Background(), permsFor(t, "manager"), window())
	require.NoError(t, err)
	assert.True(t, out.TotalAUM.Equal(decimal.NewFromInt(175)))
	assert.Equal(t, 7, out.TotalClosed)
	assert.Equal(t, 3, out.AdvisorCount)
	require.Len(t, out.ClosedBySGM, 2)
	assert.Equal(t, "Riley Quinn", out.ClosedBySGM[0].Name)
	assert.Equal(t, 1, out.ClosedBySGM[0].Rank)
}
