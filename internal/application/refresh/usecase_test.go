package refresh_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/application/refresh"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/pkg/logger"
	"github.com/russellmoss/dashboard-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con la misma semántica atómica que la implementación SQL
// ──────────────────────────────────────────────────────────────────────────────

type fakeRunRepo struct {
	mu            sync.Mutex
	cooldownUntil time.Time
	runs          map[string]*entity.RefreshRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[string]*entity.RefreshRun{}}
}

func (f *fakeRunRepo) CreateIfCooldownExpired(ctx context.Context, run *entity.RefreshRun, window time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	if now.Before(f.cooldownUntil) {
		return &domain.CooldownError{Remaining: f.cooldownUntil.Sub(now)}
	}
	f.cooldownUntil = now.Add(window)
	run.State = entity.RunStatePending
	run.CooldownUntil = f.cooldownUntil
	cp := *run
	f.runs[run.ID] = &cp
	return nil
}

func (f *fakeRunRepo) MarkRunning(ctx context.Context, id, pipelineRunID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok || run.State != entity.RunStatePending {
		return domain.ErrConflict
	}
	run.PipelineRunID = pipelineRunID
	run.State = entity.RunStateRunning
	return nil
}

func (f *fakeRunRepo) Complete(ctx context.Context, id, state, failureReason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if run.Terminal() {
		return false, nil
	}
	run.State = state
	run.FailureReason = failureReason
	now := time.Now()
	run.CompletedAt = &now
	return true, nil
}

func (f *fakeRunRepo) GetByID(ctx context.Context, id string) (*entity.RefreshRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}

func (f *fakeRunRepo) List(ctx context.Context, limit int) ([]entity.RefreshRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.RefreshRun, 0, len(f.runs))
	for _, r := range f.runs {
		out = append(out, *r)
	}
	return out, nil
}

type fakePipeline struct {
	mu       sync.Mutex
	startErr error
	state    string
	started  int
}

func (f *fakePipeline) Start(ctx context.Context, parentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.started++
	return "pipe-1", nil
}

func (f *fakePipeline) GetRun(ctx context.Context, runID string) (refresh.PipelineRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return refresh.PipelineRun{RunID: runID, State: f.state}, nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) InvalidateAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func newCoordinator(t *testing.T, repo *fakeRunRepo, pipe *fakePipeline, inv *fakeInvalidator) *refresh.Coordinator {
	t.Helper()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	met := metrics.New(prometheus.NewRegistry())
	return refresh.NewCoordinator(repo, pipe, inv, refresh.Config{
		CooldownWindow:    30 * time.Minute,
		EstimatedDuration: 10 * time.Minute,
		PipelineParentID:  "parent-1",
	}, log, met)
}

// ──────────────────────────────────────────────────────────────────────────────
// Trigger y cooldown
// ──────────────────────────────────────────────────────────────────────────────

func TestTrigger_AceptaYArrancaElPipeline(t *testing.T) {
	repo, pipe, inv := newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{}
	coord := newCoordinator(t, repo, pipe, inv)

	run, err := coord.Trigger(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RunStateRunning, run.State)
	assert.Equal(t, "pipe-1", run.PipelineRunID)
	assert.Equal(t, 1, pipe.started)
}

// Dos triggers dentro de la misma ventana: exactamente uno aceptado, el otro
// recibe CooldownError con minutos restantes.
func TestTrigger_SegundoTriggerDentroDeLaVentanaRechazado(t *testing.T) {
	repo, pipe, inv := newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{}
	coord := newCoordinator(t, repo, pipe, inv)
	ctx := context.Background()

	_, err := coord.Trigger(ctx, "user-1")
	require.NoError(t, err)

	_, err = coord.Trigger(ctx, "user-2")
	ce, ok := domain.AsCooldown(err)
	require.True(t, ok, "el segundo trigger debe fallar con CooldownError")
	assert.Greater(t, ce.RemainingMinutes(), 0, "los minutos restantes se redondean hacia arriba, nunca 0")
	assert.Equal(t, 1, pipe.started, "el pipeline solo debe arrancar una vez")
}

// Si el pipeline no arranca, el run queda failed pero el cooldown se mantiene:
// un pipeline roto no se martillea con reintentos inmediatos.
func TestTrigger_FalloDePipelineMantieneElCooldown(t *testing.T) {
	repo := newFakeRunRepo()
	pipe := &fakePipeline{startErr: errors.New("pipeline no responde")}
	coord := newCoordinator(t, repo, pipe, &fakeInvalidator{})
	ctx := context.Background()

	run, err := coord.Trigger(ctx, "user-1")
	require.Error(t, err)
	assert.Nil(t, run)

	_, err = coord.Trigger(ctx, "user-2")
	_, ok := domain.AsCooldown(err)
	assert.True(t, ok, "la ventana fijada por el trigger fallido debe seguir activa")

	for _, r := range repo.runs {
		assert.Equal(t, entity.RunStateFailed, r.State)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Poll y cascada de invalidación
// ──────────────────────────────────────────────────────────────────────────────

func TestPollStatus_ExitoDisparaLaCascadaUnaSolaVez(t *testing.T) {
	repo, pipe, inv := newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{}
	coord := newCoordinator(t, repo, pipe, inv)
	ctx := context.Background()

	run, err := coord.Trigger(ctx, "user-1")
	require.NoError(t, err)

	pipe.state = refresh.PipelineStateSucceeded
	out, err := coord.PollStatus(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStateSucceeded, out.State)
	assert.Equal(t, 1, inv.calls)

	// Un segundo poll sobre el run terminal no vuelve a invalidar.
	out, err = coord.PollStatus(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStateSucceeded, out.State)
	assert.Equal(t, 1, inv.calls, "la cascada debe dispararse exactamente una vez")
}

func TestPollStatus_FalloDelPipelineNoInvalida(t *testing.T) {
	repo, pipe, inv := newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{}
	coord := newCoordinator(t, repo, pipe, inv)
	ctx := context.Background()

	run, err := coord.Trigger(ctx, "user-1")
	require.NoError(t, err)

	pipe.state = refresh.PipelineStateFailed
	out, err := coord.PollStatus(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStateFailed, out.State)
	assert.Equal(t, 0, inv.calls, "un refresh fallido no debe enfriar la caché")
}

func TestPollStatus_RunEnEjecucionSigueIgual(t *testing.T) {
	repo, pipe, inv := newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{}
	coord := newCoordinator(t, repo, pipe, inv)
	ctx := context.Background()

	run, err := coord.Trigger(ctx, "user-1")
	require.NoError(t, err)

	pipe.state = refresh.PipelineStateRunning
	out, err := coord.PollStatus(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStateRunning, out.State)
	assert.Equal(t, 0, inv.calls)
}

func TestPollStatus_RunInexistente(t *testing.T) {
	coord := newCoordinator(t, newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{})
	_, err := coord.PollStatus(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Trigger programado
// ──────────────────────────────────────────────────────────────────────────────

// El scheduler comparte el mismo reloj de cooldown: un trigger manual reciente
// absorbe el tick y el scheduler recibe éxito con skipped, nunca error.
func TestTriggerScheduled_CooldownActivoEsResultadoNormal(t *testing.T) {
	repo, pipe := newFakeRunRepo(), &fakePipeline{}
	coord := newCoordinator(t, repo, pipe, &fakeInvalidator{})
	ctx := context.Background()

	_, err := coord.Trigger(ctx, "user-1")
	require.NoError(t, err)

	out, err := coord.TriggerScheduled(ctx)
	require.NoError(t, err, "cooldown activo no es error para el scheduler")
	assert.False(t, out.Triggered)
	assert.Empty(t, out.RunID)
}

func TestTriggerScheduled_SinCooldownDispara(t *testing.T) {
	coord := newCoordinator(t, newFakeRunRepo(), &fakePipeline{}, &fakeInvalidator{})
	out, err := coord.TriggerScheduled(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Triggered)
	assert.NotEmpty(t, out.RunID)
}
