// Package refresh implementa el coordinador del refresh externo de datos:
// trigger con cooldown atómico, poll de estado y cascada de invalidación.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
	"github.com/russellmoss/dashboard-api/pkg/logger"
	"github.com/russellmoss/dashboard-api/pkg/metrics"
)

// ScheduledBy identidad que queda en el ledger cuando dispara el scheduler.
const ScheduledBy = "scheduler"

// Config knobs del coordinador.
type Config struct {
	CooldownWindow    time.Duration
	EstimatedDuration time.Duration
	PipelineParentID  string
}

// Coordinator máquina de estados del refresh: pending → running →
// {succeeded, failed}. El reloj de cooldown vive en el ledger (durable y
// compartido entre instancias); este tipo no guarda estado propio.
type Coordinator struct {
	runs     repository.RefreshRunRepository
	pipeline PipelineClient
	cache    CacheInvalidator
	cfg      Config
	log      *logger.Logger
	met      *metrics.Manager
}

// NewCoordinator construye el coordinador.
func NewCoordinator(
	runs repository.RefreshRunRepository,
	pipeline PipelineClient,
	cache CacheInvalidator,
	cfg Config,
	log *logger.Logger,
	met *metrics.Manager,
) *Coordinator {
	return &Coordinator{
		runs:     runs,
		pipeline: pipeline,
		cache:    cache,
		cfg:      cfg,
		log:      log.Component("refresh_coordinator"),
		met:      met,
	}
}

// Trigger intenta disparar un refresh. El check de cooldown y la creación del
// run son una sola unidad atómica en el ledger: dos triggers dentro de la
// misma ventana producen exactamente un aceptado y un *domain.CooldownError,
// sin importar orden ni concurrencia. La ventana se fija ANTES de hablar con
// el pipeline, así una carrera de triggers no puede colarse durante el Start.
func (c *Coordinator) Trigger(ctx context.Context, triggeredBy string) (*entity.RefreshRun, error) {
	run := &entity.RefreshRun{
		ID:          uuid.New().String(),
		TriggeredBy: triggeredBy,
		TriggeredAt: time.Now().UTC(),
	}
	if err := c.runs.CreateIfCooldownExpired(ctx, run, c.cfg.CooldownWindow); err != nil {
		if ce, ok := domain.AsCooldown(err); ok {
			c.met.RefreshRejected.Inc()
			c.log.Info().
				Str("triggered_by", triggeredBy).
				Int("minutes_remaining", ce.RemainingMinutes()).
				Msg("trigger rechazado por cooldown")
			return nil, err
		}
		return nil, fmt.Errorf("crear run de refresh: %w", err)
	}
	c.met.RefreshAccepted.Inc()

	pipelineRunID, err := c.pipeline.Start(ctx, c.cfg.PipelineParentID)
	if err != nil {
		// El run aceptado queda como failed; el cooldown se mantiene para no
		// martillar un pipeline roto. El siguiente tick o un operador reintenta.
		if _, cerr := c.runs.Complete(ctx, run.ID, entity.RunStateFailed, err.Error()); cerr != nil {
			c.log.Error().Err(cerr).Str("run_id", run.ID).Msg("no se pudo marcar run como failed")
		}
		c.met.RefreshFailed.Inc()
		return nil, fmt.Errorf("arrancar pipeline: %w", err)
	}

	if err := c.runs.MarkRunning(ctx, run.ID, pipelineRunID); err != nil {
		return nil, fmt.Errorf("marcar run en ejecución: %w", err)
	}
	run.PipelineRunID = pipelineRunID
	run.State = entity.RunStateRunning

	c.log.Info().
		Str("run_id", run.ID).
		Str("pipeline_run_id", pipelineRunID).
		Str("triggered_by", triggeredBy).
		Msg("refresh disparado")
	return run, nil
}

// PollStatus consulta el estado de un run. Si el pipeline reporta que terminó
// con éxito, ESTA llamada (y solo la que gana la transición en el ledger)
// dispara la cascada de invalidación sobre ambos tags: las dos superficies
// leen el mismo snapshot refrescado.
func (c *Coordinator) PollStatus(ctx context.Context, runID string) (*entity.RefreshRun, error) {
	run, err := c.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	if run.Terminal() || run.PipelineRunID == "" {
		return run, nil
	}

	p, err := c.pipeline.GetRun(ctx, run.PipelineRunID)
	if err != nil {
		return nil, fmt.Errorf("consultar pipeline: %w", err)
	}

	switch p.State {
	case PipelineStateSucceeded:
		transitioned, err := c.runs.Complete(ctx, run.ID, entity.RunStateSucceeded, "")
		if err != nil {
			return nil, err
		}
		if transitioned {
			if err := c.cache.InvalidateAll(ctx); err != nil {
				// La invalidación fallida no revierte el run: los TTL acotan
				// la ventana de staleness y el operador puede invalidar a mano.
				c.log.Error().Err(err).Str("run_id", run.ID).Msg("cascada de invalidación falló")
			} else {
				c.log.Info().Str("run_id", run.ID).Msg("refresh completado, caché invalidada")
			}
		}
	case PipelineStateFailed:
		if _, err := c.runs.Complete(ctx, run.ID, entity.RunStateFailed, p.Error); err != nil {
			return nil, err
		}
		c.met.RefreshFailed.Inc()
	}

	return c.runs.GetByID(ctx, runID)
}

// ScheduledOutcome resultado del trigger programado.
type ScheduledOutcome struct {
	Triggered bool
	RunID     string
}

// TriggerScheduled variante del scheduler: comparte el mismo reloj de
// cooldown que los triggers manuales (un trigger manual reciente simplemente
// absorbe el tick) y trata CooldownActive como resultado normal, no como
// error, para que el scheduler no alerte.
func (c *Coordinator) TriggerScheduled(ctx context.Context) (ScheduledOutcome, error) {
	run, err := c.Trigger(ctx, ScheduledBy)
	if err != nil {
		if _, ok := domain.AsCooldown(err); ok {
			return ScheduledOutcome{Triggered: false}, nil
		}
		return ScheduledOutcome{}, err
	}
	return ScheduledOutcome{Triggered: true, RunID: run.ID}, nil
}

// EstimatedMinutes duración estimada que se devuelve en el 202.
func (c *Coordinator) EstimatedMinutes() int {
	return int(c.cfg.EstimatedDuration / time.Minute)
}

// List runs recientes del ledger (auditoría del operador).
func (c *Coordinator) List(ctx context.Context, limit int) ([]entity.RefreshRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return c.runs.List(ctx, limit)
}
