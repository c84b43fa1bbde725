package dto

import "time"

// TriggerRefreshResponse respuesta 202 del trigger manual.
type TriggerRefreshResponse struct {
	RunID            string `json:"run_id"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// CooldownResponse respuesta 429 cuando la ventana sigue activa.
type CooldownResponse struct {
	Code                     string `json:"code"`
	CooldownMinutesRemaining int    `json:"cooldown_minutes_remaining"`
}

// RefreshRunDTO proyección de un run del ledger.
type RefreshRunDTO struct {
	ID            string     `json:"id"`
	PipelineRunID string     `json:"pipeline_run_id,omitempty"`
	TriggeredBy   string     `json:"triggered_by"`
	State         string     `json:"state"`
	TriggeredAt   time.Time  `json:"triggered_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CooldownUntil time.Time  `json:"cooldown_until"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// ScheduledRefreshResponse respuesta del trigger programado. Un cooldown
// activo es resultado normal (el scheduler no debe alertar).
type ScheduledRefreshResponse struct {
	Outcome string `json:"outcome"` // triggered|skipped_cooldown
	RunID   string `json:"run_id,omitempty"`
}
