package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Goals ─────────────────────────────────────────────────────────────────────

// CreateGoalRequest alta de meta.
type CreateGoalRequest struct {
	UserID      string          `json:"user_id"`
	GoalType    string          `json:"goal_type"` // recruiting, aum, closings
	Period      string          `json:"period"`    // "2026-Q3", "2026"
	TargetValue decimal.Decimal `json:"target_value"`
	Notes       string          `json:"notes"`
}

// GoalResponse proyección de una meta.
type GoalResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	GoalType    string          `json:"goal_type"`
	Period      string          `json:"period"`
	TargetValue decimal.Decimal `json:"target_value"`
	ActualValue decimal.Decimal `json:"actual_value"`
	Progress    decimal.Decimal `json:"progress"` // actual/target en %, 0 si target es 0
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateRequestRequest alta de solicitud interna.
type CreateRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"` // support, data, access
}

// UpdateRequestStatusRequest cambio de estado por un gestor.
type UpdateRequestStatusRequest struct {
	Status     string `json:"status"`
	AssigneeID string `json:"assignee_id,omitempty"`
}

// RequestResponse proyección de una solicitud.
type RequestResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requester_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	AssigneeID  string    `json:"assignee_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ── Game scores ───────────────────────────────────────────────────────────────

// SubmitScoreRequest puntuación enviada por el cliente del minijuego.
type SubmitScoreRequest struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}
