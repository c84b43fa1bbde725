package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de meta soportados.
const (
	GoalTypeRecruiting = "recruiting" // asesores incorporados
	GoalTypeAUM        = "aum"        // activos bajo gestión
	GoalTypeClosings   = "closings"   // cierres del funnel
)

// Goal meta trimestral o anual asignada a un usuario (normalmente sga/sgm).
type Goal struct {
	ID          string
	UserID      string
	GoalType    string          // recruiting, aum, closings
	Period      string          // "2026-Q3", "2026"
	TargetValue decimal.Decimal
	ActualValue decimal.Decimal
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
