package entity

import "time"

// Estados válidos para Request.
const (
	RequestStatusOpen       = "open"
	RequestStatusInProgress = "in_progress"
	RequestStatusDone       = "done"
	RequestStatusRejected   = "rejected"
)

// Request solicitud interna (soporte, datos, acceso) creada desde el dashboard.
// El sync bidireccional con el task tracker externo es un colaborador aparte;
// aquí solo se persiste el registro propio de la app.
type Request struct {
	ID          string
	RequesterID string
	Title       string
	Description string
	Category    string // support, data, access
	Status      string // open, in_progress, done, rejected
	AssigneeID  string // vacío = sin asignar
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
