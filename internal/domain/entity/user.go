package entity

import "time"

// User representa un usuario del dashboard.
//
// Los campos de filtro personal atan a ciertos roles a su propia vista de
// los datos: un sga solo ve filas con su SGAFilter, un sgm las de su equipo,
// un recruiter las suyas. Para el resto de roles los tres filtros van vacíos.
type User struct {
	ID              string
	Email           string
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	Name            string
	Role            string // valor de access.Role serializado
	SGAFilter       string
	SGMFilter       string
	RecruiterFilter string
	Status          string // active, inactive, suspended
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
