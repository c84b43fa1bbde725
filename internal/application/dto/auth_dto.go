package dto

import "time"

// RegisterRequest alta de usuario (solo admin / revops_admin).
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	SGAFilter       string `json:"sga_filter,omitempty"`
	SGMFilter       string `json:"sgm_filter,omitempty"`
	RecruiterFilter string `json:"recruiter_filter,omitempty"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token emitido + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse proyección pública de un usuario (sin hash).
type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	SGAFilter       string    `json:"sga_filter,omitempty"`
	SGMFilter       string    `json:"sgm_filter,omitempty"`
	RecruiterFilter string    `json:"recruiter_filter,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
