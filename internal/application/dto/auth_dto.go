package dto

import "time"

// LoginRequest credenciais de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest cadastro de usuário em uma empresa.
type RegisterRequest struct {
	EmpresaID string `json:"empresa_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Nome      string `json:"nome"`
	Role      string `json:"role"`
}

// UsuarioResponse usuário sem campos sensíveis.
type UsuarioResponse struct {
	ID        string    `json:"id"`
	EmpresaID string    `json:"empresa_id"`
	Email     string    `json:"email"`
	Nome      string    `json:"nome"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token + usuário autenticado.
type LoginResponse struct {
	Token string          `json:"token"`
	User  UsuarioResponse `json:"user"`
}
