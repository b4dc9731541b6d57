package entity

import "time"

// Papéis de acesso. Aprovar/rejeitar importações exige RoleAdmin da empresa do
// job, ou RoleSuperAdmin (acesso entre tenants).
const (
	RoleAdmin      = "admin"
	RoleAnalista   = "analista"
	RoleSuperAdmin = "super_admin"
)

// Usuario representa um operador da plataforma, vinculado a uma empresa.
type Usuario struct {
	ID           string
	EmpresaID    string
	Email        string
	PasswordHash string
	Nome         string
	Role         string // ver constantes Role*
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
