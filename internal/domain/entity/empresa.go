package entity

import "time"

// Empresa representa o tenant do sistema (estipulante do plano de benefícios).
// Toda autorização e todo upsert de dados são limitados ao escopo da empresa.
type Empresa struct {
	ID        string
	Nome      string
	CNPJ      string
	Email     string
	Telefone  string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
