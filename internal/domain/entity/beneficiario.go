package entity

import "time"

// Tipos de beneficiário.
const (
	BeneficiarioTitular    = "titular"
	BeneficiarioDependente = "dependente"
)

// Beneficiario representa uma vida coberta pelo plano da empresa.
// Chave natural para upsert: EmpresaID + CPF (CPF sempre armazenado só com dígitos).
type Beneficiario struct {
	ID             string
	EmpresaID      string
	Nome           string
	CPF            string // 11 dígitos, sem máscara
	DataNascimento string // YYYY-MM-DD; vazio quando não informado
	Tipo           string // titular | dependente
	TitularCPF     string // CPF do titular quando Tipo=dependente
	Matricula      string
	Email          string
	Telefone       string
	PlanoSaude     bool
	PlanoVida      bool
	PlanoOdonto    bool
	Status         string // ativo, inativo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
