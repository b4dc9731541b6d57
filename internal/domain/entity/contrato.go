package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contrato representa um contrato de benefício da empresa com a operadora.
// Chave natural para upsert: EmpresaID + Numero.
type Contrato struct {
	ID           string
	EmpresaID    string
	Numero       string
	Operadora    string
	Categoria    string // saude | vida | odonto
	VigenciaInicio string // YYYY-MM-DD
	VigenciaFim    string // YYYY-MM-DD; vazio quando indeterminado
	ValorMensal  decimal.Decimal
	Vidas        int
	ImportJobID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
