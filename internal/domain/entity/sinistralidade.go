package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sinistralidade representa a relação prêmio × sinistro de uma competência.
// Chave natural para upsert: EmpresaID + Competencia + Categoria.
type Sinistralidade struct {
	ID           string
	EmpresaID    string
	Competencia  string // YYYY-MM-DD
	Categoria    string // saude | vida | odonto
	ValorPremio  decimal.Decimal
	ValorSinistro decimal.Decimal
	ImportJobID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Indice devolve sinistro/prêmio (0 quando o prêmio é zero).
func (s *Sinistralidade) Indice() decimal.Decimal {
	if s.ValorPremio.IsZero() {
		return decimal.Zero
	}
	return s.ValorSinistro.Div(s.ValorPremio)
}
