package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Faturamento representa uma competência de fatura/mensalidade da empresa.
// Chave natural para upsert: EmpresaID + Competencia.
type Faturamento struct {
	ID            string
	EmpresaID     string
	Competencia   string // YYYY-MM-DD (primeiro dia da competência)
	Categoria     string // saude | vida | odonto; vazio quando consolidado
	ValorFatura   decimal.Decimal
	ValorPago     decimal.Decimal
	Vidas         int
	Observacao    string
	ImportJobID   string // job que originou/atualizou o registro (rastreabilidade)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
