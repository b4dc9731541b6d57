package entity

import "time"

// Tipos de movimentação cadastral.
const (
	MovimentacaoInclusao  = "inclusao"
	MovimentacaoExclusao  = "exclusao"
	MovimentacaoAlteracao = "alteracao"
)

// Movimentacao representa um evento cadastral (inclusão/exclusão/alteração de vida).
// Movimentações são histórico: o commit sempre insere, nunca atualiza.
type Movimentacao struct {
	ID          string
	EmpresaID   string
	CPF         string // 11 dígitos
	Nome        string
	Tipo        string // ver constantes Movimentacao*
	Data        string // YYYY-MM-DD
	Motivo      string
	ImportJobID string
	CreatedAt   time.Time
}
