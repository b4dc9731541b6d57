package postgres

import (
	"context"
	"fmt"

	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

var _ repository.MovimentacaoRepository = (*MovimentacaoRepo)(nil)

// MovimentacaoRepo implementação de MovimentacaoRepository (usável com pool ou tx).
// Movimentações são histórico: só há insert e listagem.
type MovimentacaoRepo struct {
	q Querier
}

// NewMovimentacaoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovimentacaoRepository(q Querier) *MovimentacaoRepo {
	return &MovimentacaoRepo{q: q}
}

// Create persiste um evento cadastral.
func (r *MovimentacaoRepo) Create(m *entity.Movimentacao) error {
	query := `
		INSERT INTO movimentacoes (id, empresa_id, cpf, nome, tipo, data, motivo, import_job_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.EmpresaID, m.CPF, m.Nome, m.Tipo, m.Data, m.Motivo,
		nulaSeVazia(m.ImportJobID), m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert movimentacao: %w", err)
	}
	return nil
}

// ListByEmpresa lista movimentações do tenant, mais recentes primeiro.
func (r *MovimentacaoRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Movimentacao, error) {
	query := `
		SELECT id, empresa_id, cpf, nome, tipo, data, motivo, import_job_id, created_at
		FROM movimentacoes WHERE empresa_id = $1
		ORDER BY data DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movimentacoes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimentacao
	for rows.Next() {
		var m entity.Movimentacao
		var importJobID *string
		if err := rows.Scan(&m.ID, &m.EmpresaID, &m.CPF, &m.Nome, &m.Tipo, &m.Data,
			&m.Motivo, &importJobID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movimentacao: %w", err)
		}
		if importJobID != nil {
			m.ImportJobID = *importJobID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
