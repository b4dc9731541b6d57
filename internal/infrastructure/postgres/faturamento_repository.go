package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

var _ repository.FaturamentoRepository = (*FaturamentoRepo)(nil)

// FaturamentoRepo implementação de FaturamentoRepository (usável com pool ou tx).
type FaturamentoRepo struct {
	q Querier
}

// NewFaturamentoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewFaturamentoRepository(q Querier) *FaturamentoRepo {
	return &FaturamentoRepo{q: q}
}

const faturamentoCols = `
	id, empresa_id, competencia, categoria, valor_fatura, valor_pago, vidas,
	observacao, import_job_id, created_at, updated_at`

// Create persiste uma competência de fatura.
func (r *FaturamentoRepo) Create(f *entity.Faturamento) error {
	query := `
		INSERT INTO faturamentos (` + faturamentoCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		f.ID, f.EmpresaID, f.Competencia, f.Categoria, f.ValorFatura, f.ValorPago, f.Vidas,
		f.Observacao, nulaSeVazia(f.ImportJobID), f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert faturamento: %w", err)
	}
	return nil
}

// Update atualiza uma competência existente.
func (r *FaturamentoRepo) Update(f *entity.Faturamento) error {
	query := `
		UPDATE faturamentos
		SET categoria = $2, valor_fatura = $3, valor_pago = $4, vidas = $5,
		    observacao = $6, import_job_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		f.ID, f.Categoria, f.ValorFatura, f.ValorPago, f.Vidas,
		f.Observacao, nulaSeVazia(f.ImportJobID), f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update faturamento: %w", err)
	}
	return nil
}

// GetByChaveNatural busca pela chave natural (empresa + competência).
func (r *FaturamentoRepo) GetByChaveNatural(empresaID, competencia string) (*entity.Faturamento, error) {
	query := `SELECT ` + faturamentoCols + `
		FROM faturamentos WHERE empresa_id = $1 AND competencia = $2`
	var f entity.Faturamento
	var importJobID *string
	err := r.q.QueryRow(context.Background(), query, empresaID, competencia).Scan(
		&f.ID, &f.EmpresaID, &f.Competencia, &f.Categoria, &f.ValorFatura, &f.ValorPago, &f.Vidas,
		&f.Observacao, &importJobID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get faturamento: %w", err)
	}
	if importJobID != nil {
		f.ImportJobID = *importJobID
	}
	return &f, nil
}

// ListByEmpresa lista as competências do tenant, mais recentes primeiro.
func (r *FaturamentoRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Faturamento, error) {
	query := `SELECT ` + faturamentoCols + `
		FROM faturamentos WHERE empresa_id = $1
		ORDER BY competencia DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list faturamentos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Faturamento
	for rows.Next() {
		var f entity.Faturamento
		var importJobID *string
		if err := rows.Scan(&f.ID, &f.EmpresaID, &f.Competencia, &f.Categoria, &f.ValorFatura,
			&f.ValorPago, &f.Vidas, &f.Observacao, &importJobID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan faturamento: %w", err)
		}
		if importJobID != nil {
			f.ImportJobID = *importJobID
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
