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

var _ repository.ContratoRepository = (*ContratoRepo)(nil)

// ContratoRepo implementação de ContratoRepository (usável com pool ou tx).
type ContratoRepo struct {
	q Querier
}

// NewContratoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewContratoRepository(q Querier) *ContratoRepo {
	return &ContratoRepo{q: q}
}

const contratoCols = `
	id, empresa_id, numero, operadora, categoria, vigencia_inicio, vigencia_fim,
	valor_mensal, vidas, import_job_id, created_at, updated_at`

// Create persiste um contrato novo.
func (r *ContratoRepo) Create(c *entity.Contrato) error {
	query := `
		INSERT INTO contratos (` + contratoCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.EmpresaID, c.Numero, c.Operadora, c.Categoria, c.VigenciaInicio, c.VigenciaFim,
		c.ValorMensal, c.Vidas, nulaSeVazia(c.ImportJobID), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert contrato: %w", err)
	}
	return nil
}

// Update atualiza um contrato existente.
func (r *ContratoRepo) Update(c *entity.Contrato) error {
	query := `
		UPDATE contratos
		SET operadora = $2, categoria = $3, vigencia_inicio = $4, vigencia_fim = $5,
		    valor_mensal = $6, vidas = $7, import_job_id = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Operadora, c.Categoria, c.VigenciaInicio, c.VigenciaFim,
		c.ValorMensal, c.Vidas, nulaSeVazia(c.ImportJobID), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contrato: %w", err)
	}
	return nil
}

// GetByEmpresaENumero busca pela chave natural (empresa + número).
func (r *ContratoRepo) GetByEmpresaENumero(empresaID, numero string) (*entity.Contrato, error) {
	query := `SELECT ` + contratoCols + ` FROM contratos WHERE empresa_id = $1 AND numero = $2`
	var c entity.Contrato
	var importJobID *string
	err := r.q.QueryRow(context.Background(), query, empresaID, numero).Scan(
		&c.ID, &c.EmpresaID, &c.Numero, &c.Operadora, &c.Categoria, &c.VigenciaInicio, &c.VigenciaFim,
		&c.ValorMensal, &c.Vidas, &importJobID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contrato: %w", err)
	}
	if importJobID != nil {
		c.ImportJobID = *importJobID
	}
	return &c, nil
}

// ListByEmpresa lista contratos do tenant com paginação.
func (r *ContratoRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Contrato, error) {
	query := `SELECT ` + contratoCols + `
		FROM contratos WHERE empresa_id = $1 ORDER BY numero LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contratos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contrato
	for rows.Next() {
		var c entity.Contrato
		var importJobID *string
		if err := rows.Scan(&c.ID, &c.EmpresaID, &c.Numero, &c.Operadora, &c.Categoria,
			&c.VigenciaInicio, &c.VigenciaFim, &c.ValorMensal, &c.Vidas, &importJobID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contrato: %w", err)
		}
		if importJobID != nil {
			c.ImportJobID = *importJobID
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
