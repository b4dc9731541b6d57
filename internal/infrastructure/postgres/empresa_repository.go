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

var _ repository.EmpresaRepository = (*EmpresaRepo)(nil)

// EmpresaRepo implementação de EmpresaRepository (usável com pool ou tx).
type EmpresaRepo struct {
	q Querier
}

// NewEmpresaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewEmpresaRepository(q Querier) *EmpresaRepo {
	return &EmpresaRepo{q: q}
}

const empresaCols = `id, nome, cnpj, email, telefone, status, created_at, updated_at`

// Create persiste uma empresa nova.
func (r *EmpresaRepo) Create(e *entity.Empresa) error {
	query := `
		INSERT INTO empresas (` + empresaCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Nome, e.CNPJ, e.Email, e.Telefone, e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// GetByID obtém uma empresa por ID.
func (r *EmpresaRepo) GetByID(id string) (*entity.Empresa, error) {
	query := `SELECT ` + empresaCols + ` FROM empresas WHERE id = $1`
	var e entity.Empresa
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.Nome, &e.CNPJ, &e.Email, &e.Telefone, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa: %w", err)
	}
	return &e, nil
}

// List lista empresas com paginação.
func (r *EmpresaRepo) List(limit, offset int) ([]*entity.Empresa, error) {
	query := `SELECT ` + empresaCols + ` FROM empresas ORDER BY nome LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list empresas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Empresa
	for rows.Next() {
		var e entity.Empresa
		if err := rows.Scan(&e.ID, &e.Nome, &e.CNPJ, &e.Email, &e.Telefone, &e.Status,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan empresa: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
