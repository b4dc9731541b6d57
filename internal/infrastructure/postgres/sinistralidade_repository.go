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

var _ repository.SinistralidadeRepository = (*SinistralidadeRepo)(nil)

// SinistralidadeRepo implementação de SinistralidadeRepository (usável com pool ou tx).
type SinistralidadeRepo struct {
	q Querier
}

// NewSinistralidadeRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewSinistralidadeRepository(q Querier) *SinistralidadeRepo {
	return &SinistralidadeRepo{q: q}
}

const sinistralidadeCols = `
	id, empresa_id, competencia, categoria, valor_premio, valor_sinistro,
	import_job_id, created_at, updated_at`

// Create persiste uma competência de sinistralidade.
func (r *SinistralidadeRepo) Create(s *entity.Sinistralidade) error {
	query := `
		INSERT INTO sinistralidades (` + sinistralidadeCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.EmpresaID, s.Competencia, s.Categoria, s.ValorPremio, s.ValorSinistro,
		nulaSeVazia(s.ImportJobID), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert sinistralidade: %w", err)
	}
	return nil
}

// Update atualiza uma competência existente.
func (r *SinistralidadeRepo) Update(s *entity.Sinistralidade) error {
	query := `
		UPDATE sinistralidades
		SET valor_premio = $2, valor_sinistro = $3, import_job_id = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ValorPremio, s.ValorSinistro, nulaSeVazia(s.ImportJobID), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sinistralidade: %w", err)
	}
	return nil
}

// GetByChaveNatural busca pela chave natural (empresa + competência + categoria).
func (r *SinistralidadeRepo) GetByChaveNatural(empresaID, competencia, categoria string) (*entity.Sinistralidade, error) {
	query := `SELECT ` + sinistralidadeCols + `
		FROM sinistralidades WHERE empresa_id = $1 AND competencia = $2 AND categoria = $3`
	var s entity.Sinistralidade
	var importJobID *string
	err := r.q.QueryRow(context.Background(), query, empresaID, competencia, categoria).Scan(
		&s.ID, &s.EmpresaID, &s.Competencia, &s.Categoria, &s.ValorPremio, &s.ValorSinistro,
		&importJobID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sinistralidade: %w", err)
	}
	if importJobID != nil {
		s.ImportJobID = *importJobID
	}
	return &s, nil
}

// ListByEmpresa lista as competências do tenant, mais recentes primeiro.
func (r *SinistralidadeRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Sinistralidade, error) {
	query := `SELECT ` + sinistralidadeCols + `
		FROM sinistralidades WHERE empresa_id = $1
		ORDER BY competencia DESC, categoria LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sinistralidades: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sinistralidade
	for rows.Next() {
		var s entity.Sinistralidade
		var importJobID *string
		if err := rows.Scan(&s.ID, &s.EmpresaID, &s.Competencia, &s.Categoria, &s.ValorPremio,
			&s.ValorSinistro, &importJobID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sinistralidade: %w", err)
		}
		if importJobID != nil {
			s.ImportJobID = *importJobID
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
