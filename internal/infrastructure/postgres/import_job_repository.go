package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

var _ repository.ImportJobRepository = (*ImportJobRepo)(nil)

// ImportJobRepo implementação de ImportJobRepository (usável com pool ou tx).
type ImportJobRepo struct {
	q Querier
}

// NewImportJobRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewImportJobRepository(q Querier) *ImportJobRepo {
	return &ImportJobRepo{q: q}
}

const importJobCols = `
	id, empresa_id, tipo_dado, status, arquivo_nome, arquivo_url,
	total_rows, valid_rows, warning_rows, error_rows, duplicate_rows, malformed_rows,
	column_mapping, ai_summary, criado_por, aprovado_por, data_aprovacao,
	parent_job_id, created_at, updated_at`

// Create persiste o cabeçalho do job.
func (r *ImportJobRepo) Create(job *entity.ImportJob) error {
	query := `
		INSERT INTO import_jobs (` + importJobCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.EmpresaID, job.TipoDado, job.Status, job.ArquivoNome, job.ArquivoURL,
		job.TotalRows, job.ValidRows, job.WarningRows, job.ErrorRows, job.DuplicateRows, job.MalformedRows,
		job.ColumnMapping, job.AISummary, job.CriadoPor, nulaSeVazia(job.AprovadoPor), job.DataAprovacao,
		nulaSeVazia(job.ParentJobID), job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert import_job: %w", err)
	}
	return nil
}

// GetByID obtém um job por ID. Devolve (nil, nil) quando não existe.
func (r *ImportJobRepo) GetByID(id string) (*entity.ImportJob, error) {
	query := `SELECT ` + importJobCols + ` FROM import_jobs WHERE id = $1`
	job, err := scanImportJob(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import_job: %w", err)
	}
	return job, nil
}

// ListByEmpresa lista os jobs do tenant, mais recentes primeiro.
func (r *ImportJobRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.ImportJob, error) {
	query := `SELECT ` + importJobCols + `
		FROM import_jobs WHERE empresa_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list import_jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan import_job: %w", err)
		}
		list = append(list, job)
	}
	return list, rows.Err()
}

// AtualizarStatusSe aplica a transição de status com compare-and-swap: o UPDATE
// só casa se o status atual for "de". RowsAffected=0 significa que outro
// chamador venceu a corrida (ou o job já saiu desse status).
func (r *ImportJobRepo) AtualizarStatusSe(id string, de, para entity.JobStatus, aprovadoPor string, dataAprovacao *time.Time) (bool, error) {
	query := `
		UPDATE import_jobs
		SET status = $3, aprovado_por = COALESCE($4, aprovado_por),
		    data_aprovacao = COALESCE($5, data_aprovacao), updated_at = NOW()
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, de, para, nulaSeVazia(aprovadoPor), dataAprovacao)
	if err != nil {
		return false, fmt.Errorf("update status import_job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanImportJob lê uma linha de import_jobs (colunas na ordem de importJobCols).
func scanImportJob(row pgx.Row) (*entity.ImportJob, error) {
	var j entity.ImportJob
	var aprovadoPor, parentJobID *string
	err := row.Scan(
		&j.ID, &j.EmpresaID, &j.TipoDado, &j.Status, &j.ArquivoNome, &j.ArquivoURL,
		&j.TotalRows, &j.ValidRows, &j.WarningRows, &j.ErrorRows, &j.DuplicateRows, &j.MalformedRows,
		&j.ColumnMapping, &j.AISummary, &j.CriadoPor, &aprovadoPor, &j.DataAprovacao,
		&parentJobID, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if aprovadoPor != nil {
		j.AprovadoPor = *aprovadoPor
	}
	if parentJobID != nil {
		j.ParentJobID = *parentJobID
	}
	return &j, nil
}

// nulaSeVazia converte string vazia em NULL (colunas opcionais com FK).
func nulaSeVazia(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
