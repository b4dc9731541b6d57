package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

var _ repository.ImportJobRowRepository = (*ImportJobRowRepo)(nil)

// ImportJobRowRepo implementação de ImportJobRowRepository (usável com pool ou tx).
type ImportJobRowRepo struct {
	q Querier
}

// NewImportJobRowRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewImportJobRowRepository(q Querier) *ImportJobRowRepo {
	return &ImportJobRowRepo{q: q}
}

const importJobRowCols = `
	id, job_id, row_number, status, original_data, mapped_data, errors, warnings`

// BulkInsert insere o lote de linhas staged de um job via COPY.
func (r *ImportJobRowRepo) BulkInsert(rows []*entity.ImportJobRow) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.q.CopyFrom(
		context.Background(),
		pgx.Identifier{"import_job_rows"},
		[]string{"id", "job_id", "row_number", "status", "original_data", "mapped_data", "errors", "warnings"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.ID, row.JobID, row.RowNumber, string(row.Status),
				row.OriginalData, row.MappedData, row.Errors, row.Warnings,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("bulk insert import_job_rows: %w", err)
	}
	return nil
}

// ListByJob lista linhas staged do job com filtro opcional por status e busca
// textual (CPF/nome), ordenadas por row_number.
func (r *ImportJobRowRepo) ListByJob(jobID string, filtro repository.FiltroLinhas) ([]*entity.ImportJobRow, error) {
	query := `SELECT ` + importJobRowCols + ` FROM import_job_rows WHERE job_id = $1`
	args := []any{jobID}

	switch filtro.Status {
	case "":
		// sem filtro
	case string(entity.RowDuplicate):
		// "duplicate" é subclassificação de warning, identificada pela mensagem
		query += ` AND status = 'warning' AND EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(warnings) w
			WHERE w ILIKE '%duplicado%' OR w ILIKE '%já cadastrado%')`
	default:
		args = append(args, filtro.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	if filtro.Busca != "" {
		args = append(args, "%"+filtro.Busca+"%")
		query += fmt.Sprintf(` AND (mapped_data->>'cpf' ILIKE $%d OR mapped_data->>'nome' ILIKE $%d)`, len(args), len(args))
	}

	query += ` ORDER BY row_number`
	if filtro.Limit > 0 {
		args = append(args, filtro.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filtro.Offset > 0 {
		args = append(args, filtro.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	return r.queryRows(query, args...)
}

// ListComitaveis devolve as linhas valid e warning do job, em ordem de
// row_number. Linhas error nunca entram no commit.
func (r *ImportJobRowRepo) ListComitaveis(jobID string) ([]*entity.ImportJobRow, error) {
	query := `SELECT ` + importJobRowCols + `
		FROM import_job_rows
		WHERE job_id = $1 AND status IN ('valid', 'warning')
		ORDER BY row_number`
	return r.queryRows(query, jobID)
}

// CountByJob conta as linhas staged do job.
func (r *ImportJobRowRepo) CountByJob(jobID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM import_job_rows WHERE job_id = $1`, jobID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count import_job_rows: %w", err)
	}
	return n, nil
}

func (r *ImportJobRowRepo) queryRows(query string, args ...any) ([]*entity.ImportJobRow, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list import_job_rows: %w", err)
	}
	defer rows.Close()
	var list []*entity.ImportJobRow
	for rows.Next() {
		var l entity.ImportJobRow
		if err := rows.Scan(&l.ID, &l.JobID, &l.RowNumber, &l.Status,
			&l.OriginalData, &l.MappedData, &l.Errors, &l.Warnings); err != nil {
			return nil, fmt.Errorf("scan import_job_row: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
