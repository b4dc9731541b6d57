package postgres

import (
	"context"
	"fmt"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementação de AuditLogRepository (usável com pool ou tx).
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create registra uma entrada de auditoria.
func (r *AuditLogRepo) Create(a *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, empresa_id, usuario_id, job_id, acao, duracao_ms, detalhes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.EmpresaID, a.UsuarioID, nulaSeVazia(a.JobID), a.Acao, a.DuracaoMs, a.Detalhes, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit_log: %w", err)
	}
	return nil
}

// ListByJob lista a trilha de auditoria de um job, em ordem cronológica.
func (r *AuditLogRepo) ListByJob(jobID string) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, empresa_id, usuario_id, job_id, acao, duracao_ms, detalhes, created_at
		FROM audit_logs WHERE job_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list audit_logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var a entity.AuditLog
		var jobID *string
		if err := rows.Scan(&a.ID, &a.EmpresaID, &a.UsuarioID, &jobID, &a.Acao,
			&a.DuracaoMs, &a.Detalhes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		if jobID != nil {
			a.JobID = *jobID
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
