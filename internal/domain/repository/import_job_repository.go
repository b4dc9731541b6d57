package repository

import (
	"time"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

// ImportJobRepository define o porto de persistência do cabeçalho de importação.
type ImportJobRepository interface {
	Create(job *entity.ImportJob) error
	GetByID(id string) (*entity.ImportJob, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.ImportJob, error)
	// AtualizarStatusSe faz a transição de status como compare-and-swap: só
	// aplica se o status atual for "de". Devolve false quando outro chamador
	// venceu a corrida (ou o job não está mais nesse status) — é a proteção
	// contra dois aprovadores simultâneos no mesmo job.
	AtualizarStatusSe(id string, de, para entity.JobStatus, aprovadoPor string, dataAprovacao *time.Time) (bool, error)
}
