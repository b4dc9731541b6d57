package entity

import "time"

// Ações auditadas do pipeline de importação.
const (
	AcaoAnalisar = "analisar"
	AcaoAprovar  = "aprovar"
	AcaoRejeitar = "rejeitar"
	AcaoExportar = "exportar"
)

// AuditLog registra cada ação de importação para rastreabilidade de compliance
// (quem, em qual tenant, quanto demorou, quantas linhas). Obrigatório, não telemetria.
type AuditLog struct {
	ID        string
	EmpresaID string
	UsuarioID string
	JobID     string
	Acao      string // ver constantes Acao*
	DuracaoMs int64
	Detalhes  map[string]interface{} // contagens e contexto adicional (jsonb)
	CreatedAt time.Time
}
