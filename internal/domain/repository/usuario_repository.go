package repository

import "github.com/vitalsaude/beneficios-api/internal/domain/entity"

// UsuarioRepository define o porto de persistência de usuários.
type UsuarioRepository interface {
	Create(u *entity.Usuario) error
	GetByID(id string) (*entity.Usuario, error)
	FindByEmail(email string) (*entity.Usuario, error)
	GetByEmailEEmpresa(email, empresaID string) (*entity.Usuario, error)
}

// EmpresaRepository define o porto de persistência de empresas (tenants).
type EmpresaRepository interface {
	Create(e *entity.Empresa) error
	GetByID(id string) (*entity.Empresa, error)
	List(limit, offset int) ([]*entity.Empresa, error)
}

// AuditLogRepository registra a trilha de auditoria do pipeline.
// Falha de auditoria é logada pelo chamador, mas não derruba a ação.
type AuditLogRepository interface {
	Create(a *entity.AuditLog) error
	ListByJob(jobID string) ([]*entity.AuditLog, error)
}
