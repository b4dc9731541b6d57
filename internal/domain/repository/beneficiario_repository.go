package repository

import "github.com/vitalsaude/beneficios-api/internal/domain/entity"

// BeneficiarioRepository define o porto de persistência de beneficiários.
// A chave natural de upsert é empresa + CPF (CPF sempre normalizado).
type BeneficiarioRepository interface {
	Create(b *entity.Beneficiario) error
	Update(b *entity.Beneficiario) error
	GetByEmpresaECPF(empresaID, cpf string) (*entity.Beneficiario, error)
	// ListarCPFs devolve o conjunto de CPFs já cadastrados no tenant, usado
	// pela validação para marcar "já cadastrado, será atualizado".
	ListarCPFs(empresaID string) (map[string]bool, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Beneficiario, error)
}
