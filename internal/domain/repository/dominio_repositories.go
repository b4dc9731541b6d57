package repository

import "github.com/vitalsaude/beneficios-api/internal/domain/entity"

// Portos das demais tabelas de domínio alvo do commit. Cada uma tem sua chave
// natural de upsert; movimentações são histórico e só recebem insert.

// FaturamentoRepository persiste competências de fatura (empresa + competência).
type FaturamentoRepository interface {
	Create(f *entity.Faturamento) error
	Update(f *entity.Faturamento) error
	GetByChaveNatural(empresaID, competencia string) (*entity.Faturamento, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Faturamento, error)
}

// SinistralidadeRepository persiste sinistralidade (empresa + competência + categoria).
type SinistralidadeRepository interface {
	Create(s *entity.Sinistralidade) error
	Update(s *entity.Sinistralidade) error
	GetByChaveNatural(empresaID, competencia, categoria string) (*entity.Sinistralidade, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Sinistralidade, error)
}

// ContratoRepository persiste contratos (empresa + número).
type ContratoRepository interface {
	Create(c *entity.Contrato) error
	Update(c *entity.Contrato) error
	GetByEmpresaENumero(empresaID, numero string) (*entity.Contrato, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Contrato, error)
}

// MovimentacaoRepository persiste eventos cadastrais (somente insert).
type MovimentacaoRepository interface {
	Create(m *entity.Movimentacao) error
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Movimentacao, error)
}
