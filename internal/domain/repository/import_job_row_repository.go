package repository

import "github.com/vitalsaude/beneficios-api/internal/domain/entity"

// FiltroLinhas filtra a listagem de linhas staged de um job.
// Status aceita valid|warning|error|duplicate (duplicate casa linhas de aviso
// cuja causa é duplicidade de CPF). Busca é texto livre contra os campos
// identificadores normalizados (CPF e nome).
type FiltroLinhas struct {
	Status string
	Busca  string
	Limit  int
	Offset int
}

// ImportJobRowRepository define o porto de persistência das linhas staged.
// Inserção é sempre em lote e as linhas são imutáveis depois disso.
type ImportJobRowRepository interface {
	BulkInsert(rows []*entity.ImportJobRow) error
	ListByJob(jobID string, filtro FiltroLinhas) ([]*entity.ImportJobRow, error)
	// ListComitaveis devolve as linhas valid e warning do job, ordenadas por
	// row_number — o conjunto exato que o commit processa.
	ListComitaveis(jobID string) ([]*entity.ImportJobRow, error)
	CountByJob(jobID string) (int, error)
}
