package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

// TxRunner executa o staging de uma importação (cabeçalho do job + lote de
// linhas) dentro de uma única transação: ou tudo fica gravado, ou nada.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner cria um TxRunner sobre o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre uma transação e chama fn com repositórios ligados a ela.
// Se fn devolver erro, a transação é revertida.
func (r *TxRunner) Run(ctx context.Context, fn func(jobs repository.ImportJobRepository, rows repository.ImportJobRowRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar transação: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	jobs := NewImportJobRepository(tx)
	rows := NewImportJobRowRepository(tx)

	if err := fn(jobs, rows); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
