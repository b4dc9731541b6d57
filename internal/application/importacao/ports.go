package importacao

import (
	"context"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

// TxRunner executa fn com repositórios de job e linhas ligados a uma mesma
// transação. É como a análise grava cabeçalho + lote de linhas atomicamente.
type TxRunner interface {
	Run(ctx context.Context, fn func(jobs repository.ImportJobRepository, rows repository.ImportJobRowRepository) error) error
}

// GeradorResumo produz o resumo em linguagem natural da análise de um arquivo.
// Erro aqui nunca deve derrubar a importação: o chamador cai no resumo padrão.
type GeradorResumo interface {
	GerarResumo(ctx context.Context, job *entity.ImportJob, amostra []*entity.ImportJobRow) (string, error)
}

// ArmazenamentoArquivos é o bucket de arquivos de importação (originais e exports).
type ArmazenamentoArquivos interface {
	Enviar(ctx context.Context, caminho string, conteudo []byte, contentType string) (url string, err error)
	Baixar(ctx context.Context, caminho string) ([]byte, error)
}

// GeradorRelatorio produz o relatório PDF de um job analisado.
type GeradorRelatorio interface {
	GerarRelatorioJob(job *entity.ImportJob, linhas []*entity.ImportJobRow) ([]byte, error)
}
