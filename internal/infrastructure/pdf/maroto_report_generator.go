// Package pdf implementa o relatório PDF de revisão de uma importação.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Arquivo + tipo de dado  │  Status + data            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTAGENS: Total / Válidas / Avisos / Erros / Duplicadas    │
//	│  RESUMO: texto do resumo da análise                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Linha | Status | Problemas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorError   = &props.Color{Red: 180, Green: 40, Blue: 40}
	colorWarning = &props.Color{Red: 180, Green: 120, Blue: 0}
)

// Verificação em tempo de compilação de que o generator implementa o porto.
var _ appimport.GeradorRelatorio = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa GeradorRelatorio usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator constrói o generator.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GerarRelatorioJob gera o PDF de revisão do job e devolve seus bytes.
// A tabela lista só as linhas com problema (avisos e erros); linhas válidas
// aparecem apenas nas contagens.
func (g *MarotoReportGenerator) GerarRelatorioJob(job *entity.ImportJob, linhas []*entity.ImportJobRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de Importação", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(job))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(contagensRow(job))
	if job.AISummary != "" {
		m.AddRows(resumoRow(job.AISummary))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tabelaHeaderRow())
	for _, linha := range linhas {
		if linha.Status == entity.RowValid {
			continue
		}
		m.AddRows(problemaRow(linha))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: arquivo + tipo (esq) e status + data (dir).
func headerRow(job *entity.ImportJob) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(job.ArquivoNome, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tipo de dado: "+string(job.TipoDado), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RELATÓRIO DE IMPORTAÇÃO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(string(job.Status)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+job.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// contagensRow: totais da análise em cinco colunas.
func contagensRow(job *entity.ImportJob) core.Row {
	contagem := func(rotulo string, valor int, cor *props.Color) core.Col {
		return col.New(2).Add(
			text.New(rotulo, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(fmt.Sprintf("%d", valor), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: cor, Top: 5,
			}),
		)
	}
	return row.New(14).Add(
		contagem("Total", job.TotalRows, colorPrimary),
		contagem("Válidas", job.ValidRows, colorPrimary),
		contagem("Avisos", job.WarningRows, colorWarning),
		contagem("Erros", job.ErrorRows, colorError),
		contagem("Duplicadas", job.DuplicateRows, colorWarning),
		contagem("Malformadas", job.MalformedRows, colorGray),
	)
}

func resumoRow(resumo string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(resumo, props.Text{Size: 9, Top: 2, Color: colorGray}),
		),
	)
}

func tabelaHeaderRow() core.Row {
	header := func(size int, titulo string) core.Col {
		return col.New(size).Add(text.New(titulo, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		header(1, "Linha"),
		header(2, "Status"),
		header(9, "Problemas"),
	)
}

func problemaRow(linha *entity.ImportJobRow) core.Row {
	cor := colorWarning
	if linha.Status == entity.RowError {
		cor = colorError
	}
	problemas := strings.Join(append(append([]string{}, linha.Errors...), linha.Warnings...), "; ")
	return row.New(5).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", linha.RowNumber), props.Text{Size: 8})),
		col.New(2).Add(text.New(string(linha.Status), props.Text{Size: 8, Color: cor})),
		col.New(9).Add(text.New(problemas, props.Text{Size: 8})),
	)
}
