package importacao

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	domimport "github.com/vitalsaude/beneficios-api/internal/domain/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
	"github.com/vitalsaude/beneficios-api/pkg/logger"
)

// AnalisarUseCase é a fase de análise do pipeline: parseia o arquivo, detecta
// o tipo de dado, mapeia colunas, valida cada linha e grava job + linhas
// staged atomicamente. Nada toca as tabelas de domínio até a aprovação.
type AnalisarUseCase struct {
	tx            TxRunner
	benefRepo     repository.BeneficiarioRepository
	auditRepo     repository.AuditLogRepository
	armazenamento ArmazenamentoArquivos
	resumo        GeradorResumo
	log           *logger.Logger
}

// NewAnalisarUseCase constrói o caso de uso de análise.
func NewAnalisarUseCase(
	tx TxRunner,
	benefRepo repository.BeneficiarioRepository,
	auditRepo repository.AuditLogRepository,
	armazenamento ArmazenamentoArquivos,
	resumo GeradorResumo,
	log *logger.Logger,
) *AnalisarUseCase {
	return &AnalisarUseCase{
		tx:            tx,
		benefRepo:     benefRepo,
		auditRepo:     auditRepo,
		armazenamento: armazenamento,
		resumo:        resumo,
		log:           log,
	}
}

// Analisar executa a análise completa de um arquivo.
//
// Falhas duras (arquivo vazio, formato não suportado) abortam antes de gravar
// qualquer coisa: não fica job failed órfão, a requisição devolve o erro.
// Falhas brandas (upload do original, resumo de IA, auditoria) não abortam:
// a análise vale mais que os acessórios.
func (uc *AnalisarUseCase) Analisar(ctx context.Context, in dto.AnalisarRequest) (*dto.ImportJobResponse, error) {
	inicio := time.Now()

	// Arquivos já no bucket entram por referência em vez de multipart.
	if len(in.Conteudo) == 0 && len(in.RowsJSON) == 0 && in.ArquivoURL != "" {
		if uc.armazenamento == nil {
			return nil, fmt.Errorf("%w: armazenamento de arquivos não configurado", domain.ErrEntradaInvalida)
		}
		conteudo, err := uc.armazenamento.Baixar(ctx, in.ArquivoURL)
		if err != nil {
			return nil, fmt.Errorf("baixar arquivo do bucket: %w", err)
		}
		in.Conteudo = conteudo
	}

	tabela, err := uc.parsear(in)
	if err != nil {
		return nil, err
	}

	// Detecção de tipo pelos cabeçalhos, a menos que o chamador force.
	tipo := entity.TipoDado(in.TipoDado)
	if tipo == "" {
		tipo = domimport.DetectarTipoDado(tabela.Cabecalhos)
	}
	if !tipo.Valido() {
		return nil, fmt.Errorf("%w: tipo de dado %q", domain.ErrEntradaInvalida, in.TipoDado)
	}

	mapeamento := domimport.MapearColunas(tabela.Cabecalhos, tipo)

	// CPFs já cadastrados no tenant alimentam o aviso "será atualizado".
	var existentes map[string]bool
	if tipo == entity.TipoBeneficiarios {
		existentes, err = uc.benefRepo.ListarCPFs(in.EmpresaID)
		if err != nil {
			return nil, fmt.Errorf("listar cpfs existentes: %w", err)
		}
	}

	resultados := domimport.ValidarLote(tabela.Linhas, mapeamento, tipo, existentes)
	contagens := domimport.ContarResultados(resultados)

	now := time.Now()
	job := &entity.ImportJob{
		ID:            uuid.New().String(),
		EmpresaID:     in.EmpresaID,
		TipoDado:      tipo,
		Status:        entity.JobReadyForReview,
		ArquivoNome:   in.ArquivoNome,
		TotalRows:     contagens.Total,
		ValidRows:     contagens.Validas,
		WarningRows:   contagens.Avisos,
		ErrorRows:     contagens.Erros,
		DuplicateRows: contagens.Duplicadas,
		MalformedRows: tabela.Malformadas,
		ColumnMapping: mapeamento,
		CriadoPor:     in.UsuarioID,
		ParentJobID:   in.ParentJobID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	linhas := montarLinhas(job.ID, tabela.Linhas, resultados)

	// Original no bucket antes do staging, para o job já nascer com a URL.
	// Arquivos que vieram do próprio bucket mantêm a referência de origem.
	if in.ArquivoURL != "" {
		job.ArquivoURL = in.ArquivoURL
	} else if len(in.Conteudo) > 0 && uc.armazenamento != nil {
		caminho := fmt.Sprintf("%s/%s/%s", in.EmpresaID, job.ID, path.Base(in.ArquivoNome))
		url, err := uc.armazenamento.Enviar(ctx, caminho, in.Conteudo, contentTypeDe(in.ArquivoNome))
		if err != nil {
			uc.log.Warn().Err(err).Str("job_id", job.ID).Msg("upload do arquivo original falhou")
		} else {
			job.ArquivoURL = url
		}
	}

	job.AISummary = uc.gerarResumo(ctx, job, linhas)

	// Cabeçalho + lote de linhas na mesma transação.
	err = uc.tx.Run(ctx, func(jobs repository.ImportJobRepository, rows repository.ImportJobRowRepository) error {
		if err := jobs.Create(job); err != nil {
			return err
		}
		return rows.BulkInsert(linhas)
	})
	if err != nil {
		return nil, fmt.Errorf("gravar staging: %w", err)
	}

	uc.auditar(in, job, time.Since(inicio))

	return ToImportJobResponse(job), nil
}

// parsear escolhe o parser pela extensão (ou pelo payload de OCR).
func (uc *AnalisarUseCase) parsear(in dto.AnalisarRequest) (*domimport.Tabela, error) {
	if len(in.RowsJSON) > 0 {
		return domimport.ParseJSONRows(in.RowsJSON)
	}
	switch strings.ToLower(path.Ext(in.ArquivoNome)) {
	case ".csv", ".txt":
		return domimport.ParseCSV(in.Conteudo)
	case ".xlsx":
		return domimport.ParseXLSX(in.Conteudo)
	case ".pdf":
		// PDFs chegam já extraídos (rows_json); o binário puro não é parseável aqui.
		return nil, fmt.Errorf("%w: PDF requer extração prévia (rows_json)", domain.ErrFormatoNaoSuportado)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrFormatoNaoSuportado, in.ArquivoNome)
	}
}

// gerarResumo chama o gerador de resumo com timeout curto; em qualquer falha
// cai no resumo padrão determinístico.
func (uc *AnalisarUseCase) gerarResumo(ctx context.Context, job *entity.ImportJob, linhas []*entity.ImportJobRow) string {
	if uc.resumo != nil {
		ctxIA, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if resumo, err := uc.resumo.GerarResumo(ctxIA, job, amostraProblemas(linhas)); err == nil {
			return resumo
		} else {
			uc.log.Warn().Err(err).Str("job_id", job.ID).Msg("resumo de IA indisponível, usando resumo padrão")
		}
	}
	return ResumoPadrao(job)
}

// ResumoPadrao é o resumo determinístico usado quando a IA está indisponível.
func ResumoPadrao(job *entity.ImportJob) string {
	return fmt.Sprintf("%d linhas detectadas como %s; %d válidas, %d avisos, %d erros",
		job.TotalRows, job.TipoDado, job.ValidRows, job.WarningRows, job.ErrorRows)
}

func (uc *AnalisarUseCase) auditar(in dto.AnalisarRequest, job *entity.ImportJob, duracao time.Duration) {
	err := uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		EmpresaID: in.EmpresaID,
		UsuarioID: in.UsuarioID,
		JobID:     job.ID,
		Acao:      entity.AcaoAnalisar,
		DuracaoMs: duracao.Milliseconds(),
		Detalhes: map[string]interface{}{
			"arquivo":    job.ArquivoNome,
			"tipo_dado":  string(job.TipoDado),
			"total":      job.TotalRows,
			"validas":    job.ValidRows,
			"avisos":     job.WarningRows,
			"erros":      job.ErrorRows,
			"duplicadas": job.DuplicateRows,
		},
		CreatedAt: time.Now(),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("gravar auditoria de análise falhou")
	}
}

// montarLinhas converte os resultados de validação em linhas staged (base 1,
// na ordem do arquivo).
func montarLinhas(jobID string, originais []map[string]string, resultados []domimport.ResultadoLinha) []*entity.ImportJobRow {
	linhas := make([]*entity.ImportJobRow, 0, len(resultados))
	for i, r := range resultados {
		linhas = append(linhas, &entity.ImportJobRow{
			ID:           uuid.New().String(),
			JobID:        jobID,
			RowNumber:    i + 1,
			Status:       r.Status,
			OriginalData: originais[i],
			MappedData:   r.Mapeado,
			Errors:       r.Erros,
			Warnings:     r.Avisos,
		})
	}
	return linhas
}

// amostraProblemas devolve as primeiras linhas com erro ou aviso, material do
// prompt de resumo.
func amostraProblemas(linhas []*entity.ImportJobRow) []*entity.ImportJobRow {
	var amostra []*entity.ImportJobRow
	for _, l := range linhas {
		if l.Status == entity.RowValid {
			continue
		}
		amostra = append(amostra, l)
		if len(amostra) >= 10 {
			break
		}
	}
	return amostra
}

func contentTypeDe(nome string) string {
	switch strings.ToLower(path.Ext(nome)) {
	case ".csv", ".txt":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ToImportJobResponse converte a entidade para o DTO de resposta.
func ToImportJobResponse(job *entity.ImportJob) *dto.ImportJobResponse {
	if job == nil {
		return nil
	}
	return &dto.ImportJobResponse{
		ID:            job.ID,
		EmpresaID:     job.EmpresaID,
		TipoDado:      string(job.TipoDado),
		Status:        string(job.Status),
		ArquivoNome:   job.ArquivoNome,
		ArquivoURL:    job.ArquivoURL,
		TotalRows:     job.TotalRows,
		ValidRows:     job.ValidRows,
		WarningRows:   job.WarningRows,
		ErrorRows:     job.ErrorRows,
		DuplicateRows: job.DuplicateRows,
		MalformedRows: job.MalformedRows,
		ColumnMapping: job.ColumnMapping,
		AISummary:     job.AISummary,
		CriadoPor:     job.CriadoPor,
		AprovadoPor:   job.AprovadoPor,
		DataAprovacao: job.DataAprovacao,
		ParentJobID:   job.ParentJobID,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}
