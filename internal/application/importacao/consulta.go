package importacao

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
	"github.com/vitalsaude/beneficios-api/pkg/logger"
)

// ConsultaUseCase é a leitura do pipeline: jobs, linhas staged, export CSV e
// relatório PDF. Todas as consultas são limitadas ao tenant do ator
// (super_admin enxerga qualquer tenant).
type ConsultaUseCase struct {
	jobRepo       repository.ImportJobRepository
	rowRepo       repository.ImportJobRowRepository
	auditRepo     repository.AuditLogRepository
	armazenamento ArmazenamentoArquivos
	relatorio     GeradorRelatorio
	log           *logger.Logger
}

// NewConsultaUseCase constrói o caso de uso de consulta.
func NewConsultaUseCase(
	jobRepo repository.ImportJobRepository,
	rowRepo repository.ImportJobRowRepository,
	auditRepo repository.AuditLogRepository,
	armazenamento ArmazenamentoArquivos,
	relatorio GeradorRelatorio,
	log *logger.Logger,
) *ConsultaUseCase {
	return &ConsultaUseCase{
		jobRepo:       jobRepo,
		rowRepo:       rowRepo,
		auditRepo:     auditRepo,
		armazenamento: armazenamento,
		relatorio:     relatorio,
		log:           log,
	}
}

// GetJob devolve o cabeçalho de um job do tenant do ator.
func (uc *ConsultaUseCase) GetJob(jobID string, ator Ator) (*dto.ImportJobResponse, error) {
	job, err := uc.carregarJob(jobID, ator)
	if err != nil {
		return nil, err
	}
	return ToImportJobResponse(job), nil
}

// ListJobs lista os jobs do tenant, mais recentes primeiro.
func (uc *ConsultaUseCase) ListJobs(ator Ator, page dto.PageRequest) ([]*dto.ImportJobResponse, error) {
	page.DefaultPage()
	jobs, err := uc.jobRepo.ListByEmpresa(ator.EmpresaID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ImportJobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, ToImportJobResponse(job))
	}
	return out, nil
}

// ListRows lista as linhas staged de um job, com filtro por status e busca.
func (uc *ConsultaUseCase) ListRows(jobID string, ator Ator, in dto.ListarLinhasRequest) ([]*dto.ImportJobRowResponse, error) {
	if _, err := uc.carregarJob(jobID, ator); err != nil {
		return nil, err
	}
	in.DefaultPage()
	linhas, err := uc.rowRepo.ListByJob(jobID, repository.FiltroLinhas{
		Status: in.Status,
		Busca:  in.Busca,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ImportJobRowResponse, 0, len(linhas))
	for _, linha := range linhas {
		out = append(out, toRowResponse(linha))
	}
	return out, nil
}

// ExportarCSV monta o CSV das linhas staged (dados mapeados + status +
// problemas), grava o artefato no bucket e devolve os bytes. status filtra as
// linhas exportadas (vazio exporta tudo); exportar só os erros é o caminho de
// correção-e-reimportação.
func (uc *ConsultaUseCase) ExportarCSV(ctx context.Context, jobID, status string, ator Ator) ([]byte, string, error) {
	inicio := time.Now()

	job, err := uc.carregarJob(jobID, ator)
	if err != nil {
		return nil, "", err
	}
	linhas, err := uc.rowRepo.ListByJob(jobID, repository.FiltroLinhas{Status: status})
	if err != nil {
		return nil, "", err
	}

	conteudo, err := montarCSV(job, linhas)
	if err != nil {
		return nil, "", err
	}

	nome := fmt.Sprintf("export_%s.csv", jobID)
	if uc.armazenamento != nil {
		caminho := fmt.Sprintf("%s/%s/%s", job.EmpresaID, jobID, nome)
		if _, err := uc.armazenamento.Enviar(ctx, caminho, conteudo, "text/csv"); err != nil {
			uc.log.Warn().Err(err).Str("job_id", jobID).Msg("gravar export no bucket falhou")
		}
	}

	uc.auditarExport(job, ator, time.Since(inicio), len(linhas))

	return conteudo, nome, nil
}

// RelatorioPDF gera o relatório de revisão do job.
func (uc *ConsultaUseCase) RelatorioPDF(jobID string, ator Ator) ([]byte, string, error) {
	job, err := uc.carregarJob(jobID, ator)
	if err != nil {
		return nil, "", err
	}
	linhas, err := uc.rowRepo.ListByJob(jobID, repository.FiltroLinhas{})
	if err != nil {
		return nil, "", err
	}
	conteudo, err := uc.relatorio.GerarRelatorioJob(job, linhas)
	if err != nil {
		return nil, "", fmt.Errorf("gerar relatório: %w", err)
	}
	return conteudo, fmt.Sprintf("relatorio_%s.pdf", jobID), nil
}

// Auditoria devolve a trilha de um job.
func (uc *ConsultaUseCase) Auditoria(jobID string, ator Ator) ([]*dto.AuditLogResponse, error) {
	if _, err := uc.carregarJob(jobID, ator); err != nil {
		return nil, err
	}
	logs, err := uc.auditRepo.ListByJob(jobID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, &dto.AuditLogResponse{
			ID:        l.ID,
			UsuarioID: l.UsuarioID,
			Acao:      l.Acao,
			DuracaoMs: l.DuracaoMs,
			Detalhes:  l.Detalhes,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

// carregarJob busca o job e aplica o escopo de tenant.
func (uc *ConsultaUseCase) carregarJob(jobID string, ator Ator) (*entity.ImportJob, error) {
	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNaoEncontrado
	}
	if ator.Role != entity.RoleSuperAdmin && job.EmpresaID != ator.EmpresaID {
		return nil, domain.ErrAcessoNegado
	}
	return job, nil
}

func (uc *ConsultaUseCase) auditarExport(job *entity.ImportJob, ator Ator, duracao time.Duration, linhas int) {
	err := uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		EmpresaID: job.EmpresaID,
		UsuarioID: ator.UsuarioID,
		JobID:     job.ID,
		Acao:      entity.AcaoExportar,
		DuracaoMs: duracao.Milliseconds(),
		Detalhes:  map[string]interface{}{"linhas": linhas},
		CreatedAt: time.Now(),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("gravar auditoria de export falhou")
	}
}

// montarCSV serializa as linhas staged: campos canônicos na ordem do
// mapeamento, mais status, erros e avisos.
func montarCSV(job *entity.ImportJob, linhas []*entity.ImportJobRow) ([]byte, error) {
	campos := make([]string, 0, len(job.ColumnMapping))
	visto := make(map[string]bool)
	for _, canonico := range job.ColumnMapping {
		if !visto[canonico] {
			visto[canonico] = true
			campos = append(campos, canonico)
		}
	}
	sort.Strings(campos)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	cabecalho := append(append([]string{"linha", "status"}, campos...), "erros", "avisos")
	if err := w.Write(cabecalho); err != nil {
		return nil, err
	}

	for _, linha := range linhas {
		registro := []string{fmt.Sprintf("%d", linha.RowNumber), string(linha.Status)}
		for _, campo := range campos {
			registro = append(registro, valorComoTexto(linha.MappedData[campo]))
		}
		registro = append(registro, strings.Join(linha.Errors, " | "), strings.Join(linha.Warnings, " | "))
		if err := w.Write(registro); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func valorComoTexto(v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "sim"
		}
		return "nao"
	case float64:
		return fmt.Sprintf("%g", t)
	}
	return fmt.Sprintf("%v", v)
}

func toRowResponse(linha *entity.ImportJobRow) *dto.ImportJobRowResponse {
	return &dto.ImportJobRowResponse{
		ID:           linha.ID,
		RowNumber:    linha.RowNumber,
		Status:       string(linha.Status),
		OriginalData: linha.OriginalData,
		MappedData:   linha.MappedData,
		Errors:       linha.Errors,
		Warnings:     linha.Warnings,
	}
}
