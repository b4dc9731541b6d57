package http

import (
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/gofiber/fiber/v2"
	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain"
)

// ImportacaoHandler trata o pipeline de importação: análise, revisão,
// aprovação/rejeição, export e comparação de reimportações.
type ImportacaoHandler struct {
	analisar  *appimport.AnalisarUseCase
	aprovacao *appimport.AprovacaoUseCase
	consulta  *appimport.ConsultaUseCase
	reimport  *appimport.ReimportacaoUseCase
}

// NewImportacaoHandler constrói o handler de importações.
func NewImportacaoHandler(
	analisar *appimport.AnalisarUseCase,
	aprovacao *appimport.AprovacaoUseCase,
	consulta *appimport.ConsultaUseCase,
	reimport *appimport.ReimportacaoUseCase,
) *ImportacaoHandler {
	return &ImportacaoHandler{
		analisar:  analisar,
		aprovacao: aprovacao,
		consulta:  consulta,
		reimport:  reimport,
	}
}

func atorDoContexto(c *fiber.Ctx) appimport.Ator {
	return appimport.Ator{
		UsuarioID: GetUserID(c),
		EmpresaID: GetEmpresaID(c),
		Role:      GetRole(c),
	}
}

// Analisar godoc
// @Summary      Analisar arquivo de importação
// @Description  Recebe o arquivo (multipart "arquivo") ou as linhas extraídas de um PDF (campo "rows_json") e devolve o job staged para revisão.
// @Tags         importacoes
// @Accept       multipart/form-data
// @Produce      json
// @Param        arquivo       formData  file    false  "CSV ou XLSX"
// @Param        rows_json     formData  string  false  "linhas extraídas de PDF (array JSON de objetos)"
// @Param        arquivo_url   formData  string  false  "caminho de um arquivo já enviado ao bucket"
// @Param        tipo_dado     formData  string  false  "força o tipo em vez de detectar"
// @Param        parent_job_id formData  string  false  "job de origem quando é reimportação"
// @Success      201  {object}  dto.ImportJobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/importacoes/analisar [post]
func (h *ImportacaoHandler) Analisar(c *fiber.Ctx) error {
	in := dto.AnalisarRequest{
		EmpresaID:   GetEmpresaID(c),
		UsuarioID:   GetUserID(c),
		TipoDado:    c.FormValue("tipo_dado"),
		ParentJobID: c.FormValue("parent_job_id"),
	}

	if rowsJSON := c.FormValue("rows_json"); rowsJSON != "" {
		in.RowsJSON = []byte(rowsJSON)
		in.ArquivoNome = c.FormValue("arquivo_nome", "extraido.pdf")
	} else if arquivoURL := c.FormValue("arquivo_url"); arquivoURL != "" {
		in.ArquivoURL = arquivoURL
		in.ArquivoNome = c.FormValue("arquivo_nome", path.Base(arquivoURL))
	} else {
		fh, err := c.FormFile("arquivo")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "envie o campo multipart \"arquivo\" ou \"rows_json\""})
		}
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "não foi possível ler o arquivo"})
		}
		defer f.Close()
		conteudo, err := io.ReadAll(f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "não foi possível ler o arquivo"})
		}
		in.Conteudo = conteudo
		in.ArquivoNome = fh.Filename
	}

	job, err := h.analisar.Analisar(c.Context(), in)
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// ListJobs godoc
// @Summary      Listar jobs de importação do tenant
// @Tags         importacoes
// @Produce      json
// @Param        limit   query  int  false  "padrão 20"
// @Param        offset  query  int  false  "padrão 0"
// @Success      200  {array}  dto.ImportJobResponse
// @Router       /api/importacoes [get]
func (h *ImportacaoHandler) ListJobs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	jobs, err := h.consulta.ListJobs(atorDoContexto(c), page)
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(jobs)
}

// GetJob godoc
// @Summary      Detalhe de um job de importação
// @Tags         importacoes
// @Produce      json
// @Param        id  path  string  true  "job id"
// @Success      200  {object}  dto.ImportJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/importacoes/{id} [get]
func (h *ImportacaoHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.consulta.GetJob(c.Params("id"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(job)
}

// ListRows godoc
// @Summary      Linhas staged de um job
// @Tags         importacoes
// @Produce      json
// @Param        id      path   string  true   "job id"
// @Param        status  query  string  false  "valid | warning | error | duplicate"
// @Param        busca   query  string  false  "busca por CPF ou nome"
// @Success      200  {array}  dto.ImportJobRowResponse
// @Router       /api/importacoes/{id}/linhas [get]
func (h *ImportacaoHandler) ListRows(c *fiber.Ctx) error {
	var in dto.ListarLinhasRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	linhas, err := h.consulta.ListRows(c.Params("id"), atorDoContexto(c), in)
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(linhas)
}

// Aprovar godoc
// @Summary      Aprovar job (commit das linhas staged)
// @Tags         importacoes
// @Produce      json
// @Param        id  path  string  true  "job id"
// @Success      200  {object}  dto.AprovarResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/importacoes/{id}/aprovar [post]
func (h *ImportacaoHandler) Aprovar(c *fiber.Ctx) error {
	resp, err := h.aprovacao.Aprovar(c.Context(), c.Params("id"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(resp)
}

// Rejeitar godoc
// @Summary      Rejeitar job (descarta o staging)
// @Tags         importacoes
// @Produce      json
// @Param        id  path  string  true  "job id"
// @Success      200  {object}  dto.ImportJobResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/importacoes/{id}/rejeitar [post]
func (h *ImportacaoHandler) Rejeitar(c *fiber.Ctx) error {
	resp, err := h.aprovacao.Rejeitar(c.Context(), c.Params("id"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(resp)
}

// Exportar godoc
// @Summary      Exportar linhas staged em CSV
// @Tags         importacoes
// @Produce      text/csv
// @Param        id      path   string  true   "job id"
// @Param        status  query  string  false  "filtra por status (ex.: error)"
// @Success      200  {string}  string  "CSV"
// @Router       /api/importacoes/{id}/exportar [get]
func (h *ImportacaoHandler) Exportar(c *fiber.Ctx) error {
	conteudo, nome, err := h.consulta.ExportarCSV(c.Context(), c.Params("id"), c.Query("status"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, nome))
	return c.Send(conteudo)
}

// Relatorio godoc
// @Summary      Relatório PDF da análise
// @Tags         importacoes
// @Produce      application/pdf
// @Param        id  path  string  true  "job id"
// @Success      200  {string}  string  "PDF"
// @Router       /api/importacoes/{id}/relatorio [get]
func (h *ImportacaoHandler) Relatorio(c *fiber.Ctx) error {
	conteudo, nome, err := h.consulta.RelatorioPDF(c.Params("id"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, nome))
	return c.Send(conteudo)
}

// Auditoria godoc
// @Summary      Trilha de auditoria de um job
// @Tags         importacoes
// @Produce      json
// @Param        id  path  string  true  "job id"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/importacoes/{id}/auditoria [get]
func (h *ImportacaoHandler) Auditoria(c *fiber.Ctx) error {
	logs, err := h.consulta.Auditoria(c.Params("id"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(logs)
}

// Comparacao godoc
// @Summary      Comparar reimportação com o job de origem
// @Tags         importacoes
// @Produce      json
// @Param        id  path  string  true  "job id (reimportação)"
// @Success      200  {object}  dto.ComparacaoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/importacoes/{id}/comparacao [get]
func (h *ImportacaoHandler) Comparacao(c *fiber.Ctx) error {
	resp, err := h.reimport.Comparar(c.Params("id"), atorDoContexto(c))
	if err != nil {
		return respostaDeErro(c, err)
	}
	return c.JSON(resp)
}

// respostaDeErro mapeia erros de domínio para códigos HTTP.
func respostaDeErro(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNaoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrAcessoNegado):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sem acesso a este recurso"})
	case errors.Is(err, domain.ErrTransicaoInvalida):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "o job não está mais em revisão"})
	case errors.Is(err, domain.ErrArquivoVazio):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_FILE", Message: err.Error()})
	case errors.Is(err, domain.ErrFormatoNaoSuportado):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_FORMAT", Message: err.Error()})
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
