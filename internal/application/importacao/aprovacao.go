package importacao

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	domimport "github.com/vitalsaude/beneficios-api/internal/domain/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
	"github.com/vitalsaude/beneficios-api/pkg/logger"
)

// Ator identifica quem está aprovando ou rejeitando.
type Ator struct {
	UsuarioID string
	EmpresaID string
	Role      string
}

// AprovacaoUseCase é a fase de commit do pipeline: aprovar aplica as linhas
// staged nas tabelas de domínio; rejeitar descarta o job (as linhas ficam como
// histórico). Ambos são terminais.
type AprovacaoUseCase struct {
	jobRepo   repository.ImportJobRepository
	rowRepo   repository.ImportJobRowRepository
	benefRepo repository.BeneficiarioRepository
	fatRepo   repository.FaturamentoRepository
	sinRepo   repository.SinistralidadeRepository
	contRepo  repository.ContratoRepository
	movRepo   repository.MovimentacaoRepository
	auditRepo repository.AuditLogRepository
	log       *logger.Logger
}

// NewAprovacaoUseCase constrói o caso de uso de aprovação/rejeição.
func NewAprovacaoUseCase(
	jobRepo repository.ImportJobRepository,
	rowRepo repository.ImportJobRowRepository,
	benefRepo repository.BeneficiarioRepository,
	fatRepo repository.FaturamentoRepository,
	sinRepo repository.SinistralidadeRepository,
	contRepo repository.ContratoRepository,
	movRepo repository.MovimentacaoRepository,
	auditRepo repository.AuditLogRepository,
	log *logger.Logger,
) *AprovacaoUseCase {
	return &AprovacaoUseCase{
		jobRepo:   jobRepo,
		rowRepo:   rowRepo,
		benefRepo: benefRepo,
		fatRepo:   fatRepo,
		sinRepo:   sinRepo,
		contRepo:  contRepo,
		movRepo:   movRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// Aprovar faz o commit do job: vence a corrida pelo status (CAS
// ready_for_review -> completed) e aplica cada linha comitável por chave
// natural. Falha de uma linha não desfaz as demais: o commit é melhor-esforço
// por linha e as falhas são contadas e logadas.
func (uc *AprovacaoUseCase) Aprovar(ctx context.Context, jobID string, ator Ator) (*dto.AprovarResponse, error) {
	inicio := time.Now()

	job, err := uc.autorizar(jobID, ator)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	venceu, err := uc.jobRepo.AtualizarStatusSe(jobID, entity.JobReadyForReview, entity.JobCompleted, ator.UsuarioID, &now)
	if err != nil {
		return nil, err
	}
	if !venceu {
		// Outro aprovador chegou antes, ou o job já saiu de revisão.
		return nil, domain.ErrTransicaoInvalida
	}

	linhas, err := uc.rowRepo.ListComitaveis(jobID)
	if err != nil {
		return nil, err
	}

	resultado := &dto.AprovarResponse{JobID: jobID, Status: string(entity.JobCompleted)}
	for _, linha := range linhas {
		inseriu, err := uc.aplicarLinha(job, linha)
		if err != nil {
			resultado.Falhas++
			uc.log.Error().Err(err).Str("job_id", jobID).Int("row_number", linha.RowNumber).Msg("aplicar linha falhou")
			continue
		}
		if inseriu {
			resultado.Inseridos++
		} else {
			resultado.Atualizados++
		}
	}

	uc.auditar(job, ator, entity.AcaoAprovar, time.Since(inicio), map[string]interface{}{
		"inseridos":   resultado.Inseridos,
		"atualizados": resultado.Atualizados,
		"falhas":      resultado.Falhas,
	})

	return resultado, nil
}

// Rejeitar descarta o job sem tocar as tabelas de domínio. Terminal: rejeitar
// (ou aprovar) de novo devolve ErrTransicaoInvalida.
func (uc *AprovacaoUseCase) Rejeitar(ctx context.Context, jobID string, ator Ator) (*dto.ImportJobResponse, error) {
	inicio := time.Now()

	job, err := uc.autorizar(jobID, ator)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	venceu, err := uc.jobRepo.AtualizarStatusSe(jobID, entity.JobReadyForReview, entity.JobRejected, ator.UsuarioID, &now)
	if err != nil {
		return nil, err
	}
	if !venceu {
		return nil, domain.ErrTransicaoInvalida
	}

	job.Status = entity.JobRejected
	job.AprovadoPor = ator.UsuarioID
	job.DataAprovacao = &now

	uc.auditar(job, ator, entity.AcaoRejeitar, time.Since(inicio), nil)

	return ToImportJobResponse(job), nil
}

// autorizar carrega o job e verifica o escopo do ator: admin da empresa do
// job, ou super_admin (qualquer tenant).
func (uc *AprovacaoUseCase) autorizar(jobID string, ator Ator) (*entity.ImportJob, error) {
	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNaoEncontrado
	}
	if ator.Role == entity.RoleSuperAdmin {
		return job, nil
	}
	if ator.Role != entity.RoleAdmin || ator.EmpresaID != job.EmpresaID {
		return nil, domain.ErrAcessoNegado
	}
	return job, nil
}

// aplicarLinha aplica uma linha comitável na tabela de domínio do tipo.
// Devolve inseriu=true quando criou registro novo, false quando atualizou.
func (uc *AprovacaoUseCase) aplicarLinha(job *entity.ImportJob, linha *entity.ImportJobRow) (bool, error) {
	switch job.TipoDado {
	case entity.TipoBeneficiarios:
		return uc.aplicarBeneficiario(job, linha)
	case entity.TipoFaturamento:
		return uc.aplicarFaturamento(job, linha)
	case entity.TipoSinistralidade:
		return uc.aplicarSinistralidade(job, linha)
	case entity.TipoMovimentacoes:
		return uc.aplicarMovimentacao(job, linha)
	case entity.TipoContratos:
		return uc.aplicarContrato(job, linha)
	}
	return false, fmt.Errorf("tipo de dado não comitável: %s", job.TipoDado)
}

func (uc *AprovacaoUseCase) aplicarBeneficiario(job *entity.ImportJob, linha *entity.ImportJobRow) (bool, error) {
	m := linha.MappedData
	cpf := campoTexto(m, domimport.CampoCPF)
	if cpf == "" {
		return false, fmt.Errorf("linha sem CPF")
	}

	existente, err := uc.benefRepo.GetByEmpresaECPF(job.EmpresaID, cpf)
	if err != nil {
		return false, err
	}

	now := time.Now()
	b := existente
	inseriu := false
	if b == nil {
		inseriu = true
		b = &entity.Beneficiario{
			ID:        uuid.New().String(),
			EmpresaID: job.EmpresaID,
			CPF:       cpf,
			CreatedAt: now,
		}
	}
	b.Nome = campoTexto(m, domimport.CampoNome)
	b.DataNascimento = campoTexto(m, domimport.CampoDataNascimento)
	b.Tipo = campoTexto(m, domimport.CampoTipo)
	b.TitularCPF = campoTexto(m, domimport.CampoTitularCPF)
	b.Matricula = campoTexto(m, domimport.CampoMatricula)
	b.Email = campoTexto(m, domimport.CampoEmail)
	b.Telefone = campoTexto(m, domimport.CampoTelefone)
	b.PlanoSaude = campoBool(m, domimport.CampoPlanoSaude)
	b.PlanoVida = campoBool(m, domimport.CampoPlanoVida)
	b.PlanoOdonto = campoBool(m, domimport.CampoPlanoOdonto)
	b.Status = campoTexto(m, domimport.CampoStatus)
	b.UpdatedAt = now

	if inseriu {
		return true, uc.benefRepo.Create(b)
	}
	return false, uc.benefRepo.Update(b)
}

func (uc *AprovacaoUseCase) aplicarFaturamento(job *entity.ImportJob, linha *entity.ImportJobRow) (bool, error) {
	m := linha.MappedData
	competencia := campoTexto(m, domimport.CampoCompetencia)
	if competencia == "" {
		return false, fmt.Errorf("linha sem competência")
	}

	existente, err := uc.fatRepo.GetByChaveNatural(job.EmpresaID, competencia)
	if err != nil {
		return false, err
	}

	now := time.Now()
	f := existente
	inseriu := false
	if f == nil {
		inseriu = true
		f = &entity.Faturamento{
			ID:          uuid.New().String(),
			EmpresaID:   job.EmpresaID,
			Competencia: competencia,
			CreatedAt:   now,
		}
	}
	f.Categoria = campoTexto(m, domimport.CampoCategoria)
	f.ValorFatura = campoDecimal(m, domimport.CampoValorFatura)
	f.ValorPago = campoDecimal(m, domimport.CampoValorPago)
	f.Vidas = campoInteiro(m, domimport.CampoVidas)
	f.Observacao = campoTexto(m, domimport.CampoObservacao)
	f.ImportJobID = job.ID
	f.UpdatedAt = now

	if inseriu {
		return true, uc.fatRepo.Create(f)
	}
	return false, uc.fatRepo.Update(f)
}

func (uc *AprovacaoUseCase) aplicarSinistralidade(job *entity.ImportJob, linha *entity.ImportJobRow) (bool, error) {
	m := linha.MappedData
	competencia := campoTexto(m, domimport.CampoCompetencia)
	categoria := campoTexto(m, domimport.CampoCategoria)
	if competencia == "" {
		return false, fmt.Errorf("linha sem competência")
	}

	existente, err := uc.sinRepo.GetByChaveNatural(job.EmpresaID, competencia, categoria)
	if err != nil {
		return false, err
	}

	now := time.Now()
	s := existente
	inseriu := false
	if s == nil {
		inseriu = true
		s = &entity.Sinistralidade{
			ID:          uuid.New().String(),
			EmpresaID:   job.EmpresaID,
			Competencia: competencia,
			Categoria:   categoria,
			CreatedAt:   now,
		}
	}
	s.ValorPremio = campoDecimal(m, domimport.CampoValorPremio)
	s.ValorSinistro = campoDecimal(m, domimport.CampoValorSinistro)
	s.ImportJobID = job.ID
	s.UpdatedAt = now

	if inseriu {
		return true, uc.sinRepo.Create(s)
	}
	return false, uc.sinRepo.Update(s)
}

// aplicarMovimentacao sempre insere: movimentações são histórico.
func (uc *AprovacaoUseCase) aplicarMovimentacao(job *entity.ImportJob, linha *entity.ImportJobRow) (bool, error) {
	m := linha.MappedData
	now := time.Now()
	return true, uc.movRepo.Create(&entity.Movimentacao{
		ID:          uuid.New().String(),
		EmpresaID:   job.EmpresaID,
		CPF:         campoTexto(m, domimport.CampoCPF),
		Nome:        campoTexto(m, domimport.CampoNome),
		Tipo:        campoTexto(m, domimport.CampoTipo),
		Data:        campoTexto(m, domimport.CampoData),
		Motivo:      campoTexto(m, domimport.CampoMotivo),
		ImportJobID: job.ID,
		CreatedAt:   now,
	})
}

func (uc *AprovacaoUseCase) aplicarContrato(job *entity.ImportJob, linha *entity.ImportJobRow) (bool, error) {
	m := linha.MappedData
	numero := campoTexto(m, domimport.CampoNumero)
	if numero == "" {
		return false, fmt.Errorf("linha sem número de contrato")
	}

	existente, err := uc.contRepo.GetByEmpresaENumero(job.EmpresaID, numero)
	if err != nil {
		return false, err
	}

	now := time.Now()
	c := existente
	inseriu := false
	if c == nil {
		inseriu = true
		c = &entity.Contrato{
			ID:        uuid.New().String(),
			EmpresaID: job.EmpresaID,
			Numero:    numero,
			CreatedAt: now,
		}
	}
	c.Operadora = campoTexto(m, domimport.CampoOperadora)
	c.Categoria = campoTexto(m, domimport.CampoCategoria)
	c.VigenciaInicio = campoTexto(m, domimport.CampoVigenciaInicio)
	c.VigenciaFim = campoTexto(m, domimport.CampoVigenciaFim)
	c.ValorMensal = campoDecimal(m, domimport.CampoValorMensal)
	c.Vidas = campoInteiro(m, domimport.CampoVidas)
	c.ImportJobID = job.ID
	c.UpdatedAt = now

	if inseriu {
		return true, uc.contRepo.Create(c)
	}
	return false, uc.contRepo.Update(c)
}

func (uc *AprovacaoUseCase) auditar(job *entity.ImportJob, ator Ator, acao string, duracao time.Duration, detalhes map[string]interface{}) {
	err := uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		EmpresaID: job.EmpresaID,
		UsuarioID: ator.UsuarioID,
		JobID:     job.ID,
		Acao:      acao,
		DuracaoMs: duracao.Milliseconds(),
		Detalhes:  detalhes,
		CreatedAt: time.Now(),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Str("acao", acao).Msg("gravar auditoria falhou")
	}
}

// ── Coerção de MappedData ─────────────────────────────────────────────────────
//
// MappedData faz ida e volta por jsonb: os valores podem chegar como os tipos
// originais (decimal.Decimal, bool, int) ou como os tipos do JSON (float64,
// string). As coerções abaixo aceitam os dois lados.

func campoTexto(m map[string]interface{}, campo string) string {
	switch v := m[campo].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func campoDecimal(m map[string]interface{}, campo string) decimal.Decimal {
	switch v := m[campo].(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func campoBool(m map[string]interface{}, campo string) bool {
	v, _ := m[campo].(bool)
	return v
}

func campoInteiro(m map[string]interface{}, campo string) int {
	switch v := m[campo].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
