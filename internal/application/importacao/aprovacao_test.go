package importacao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

// ambienteAprovacao agrupa os fakes do commit.
type ambienteAprovacao struct {
	jobs  *fakeJobRepo
	rows  *fakeRowRepo
	benef *fakeBenefRepo
	fat   *fakeFatRepo
	sin   *fakeSinRepo
	cont  *fakeContRepo
	mov   *fakeMovRepo
	audit *fakeAuditRepo
	uc    *appimport.AprovacaoUseCase
}

func novoAmbienteAprovacao() *ambienteAprovacao {
	env := &ambienteAprovacao{
		jobs:  newFakeJobRepo(),
		rows:  newFakeRowRepo(),
		benef: newFakeBenefRepo(),
		fat:   newFakeFatRepo(),
		sin:   newFakeSinRepo(),
		cont:  newFakeContRepo(),
		mov:   &fakeMovRepo{},
		audit: &fakeAuditRepo{},
	}
	env.uc = appimport.NewAprovacaoUseCase(
		env.jobs, env.rows, env.benef, env.fat, env.sin, env.cont, env.mov, env.audit, testLogger(),
	)
	return env
}

func adminDaEmpresa() appimport.Ator {
	return appimport.Ator{UsuarioID: testUsuarioID, EmpresaID: testEmpresaID, Role: entity.RoleAdmin}
}

// criarJobBeneficiarios monta um job ready_for_review com o mix de linhas dado.
func criarJobBeneficiarios(t *testing.T, env *ambienteAprovacao, validas, avisos, erros int) *entity.ImportJob {
	t.Helper()
	job := &entity.ImportJob{
		ID:        "job-1",
		EmpresaID: testEmpresaID,
		TipoDado:  entity.TipoBeneficiarios,
		Status:    entity.JobReadyForReview,
		TotalRows: validas + avisos + erros,
		ValidRows: validas, WarningRows: avisos, ErrorRows: erros,
	}
	require.NoError(t, env.jobs.Create(job))

	n := 0
	adiciona := func(status entity.RowStatus, quantidade int) {
		for i := 0; i < quantidade; i++ {
			n++
			linha := &entity.ImportJobRow{
				ID:        string(rune('a'+n)) + "-row",
				JobID:     job.ID,
				RowNumber: n,
				Status:    status,
				MappedData: map[string]interface{}{
					"nome":   "Pessoa",
					"cpf":    cpfDeTeste(n),
					"tipo":   "titular",
					"status": "ativo",
				},
			}
			require.NoError(t, env.rows.BulkInsert([]*entity.ImportJobRow{linha}))
		}
	}
	adiciona(entity.RowValid, validas)
	adiciona(entity.RowWarning, avisos)
	adiciona(entity.RowError, erros)
	return job
}

// cpfDeTeste devolve um CPF sintético distinto por índice (o commit não revalida).
func cpfDeTeste(n int) string {
	return "000000000" + string(rune('0'+n%10)) + string(rune('0'+n/10))
}

// Aprovar comita exatamente as linhas valid + warning; erros ficam de fora.
func TestAprovar_ComitaValidasEAvisos(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 5, 3, 2)

	resp, err := env.uc.Aprovar(context.Background(), "job-1", adminDaEmpresa())
	require.NoError(t, err)

	assert.Equal(t, 8, resp.Inseridos+resp.Atualizados+resp.Falhas)
	assert.Equal(t, 8, resp.Inseridos)
	assert.Zero(t, resp.Falhas)
	assert.Equal(t, string(entity.JobCompleted), resp.Status)
	assert.Equal(t, 8, env.benef.criados)

	job, _ := env.jobs.GetByID("job-1")
	assert.Equal(t, entity.JobCompleted, job.Status)
	assert.Equal(t, testUsuarioID, job.AprovadoPor)
	assert.NotNil(t, job.DataAprovacao)
}

// Falha pontual de uma linha não desfaz as demais; a soma continua fechando.
func TestAprovar_FalhaPontualNaoDerrubaCommit(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 5, 3, 0)
	env.benef.falharCPF = cpfDeTeste(2)

	resp, err := env.uc.Aprovar(context.Background(), "job-1", adminDaEmpresa())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Falhas)
	assert.Equal(t, 7, resp.Inseridos)
	assert.Equal(t, 8, resp.Inseridos+resp.Atualizados+resp.Falhas)
}

// Dois aprovadores no mesmo job: o segundo perde a corrida.
func TestAprovar_SegundaAprovacaoPerdeACorrida(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 2, 0, 0)

	_, err := env.uc.Aprovar(context.Background(), "job-1", adminDaEmpresa())
	require.NoError(t, err)

	_, err = env.uc.Aprovar(context.Background(), "job-1", adminDaEmpresa())
	require.ErrorIs(t, err, domain.ErrTransicaoInvalida)

	// Nenhuma linha aplicada duas vezes.
	assert.Equal(t, 2, env.benef.criados)
}

func TestRejeitar_EhTerminal(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 2, 0, 0)

	resp, err := env.uc.Rejeitar(context.Background(), "job-1", adminDaEmpresa())
	require.NoError(t, err)
	assert.Equal(t, string(entity.JobRejected), resp.Status)

	// Nada chegou às tabelas de domínio.
	assert.Zero(t, env.benef.criados)

	// Segunda rejeição (ou aprovação) é transição inválida.
	_, err = env.uc.Rejeitar(context.Background(), "job-1", adminDaEmpresa())
	require.ErrorIs(t, err, domain.ErrTransicaoInvalida)
	_, err = env.uc.Aprovar(context.Background(), "job-1", adminDaEmpresa())
	require.ErrorIs(t, err, domain.ErrTransicaoInvalida)
}

func TestAprovar_AnalistaNaoPode(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 1, 0, 0)

	ator := appimport.Ator{UsuarioID: testUsuarioID, EmpresaID: testEmpresaID, Role: entity.RoleAnalista}
	_, err := env.uc.Aprovar(context.Background(), "job-1", ator)
	require.ErrorIs(t, err, domain.ErrAcessoNegado)
}

func TestAprovar_AdminDeOutraEmpresaNaoPode(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 1, 0, 0)

	ator := appimport.Ator{UsuarioID: testUsuarioID, EmpresaID: "outra-empresa", Role: entity.RoleAdmin}
	_, err := env.uc.Aprovar(context.Background(), "job-1", ator)
	require.ErrorIs(t, err, domain.ErrAcessoNegado)
}

func TestAprovar_SuperAdminPodeEmQualquerTenant(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 1, 0, 0)

	ator := appimport.Ator{UsuarioID: "root", EmpresaID: "outra-empresa", Role: entity.RoleSuperAdmin}
	resp, err := env.uc.Aprovar(context.Background(), "job-1", ator)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inseridos)
}

func TestAprovar_JobInexistente(t *testing.T) {
	env := novoAmbienteAprovacao()
	_, err := env.uc.Aprovar(context.Background(), "nao-existe", adminDaEmpresa())
	require.ErrorIs(t, err, domain.ErrNaoEncontrado)
}

// Upsert por chave natural: beneficiário já cadastrado é atualizado, não duplicado.
func TestAprovar_AtualizaBeneficiarioExistente(t *testing.T) {
	env := novoAmbienteAprovacao()
	criarJobBeneficiarios(t, env, 1, 0, 0)
	cpf := cpfDeTeste(1)
	env.benef.porCPF[chaveBenef(testEmpresaID, cpf)] = &entity.Beneficiario{
		ID: "benef-antigo", EmpresaID: testEmpresaID, CPF: cpf, Nome: "Nome Antigo",
	}

	resp, err := env.uc.Aprovar(context.Background(), "job-1", adminDaEmpresa())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Atualizados)
	assert.Zero(t, resp.Inseridos)
	atualizado := env.benef.porCPF[chaveBenef(testEmpresaID, cpf)]
	assert.Equal(t, "benef-antigo", atualizado.ID)
	assert.Equal(t, "Pessoa", atualizado.Nome)
}

// Movimentações são sempre inseridas, mesmo com CPF repetido entre jobs.
func TestAprovar_MovimentacoesSempreInserem(t *testing.T) {
	env := novoAmbienteAprovacao()
	job := &entity.ImportJob{
		ID: "job-mov", EmpresaID: testEmpresaID,
		TipoDado: entity.TipoMovimentacoes, Status: entity.JobReadyForReview,
	}
	require.NoError(t, env.jobs.Create(job))
	for i := 1; i <= 2; i++ {
		require.NoError(t, env.rows.BulkInsert([]*entity.ImportJobRow{{
			ID: string(rune('0'+i)), JobID: job.ID, RowNumber: i, Status: entity.RowValid,
			MappedData: map[string]interface{}{
				"cpf": "12345678909", "tipo": "inclusao", "data": "2025-01-10",
			},
		}}))
	}

	resp, err := env.uc.Aprovar(context.Background(), "job-mov", adminDaEmpresa())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Inseridos)
	assert.Len(t, env.mov.movs, 2)
}

// Faturamento comitado com valores monetários vindos do jsonb (float64).
func TestAprovar_FaturamentoCoergeValores(t *testing.T) {
	env := novoAmbienteAprovacao()
	job := &entity.ImportJob{
		ID: "job-fat", EmpresaID: testEmpresaID,
		TipoDado: entity.TipoFaturamento, Status: entity.JobReadyForReview,
	}
	require.NoError(t, env.jobs.Create(job))
	require.NoError(t, env.rows.BulkInsert([]*entity.ImportJobRow{{
		ID: "f1", JobID: job.ID, RowNumber: 1, Status: entity.RowValid,
		MappedData: map[string]interface{}{
			"competencia":  "2025-01-01",
			"valor_fatura": 1234.56,
			"valor_pago":   "1200.00",
			"vidas":        float64(42),
		},
	}}))

	resp, err := env.uc.Aprovar(context.Background(), "job-fat", adminDaEmpresa())
	require.NoError(t, err)
	require.Equal(t, 1, resp.Inseridos)

	f := env.fat.porChave[testEmpresaID+"|2025-01-01"]
	require.NotNil(t, f)
	assert.Equal(t, "1234.56", f.ValorFatura.String())
	assert.Equal(t, "1200", f.ValorPago.String())
	assert.Equal(t, 42, f.Vidas)
	assert.Equal(t, "job-fat", f.ImportJobID)
}
