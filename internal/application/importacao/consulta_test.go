package importacao_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

func novoAmbienteConsulta(t *testing.T) (*ambiente, *appimport.ConsultaUseCase) {
	t.Helper()
	env := novoAmbiente()
	uc := appimport.NewConsultaUseCase(env.jobs, env.rows, env.audit, env.storage, nil, testLogger())
	return env, uc
}

func TestConsulta_GetJobDeOutroTenantNegado(t *testing.T) {
	env, uc := novoAmbienteConsulta(t)
	resp := analisarCSV(t, env, "vidas.csv", "nome;cpf\nMaria;123.456.789-09\n")

	intruso := appimport.Ator{UsuarioID: "x", EmpresaID: "outra-empresa", Role: entity.RoleAdmin}
	_, err := uc.GetJob(resp.ID, intruso)
	require.ErrorIs(t, err, domain.ErrAcessoNegado)

	// super_admin enxerga qualquer tenant.
	root := appimport.Ator{UsuarioID: "root", EmpresaID: "outra-empresa", Role: entity.RoleSuperAdmin}
	job, err := uc.GetJob(resp.ID, root)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, job.ID)
}

func TestConsulta_ListRowsFiltraPorStatus(t *testing.T) {
	env, uc := novoAmbienteConsulta(t)
	resp := analisarCSV(t, env, "vidas.csv",
		"nome;cpf\nMaria;123.456.789-09\nBia;111.111.111-11\n")

	ator := adminDaEmpresa()
	erros, err := uc.ListRows(resp.ID, ator, dto.ListarLinhasRequest{Status: "error"})
	require.NoError(t, err)
	require.Len(t, erros, 1)
	assert.Equal(t, 2, erros[0].RowNumber)

	todas, err := uc.ListRows(resp.ID, ator, dto.ListarLinhasRequest{})
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestConsulta_ExportarCSV(t *testing.T) {
	env, uc := novoAmbienteConsulta(t)
	resp := analisarCSV(t, env, "vidas.csv",
		"nome;cpf\nMaria;123.456.789-09\nBia;111.111.111-11\n")

	conteudo, nome, err := uc.ExportarCSV(context.Background(), resp.ID, "", adminDaEmpresa())
	require.NoError(t, err)
	assert.Equal(t, "export_"+resp.ID+".csv", nome)

	texto := string(conteudo)
	linhas := strings.Split(strings.TrimSpace(texto), "\n")
	require.Len(t, linhas, 3) // cabeçalho + 2 linhas
	assert.Contains(t, linhas[0], "status")
	assert.Contains(t, texto, "12345678909")
	assert.Contains(t, texto, "CPF inválido")

	// Export vai para o bucket e entra na auditoria.
	caminho := testEmpresaID + "/" + resp.ID + "/" + nome
	_, err = env.storage.Baixar(context.Background(), caminho)
	require.NoError(t, err)

	var acoes []string
	for _, a := range env.audit.logs {
		acoes = append(acoes, a.Acao)
	}
	assert.Contains(t, acoes, entity.AcaoExportar)
}

// Exportar só os erros é o arquivo de trabalho da correção-e-reimportação.
func TestConsulta_ExportarCSVApenasErros(t *testing.T) {
	env, uc := novoAmbienteConsulta(t)
	resp := analisarCSV(t, env, "vidas.csv",
		"nome;cpf\nMaria;123.456.789-09\nBia;111.111.111-11\n")

	conteudo, _, err := uc.ExportarCSV(context.Background(), resp.ID, "error", adminDaEmpresa())
	require.NoError(t, err)

	linhas := strings.Split(strings.TrimSpace(string(conteudo)), "\n")
	require.Len(t, linhas, 2) // cabeçalho + 1 linha de erro
	assert.Contains(t, linhas[1], "error")
}
