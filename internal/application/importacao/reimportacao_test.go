package importacao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain"
)

// Arquivo com 3 CPFs inválidos reimportado corrigido: todos os problemas resolvidos.
func TestComparar_ProblemasResolvidos(t *testing.T) {
	env := novoAmbiente()
	uc := appimport.NewReimportacaoUseCase(env.jobs)

	original := analisarCSV(t, env, "vidas.csv",
		"nome;cpf\nA;111.111.111-11\nB;222.222.222-22\nC;333.333.333-33\n")
	require.Equal(t, 3, original.ErrorRows)

	corrigido, err := env.uc.Analisar(context.Background(), dto.AnalisarRequest{
		EmpresaID:   testEmpresaID,
		UsuarioID:   testUsuarioID,
		ArquivoNome: "vidas_corrigido.csv",
		Conteudo:    []byte("nome;cpf\nA;123.456.789-09\nB;529.982.247-25\nC;111.444.777-35\n"),
		ParentJobID: original.ID,
	})
	require.NoError(t, err)

	cmp, err := uc.Comparar(corrigido.ID, adminDaEmpresa())
	require.NoError(t, err)

	assert.Equal(t, 3, cmp.ErrosAntes)
	assert.Zero(t, cmp.ErrosDepois)
	assert.Equal(t, 3, cmp.ProblemasResolvidos)
	assert.Equal(t, original.ID, cmp.ParentJobID)
}

func TestComparar_JobSemParent(t *testing.T) {
	env := novoAmbiente()
	uc := appimport.NewReimportacaoUseCase(env.jobs)

	job := analisarCSV(t, env, "vidas.csv", "nome;cpf\nMaria;123.456.789-09\n")

	_, err := uc.Comparar(job.ID, adminDaEmpresa())
	require.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestComparar_OutroTenantNegado(t *testing.T) {
	env := novoAmbiente()
	uc := appimport.NewReimportacaoUseCase(env.jobs)

	original := analisarCSV(t, env, "vidas.csv", "nome;cpf\nMaria;111.111.111-11\n")
	corrigido, err := env.uc.Analisar(context.Background(), dto.AnalisarRequest{
		EmpresaID:   testEmpresaID,
		UsuarioID:   testUsuarioID,
		ArquivoNome: "vidas2.csv",
		Conteudo:    []byte("nome;cpf\nMaria;123.456.789-09\n"),
		ParentJobID: original.ID,
	})
	require.NoError(t, err)

	intruso := appimport.Ator{UsuarioID: "x", EmpresaID: "outra", Role: "admin"}
	_, err = uc.Comparar(corrigido.ID, intruso)
	require.ErrorIs(t, err, domain.ErrAcessoNegado)
}
