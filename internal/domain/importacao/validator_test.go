package importacao_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/importacao"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures compartilhadas: mapeamento padrão de beneficiários e CPFs com
// verificadores corretos (ver pkg/br).
// ──────────────────────────────────────────────────────────────────────────────

var mapeamentoBeneficiarios = map[string]string{
	"nome_completo":   importacao.CampoNome,
	"cpf":             importacao.CampoCPF,
	"data_nascimento": importacao.CampoDataNascimento,
	"tipo":            importacao.CampoTipo,
	"titular_cpf":     importacao.CampoTitularCPF,
	"plano_saude":     importacao.CampoPlanoSaude,
}

func linhaBeneficiario(nome, cpf, nascimento, tipo string) map[string]string {
	return map[string]string{
		"nome_completo":   nome,
		"cpf":             cpf,
		"data_nascimento": nascimento,
		"tipo":            tipo,
	}
}

// Cenário: CPF de dígitos repetidos (111.111.111-11) reprova no verificador.
func TestValidarLinha_CPFRepetidoEhErro(t *testing.T) {
	linha := linhaBeneficiario("João Silva", "111.111.111-11", "15/03/1985", "titular")
	r := importacao.ValidarLinha(linha, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)

	assert.Equal(t, entity.RowError, r.Status)
	require.NotEmpty(t, r.Erros)
	assert.Contains(t, r.Erros[0], importacao.MsgCPFInvalido)
	// CPF normalizado (só dígitos) é armazenado mesmo sendo inválido.
	assert.Equal(t, "11111111111", r.Mapeado[importacao.CampoCPF])
}

func TestValidarLinha_BeneficiarioValido(t *testing.T) {
	linha := linhaBeneficiario("João Silva", "123.456.789-09", "15/03/1985", "")
	linha["plano_saude"] = "Sim"
	r := importacao.ValidarLinha(linha, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)

	assert.Equal(t, entity.RowValid, r.Status)
	assert.Empty(t, r.Erros)
	assert.Empty(t, r.Avisos)
	assert.Equal(t, "12345678909", r.Mapeado[importacao.CampoCPF])
	assert.Equal(t, "1985-03-15", r.Mapeado[importacao.CampoDataNascimento])
	assert.Equal(t, entity.BeneficiarioTitular, r.Mapeado[importacao.CampoTipo], "tipo ausente vira titular")
	assert.Equal(t, "ativo", r.Mapeado[importacao.CampoStatus], "status ausente vira ativo")
	assert.Equal(t, true, r.Mapeado[importacao.CampoPlanoSaude])
}

func TestValidarLinha_CampoObrigatorioAusente(t *testing.T) {
	linha := map[string]string{"nome_completo": "Sem CPF"}
	r := importacao.ValidarLinha(linha, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)

	assert.Equal(t, entity.RowError, r.Status)
	require.Len(t, r.Erros, 1)
	assert.Contains(t, r.Erros[0], importacao.MsgCampoAusente)
	assert.Contains(t, r.Erros[0], "cpf")
}

func TestValidarLinha_DataNascimentoInvalida(t *testing.T) {
	linha := linhaBeneficiario("Ana", "123.456.789-09", "32/13/1990", "titular")
	r := importacao.ValidarLinha(linha, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)

	assert.Equal(t, entity.RowError, r.Status)
	assert.Contains(t, r.Erros[0], "Data de nascimento inválida")
}

func TestValidarLinha_CPFJaCadastradoEhAviso(t *testing.T) {
	existentes := map[string]bool{"12345678909": true}
	linha := linhaBeneficiario("Ana", "123.456.789-09", "01/01/1980", "titular")
	r := importacao.ValidarLinha(linha, mapeamentoBeneficiarios, entity.TipoBeneficiarios, existentes)

	assert.Equal(t, entity.RowWarning, r.Status, "já cadastrado é aviso: o commit fará update")
	require.Len(t, r.Avisos, 1)
	assert.Equal(t, importacao.MsgCPFJaCadastrado, r.Avisos[0])
	assert.True(t, r.Duplicada)
}

// Cenário: dois registros com o mesmo CPF válido no arquivo — a segunda
// ocorrência ganha o aviso de duplicidade e vira warning se estava limpa.
func TestValidarLote_CPFDuplicadoNoArquivo(t *testing.T) {
	linhas := []map[string]string{
		linhaBeneficiario("Ana", "123.456.789-09", "01/01/1980", "titular"),
		linhaBeneficiario("Ana de Novo", "123.456.789-09", "01/01/1980", "titular"),
	}
	res := importacao.ValidarLote(linhas, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)
	require.Len(t, res, 2)

	assert.Equal(t, entity.RowValid, res[0].Status, "primeira ocorrência fica limpa")
	assert.Equal(t, entity.RowWarning, res[1].Status)
	assert.Contains(t, res[1].Avisos, importacao.MsgCPFDuplicado)
	assert.True(t, res[1].Duplicada)

	c := importacao.ContarResultados(res)
	assert.Equal(t, 2, c.Total)
	assert.Equal(t, 1, c.Validas)
	assert.Equal(t, 1, c.Avisos)
	assert.Equal(t, 1, c.Duplicadas)
	assert.Equal(t, c.Total, c.Validas+c.Avisos+c.Erros, "invariante de contagem")
}

// Cenário: dependente cujo titular_cpf não existe nem no arquivo nem na base
// é erro (não aviso) com mensagem "Titular não encontrado".
func TestValidarLote_DependenteSemTitular(t *testing.T) {
	dependente := linhaBeneficiario("Filho", "529.982.247-25", "02/07/2010", "dependente")
	dependente["titular_cpf"] = "123.456.789-09" // ninguém no arquivo, base vazia

	res := importacao.ValidarLote([]map[string]string{dependente}, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)
	require.Len(t, res, 1)
	assert.Equal(t, entity.RowError, res[0].Status)
	require.NotEmpty(t, res[0].Erros)
	assert.Contains(t, res[0].Erros[0], importacao.MsgTitularNaoEncontrado)
}

func TestValidarLote_DependenteComTitularNoArquivo(t *testing.T) {
	titular := linhaBeneficiario("Pai", "123.456.789-09", "01/01/1970", "titular")
	dependente := linhaBeneficiario("Filho", "529.982.247-25", "02/07/2010", "dependente")
	dependente["titular_cpf"] = "123.456.789-09"

	res := importacao.ValidarLote([]map[string]string{titular, dependente}, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)
	assert.Equal(t, entity.RowValid, res[0].Status)
	assert.Equal(t, entity.RowValid, res[1].Status, "titular no próprio arquivo resolve o dependente")
}

func TestValidarLote_DependenteComTitularNaBase(t *testing.T) {
	existentes := map[string]bool{"12345678909": true}
	dependente := linhaBeneficiario("Filho", "529.982.247-25", "02/07/2010", "dependente")
	dependente["titular_cpf"] = "123.456.789-09"

	res := importacao.ValidarLote([]map[string]string{dependente}, mapeamentoBeneficiarios, entity.TipoBeneficiarios, existentes)
	assert.Equal(t, entity.RowValid, res[0].Status, "titular já cadastrado na base resolve o dependente")
}

func TestValidarLote_DependenteSemTitularCPFInformado(t *testing.T) {
	dependente := linhaBeneficiario("Filho", "529.982.247-25", "02/07/2010", "dependente")
	res := importacao.ValidarLote([]map[string]string{dependente}, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)
	assert.Equal(t, entity.RowError, res[0].Status)
	assert.Contains(t, res[0].Erros[0], importacao.MsgTitularNaoEncontrado)
}

// ── Faturamento / sinistralidade ──────────────────────────────────────────────

var mapeamentoSinistralidade = map[string]string{
	"competencia":    importacao.CampoCompetencia,
	"valor_premio":   importacao.CampoValorPremio,
	"valor_sinistro": importacao.CampoValorSinistro,
	"categoria":      importacao.CampoCategoria,
}

func TestValidarLinha_Sinistralidade(t *testing.T) {
	linha := map[string]string{
		"competencia":    "01/2024",
		"valor_premio":   "R$ 10.000,00",
		"valor_sinistro": "R$ 7.500,50",
		"categoria":      "Médico",
	}
	r := importacao.ValidarLinha(linha, mapeamentoSinistralidade, entity.TipoSinistralidade, nil)

	assert.Equal(t, entity.RowValid, r.Status)
	assert.Equal(t, "2024-01-01", r.Mapeado[importacao.CampoCompetencia])
	assert.Equal(t, "saude", r.Mapeado[importacao.CampoCategoria])
	premio := r.Mapeado[importacao.CampoValorPremio].(decimal.Decimal)
	assert.True(t, premio.Equal(decimal.RequireFromString("10000")))
	sinistro := r.Mapeado[importacao.CampoValorSinistro].(decimal.Decimal)
	assert.True(t, sinistro.Equal(decimal.RequireFromString("7500.50")))
}

func TestValidarLinha_CompetenciaInvalida(t *testing.T) {
	linha := map[string]string{
		"competencia":    "competência?",
		"valor_premio":   "100",
		"valor_sinistro": "50",
	}
	r := importacao.ValidarLinha(linha, mapeamentoSinistralidade, entity.TipoSinistralidade, nil)
	assert.Equal(t, entity.RowError, r.Status)
	assert.Contains(t, r.Erros[0], "Competência inválida")
}

// ── Movimentações ─────────────────────────────────────────────────────────────

func TestValidarLinha_Movimentacao(t *testing.T) {
	mapeamento := map[string]string{
		"cpf":  importacao.CampoCPF,
		"tipo": importacao.CampoTipo,
		"data": importacao.CampoData,
	}
	r := importacao.ValidarLinha(map[string]string{
		"cpf": "123.456.789-09", "tipo": "Inclusão", "data": "10/02/2024",
	}, mapeamento, entity.TipoMovimentacoes, nil)

	assert.Equal(t, entity.RowValid, r.Status)
	assert.Equal(t, entity.MovimentacaoInclusao, r.Mapeado[importacao.CampoTipo])
	assert.Equal(t, "2024-02-10", r.Mapeado[importacao.CampoData])

	r = importacao.ValidarLinha(map[string]string{
		"cpf": "123.456.789-09", "tipo": "transferência", "data": "10/02/2024",
	}, mapeamento, entity.TipoMovimentacoes, nil)
	assert.Equal(t, entity.RowError, r.Status)
	assert.Contains(t, r.Erros[0], "Tipo de movimentação inválido")
}

// ── Derivação de status ───────────────────────────────────────────────────────

func TestDerivarStatus(t *testing.T) {
	assert.Equal(t, entity.RowValid, importacao.DerivarStatus(nil, nil))
	assert.Equal(t, entity.RowWarning, importacao.DerivarStatus(nil, []string{"aviso"}))
	assert.Equal(t, entity.RowError, importacao.DerivarStatus([]string{"erro"}, nil))
	// Erro vence aviso.
	assert.Equal(t, entity.RowError, importacao.DerivarStatus([]string{"erro"}, []string{"aviso"}))
}

// Colunas não mapeadas não entram em mapped_data nem na validação.
func TestValidarLinha_ColunaNaoMapeadaFicaFora(t *testing.T) {
	linha := linhaBeneficiario("Ana", "123.456.789-09", "01/01/1980", "titular")
	linha["observacao_interna"] = "qualquer coisa"
	r := importacao.ValidarLinha(linha, mapeamentoBeneficiarios, entity.TipoBeneficiarios, nil)

	_, ok := r.Mapeado["observacao_interna"]
	assert.False(t, ok)
	assert.Equal(t, entity.RowValid, r.Status)
}
