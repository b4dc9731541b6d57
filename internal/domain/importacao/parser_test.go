package importacao_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/importacao"
)

func TestParseCSV_PontoEVirgula(t *testing.T) {
	csv := "Nome_Completo;CPF;Data_Nascimento;Tipo\n" +
		"João Silva;123.456.789-09;15/03/1985;titular\n" +
		"Maria Souza;529.982.247-25;02/07/1990;dependente\n"

	tab, err := importacao.ParseCSV([]byte(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"nome_completo", "cpf", "data_nascimento", "tipo"}, tab.Cabecalhos,
		"cabeçalhos devem sair minúsculos e sem espaços nas bordas")
	require.Len(t, tab.Linhas, 2)
	assert.Equal(t, "João Silva", tab.Linhas[0]["nome_completo"])
	assert.Equal(t, "123.456.789-09", tab.Linhas[0]["cpf"])
	assert.Zero(t, tab.Malformadas)
}

func TestParseCSV_Virgula(t *testing.T) {
	csv := "competencia,valor_fatura,valor_pago\n01/2024,\"1.234,56\",\"1.000,00\"\n"

	tab, err := importacao.ParseCSV([]byte(csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"competencia", "valor_fatura", "valor_pago"}, tab.Cabecalhos)
	require.Len(t, tab.Linhas, 1)
	assert.Equal(t, "1.234,56", tab.Linhas[0]["valor_fatura"], "aspas do CSV devem ser removidas")
}

func TestParseCSV_RemoveBOM(t *testing.T) {
	conteudo := append([]byte{0xEF, 0xBB, 0xBF}, []byte("cpf;nome\n12345678909;Ana\n")...)
	tab, err := importacao.ParseCSV(conteudo)
	require.NoError(t, err)
	assert.Equal(t, "cpf", tab.Cabecalhos[0], "BOM não pode vazar para o primeiro cabeçalho")
}

func TestParseCSV_ArquivoVazio(t *testing.T) {
	for _, conteudo := range [][]byte{nil, []byte(""), []byte("   \n  ")} {
		_, err := importacao.ParseCSV(conteudo)
		assert.ErrorIs(t, err, domain.ErrArquivoVazio)
	}
}

func TestParseCSV_LinhaMalformadaContada(t *testing.T) {
	// Segunda linha tem 2 valores para 3 cabeçalhos: descartada e contada,
	// nunca perdida em silêncio.
	csv := "nome;cpf;tipo\nAna;12345678909;titular\nBruno;99988877766\nCarla;52998224725;titular\n"

	tab, err := importacao.ParseCSV([]byte(csv))
	require.NoError(t, err)
	assert.Len(t, tab.Linhas, 2, "linha com contagem divergente não entra")
	assert.Equal(t, 1, tab.Malformadas)
}

func TestParseCSV_LinhaTodaVaziaIgnorada(t *testing.T) {
	csv := "nome;cpf\nAna;12345678909\n;\n"
	tab, err := importacao.ParseCSV([]byte(csv))
	require.NoError(t, err)
	assert.Len(t, tab.Linhas, 1, "linha sem nenhuma célula preenchida é descartada")
	assert.Zero(t, tab.Malformadas, "linha vazia não conta como malformada")
}

func TestParseXLSX_PrimeiraPlanilha(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Nome", "CPF", "Tipo"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Ana Lima", "123.456.789-09", "titular"}))
	// Última célula vazia: GetRows devolve a linha mais curta que o cabeçalho.
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"Beto Lima", "529.982.247-25"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	tab, err := importacao.ParseXLSX(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"nome", "cpf", "tipo"}, tab.Cabecalhos)
	require.Len(t, tab.Linhas, 2)
	assert.Equal(t, "Ana Lima", tab.Linhas[0]["nome"])
	assert.Equal(t, "", tab.Linhas[1]["tipo"], "célula ausente vira valor vazio, não linha malformada")
	assert.Zero(t, tab.Malformadas)
}

func TestParseXLSX_ConteudoInvalido(t *testing.T) {
	_, err := importacao.ParseXLSX([]byte("isto não é um zip"))
	require.Error(t, err)
}

func TestParseJSONRows_SaidaDeOCR(t *testing.T) {
	// PDF passa antes por visão/OCR externa; o JSON resultante entra aqui.
	conteudo := []byte(`[
		{"Nome": "Ana Lima", "CPF": "123.456.789-09", "Tipo": "titular"},
		{"Nome": "Beto Lima", "CPF": "529.982.247-25", "Tipo": "dependente", "Titular_CPF": "123.456.789-09"}
	]`)

	tab, err := importacao.ParseJSONRows(conteudo)
	require.NoError(t, err)
	assert.Contains(t, tab.Cabecalhos, "nome")
	assert.Contains(t, tab.Cabecalhos, "titular_cpf", "chave que só aparece na segunda linha também entra")
	require.Len(t, tab.Linhas, 2)
	assert.Equal(t, "Ana Lima", tab.Linhas[0]["nome"])
}

func TestParseJSONRows_VazioOuInvalido(t *testing.T) {
	_, err := importacao.ParseJSONRows([]byte("[]"))
	assert.ErrorIs(t, err, domain.ErrArquivoVazio)

	_, err = importacao.ParseJSONRows([]byte("{não é json"))
	assert.Error(t, err)
}

func TestDetectarDelimitador(t *testing.T) {
	assert.Equal(t, ';', importacao.DetectarDelimitador("a;b;c"))
	assert.Equal(t, ',', importacao.DetectarDelimitador("a,b,c"))
	// Empate ou nenhum: vírgula.
	assert.Equal(t, ',', importacao.DetectarDelimitador("a"))
}
