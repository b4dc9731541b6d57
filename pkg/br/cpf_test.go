package br_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalsaude/beneficios-api/pkg/br"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures: CPFs com dígitos verificadores calculados manualmente pelo
// algoritmo módulo 11 (pesos 10..2 e 11..2). Se alguém alterar os pesos ou a
// regra do resto, estes testes quebram antes de qualquer arquivo entrar no
// pipeline de importação.
// ──────────────────────────────────────────────────────────────────────────────

const (
	cpfValido1         = "123.456.789-09"
	cpfValido2         = "529.982.247-25"
	cpfValidoSemMask   = "12345678909"
	cpfDigitosIguais   = "111.111.111-11"
	cpfPrimeiroDVRuim  = "123.456.789-19" // primeiro verificador mutado (0 -> 1)
	cpfSegundoDVRuim   = "123.456.789-08" // segundo verificador mutado (9 -> 8)
	cpfBaseMutada      = "223.456.789-09" // primeiro dígito da base mutado
	cpfCurto           = "123.456.789"
	cpfLongo           = "123.456.789-091"
)

func TestValidar_CPFsValidos(t *testing.T) {
	for _, cpf := range []string{cpfValido1, cpfValido2, cpfValidoSemMask, "12345678909"} {
		assert.NoError(t, br.Validar(cpf), "CPF %q deve ser válido", cpf)
		assert.True(t, br.Valido(cpf))
	}
}

func TestValidar_TodosDigitosIguais(t *testing.T) {
	// 111.111.111-11 satisfaz a aritmética dos verificadores, mas é rejeitado
	// pela regra de sequência repetida (mesmo comportamento da Receita).
	for _, cpf := range []string{cpfDigitosIguais, "00000000000", "999.999.999-99"} {
		err := br.Validar(cpf)
		require.Error(t, err, "CPF de dígitos repetidos %q deve ser inválido", cpf)
		assert.Contains(t, err.Error(), "iguais")
	}
}

func TestValidar_DigitoVerificadorMutado(t *testing.T) {
	assert.Error(t, br.Validar(cpfPrimeiroDVRuim), "mutação do primeiro DV deve invalidar")
	assert.Error(t, br.Validar(cpfSegundoDVRuim), "mutação do segundo DV deve invalidar")
	assert.Error(t, br.Validar(cpfBaseMutada), "mutação na base deve invalidar os verificadores")
}

func TestValidar_TamanhoIncorreto(t *testing.T) {
	assert.Error(t, br.Validar(cpfCurto))
	assert.Error(t, br.Validar(cpfLongo))
	assert.Error(t, br.Validar(""))
	assert.Error(t, br.Validar("abc"))
}

func TestValidar_IgnoraMascara(t *testing.T) {
	// Com ou sem pontuação o resultado deve ser o mesmo.
	assert.Equal(t, br.Valido("123.456.789-09"), br.Valido("12345678909"))
	assert.Equal(t, br.Valido("529982247-25"), br.Valido("529.982.247-25"))
}

func TestNormalizar(t *testing.T) {
	assert.Equal(t, "12345678909", br.Normalizar("123.456.789-09"))
	assert.Equal(t, "12345678909", br.Normalizar(" 123 456 789 09 "))
	assert.Equal(t, "", br.Normalizar("sem dígitos"))
}

func TestFormatar(t *testing.T) {
	assert.Equal(t, "123.456.789-09", br.Formatar("12345678909"))
	assert.Equal(t, "123.456.789-09", br.Formatar("123.456.789-09"))
	// Entrada sem 11 dígitos: devolve só os dígitos, sem máscara.
	assert.Equal(t, "123", br.Formatar("123"))
}
