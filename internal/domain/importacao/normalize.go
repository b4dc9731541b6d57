package importacao

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

// NormalizarData aceita DD/MM/YYYY ou YYYY-MM-DD e devolve sempre YYYY-MM-DD
// (idempotente sobre entrada já ISO). Data ausente no calendário (32/13/1990)
// ou formato desconhecido devolve erro — nunca uma data silenciosamente errada.
func NormalizarData(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("data vazia")
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("data inválida: %q (formatos aceitos: DD/MM/AAAA ou AAAA-MM-DD)", s)
}

// NormalizarCompetencia aceita uma competência como data completa (DD/MM/YYYY,
// YYYY-MM-DD) ou como mês (MM/YYYY, YYYY-MM) e devolve o primeiro dia do mês
// em YYYY-MM-DD.
func NormalizarCompetencia(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("competência vazia")
	}
	if iso, err := NormalizarData(s); err == nil {
		t, _ := time.Parse("2006-01-02", iso)
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), nil
	}
	for _, layout := range []string{"01/2006", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("competência inválida: %q", s)
}

// ConverterMoeda remove tudo que não for dígito, vírgula, ponto ou sinal,
// trata vírgula como separador decimal ("R$ 1.234,56" -> 1234.56) e devolve
// decimal.Zero quando nada for interpretável. Falha de parse não é erro de
// linha: valores monetários ilegíveis entram como zero, comportamento
// deliberado para planilhas de faturamento com células de texto.
func ConverterMoeda(s string) decimal.Decimal {
	limpo := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if limpo == "" {
		return decimal.Zero
	}
	if strings.Contains(limpo, ",") {
		// Formato brasileiro: pontos são milhares, vírgula decimal.
		limpo = strings.ReplaceAll(limpo, ".", "")
		limpo = strings.ReplaceAll(limpo, ",", ".")
	}
	d, err := decimal.NewFromString(limpo)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// tokensVerdadeiros é o conjunto fixo de valores tratados como "sim" nos campos
// booleanos de plano (plano_saude, plano_vida, plano_odonto).
var tokensVerdadeiros = map[string]bool{
	"sim": true, "s": true, "true": true, "1": true,
	"x": true, "yes": true, "y": true,
}

// ConverterBooleano coerce um valor de célula para booleano pelo conjunto de
// tokens verdadeiros; qualquer outra coisa é false.
func ConverterBooleano(s string) bool {
	return tokensVerdadeiros[NormalizarChave(s)]
}

// NormalizarCategoria coerce a categoria de produto por substring:
// saude/med -> saude, vid -> vida, odo/dent -> odonto. Sem correspondência
// devolve vazio.
func NormalizarCategoria(s string) string {
	chave := NormalizarChave(s)
	switch {
	case strings.Contains(chave, "saude") || strings.Contains(chave, "med"):
		return "saude"
	case strings.Contains(chave, "vid"):
		return "vida"
	case strings.Contains(chave, "odo") || strings.Contains(chave, "dent"):
		return "odonto"
	}
	return ""
}

// NormalizarTipoBeneficiario coerce o tipo: contendo "dep" vira dependente,
// qualquer outro valor (inclusive vazio) vira titular.
func NormalizarTipoBeneficiario(s string) string {
	if strings.Contains(NormalizarChave(s), "dep") {
		return entity.BeneficiarioDependente
	}
	return entity.BeneficiarioTitular
}

// NormalizarTipoMovimentacao coerce o tipo de movimentação por substring.
// Sem correspondência devolve vazio (o chamador decide se é erro).
func NormalizarTipoMovimentacao(s string) string {
	chave := NormalizarChave(s)
	switch {
	case strings.Contains(chave, "inclu"):
		return entity.MovimentacaoInclusao
	case strings.Contains(chave, "exclu"):
		return entity.MovimentacaoExclusao
	case strings.Contains(chave, "alter"):
		return entity.MovimentacaoAlteracao
	}
	return ""
}

// ConverterInteiro faz parse de um inteiro tolerante ("1.250" -> 1250, vazio -> 0).
func ConverterInteiro(s string) int {
	limpo := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return -1
	}, s)
	if limpo == "" {
		return 0
	}
	n, err := strconv.Atoi(limpo)
	if err != nil {
		return 0
	}
	return n
}
