package importacao

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

// Esquema descreve, por tipo de dado, os campos canônicos e a tabela de
// sinônimos de cabeçalho. As tabelas são estáticas: toleram variações de
// grafia, acentos e abreviações comuns de planilhas de RH sem exigir contrato
// rígido de cabeçalho de quem faz o upload.
type Esquema struct {
	Tipo         entity.TipoDado
	Obrigatorios []string
	Opcionais    []string
	// Sinonimos mapeia o cabeçalho normalizado (minúsculas, sem acentos)
	// para o campo canônico. Cabeçalhos sem sinônimo são descartados do
	// mapeamento; o dado bruto permanece em original_data.
	Sinonimos map[string]string
}

// Campos canônicos compartilhados entre tipos.
const (
	CampoNome           = "nome"
	CampoCPF            = "cpf"
	CampoDataNascimento = "data_nascimento"
	CampoTipo           = "tipo"
	CampoTitularCPF     = "titular_cpf"
	CampoMatricula      = "matricula"
	CampoEmail          = "email"
	CampoTelefone       = "telefone"
	CampoPlanoSaude     = "plano_saude"
	CampoPlanoVida      = "plano_vida"
	CampoPlanoOdonto    = "plano_odonto"
	CampoStatus         = "status"
	CampoCompetencia    = "competencia"
	CampoCategoria      = "categoria"
	CampoValorFatura    = "valor_fatura"
	CampoValorPago      = "valor_pago"
	CampoValorPremio    = "valor_premio"
	CampoValorSinistro  = "valor_sinistro"
	CampoVidas          = "vidas"
	CampoObservacao     = "observacao"
	CampoData           = "data"
	CampoMotivo         = "motivo"
	CampoNumero         = "numero"
	CampoOperadora      = "operadora"
	CampoVigenciaInicio = "vigencia_inicio"
	CampoVigenciaFim    = "vigencia_fim"
	CampoValorMensal    = "valor_mensal"
)

var esquemas = map[entity.TipoDado]Esquema{
	entity.TipoBeneficiarios: {
		Tipo:         entity.TipoBeneficiarios,
		Obrigatorios: []string{CampoNome, CampoCPF},
		Opcionais: []string{
			CampoDataNascimento, CampoTipo, CampoTitularCPF, CampoMatricula,
			CampoEmail, CampoTelefone, CampoPlanoSaude, CampoPlanoVida,
			CampoPlanoOdonto, CampoStatus,
		},
		Sinonimos: map[string]string{
			"nome":             CampoNome,
			"nome completo":    CampoNome,
			"nome_completo":    CampoNome,
			"beneficiario":     CampoNome,
			"nome beneficiario": CampoNome,
			"funcionario":      CampoNome,
			"cpf":              CampoCPF,
			"documento":        CampoCPF,
			"cpf beneficiario": CampoCPF,
			"cpf_beneficiario": CampoCPF,
			"data_nascimento":  CampoDataNascimento,
			"data nascimento":  CampoDataNascimento,
			"data de nascimento": CampoDataNascimento,
			"nascimento":       CampoDataNascimento,
			"dt_nascimento":    CampoDataNascimento,
			"dt nasc":          CampoDataNascimento,
			"tipo":             CampoTipo,
			"titularidade":     CampoTipo,
			"parentesco":       CampoTipo,
			"titular_cpf":      CampoTitularCPF,
			"cpf_titular":      CampoTitularCPF,
			"cpf titular":      CampoTitularCPF,
			"cpf do titular":   CampoTitularCPF,
			"matricula":        CampoMatricula,
			"registro":         CampoMatricula,
			"email":            CampoEmail,
			"e-mail":           CampoEmail,
			"telefone":         CampoTelefone,
			"celular":          CampoTelefone,
			"fone":             CampoTelefone,
			"plano_saude":      CampoPlanoSaude,
			"plano saude":      CampoPlanoSaude,
			"saude":            CampoPlanoSaude,
			"plano_vida":       CampoPlanoVida,
			"plano vida":       CampoPlanoVida,
			"vida":             CampoPlanoVida,
			"plano_odonto":     CampoPlanoOdonto,
			"plano odonto":     CampoPlanoOdonto,
			"odonto":           CampoPlanoOdonto,
			"odontologico":     CampoPlanoOdonto,
			"dental":           CampoPlanoOdonto,
			"status":           CampoStatus,
			"situacao":         CampoStatus,
		},
	},
	entity.TipoFaturamento: {
		Tipo:         entity.TipoFaturamento,
		Obrigatorios: []string{CampoCompetencia, CampoValorFatura},
		Opcionais:    []string{CampoValorPago, CampoVidas, CampoCategoria, CampoObservacao},
		Sinonimos: map[string]string{
			"competencia":    CampoCompetencia,
			"mes":            CampoCompetencia,
			"mes referencia": CampoCompetencia,
			"referencia":     CampoCompetencia,
			"valor_fatura":   CampoValorFatura,
			"valor fatura":   CampoValorFatura,
			"fatura":         CampoValorFatura,
			"mensalidade":    CampoValorFatura,
			"valor":          CampoValorFatura,
			"valor_pago":     CampoValorPago,
			"valor pago":     CampoValorPago,
			"pago":           CampoValorPago,
			"vidas":          CampoVidas,
			"qtd vidas":      CampoVidas,
			"quantidade_vidas": CampoVidas,
			"categoria":      CampoCategoria,
			"produto":        CampoCategoria,
			"observacao":     CampoObservacao,
			"obs":            CampoObservacao,
		},
	},
	entity.TipoSinistralidade: {
		Tipo:         entity.TipoSinistralidade,
		Obrigatorios: []string{CampoCompetencia, CampoValorPremio, CampoValorSinistro},
		Opcionais:    []string{CampoCategoria},
		Sinonimos: map[string]string{
			"competencia":     CampoCompetencia,
			"mes":             CampoCompetencia,
			"referencia":      CampoCompetencia,
			"valor_premio":    CampoValorPremio,
			"valor premio":    CampoValorPremio,
			"premio":          CampoValorPremio,
			"premio total":    CampoValorPremio,
			"valor_sinistro":  CampoValorSinistro,
			"valor sinistro":  CampoValorSinistro,
			"sinistro":        CampoValorSinistro,
			"sinistros":       CampoValorSinistro,
			"custo":           CampoValorSinistro,
			"categoria":       CampoCategoria,
			"produto":         CampoCategoria,
			"ramo":            CampoCategoria,
		},
	},
	entity.TipoMovimentacoes: {
		Tipo:         entity.TipoMovimentacoes,
		Obrigatorios: []string{CampoCPF, CampoTipo, CampoData},
		Opcionais:    []string{CampoNome, CampoMotivo},
		Sinonimos: map[string]string{
			"cpf":          CampoCPF,
			"documento":    CampoCPF,
			"tipo":         CampoTipo,
			"movimentacao": CampoTipo,
			"movimento":    CampoTipo,
			"operacao":     CampoTipo,
			"data":         CampoData,
			"data_movimentacao": CampoData,
			"data movimentacao": CampoData,
			"data_evento":  CampoData,
			"nome":         CampoNome,
			"beneficiario": CampoNome,
			"motivo":       CampoMotivo,
			"justificativa": CampoMotivo,
		},
	},
	entity.TipoContratos: {
		Tipo:         entity.TipoContratos,
		Obrigatorios: []string{CampoNumero, CampoOperadora},
		Opcionais: []string{
			CampoVigenciaInicio, CampoVigenciaFim, CampoCategoria,
			CampoValorMensal, CampoVidas,
		},
		Sinonimos: map[string]string{
			"numero":           CampoNumero,
			"contrato":         CampoNumero,
			"numero_contrato":  CampoNumero,
			"numero contrato":  CampoNumero,
			"numero do contrato": CampoNumero,
			"apolice":          CampoNumero,
			"operadora":        CampoOperadora,
			"seguradora":       CampoOperadora,
			"fornecedor":       CampoOperadora,
			"vigencia_inicio":  CampoVigenciaInicio,
			"vigencia inicio":  CampoVigenciaInicio,
			"inicio_vigencia":  CampoVigenciaInicio,
			"inicio vigencia":  CampoVigenciaInicio,
			"vigencia":         CampoVigenciaInicio,
			"vigencia_fim":     CampoVigenciaFim,
			"vigencia fim":     CampoVigenciaFim,
			"fim_vigencia":     CampoVigenciaFim,
			"fim vigencia":     CampoVigenciaFim,
			"categoria":        CampoCategoria,
			"produto":          CampoCategoria,
			"valor_mensal":     CampoValorMensal,
			"valor mensal":     CampoValorMensal,
			"mensalidade":      CampoValorMensal,
			"vidas":            CampoVidas,
			"qtd vidas":        CampoVidas,
		},
	},
}

// EsquemaDe devolve o esquema estático do tipo. Tipo desconhecido cai em
// beneficiários, o mesmo default de DetectarTipoDado.
func EsquemaDe(tipo entity.TipoDado) Esquema {
	if e, ok := esquemas[tipo]; ok {
		return e
	}
	return esquemas[entity.TipoBeneficiarios]
}

// DetectarTipoDado inspeciona os cabeçalhos normalizados em busca de termos
// característicos de cada tipo. A ordem importa: termos mais específicos
// (prêmio/sinistro, fatura) vencem termos presentes em vários tipos (cpf).
// Nada casando, beneficiários é o default explícito — não é falha.
func DetectarTipoDado(cabecalhos []string) entity.TipoDado {
	junto := strings.Join(normalizarTodos(cabecalhos), "|")

	switch {
	case contemAlgum(junto, "premio", "sinistr"):
		return entity.TipoSinistralidade
	case contemAlgum(junto, "fatura", "mensalidade"):
		return entity.TipoFaturamento
	case contemAlgum(junto, "contrato", "vigencia", "apolice"):
		return entity.TipoContratos
	case contemAlgum(junto, "movimenta", "inclusao", "exclusao"):
		return entity.TipoMovimentacoes
	case contemAlgum(junto, "cpf", "nascimento"):
		return entity.TipoBeneficiarios
	}
	return entity.TipoBeneficiarios
}

// MapearColunas resolve cada cabeçalho na tabela de sinônimos do tipo e devolve
// o mapa cabeçalho original -> campo canônico. Cabeçalhos sem correspondência
// ficam fora do mapa (o valor bruto sobrevive em original_data, mas não entra
// em mapped_data nem na validação).
func MapearColunas(cabecalhos []string, tipo entity.TipoDado) map[string]string {
	esquema := EsquemaDe(tipo)
	out := make(map[string]string, len(cabecalhos))
	for _, h := range cabecalhos {
		if campo, ok := esquema.Sinonimos[NormalizarChave(h)]; ok {
			out[h] = campo
		}
	}
	return out
}

// removedorAcentos decompõe (NFD), remove marcas combinantes e recompõe (NFC):
// "competência" -> "competencia".
var removedorAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizarChave normaliza um cabeçalho ou chave de coluna: minúsculas, trim,
// aspas removidas, acentos retirados.
func NormalizarChave(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if semAcentos, _, err := transform.String(removedorAcentos, s); err == nil {
		s = semAcentos
	}
	return s
}

func normalizarTodos(cabecalhos []string) []string {
	out := make([]string, 0, len(cabecalhos))
	for _, h := range cabecalhos {
		out = append(out, NormalizarChave(h))
	}
	return out
}

func contemAlgum(s string, termos ...string) bool {
	for _, t := range termos {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
