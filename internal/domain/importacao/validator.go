package importacao

import (
	"fmt"
	"strings"

	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/pkg/br"
)

// Mensagens de validação exibidas ao revisor (em português, como o restante da
// plataforma). Os testes de cenário dependem dos prefixos.
const (
	MsgCampoAusente       = "Campo obrigatório ausente"
	MsgCPFInvalido        = "CPF inválido"
	MsgCPFJaCadastrado    = "CPF já cadastrado, registro será atualizado"
	MsgCPFDuplicado       = "CPF duplicado neste arquivo"
	MsgTitularNaoEncontrado = "Titular não encontrado"
)

// ResultadoLinha é a saída da validação de uma linha.
type ResultadoLinha struct {
	Status    entity.RowStatus
	Erros     []string
	Avisos    []string
	Mapeado   map[string]interface{}
	// Duplicada marca a subclassificação de duplicidade (CPF repetido no
	// arquivo ou já existente no tenant). Não altera a derivação de status:
	// duplicidade é sempre aviso, nunca erro — o registro será atualizado.
	Duplicada bool
}

// Contagens agrega os totais de um lote validado. Invariante:
// Total = Validas + Avisos + Erros (Duplicadas é subconjunto de Avisos).
type Contagens struct {
	Total      int
	Validas    int
	Avisos     int
	Erros      int
	Duplicadas int
}

// ValidarLinha valida uma única linha contra o esquema do tipo.
// existentes são as chaves naturais já presentes no tenant (CPFs normalizados
// para beneficiários); usado para o aviso de atualização.
//
// As regras entre linhas (CPF duplicado no arquivo, dependente sem titular)
// são aplicadas por ValidarLote, que enxerga o lote inteiro.
func ValidarLinha(linha map[string]string, mapeamento map[string]string, tipo entity.TipoDado, existentes map[string]bool) ResultadoLinha {
	esquema := EsquemaDe(tipo)

	// 1. Projeta a linha pelo mapeamento: só células mapeadas e não vazias sobrevivem.
	campos := make(map[string]string)
	for original, canonico := range mapeamento {
		if v := strings.TrimSpace(linha[original]); v != "" {
			campos[canonico] = v
		}
	}

	r := ResultadoLinha{Mapeado: make(map[string]interface{}, len(campos))}

	// 2. Campos obrigatórios.
	for _, campo := range esquema.Obrigatorios {
		if _, ok := campos[campo]; !ok {
			r.Erros = append(r.Erros, fmt.Sprintf("%s: %s", MsgCampoAusente, campo))
		}
	}

	// 3. Normalização e validação específicas do tipo.
	switch tipo {
	case entity.TipoBeneficiarios:
		validarBeneficiario(campos, existentes, &r)
	case entity.TipoFaturamento:
		validarFaturamento(campos, &r)
	case entity.TipoSinistralidade:
		validarSinistralidade(campos, &r)
	case entity.TipoMovimentacoes:
		validarMovimentacao(campos, &r)
	case entity.TipoContratos:
		validarContrato(campos, &r)
	}

	r.Status = DerivarStatus(r.Erros, r.Avisos)
	return r
}

// ValidarLote valida todas as linhas de um arquivo aplicando também as regras
// entre linhas: CPF duplicado no arquivo (aviso na segunda ocorrência em
// diante) e dependente sem titular resolvível (erro — dependente não pode ser
// comitado sem o titular, nem no arquivo nem na base existente).
func ValidarLote(linhas []map[string]string, mapeamento map[string]string, tipo entity.TipoDado, existentes map[string]bool) []ResultadoLinha {
	resultados := make([]ResultadoLinha, 0, len(linhas))
	for _, linha := range linhas {
		resultados = append(resultados, ValidarLinha(linha, mapeamento, tipo, existentes))
	}
	if tipo != entity.TipoBeneficiarios {
		return resultados
	}

	// Titulares presentes no próprio arquivo (pela CPF normalizado).
	titularesNoArquivo := make(map[string]bool)
	for i := range resultados {
		if tipoLinha, _ := resultados[i].Mapeado[CampoTipo].(string); tipoLinha == entity.BeneficiarioTitular {
			if cpf, _ := resultados[i].Mapeado[CampoCPF].(string); cpf != "" {
				titularesNoArquivo[cpf] = true
			}
		}
	}

	vistos := make(map[string]bool)
	for i := range resultados {
		r := &resultados[i]
		cpf, _ := r.Mapeado[CampoCPF].(string)

		// CPF repetido dentro do arquivo: aviso a partir da segunda ocorrência.
		if cpf != "" {
			if vistos[cpf] {
				r.Avisos = append(r.Avisos, MsgCPFDuplicado)
				r.Duplicada = true
			}
			vistos[cpf] = true
		}

		// Dependente sem titular: erro, não aviso.
		if tipoLinha, _ := r.Mapeado[CampoTipo].(string); tipoLinha == entity.BeneficiarioDependente {
			titular, _ := r.Mapeado[CampoTitularCPF].(string)
			if titular == "" || (!titularesNoArquivo[titular] && !existentes[titular]) {
				if titular == "" {
					r.Erros = append(r.Erros, MsgTitularNaoEncontrado+": titular_cpf não informado")
				} else {
					r.Erros = append(r.Erros, fmt.Sprintf("%s: %s", MsgTitularNaoEncontrado, br.Formatar(titular)))
				}
			}
		}

		r.Status = DerivarStatus(r.Erros, r.Avisos)
	}
	return resultados
}

// DerivarStatus aplica a derivação determinística: erro > aviso > válida.
func DerivarStatus(erros, avisos []string) entity.RowStatus {
	switch {
	case len(erros) > 0:
		return entity.RowError
	case len(avisos) > 0:
		return entity.RowWarning
	}
	return entity.RowValid
}

// ContarResultados agrega as contagens do lote para o cabeçalho do job.
func ContarResultados(resultados []ResultadoLinha) Contagens {
	var c Contagens
	c.Total = len(resultados)
	for _, r := range resultados {
		switch r.Status {
		case entity.RowError:
			c.Erros++
		case entity.RowWarning:
			c.Avisos++
		default:
			c.Validas++
		}
		if r.Duplicada {
			c.Duplicadas++
		}
	}
	return c
}

// ── Validação por tipo ────────────────────────────────────────────────────────

func validarBeneficiario(campos map[string]string, existentes map[string]bool, r *ResultadoLinha) {
	if v, ok := campos[CampoNome]; ok {
		r.Mapeado[CampoNome] = v
	}

	if v, ok := campos[CampoCPF]; ok {
		// CPF é armazenado normalizado (só dígitos) independentemente do resultado.
		normalizado := br.Normalizar(v)
		r.Mapeado[CampoCPF] = normalizado
		if err := br.Validar(v); err != nil {
			r.Erros = append(r.Erros, fmt.Sprintf("%s: %s", MsgCPFInvalido, br.Formatar(v)))
		} else if existentes[normalizado] {
			r.Avisos = append(r.Avisos, MsgCPFJaCadastrado)
			r.Duplicada = true
		}
	}

	if v, ok := campos[CampoDataNascimento]; ok {
		if iso, err := NormalizarData(v); err != nil {
			r.Erros = append(r.Erros, fmt.Sprintf("Data de nascimento inválida: %q", v))
		} else {
			r.Mapeado[CampoDataNascimento] = iso
		}
	}

	// tipo default "titular"; contendo "dep" vira "dependente".
	r.Mapeado[CampoTipo] = NormalizarTipoBeneficiario(campos[CampoTipo])

	if v, ok := campos[CampoTitularCPF]; ok {
		r.Mapeado[CampoTitularCPF] = br.Normalizar(v)
	}
	if v, ok := campos[CampoMatricula]; ok {
		r.Mapeado[CampoMatricula] = v
	}
	if v, ok := campos[CampoEmail]; ok {
		r.Mapeado[CampoEmail] = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := campos[CampoTelefone]; ok {
		r.Mapeado[CampoTelefone] = v
	}
	for _, campo := range []string{CampoPlanoSaude, CampoPlanoVida, CampoPlanoOdonto} {
		if v, ok := campos[campo]; ok {
			r.Mapeado[campo] = ConverterBooleano(v)
		}
	}

	// status default "ativo".
	if v, ok := campos[CampoStatus]; ok {
		r.Mapeado[CampoStatus] = NormalizarChave(v)
	} else {
		r.Mapeado[CampoStatus] = "ativo"
	}
}

func validarFaturamento(campos map[string]string, r *ResultadoLinha) {
	if v, ok := campos[CampoCompetencia]; ok {
		if iso, err := NormalizarCompetencia(v); err != nil {
			r.Erros = append(r.Erros, fmt.Sprintf("Competência inválida: %q", v))
		} else {
			r.Mapeado[CampoCompetencia] = iso
		}
	}
	for _, campo := range []string{CampoValorFatura, CampoValorPago} {
		if v, ok := campos[campo]; ok {
			r.Mapeado[campo] = ConverterMoeda(v)
		}
	}
	if v, ok := campos[CampoVidas]; ok {
		r.Mapeado[CampoVidas] = ConverterInteiro(v)
	}
	if v, ok := campos[CampoCategoria]; ok {
		r.Mapeado[CampoCategoria] = NormalizarCategoria(v)
	}
	if v, ok := campos[CampoObservacao]; ok {
		r.Mapeado[CampoObservacao] = v
	}
}

func validarSinistralidade(campos map[string]string, r *ResultadoLinha) {
	if v, ok := campos[CampoCompetencia]; ok {
		if iso, err := NormalizarCompetencia(v); err != nil {
			r.Erros = append(r.Erros, fmt.Sprintf("Competência inválida: %q", v))
		} else {
			r.Mapeado[CampoCompetencia] = iso
		}
	}
	for _, campo := range []string{CampoValorPremio, CampoValorSinistro} {
		if v, ok := campos[campo]; ok {
			r.Mapeado[campo] = ConverterMoeda(v)
		}
	}
	if v, ok := campos[CampoCategoria]; ok {
		r.Mapeado[CampoCategoria] = NormalizarCategoria(v)
	}
}

func validarMovimentacao(campos map[string]string, r *ResultadoLinha) {
	if v, ok := campos[CampoCPF]; ok {
		r.Mapeado[CampoCPF] = br.Normalizar(v)
		if err := br.Validar(v); err != nil {
			r.Erros = append(r.Erros, fmt.Sprintf("%s: %s", MsgCPFInvalido, br.Formatar(v)))
		}
	}
	if v, ok := campos[CampoTipo]; ok {
		if tipoMov := NormalizarTipoMovimentacao(v); tipoMov == "" {
			r.Erros = append(r.Erros, fmt.Sprintf("Tipo de movimentação inválido: %q", v))
		} else {
			r.Mapeado[CampoTipo] = tipoMov
		}
	}
	if v, ok := campos[CampoData]; ok {
		if iso, err := NormalizarData(v); err != nil {
			r.Erros = append(r.Erros, fmt.Sprintf("Data inválida: %q", v))
		} else {
			r.Mapeado[CampoData] = iso
		}
	}
	if v, ok := campos[CampoNome]; ok {
		r.Mapeado[CampoNome] = v
	}
	if v, ok := campos[CampoMotivo]; ok {
		r.Mapeado[CampoMotivo] = v
	}
}

func validarContrato(campos map[string]string, r *ResultadoLinha) {
	if v, ok := campos[CampoNumero]; ok {
		r.Mapeado[CampoNumero] = v
	}
	if v, ok := campos[CampoOperadora]; ok {
		r.Mapeado[CampoOperadora] = v
	}
	for _, campo := range []string{CampoVigenciaInicio, CampoVigenciaFim} {
		if v, ok := campos[campo]; ok {
			if iso, err := NormalizarData(v); err != nil {
				r.Erros = append(r.Erros, fmt.Sprintf("Vigência inválida: %q", v))
			} else {
				r.Mapeado[campo] = iso
			}
		}
	}
	if v, ok := campos[CampoCategoria]; ok {
		r.Mapeado[CampoCategoria] = NormalizarCategoria(v)
	}
	if v, ok := campos[CampoValorMensal]; ok {
		r.Mapeado[CampoValorMensal] = ConverterMoeda(v)
	}
	if v, ok := campos[CampoVidas]; ok {
		r.Mapeado[CampoVidas] = ConverterInteiro(v)
	}
}
