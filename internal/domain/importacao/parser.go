package importacao

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Tabela é a saída do parser: cabeçalhos normalizados e linhas como mapa
// coluna original -> valor bruto (string).
type Tabela struct {
	Cabecalhos []string
	Linhas     []map[string]string
	// Malformadas conta linhas descartadas por divergência na quantidade de
	// colunas. O descarte é deliberadamente visível no cabeçalho do job
	// (MalformedRows) em vez de silencioso: perder linhas sem aviso é perda
	// de dados que o revisor precisa enxergar.
	Malformadas int
}

// ParseCSV converte bytes de um CSV em Tabela.
// O delimitador (';' ou ',') é detectado na linha de cabeçalho; cabeçalhos são
// normalizados (minúsculas, trim, aspas removidas). Uma linha só é mantida se a
// quantidade de valores bate com a de cabeçalhos e ao menos uma célula não está
// vazia. Arquivo vazio ou sem cabeçalho devolve domain.ErrArquivoVazio.
func ParseCSV(conteudo []byte) (*Tabela, error) {
	conteudo = bytes.TrimPrefix(conteudo, byteOrderMark)
	texto := strings.TrimSpace(string(conteudo))
	if texto == "" {
		return nil, domain.ErrArquivoVazio
	}

	primeiraLinha := texto
	if idx := strings.IndexAny(texto, "\r\n"); idx >= 0 {
		primeiraLinha = texto[:idx]
	}
	delim := DetectarDelimitador(primeiraLinha)

	r := csv.NewReader(strings.NewReader(texto))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // validamos a contagem por linha nós mesmos
	r.TrimLeadingSpace = true

	registros, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ler CSV: %w", err)
	}
	if len(registros) == 0 {
		return nil, domain.ErrArquivoVazio
	}

	cabecalhos := normalizarCabecalhos(registros[0])
	if len(cabecalhos) == 0 {
		return nil, domain.ErrArquivoVazio
	}

	return montarTabela(cabecalhos, registros[1:]), nil
}

// ParseXLSX converte a primeira planilha de um arquivo XLSX em Tabela, com a
// mesma semântica de linhas do CSV.
func ParseXLSX(conteudo []byte) (*Tabela, error) {
	f, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		return nil, fmt.Errorf("abrir XLSX: %w", err)
	}
	defer f.Close()

	planilhas := f.GetSheetList()
	if len(planilhas) == 0 {
		return nil, domain.ErrArquivoVazio
	}
	registros, err := f.GetRows(planilhas[0])
	if err != nil {
		return nil, fmt.Errorf("ler planilha %q: %w", planilhas[0], err)
	}
	if len(registros) == 0 {
		return nil, domain.ErrArquivoVazio
	}

	cabecalhos := normalizarCabecalhos(registros[0])
	if len(cabecalhos) == 0 {
		return nil, domain.ErrArquivoVazio
	}

	// GetRows omite células vazias ao final da linha; completa até o cabeçalho.
	linhas := make([][]string, 0, len(registros)-1)
	for _, reg := range registros[1:] {
		if len(reg) < len(cabecalhos) {
			completo := make([]string, len(cabecalhos))
			copy(completo, reg)
			reg = completo
		}
		linhas = append(linhas, reg)
	}
	return montarTabela(cabecalhos, linhas), nil
}

// ParseJSONRows aceita o JSON produzido pela etapa externa de visão/OCR de um
// PDF: um array de objetos campo -> valor. Entra no pipeline como se fosse a
// saída do parser CSV (os objetos já são as "linhas").
func ParseJSONRows(conteudo []byte) (*Tabela, error) {
	conteudo = bytes.TrimPrefix(bytes.TrimSpace(conteudo), byteOrderMark)
	if len(conteudo) == 0 {
		return nil, domain.ErrArquivoVazio
	}

	var brutos []map[string]json.RawMessage
	if err := json.Unmarshal(conteudo, &brutos); err != nil {
		return nil, fmt.Errorf("ler JSON de linhas: %w", err)
	}
	if len(brutos) == 0 {
		return nil, domain.ErrArquivoVazio
	}

	// Cabeçalhos: união das chaves na ordem de primeira aparição.
	var cabecalhos []string
	vistos := map[string]bool{}
	linhas := make([]map[string]string, 0, len(brutos))
	for _, obj := range brutos {
		linha := make(map[string]string, len(obj))
		for k, raw := range obj {
			chave := NormalizarChave(k)
			if chave == "" {
				continue
			}
			if !vistos[chave] {
				vistos[chave] = true
				cabecalhos = append(cabecalhos, chave)
			}
			linha[chave] = valorJSONComoString(raw)
		}
		if temValor(linha) {
			linhas = append(linhas, linha)
		}
	}
	if len(cabecalhos) == 0 {
		return nil, domain.ErrArquivoVazio
	}
	return &Tabela{Cabecalhos: cabecalhos, Linhas: linhas}, nil
}

// DetectarDelimitador escolhe ';' ou ',' contando ocorrências na linha de
// cabeçalho. Empate ou ausência de ambos cai em ','.
func DetectarDelimitador(linhaCabecalho string) rune {
	if strings.Count(linhaCabecalho, ";") > strings.Count(linhaCabecalho, ",") {
		return ';'
	}
	return ','
}

func normalizarCabecalhos(brutos []string) []string {
	out := make([]string, 0, len(brutos))
	for _, h := range brutos {
		out = append(out, NormalizarChave(h))
	}
	// Cabeçalho inteiramente vazio não é cabeçalho.
	for _, h := range out {
		if h != "" {
			return out
		}
	}
	return nil
}

func montarTabela(cabecalhos []string, registros [][]string) *Tabela {
	t := &Tabela{Cabecalhos: cabecalhos}
	for _, reg := range registros {
		if len(reg) != len(cabecalhos) {
			// Linha sem alinhamento confiável de colunas: contabiliza e descarta.
			if temValorSlice(reg) {
				t.Malformadas++
			}
			continue
		}
		linha := make(map[string]string, len(cabecalhos))
		vazia := true
		for i, h := range cabecalhos {
			v := strings.TrimSpace(reg[i])
			linha[h] = v
			if v != "" {
				vazia = false
			}
		}
		if vazia {
			continue
		}
		t.Linhas = append(t.Linhas, linha)
	}
	return t
}

func temValor(linha map[string]string) bool {
	for _, v := range linha {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func temValorSlice(reg []string) bool {
	for _, v := range reg {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func valorJSONComoString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	// Números, booleanos e null ficam na representação textual do JSON.
	v := strings.TrimSpace(string(raw))
	if v == "null" {
		return ""
	}
	return v
}
