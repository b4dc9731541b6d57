package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

// Verificação em tempo de compilação de que AnthropicService implementa GeradorResumo.
var _ appimport.GeradorResumo = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	anthropicSystemPrompt = `Você é um analista de benefícios corporativos no Brasil.
Receberá o resultado da análise de um arquivo importado (tipo de dado detectado, contagens de linhas e uma amostra de problemas encontrados).
Escreva um resumo de no máximo 3 frases, em português, direto e sem jargão técnico, dizendo:
- quantas linhas foram detectadas e de qual tipo de dado;
- quantas estão prontas para importar e quantas têm avisos ou erros;
- se houver problemas recorrentes (CPF inválido, titular não encontrado, duplicados), cite o mais frequente.
Não use markdown, listas nem cabeçalhos. Só o texto do resumo.`
)

// AnthropicService gera o resumo da análise usando a API REST da Anthropic (Claude).
// Usa net/http da biblioteca padrão; não requer o SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService constrói o adaptador.
// model costuma ser "claude-3-5-haiku-20241022".
// Com apiKey vazio as chamadas devolvem erro descritivo em vez de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de rede de 25 s; o use case ainda impõe context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GerarResumo envia as contagens do job e uma amostra de problemas a Claude e
// devolve o resumo textual. Qualquer erro é devolvido ao chamador, que usa o
// resumo padrão no lugar.
func (s *AnthropicService) GerarResumo(ctx context.Context, job *entity.ImportJob, amostra []*entity.ImportJobRow) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY não configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 512,
		System:    anthropicSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: montarContexto(job, amostra)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: criar HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout ou cancelamento: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: chamada HTTP falhou: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: desserializar resposta Anthropic: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return "", fmt.Errorf("AI: resposta vazia do modelo")
	}

	resumo := strings.TrimSpace(anthResp.Content[0].Text)
	if resumo == "" {
		return "", fmt.Errorf("AI: resposta vazia do modelo")
	}
	return resumo, nil
}

// montarContexto monta o prompt do usuário com as contagens do job e até 10
// mensagens de problema para dar ao modelo material concreto.
func montarContexto(job *entity.ImportJob, amostra []*entity.ImportJobRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arquivo: %s\n", job.ArquivoNome)
	fmt.Fprintf(&b, "Tipo de dado detectado: %s\n", job.TipoDado)
	fmt.Fprintf(&b, "Total de linhas: %d\n", job.TotalRows)
	fmt.Fprintf(&b, "Válidas: %d | Avisos: %d | Erros: %d | Duplicadas: %d\n",
		job.ValidRows, job.WarningRows, job.ErrorRows, job.DuplicateRows)
	if job.MalformedRows > 0 {
		fmt.Fprintf(&b, "Linhas malformadas descartadas: %d\n", job.MalformedRows)
	}

	problemas := 0
	for _, linha := range amostra {
		for _, msg := range append(append([]string{}, linha.Errors...), linha.Warnings...) {
			if problemas >= 10 {
				break
			}
			fmt.Fprintf(&b, "Linha %d: %s\n", linha.RowNumber, msg)
			problemas++
		}
		if problemas >= 10 {
			break
		}
	}
	return b.String()
}
