package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
)

// Verificação em tempo de compilação de que SupabaseStorage implementa ArmazenamentoArquivos.
var _ appimport.ArmazenamentoArquivos = (*SupabaseStorage)(nil)

// SupabaseStorage é o bucket de arquivos de importação via API REST do
// Supabase Storage. Usa net/http da biblioteca padrão; não requer SDK.
type SupabaseStorage struct {
	baseURL    string // https://<projeto>.supabase.co
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseStorage constrói o adaptador.
func NewSupabaseStorage(baseURL, serviceKey, bucket string) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enviar grava o conteúdo no bucket e devolve a URL do objeto.
// Upsert: reenviar o mesmo caminho sobrescreve.
func (s *SupabaseStorage) Enviar(ctx context.Context, caminho string, conteudo []byte, contentType string) (string, error) {
	objURL := s.objectURL(caminho)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, objURL, bytes.NewReader(conteudo))
	if err != nil {
		return "", fmt.Errorf("storage: criar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: upload falhou: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return "", fmt.Errorf("storage: upload HTTP %d: %s", resp.StatusCode, string(body))
	}
	return objURL, nil
}

// Baixar lê o conteúdo de um objeto do bucket.
func (s *SupabaseStorage) Baixar(ctx context.Context, caminho string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(caminho), nil)
	if err != nil {
		return nil, fmt.Errorf("storage: criar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: download falhou: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return nil, fmt.Errorf("storage: download HTTP %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func (s *SupabaseStorage) objectURL(caminho string) string {
	// O caminho dentro do bucket pode ter subpastas; escapar cada segmento.
	segmentos := strings.Split(strings.TrimLeft(caminho, "/"), "/")
	for i, seg := range segmentos {
		segmentos[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, strings.Join(segmentos, "/"))
}
