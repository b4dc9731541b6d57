package dto

import "time"

// AnalisarRequest entrada da análise de um arquivo de importação.
// Conteudo é o binário do arquivo (multipart); ArquivoURL aponta um arquivo
// já no bucket para ser baixado; para PDFs já extraídos por OCR externo,
// RowsJSON traz as linhas como array JSON de objetos e Conteudo fica vazio.
type AnalisarRequest struct {
	EmpresaID   string
	UsuarioID   string
	ArquivoNome string
	Conteudo    []byte
	ArquivoURL  string
	RowsJSON    []byte
	// TipoDado força o tipo em vez de detectar pelos cabeçalhos (opcional).
	TipoDado string
	// ParentJobID marca reimportação: o novo job referencia o job de origem.
	ParentJobID string
}

// ImportJobResponse cabeçalho do job nas respostas.
type ImportJobResponse struct {
	ID            string            `json:"id"`
	EmpresaID     string            `json:"empresa_id"`
	TipoDado      string            `json:"tipo_dado"`
	Status        string            `json:"status"`
	ArquivoNome   string            `json:"arquivo_nome"`
	ArquivoURL    string            `json:"arquivo_url,omitempty"`
	TotalRows     int               `json:"total_rows"`
	ValidRows     int               `json:"valid_rows"`
	WarningRows   int               `json:"warning_rows"`
	ErrorRows     int               `json:"error_rows"`
	DuplicateRows int               `json:"duplicate_rows"`
	MalformedRows int               `json:"malformed_rows"`
	ColumnMapping map[string]string `json:"column_mapping,omitempty"`
	AISummary     string            `json:"ai_summary,omitempty"`
	CriadoPor     string            `json:"criado_por"`
	AprovadoPor   string            `json:"aprovado_por,omitempty"`
	DataAprovacao *time.Time        `json:"data_aprovacao,omitempty"`
	ParentJobID   string            `json:"parent_job_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ImportJobRowResponse linha staged nas respostas.
type ImportJobRowResponse struct {
	ID           string                 `json:"id"`
	RowNumber    int                    `json:"row_number"`
	Status       string                 `json:"status"`
	OriginalData map[string]string      `json:"original_data"`
	MappedData   map[string]interface{} `json:"mapped_data"`
	Errors       []string               `json:"errors,omitempty"`
	Warnings     []string               `json:"warnings,omitempty"`
}

// ListarLinhasRequest filtros da listagem de linhas de um job.
type ListarLinhasRequest struct {
	Status string `query:"status"`
	Busca  string `query:"busca"`
	PageRequest
}

// AprovarResponse resultado do commit de um job aprovado.
type AprovarResponse struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	Inseridos   int    `json:"inseridos"`
	Atualizados int    `json:"atualizados"`
	Falhas      int    `json:"falhas"`
}

// AuditLogResponse entrada da trilha de auditoria de um job.
type AuditLogResponse struct {
	ID        string                 `json:"id"`
	UsuarioID string                 `json:"usuario_id"`
	Acao      string                 `json:"acao"`
	DuracaoMs int64                  `json:"duracao_ms"`
	Detalhes  map[string]interface{} `json:"detalhes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// ComparacaoResponse comparação entre uma reimportação e o job de origem.
type ComparacaoResponse struct {
	JobID              string `json:"job_id"`
	ParentJobID        string `json:"parent_job_id"`
	ErrosAntes         int    `json:"erros_antes"`
	ErrosDepois        int    `json:"erros_depois"`
	AvisosAntes        int    `json:"avisos_antes"`
	AvisosDepois       int    `json:"avisos_depois"`
	ValidasAntes       int    `json:"validas_antes"`
	ValidasDepois      int    `json:"validas_depois"`
	ProblemasResolvidos int   `json:"problemas_resolvidos"`
}
