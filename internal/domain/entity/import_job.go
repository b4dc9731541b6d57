package entity

import "time"

// TipoDado identifica o tipo de dado detectado em um arquivo de importação.
type TipoDado string

const (
	TipoBeneficiarios  TipoDado = "beneficiarios"
	TipoFaturamento    TipoDado = "faturamento"
	TipoSinistralidade TipoDado = "sinistralidade"
	TipoMovimentacoes  TipoDado = "movimentacoes"
	TipoContratos      TipoDado = "contratos"
)

// Valido informa se o tipo é um dos suportados pelo pipeline.
func (t TipoDado) Valido() bool {
	switch t {
	case TipoBeneficiarios, TipoFaturamento, TipoSinistralidade, TipoMovimentacoes, TipoContratos:
		return true
	}
	return false
}

// JobStatus é o estado do job de importação. As transições são unidirecionais;
// a tabela legal está em TransicaoValida.
type JobStatus string

const (
	JobPending        JobStatus = "pending"
	JobProcessing     JobStatus = "processing"
	JobReadyForReview JobStatus = "ready_for_review"
	JobCompleted      JobStatus = "completed"
	JobRejected       JobStatus = "rejected"
	JobFailed         JobStatus = "failed"
)

// transicoesJob é a tabela de transições legais do ciclo de vida do job.
// Aprovar e rejeitar só são possíveis a partir de ready_for_review; ambos os
// destinos são terminais (não há reabertura).
var transicoesJob = map[JobStatus][]JobStatus{
	JobPending:        {JobProcessing, JobFailed},
	JobProcessing:     {JobReadyForReview, JobFailed},
	JobReadyForReview: {JobCompleted, JobRejected},
}

// TransicaoValida informa se a mudança de status de -> para é permitida.
func TransicaoValida(de, para JobStatus) bool {
	for _, s := range transicoesJob[de] {
		if s == para {
			return true
		}
	}
	return false
}

// Terminal informa se o status não admite mais transições.
func (s JobStatus) Terminal() bool {
	return len(transicoesJob[s]) == 0
}

// ImportJob é o cabeçalho agregado de uma tentativa de importação (um arquivo).
// Jobs nunca são apagados fisicamente: são a trilha de auditoria do pipeline.
//
// Invariantes: TotalRows = ValidRows + WarningRows + ErrorRows (DuplicateRows é
// subclassificação de warnings, não soma); MalformedRows conta linhas do CSV
// descartadas por divergência de colunas (não chegam a virar ImportJobRow).
type ImportJob struct {
	ID            string
	EmpresaID     string
	TipoDado      TipoDado
	Status        JobStatus
	ArquivoNome   string
	ArquivoURL    string
	TotalRows     int
	ValidRows     int
	WarningRows   int
	ErrorRows     int
	DuplicateRows int
	MalformedRows int
	ColumnMapping map[string]string // cabeçalho original -> campo canônico
	AISummary     string
	CriadoPor     string
	AprovadoPor   string
	DataAprovacao *time.Time
	ParentJobID   string // vazio quando não é reimportação
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
