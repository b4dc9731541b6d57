package entity

// RowStatus é o resultado da validação de uma linha staged.
type RowStatus string

const (
	RowValid     RowStatus = "valid"
	RowWarning   RowStatus = "warning"
	RowError     RowStatus = "error"
	RowDuplicate RowStatus = "duplicate" // warning cuja causa é CPF duplicado
	RowUpdated   RowStatus = "updated"   // marcada no commit: atualizou registro existente
)

// Comitavel informa se linhas nesse status entram no commit (erros nunca entram).
func (s RowStatus) Comitavel() bool {
	return s == RowValid || s == RowWarning || s == RowDuplicate
}

// ImportJobRow é uma linha staged de um ImportJob. Imutável após a análise:
// o commit lê as linhas, mas não as reescreve.
//
// Invariantes: RowNumber é único dentro do job (ordenação estável, base 1);
// Status deriva deterministicamente de Errors/Warnings (erro > aviso > válida).
type ImportJobRow struct {
	ID           string
	JobID        string
	RowNumber    int
	Status       RowStatus
	OriginalData map[string]string      // coluna original -> valor bruto
	MappedData   map[string]interface{} // campo canônico -> valor normalizado
	Errors       []string               // nil quando não há erros
	Warnings     []string               // nil quando não há avisos
}
