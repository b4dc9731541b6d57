package importacao_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
	"github.com/vitalsaude/beneficios-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória dos repositórios e portos
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

type fakeJobRepo struct {
	jobs map[string]*entity.ImportJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.ImportJob)}
}

func (f *fakeJobRepo) Create(job *entity.ImportJob) error {
	clone := *job
	f.jobs[job.ID] = &clone
	return nil
}

func (f *fakeJobRepo) GetByID(id string) (*entity.ImportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.ImportJob, error) {
	var list []*entity.ImportJob
	for _, job := range f.jobs {
		if job.EmpresaID == empresaID {
			clone := *job
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (f *fakeJobRepo) AtualizarStatusSe(id string, de, para entity.JobStatus, aprovadoPor string, dataAprovacao *time.Time) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.Status != de {
		return false, nil
	}
	job.Status = para
	if aprovadoPor != "" {
		job.AprovadoPor = aprovadoPor
	}
	if dataAprovacao != nil {
		job.DataAprovacao = dataAprovacao
	}
	return true, nil
}

type fakeRowRepo struct {
	rows map[string][]*entity.ImportJobRow // por job
}

func newFakeRowRepo() *fakeRowRepo {
	return &fakeRowRepo{rows: make(map[string][]*entity.ImportJobRow)}
}

func (f *fakeRowRepo) BulkInsert(rows []*entity.ImportJobRow) error {
	for _, r := range rows {
		f.rows[r.JobID] = append(f.rows[r.JobID], r)
	}
	return nil
}

func (f *fakeRowRepo) ListByJob(jobID string, filtro repository.FiltroLinhas) ([]*entity.ImportJobRow, error) {
	var list []*entity.ImportJobRow
	for _, r := range f.rows[jobID] {
		if filtro.Status != "" && string(r.Status) != filtro.Status {
			continue
		}
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RowNumber < list[j].RowNumber })
	return list, nil
}

func (f *fakeRowRepo) ListComitaveis(jobID string) ([]*entity.ImportJobRow, error) {
	var list []*entity.ImportJobRow
	for _, r := range f.rows[jobID] {
		if r.Status == entity.RowValid || r.Status == entity.RowWarning {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RowNumber < list[j].RowNumber })
	return list, nil
}

func (f *fakeRowRepo) CountByJob(jobID string) (int, error) {
	return len(f.rows[jobID]), nil
}

/// fakeTxRunner executa a função direto sobre os fakes: os testes não precisam
// de transação de verdade.
type fakeTxRunner struct {
	jobs *fakeJobRepo
	rows *fakeRowRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(jobs repository.ImportJobRepository, rows repository.ImportJobRowRepository) error) error {
	return fn(f.jobs, f.rows)
}

type fakeBenefRepo struct {
	porCPF map[string]*entity.Beneficiario // chave empresa|cpf
	// falharCPF força erro ao gravar esse CPF (simula falha pontual de commit).
	falharCPF string
	criados     int
	atualizados int
}

func newFakeBenefRepo() *fakeBenefRepo {
	return &fakeBenefRepo{porCPF: make(map[string]*entity.Beneficiario)}
}

func chaveBenef(empresaID, cpf string) string { return empresaID + "|" + cpf }

func (f *fakeBenefRepo) Create(b *entity.Beneficiario) error {
	if b.CPF == f.falharCPF {
		return fmt.Errorf("falha simulada")
	}
	f.criados++
	f.porCPF[chaveBenef(b.EmpresaID, b.CPF)] = b
	return nil
}

func (f *fakeBenefRepo) Update(b *entity.Beneficiario) error {
	if b.CPF == f.falharCPF {
		return fmt.Errorf("falha simulada")
	}
	f.atualizados++
	f.porCPF[chaveBenef(b.EmpresaID, b.CPF)] = b
	return nil
}

func (f *fakeBenefRepo) GetByEmpresaECPF(empresaID, cpf string) (*entity.Beneficiario, error) {
	return f.porCPF[chaveBenef(empresaID, cpf)], nil
}

func (f *fakeBenefRepo) ListarCPFs(empresaID string) (map[string]bool, error) {
	cpfs := make(map[string]bool)
	for _, b := range f.porCPF {
		if b.EmpresaID == empresaID {
			cpfs[b.CPF] = true
		}
	}
	return cpfs, nil
}

func (f *fakeBenefRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Beneficiario, error) {
	var list []*entity.Beneficiario
	for _, b := range f.porCPF {
		if b.EmpresaID == empresaID {
			list = append(list, b)
		}
	}
	return list, nil
}

type fakeFatRepo struct {
	porChave map[string]*entity.Faturamento
}

func newFakeFatRepo() *fakeFatRepo { return &fakeFatRepo{porChave: make(map[string]*entity.Faturamento)} }

func (f *fakeFatRepo) Create(x *entity.Faturamento) error {
	f.porChave[x.EmpresaID+"|"+x.Competencia] = x
	return nil
}
func (f *fakeFatRepo) Update(x *entity.Faturamento) error {
	f.porChave[x.EmpresaID+"|"+x.Competencia] = x
	return nil
}
func (f *fakeFatRepo) GetByChaveNatural(empresaID, competencia string) (*entity.Faturamento, error) {
	return f.porChave[empresaID+"|"+competencia], nil
}
func (f *fakeFatRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Faturamento, error) {
	return nil, nil
}

type fakeSinRepo struct {
	porChave map[string]*entity.Sinistralidade
}

func newFakeSinRepo() *fakeSinRepo {
	return &fakeSinRepo{porChave: make(map[string]*entity.Sinistralidade)}
}

func (f *fakeSinRepo) Create(x *entity.Sinistralidade) error {
	f.porChave[x.EmpresaID+"|"+x.Competencia+"|"+x.Categoria] = x
	return nil
}
func (f *fakeSinRepo) Update(x *entity.Sinistralidade) error {
	f.porChave[x.EmpresaID+"|"+x.Competencia+"|"+x.Categoria] = x
	return nil
}
func (f *fakeSinRepo) GetByChaveNatural(empresaID, competencia, categoria string) (*entity.Sinistralidade, error) {
	return f.porChave[empresaID+"|"+competencia+"|"+categoria], nil
}
func (f *fakeSinRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Sinistralidade, error) {
	return nil, nil
}

type fakeContRepo struct {
	porChave map[string]*entity.Contrato
}

func newFakeContRepo() *fakeContRepo { return &fakeContRepo{porChave: make(map[string]*entity.Contrato)} }

func (f *fakeContRepo) Create(x *entity.Contrato) error {
	f.porChave[x.EmpresaID+"|"+x.Numero] = x
	return nil
}
func (f *fakeContRepo) Update(x *entity.Contrato) error {
	f.porChave[x.EmpresaID+"|"+x.Numero] = x
	return nil
}
func (f *fakeContRepo) GetByEmpresaENumero(empresaID, numero string) (*entity.Contrato, error) {
	return f.porChave[empresaID+"|"+numero], nil
}
func (f *fakeContRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Contrato, error) {
	return nil, nil
}

type fakeMovRepo struct {
	movs []*entity.Movimentacao
}

func (f *fakeMovRepo) Create(m *entity.Movimentacao) error {
	f.movs = append(f.movs, m)
	return nil
}
func (f *fakeMovRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Movimentacao, error) {
	return f.movs, nil
}

type fakeAuditRepo struct {
	logs []*entity.AuditLog
}

func (f *fakeAuditRepo) Create(a *entity.AuditLog) error {
	f.logs = append(f.logs, a)
	return nil
}
func (f *fakeAuditRepo) ListByJob(jobID string) ([]*entity.AuditLog, error) {
	var list []*entity.AuditLog
	for _, a := range f.logs {
		if a.JobID == jobID {
			list = append(list, a)
		}
	}
	return list, nil
}

// fakeResumo devolve um resumo fixo, ou erro quando falhar=true (para testar
// o fallback determinístico).
type fakeResumo struct {
	falhar bool
}

func (f *fakeResumo) GerarResumo(ctx context.Context, job *entity.ImportJob, amostra []*entity.ImportJobRow) (string, error) {
	if f.falhar {
		return "", fmt.Errorf("IA fora do ar")
	}
	return "resumo gerado pela IA", nil
}

type fakeStorage struct {
	objetos map[string][]byte
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objetos: make(map[string][]byte)} }

func (f *fakeStorage) Enviar(ctx context.Context, caminho string, conteudo []byte, contentType string) (string, error) {
	f.objetos[caminho] = conteudo
	return "https://storage.test/" + caminho, nil
}

func (f *fakeStorage) Baixar(ctx context.Context, caminho string) ([]byte, error) {
	conteudo, ok := f.objetos[caminho]
	if !ok {
		return nil, fmt.Errorf("objeto não encontrado: %s", caminho)
	}
	return conteudo, nil
}

// Garantias de interface dos fakes.
var (
	_ repository.ImportJobRepository    = (*fakeJobRepo)(nil)
	_ repository.ImportJobRowRepository = (*fakeRowRepo)(nil)
	_ repository.BeneficiarioRepository = (*fakeBenefRepo)(nil)
	_ repository.FaturamentoRepository  = (*fakeFatRepo)(nil)
	_ repository.SinistralidadeRepository = (*fakeSinRepo)(nil)
	_ repository.ContratoRepository     = (*fakeContRepo)(nil)
	_ repository.MovimentacaoRepository = (*fakeMovRepo)(nil)
	_ repository.AuditLogRepository     = (*fakeAuditRepo)(nil)
	_ appimport.TxRunner                = (*fakeTxRunner)(nil)
	_ appimport.GeradorResumo           = (*fakeResumo)(nil)
	_ appimport.ArmazenamentoArquivos   = (*fakeStorage)(nil)
)
