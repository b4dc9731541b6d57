package importacao

import (
	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

// ReimportacaoUseCase compara uma reimportação com o job de origem: o arquivo
// corrigido deveria reduzir erros e avisos, e a comparação mostra quanto.
type ReimportacaoUseCase struct {
	jobRepo repository.ImportJobRepository
}

// NewReimportacaoUseCase constrói o caso de uso de comparação.
func NewReimportacaoUseCase(jobRepo repository.ImportJobRepository) *ReimportacaoUseCase {
	return &ReimportacaoUseCase{jobRepo: jobRepo}
}

// Comparar devolve o delta de contagens entre o job e seu parent.
// Devolve ErrEntradaInvalida quando o job não é reimportação, e ErrNaoEncontrado
// quando job ou parent não existem no tenant do ator.
func (uc *ReimportacaoUseCase) Comparar(jobID string, ator Ator) (*dto.ComparacaoResponse, error) {
	job, err := uc.carregar(jobID, ator)
	if err != nil {
		return nil, err
	}
	if job.ParentJobID == "" {
		return nil, domain.ErrEntradaInvalida
	}
	parent, err := uc.carregar(job.ParentJobID, ator)
	if err != nil {
		return nil, err
	}

	resolvidos := parent.ErrorRows - job.ErrorRows
	if resolvidos < 0 {
		resolvidos = 0
	}

	return &dto.ComparacaoResponse{
		JobID:               job.ID,
		ParentJobID:         parent.ID,
		ErrosAntes:          parent.ErrorRows,
		ErrosDepois:         job.ErrorRows,
		AvisosAntes:         parent.WarningRows,
		AvisosDepois:        job.WarningRows,
		ValidasAntes:        parent.ValidRows,
		ValidasDepois:       job.ValidRows,
		ProblemasResolvidos: resolvidos,
	}, nil
}

func (uc *ReimportacaoUseCase) carregar(jobID string, ator Ator) (*entity.ImportJob, error) {
	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNaoEncontrado
	}
	if ator.Role != entity.RoleSuperAdmin && job.EmpresaID != ator.EmpresaID {
		return nil, domain.ErrAcessoNegado
	}
	return job, nil
}
