package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
)

var _ repository.BeneficiarioRepository = (*BeneficiarioRepo)(nil)

// BeneficiarioRepo implementação de BeneficiarioRepository (usável com pool ou tx).
type BeneficiarioRepo struct {
	q Querier
}

// NewBeneficiarioRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewBeneficiarioRepository(q Querier) *BeneficiarioRepo {
	return &BeneficiarioRepo{q: q}
}

const beneficiarioCols = `
	id, empresa_id, nome, cpf, data_nascimento, tipo, titular_cpf, matricula,
	email, telefone, plano_saude, plano_vida, plano_odonto, status, created_at, updated_at`

// Create persiste um beneficiário novo.
func (r *BeneficiarioRepo) Create(b *entity.Beneficiario) error {
	query := `
		INSERT INTO beneficiarios (` + beneficiarioCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.EmpresaID, b.Nome, b.CPF, b.DataNascimento, b.Tipo, b.TitularCPF, b.Matricula,
		b.Email, b.Telefone, b.PlanoSaude, b.PlanoVida, b.PlanoOdonto, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert beneficiario: %w", err)
	}
	return nil
}

// Update atualiza um beneficiário existente.
func (r *BeneficiarioRepo) Update(b *entity.Beneficiario) error {
	query := `
		UPDATE beneficiarios
		SET nome = $2, data_nascimento = $3, tipo = $4, titular_cpf = $5, matricula = $6,
		    email = $7, telefone = $8, plano_saude = $9, plano_vida = $10, plano_odonto = $11,
		    status = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.Nome, b.DataNascimento, b.Tipo, b.TitularCPF, b.Matricula,
		b.Email, b.Telefone, b.PlanoSaude, b.PlanoVida, b.PlanoOdonto, b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update beneficiario: %w", err)
	}
	return nil
}

// GetByEmpresaECPF busca pela chave natural do tenant. Devolve (nil, nil) quando não existe.
func (r *BeneficiarioRepo) GetByEmpresaECPF(empresaID, cpf string) (*entity.Beneficiario, error) {
	query := `SELECT ` + beneficiarioCols + ` FROM beneficiarios WHERE empresa_id = $1 AND cpf = $2`
	var b entity.Beneficiario
	err := r.q.QueryRow(context.Background(), query, empresaID, cpf).Scan(
		&b.ID, &b.EmpresaID, &b.Nome, &b.CPF, &b.DataNascimento, &b.Tipo, &b.TitularCPF, &b.Matricula,
		&b.Email, &b.Telefone, &b.PlanoSaude, &b.PlanoVida, &b.PlanoOdonto, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get beneficiario: %w", err)
	}
	return &b, nil
}

// ListarCPFs devolve o conjunto de CPFs já cadastrados no tenant.
func (r *BeneficiarioRepo) ListarCPFs(empresaID string) (map[string]bool, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT cpf FROM beneficiarios WHERE empresa_id = $1`, empresaID)
	if err != nil {
		return nil, fmt.Errorf("listar cpfs: %w", err)
	}
	defer rows.Close()
	cpfs := make(map[string]bool)
	for rows.Next() {
		var cpf string
		if err := rows.Scan(&cpf); err != nil {
			return nil, fmt.Errorf("scan cpf: %w", err)
		}
		cpfs[cpf] = true
	}
	return cpfs, rows.Err()
}

// ListByEmpresa lista beneficiários do tenant com paginação.
func (r *BeneficiarioRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Beneficiario, error) {
	query := `SELECT ` + beneficiarioCols + `
		FROM beneficiarios WHERE empresa_id = $1 ORDER BY nome LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list beneficiarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Beneficiario
	for rows.Next() {
		var b entity.Beneficiario
		if err := rows.Scan(&b.ID, &b.EmpresaID, &b.Nome, &b.CPF, &b.DataNascimento, &b.Tipo,
			&b.TitularCPF, &b.Matricula, &b.Email, &b.Telefone, &b.PlanoSaude, &b.PlanoVida,
			&b.PlanoOdonto, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan beneficiario: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
