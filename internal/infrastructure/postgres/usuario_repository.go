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

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementação de UsuarioRepository (usável com pool ou tx).
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

const usuarioCols = `
	id, empresa_id, email, password_hash, nome, role, status, created_at, updated_at`

// Create persiste um usuário novo.
func (r *UsuarioRepo) Create(u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (` + usuarioCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.EmpresaID, u.Email, u.PasswordHash, u.Nome, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID obtém um usuário por ID.
func (r *UsuarioRepo) GetByID(id string) (*entity.Usuario, error) {
	return r.get(`SELECT `+usuarioCols+` FROM usuarios WHERE id = $1`, id)
}

// FindByEmail busca por email (único na plataforma).
func (r *UsuarioRepo) FindByEmail(email string) (*entity.Usuario, error) {
	return r.get(`SELECT `+usuarioCols+` FROM usuarios WHERE email = $1`, email)
}

// GetByEmailEEmpresa busca por email dentro do tenant.
func (r *UsuarioRepo) GetByEmailEEmpresa(email, empresaID string) (*entity.Usuario, error) {
	return r.get(`SELECT `+usuarioCols+` FROM usuarios WHERE email = $1 AND empresa_id = $2`, email, empresaID)
}

func (r *UsuarioRepo) get(query string, args ...any) (*entity.Usuario, error) {
	var u entity.Usuario
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&u.ID, &u.EmpresaID, &u.Email, &u.PasswordHash, &u.Nome, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}
