package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/vitalsaude/beneficios-api/internal/application/dto"
	"github.com/vitalsaude/beneficios-api/internal/domain"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
	"github.com/vitalsaude/beneficios-api/internal/domain/repository"
	"github.com/vitalsaude/beneficios-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuração para geração de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticação: registro e login.
type UseCase struct {
	usuarioRepo repository.UsuarioRepository
	empresaRepo repository.EmpresaRepository
	jwtCfg      JWTConfig
}

// NewUseCase constrói o caso de uso de auth.
func NewUseCase(usuarioRepo repository.UsuarioRepository, empresaRepo repository.EmpresaRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{usuarioRepo: usuarioRepo, empresaRepo: empresaRepo, jwtCfg: jwtCfg}
}

// Register cria um usuário: hasheia a senha com bcrypt e persiste.
// Devolve ErrDuplicado se o email já existe na empresa.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UsuarioResponse, error) {
	existente, _ := uc.usuarioRepo.GetByEmailEEmpresa(in.Email, in.EmpresaID)
	if existente != nil {
		return nil, domain.ErrDuplicado
	}
	empresa, err := uc.empresaRepo.GetByID(in.EmpresaID)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, domain.ErrNaoEncontrado // empresa não existe
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	nome := in.Nome
	if nome == "" {
		nome = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleAnalista
	}
	usuario := &entity.Usuario{
		ID:           uuid.New().String(),
		EmpresaID:    in.EmpresaID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Nome:         nome,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.usuarioRepo.Create(usuario); err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

// Login verifica email/senha, gera JWT e retorna token + usuário.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := uc.usuarioRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return nil, domain.ErrUsuarioNaoEncontrado
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrNaoAutorizado
	}
	if usuario.Status != "active" {
		return nil, domain.ErrAcessoNegado
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, usuario.ID, usuario.EmpresaID, usuario.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUsuarioResponse(usuario),
	}, nil
}

func toUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:        u.ID,
		EmpresaID: u.EmpresaID,
		Email:     u.Email,
		Nome:      u.Nome,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
