package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitalsaude/beneficios-api/internal/application/auth"
	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	"github.com/vitalsaude/beneficios-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	AnalisarUC  *appimport.AnalisarUseCase
	AprovacaoUC *appimport.AprovacaoUseCase
	ConsultaUC  *appimport.ConsultaUseCase
	ReimportUC  *appimport.ReimportacaoUseCase
	JWTSecret   string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (requerem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Importações (protegido)
	importacoes := protected.Group("/importacoes")
	handler := NewImportacaoHandler(deps.AnalisarUC, deps.AprovacaoUC, deps.ConsultaUC, deps.ReimportUC)
	importacoes.Post("/analisar", handler.Analisar)
	importacoes.Get("/", handler.ListJobs)
	importacoes.Get("/:id", handler.GetJob)
	importacoes.Get("/:id/linhas", handler.ListRows)
	importacoes.Get("/:id/exportar", handler.Exportar)
	importacoes.Get("/:id/relatorio", handler.Relatorio)
	importacoes.Get("/:id/comparacao", handler.Comparacao)
	importacoes.Get("/:id/auditoria", handler.Auditoria)

	// Aprovar/rejeitar exigem papel de admin; o escopo de tenant (ou
	// super_admin) é verificado no use case.
	aprovadores := RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin)
	importacoes.Post("/:id/aprovar", aprovadores, handler.Aprovar)
	importacoes.Post("/:id/rejeitar", aprovadores, handler.Rejeitar)
}
