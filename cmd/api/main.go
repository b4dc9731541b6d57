package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/vitalsaude/beneficios-api/internal/application/auth"
	appimport "github.com/vitalsaude/beneficios-api/internal/application/importacao"
	infraai "github.com/vitalsaude/beneficios-api/internal/infrastructure/ai"
	infrapdf "github.com/vitalsaude/beneficios-api/internal/infrastructure/pdf"
	"github.com/vitalsaude/beneficios-api/internal/infrastructure/postgres"
	infrastorage "github.com/vitalsaude/beneficios-api/internal/infrastructure/storage"
	httpRouter "github.com/vitalsaude/beneficios-api/internal/interfaces/http"
	"github.com/vitalsaude/beneficios-api/pkg/config"
	"github.com/vitalsaude/beneficios-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	empresaRepo := postgres.NewEmpresaRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	jobRepo := postgres.NewImportJobRepository(pool)
	rowRepo := postgres.NewImportJobRowRepository(pool)
	benefRepo := postgres.NewBeneficiarioRepository(pool)
	fatRepo := postgres.NewFaturamentoRepository(pool)
	sinRepo := postgres.NewSinistralidadeRepository(pool)
	contRepo := postgres.NewContratoRepository(pool)
	movRepo := postgres.NewMovimentacaoRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Resumo de IA é opcional: sem chave, a análise usa o resumo padrão.
	var resumo appimport.GeradorResumo
	if cfg.AI.AnthropicAPIKey != "" {
		resumo = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}

	// Bucket de arquivos também é opcional em desenvolvimento local.
	var armazenamento appimport.ArmazenamentoArquivos
	if cfg.Storage.BaseURL != "" {
		armazenamento = infrastorage.NewSupabaseStorage(cfg.Storage.BaseURL, cfg.Storage.ServiceKey, cfg.Storage.Bucket)
	}

	analisarUC := appimport.NewAnalisarUseCase(txRunner, benefRepo, auditRepo, armazenamento, resumo, log)
	aprovacaoUC := appimport.NewAprovacaoUseCase(
		jobRepo, rowRepo, benefRepo, fatRepo, sinRepo, contRepo, movRepo, auditRepo, log,
	)
	consultaUC := appimport.NewConsultaUseCase(
		jobRepo, rowRepo, auditRepo, armazenamento, infrapdf.NewMarotoReportGenerator(), log,
	)
	reimportUC := appimport.NewReimportacaoUseCase(jobRepo)
	authUC := auth.NewUseCase(usuarioRepo, empresaRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// Arquivos de importação podem passar de algumas dezenas de MB.
		BodyLimit:    50 * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Benefícios API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		AnalisarUC:  analisarUC,
		AprovacaoUC: aprovacaoUC,
		ConsultaUC:  consultaUC,
		ReimportUC:  reimportUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
