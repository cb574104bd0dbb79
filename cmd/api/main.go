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

	"github.com/smartwms/wms-api/internal/application/auth"
	"github.com/smartwms/wms-api/internal/application/chat"
	"github.com/smartwms/wms-api/internal/application/ports"
	"github.com/smartwms/wms-api/internal/application/session"
	"github.com/smartwms/wms-api/internal/application/warehouse"
	infraai "github.com/smartwms/wms-api/internal/infrastructure/ai"
	"github.com/smartwms/wms-api/internal/infrastructure/postgres"
	httpRouter "github.com/smartwms/wms-api/internal/interfaces/http"
	"github.com/smartwms/wms-api/pkg/config"
	"github.com/smartwms/wms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	inboundRepo := postgres.NewInboundRepository(pool)
	outboundRepo := postgres.NewOutboundRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := warehouse.NewLedger(productRepo, locationRepo, stockRepo, inboundRepo, outboundRepo, txRunner, log)

	var engine ports.CompletionEngine
	switch cfg.AI.Provider {
	case "gemini":
		engine = infraai.NewGeminiService(cfg.AI.GeminiKey, cfg.AI.GeminiModel)
		log.Info().Str("model", cfg.AI.GeminiModel).Msg("completion engine: gemini")
	default:
		engine = infraai.NewOllamaService(cfg.AI.OllamaURL, cfg.AI.OllamaModel)
		log.Info().Str("url", cfg.AI.OllamaURL).Str("model", cfg.AI.OllamaModel).Msg("completion engine: ollama")
	}

	sessions := session.NewStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Session.SweepSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					log.Debug().Int("evicted", n).Msg("session sweep")
				}
			case <-sweepDone:
				return
			}
		}
	}()

	dispatcher := chat.NewDispatcher(engine, ledger, sessions, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // the model call can dominate chat latency
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "WMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Dispatcher: dispatcher,
		Ledger:     ledger,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
