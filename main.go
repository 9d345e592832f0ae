package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/auth"
	"github.com/debleena1993/KPIChatbot/pkg/config"
	"github.com/debleena1993/KPIChatbot/pkg/database"
	"github.com/debleena1993/KPIChatbot/pkg/handlers"
	"github.com/debleena1993/KPIChatbot/pkg/introspect"
	"github.com/debleena1993/KPIChatbot/pkg/llm"
	"github.com/debleena1993/KPIChatbot/pkg/middleware"
	"github.com/debleena1993/KPIChatbot/pkg/registry"
	"github.com/debleena1993/KPIChatbot/pkg/services"
	"github.com/debleena1993/KPIChatbot/pkg/suggest"
	"github.com/debleena1993/KPIChatbot/pkg/translate"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("store", cfg.Store.Host),
		zap.Bool("ai_configured", cfg.AI.IsConfigured()))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Store.ConnectionString(),
		MaxConnections: cfg.Store.MaxConnections,
	})
	if err != nil {
		logger.Fatal("failed to connect to state store", zap.Error(err))
	}
	defer db.Close()

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(sqlDB, cfg.Store.MigrationsPath, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Without an API key the AI tier stays off and every request takes
	// the deterministic fallback path.
	var generator llm.TextGenerator
	if cfg.AI.IsConfigured() {
		generator, err = llm.NewTextGenerator(&llm.Config{
			Provider: cfg.AI.Provider,
			Endpoint: cfg.AI.Endpoint,
			Model:    cfg.AI.Model,
			APIKey:   cfg.AI.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("failed to create text generator", zap.Error(err))
		}
	} else {
		logger.Warn("no AI API key configured, running fallback tiers only")
	}

	introspector := introspect.NewIntrospector(cfg.Timeouts.Connect(), cfg.Timeouts.Extraction(), logger)
	executor := introspect.NewExecutor(cfg.Timeouts.Connect(), cfg.Timeouts.Query(), logger)
	translator := translate.NewTranslator(generator, cfg.Timeouts.AI(), logger)
	suggester, err := suggest.NewSuggester(generator, cfg.Timeouts.AI(), logger)
	if err != nil {
		logger.Fatal("failed to create suggester", zap.Error(err))
	}

	store := registry.NewPostgresStore(db.Pool)
	chat := services.NewChatService(store, introspector, executor, translator, suggester, logger)

	accounts, err := auth.NewAccountStore(cfg.Auth.BankAdminPassword, cfg.Auth.ITHRAdminPassword)
	if err != nil {
		logger.Fatal("failed to build account store", zap.Error(err))
	}
	issuer := auth.NewTokenIssuer(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	authMW := auth.NewMiddleware(issuer, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(accounts, issuer, logger).RegisterRoutes(mux, authMW)
	handlers.NewConnectionHandler(chat, logger).RegisterRoutes(mux, authMW)
	handlers.NewQueryHandler(chat, logger).RegisterRoutes(mux, authMW)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting kpi-chatbot", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// newLogger builds a development logger locally and a production
// logger everywhere else.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
