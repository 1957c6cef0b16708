package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"salespilot/services/chat-api/internal/config"
	"salespilot/services/chat-api/internal/domain/chat"
	"salespilot/services/chat-api/internal/domain/intent"
	"salespilot/services/chat-api/internal/domain/query"
	"salespilot/services/chat-api/internal/domain/response"
	"salespilot/services/chat-api/internal/infrastructure/database"
	"salespilot/services/chat-api/internal/infrastructure/llm"
	"salespilot/services/chat-api/internal/infrastructure/logger"
	"salespilot/services/chat-api/internal/infrastructure/observability"
	historyrepo "salespilot/services/chat-api/internal/infrastructure/repository/history"
	salesrepo "salespilot/services/chat-api/internal/infrastructure/repository/sales"
	"salespilot/services/chat-api/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	mongoClient, err := database.Connect(ctx, database.Config{
		URI:            cfg.MongoURL,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer database.Disconnect(context.Background(), mongoClient, log)

	db := mongoClient.Database(cfg.MongoDatabase)

	generator := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Timeout:     cfg.LLMTimeout,
		MaxAttempts: cfg.LLMMaxAttempts,
	}, log)

	historyRepository := historyrepo.NewRepository(db, cfg.HistoryCollection)
	salesRepository := salesrepo.NewRepository(db, cfg.SalesCollection, cfg.ResultCap)

	guard := query.NewGuard(cfg.MaxPipelineStages)
	executor := query.NewExecutor(salesRepository, log)
	intentSynthesizer := intent.NewSynthesizer(generator, guard, log)
	responseSynthesizer := response.NewSynthesizer(generator, log)
	chatService := chat.NewService(historyRepository, intentSynthesizer, executor, responseSynthesizer, cfg.HistoryLimit, log)

	ready := func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	}

	httpServer := httpserver.New(cfg, log, chatService, ready)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
