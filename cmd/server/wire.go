//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"salespilot/services/chat-api/internal/config"
	"salespilot/services/chat-api/internal/domain/chat"
	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/domain/generation"
	"salespilot/services/chat-api/internal/domain/intent"
	"salespilot/services/chat-api/internal/domain/query"
	"salespilot/services/chat-api/internal/domain/response"
	"salespilot/services/chat-api/internal/infrastructure/database"
	"salespilot/services/chat-api/internal/infrastructure/llm"
	"salespilot/services/chat-api/internal/infrastructure/logger"
	historyrepo "salespilot/services/chat-api/internal/infrastructure/repository/history"
	salesrepo "salespilot/services/chat-api/internal/infrastructure/repository/sales"
	"salespilot/services/chat-api/internal/interfaces/httpserver"
	"salespilot/services/chat-api/internal/interfaces/httpserver/handlers/chathandler"
)

var chatSet = wire.NewSet(
	provideHistoryRepository,
	wire.Bind(new(conversation.Repository), new(*historyrepo.Repository)),
	provideSalesRepository,
	wire.Bind(new(query.Repository), new(*salesrepo.Repository)),
	provideGuard,
	query.NewExecutor,
	intent.NewSynthesizer,
	response.NewSynthesizer,
	provideChatService,
	wire.Bind(new(chathandler.ChatService), new(*chat.Service)),
)

// BuildApplication assembles the chat API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMongoClient,
		provideMongoDatabase,
		provideGenerator,
		chatSet,
		provideReadiness,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func provideMongoClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongo.Client, error) {
	return database.Connect(ctx, database.Config{
		URI:            cfg.MongoURL,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, log)
}

func provideMongoDatabase(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(cfg.MongoDatabase)
}

func provideGenerator(cfg *config.Config, log zerolog.Logger) generation.Generator {
	return llm.NewClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Timeout:     cfg.LLMTimeout,
		MaxAttempts: cfg.LLMMaxAttempts,
	}, log)
}

func provideHistoryRepository(db *mongo.Database, cfg *config.Config) *historyrepo.Repository {
	return historyrepo.NewRepository(db, cfg.HistoryCollection)
}

func provideSalesRepository(db *mongo.Database, cfg *config.Config) *salesrepo.Repository {
	return salesrepo.NewRepository(db, cfg.SalesCollection, cfg.ResultCap)
}

func provideGuard(cfg *config.Config) *query.Guard {
	return query.NewGuard(cfg.MaxPipelineStages)
}

func provideChatService(
	history conversation.Repository,
	synthesizer *intent.Synthesizer,
	executor *query.Executor,
	responder *response.Synthesizer,
	cfg *config.Config,
	log zerolog.Logger,
) *chat.Service {
	return chat.NewService(history, synthesizer, executor, responder, cfg.HistoryLimit, log)
}

func provideReadiness(client *mongo.Client) httpserver.ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}
