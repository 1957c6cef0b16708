package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config carries the connection settings for the document store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connect establishes the MongoDB client and verifies the connection with a
// ping before handing it out.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("MongoDB connection established")
	return client, nil
}

// Disconnect closes the client, logging rather than failing on error.
func Disconnect(ctx context.Context, client *mongo.Client, log zerolog.Logger) {
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("disconnect mongodb")
	}
}
