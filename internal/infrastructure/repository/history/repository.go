package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/infrastructure/database/entities"
)

// Repository persists per-user conversation history in a single document per
// user, mirroring the append-only history contract.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database, collectionName string) *Repository {
	return &Repository{collection: db.Collection(collectionName)}
}

// GetHistory returns the most recent limit turns in chronological order. The
// slice is taken server-side with a $slice projection so unbounded histories
// never cross the wire.
func (r *Repository) GetHistory(ctx context.Context, userID string, limit int) ([]conversation.Turn, error) {
	opts := options.FindOne()
	if limit > 0 {
		opts.SetProjection(bson.M{"history": bson.M{"$slice": -limit}})
	}

	var doc entities.ChatHistory
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []conversation.Turn{}, nil
		}
		return nil, fmt.Errorf("find history for user %s: %w", userID, err)
	}

	turns := make([]conversation.Turn, 0, len(doc.History))
	for _, entry := range doc.History {
		turns = append(turns, conversation.Turn{
			Question:  entry.Question,
			Answer:    entry.Answer,
			Timestamp: entry.Timestamp,
		})
	}
	return turns, nil
}

// SaveInteraction appends one turn with upsert semantics. Concurrent appends
// to the same user are safe because $push is additive.
func (r *Repository) SaveInteraction(ctx context.Context, userID, question, answer string) error {
	entry := entities.HistoryTurn{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{"history": entry}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("append interaction for user %s: %w", userID, err)
	}
	return nil
}
