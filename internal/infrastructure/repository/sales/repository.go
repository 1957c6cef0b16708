package sales

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"salespilot/services/chat-api/internal/domain/query"
)

// Repository runs aggregation pipelines against the shared sales collection.
type Repository struct {
	collection *mongo.Collection
	resultCap  int
}

func NewRepository(db *mongo.Database, collectionName string, resultCap int) *Repository {
	return &Repository{
		collection: db.Collection(collectionName),
		resultCap:  resultCap,
	}
}

// Aggregate issues one aggregation call and drains at most resultCap records
// from the cursor, normalizing each for plain-JSON use downstream.
func (r *Repository) Aggregate(ctx context.Context, pipeline query.Pipeline) ([]query.Record, error) {
	stages := make(mongo.Pipeline, 0, len(pipeline))
	for _, stage := range pipeline {
		doc, err := toBSONDocument(stage)
		if err != nil {
			return nil, fmt.Errorf("encode stage: %w", err)
		}
		stages = append(stages, doc)
	}

	cursor, err := r.collection.Aggregate(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]query.Record, 0)
	for cursor.Next(ctx) {
		if r.resultCap > 0 && len(records) >= r.resultCap {
			break
		}
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		records = append(records, normalizeRecord(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

func toBSONDocument(stage query.Stage) (bson.D, error) {
	raw, err := bson.Marshal(stage)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
