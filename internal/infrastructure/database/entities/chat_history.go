package entities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHistory is the per-user history document. Turns are only ever appended
// via $push; the document is created on first interaction with an upsert.
type ChatHistory struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  string             `bson:"user_id"`
	History []HistoryTurn      `bson:"history"`
}

// HistoryTurn is one stored question/answer exchange.
type HistoryTurn struct {
	Question  string    `bson:"question"`
	Answer    string    `bson:"answer"`
	Timestamp time.Time `bson:"timestamp"`
}
