package conversation

import (
	"context"
	"time"
)

// Turn is one question/answer exchange in a user's chat history.
// Turns are immutable once written; the history only ever grows.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Repository defines history persistence operations needed by the chat service.
type Repository interface {
	// GetHistory returns the most recent limit turns in chronological order.
	// Unknown users yield an empty slice, not an error.
	GetHistory(ctx context.Context, userID string, limit int) ([]Turn, error)

	// SaveInteraction appends one turn with a server-assigned timestamp,
	// creating the history document if absent.
	SaveInteraction(ctx context.Context, userID, question, answer string) error
}

// Flatten renders turns as alternating User/Assistant lines for prompt context.
func Flatten(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	out := ""
	for i, turn := range turns {
		if i > 0 {
			out += "\n"
		}
		out += "User: " + turn.Question + "\nAssistant: " + turn.Answer
	}
	return out
}
