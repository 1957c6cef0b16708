package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/domain/chat"
	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/domain/generation"
	"salespilot/services/chat-api/internal/domain/intent"
	"salespilot/services/chat-api/internal/domain/query"
	"salespilot/services/chat-api/internal/domain/response"
)

// scriptedGenerator answers structured calls with intentJSON and prose calls
// with answer, mirroring the two generation roles the service exercises.
type scriptedGenerator struct {
	intentJSON  string
	answer      string
	answerErr   error
	prosePrompt string
}

func (g *scriptedGenerator) Complete(ctx context.Context, req generation.Request) (string, error) {
	if req.JSONOnly {
		return g.intentJSON, nil
	}
	g.prosePrompt = req.Prompt
	return g.answer, g.answerErr
}

type fakeHistoryRepo struct {
	turns     []conversation.Turn
	getErr    error
	saveErr   error
	saved     bool
	savedUser string
	savedQ    string
	savedA    string
}

func (f *fakeHistoryRepo) GetHistory(ctx context.Context, userID string, limit int) ([]conversation.Turn, error) {
	return f.turns, f.getErr
}

func (f *fakeHistoryRepo) SaveInteraction(ctx context.Context, userID, question, answer string) error {
	f.saved = true
	f.savedUser = userID
	f.savedQ = question
	f.savedA = answer
	return f.saveErr
}

type fakeSalesRepo struct {
	records []query.Record
	err     error
	calls   int
}

func (f *fakeSalesRepo) Aggregate(ctx context.Context, pipeline query.Pipeline) ([]query.Record, error) {
	f.calls++
	return f.records, f.err
}

func newService(gen generation.Generator, history conversation.Repository, sales query.Repository) *chat.Service {
	log := zerolog.Nop()
	return chat.NewService(
		history,
		intent.NewSynthesizer(gen, query.NewGuard(16), log),
		query.NewExecutor(sales, log),
		response.NewSynthesizer(gen, log),
		50,
		log,
	)
}

const dataIntentJSON = `{
	"reasoning": "Revenue question.",
	"is_database_query": true,
	"pipeline": [{"$match": {"company": "acme"}}, {"$group": {"_id": null, "total": {"$sum": "$price"}}}]
}`

const chatIntentJSON = `{"reasoning": "Small talk.", "is_database_query": false, "pipeline": []}`

func TestChat_DataQueryPath(t *testing.T) {
	gen := &scriptedGenerator{intentJSON: dataIntentJSON, answer: "Total revenue was $5,000."}
	history := &fakeHistoryRepo{}
	sales := &fakeSalesRepo{records: []query.Record{{"total": 5000}}}

	result, err := newService(gen, history, sales).Chat(context.Background(), "u1", "total revenue?", "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Response != "Total revenue was $5,000." {
		t.Errorf("response = %q", result.Response)
	}
	if len(result.Pipeline) == 0 {
		t.Error("data path should expose the executed pipeline")
	}
	if sales.calls != 1 {
		t.Errorf("expected one aggregation, got %d", sales.calls)
	}
	if !history.saved || history.savedQ != "total revenue?" || history.savedA != result.Response {
		t.Errorf("turn not persisted as asked/answered: %+v", history)
	}
}

func TestChat_GeneralPath(t *testing.T) {
	gen := &scriptedGenerator{intentJSON: chatIntentJSON, answer: "Hello! How can I help?"}
	history := &fakeHistoryRepo{}
	sales := &fakeSalesRepo{}

	result, err := newService(gen, history, sales).Chat(context.Background(), "u1", "hi there", "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Response != "Hello! How can I help?" {
		t.Errorf("response = %q", result.Response)
	}
	if len(result.Pipeline) != 0 {
		t.Error("general path should not expose a pipeline")
	}
	if sales.calls != 0 {
		t.Errorf("general path must not touch the sales store, got %d calls", sales.calls)
	}
	if !history.saved {
		t.Error("general turns must still be persisted")
	}
}

func TestChat_ExecutorFailureDegradesToNoData(t *testing.T) {
	gen := &scriptedGenerator{intentJSON: dataIntentJSON, answer: response.NoDataMessage}
	history := &fakeHistoryRepo{}
	sales := &fakeSalesRepo{err: errors.New("cursor timeout")}

	result, err := newService(gen, history, sales).Chat(context.Background(), "u1", "revenue?", "acme")
	if err != nil {
		t.Fatalf("query failure must not fail the turn: %v", err)
	}
	if !strings.Contains(gen.prosePrompt, "[] (No matches)") {
		t.Errorf("failed query should ground the answer in empty data, prompt: %q", gen.prosePrompt)
	}
	if result.Response == "" {
		t.Error("degraded turn should still produce an answer")
	}
	if !history.saved {
		t.Error("degraded turns must still be persisted")
	}
}

func TestChat_SynthesisFailureFallsBack(t *testing.T) {
	gen := &scriptedGenerator{intentJSON: chatIntentJSON, answerErr: errors.New("model unavailable")}
	history := &fakeHistoryRepo{}

	result, err := newService(gen, history, &fakeSalesRepo{}).Chat(context.Background(), "u1", "hi", "acme")
	if err != nil {
		t.Fatalf("synthesis failure must not fail the turn: %v", err)
	}
	if result.Response != chat.FallbackMessage {
		t.Errorf("response = %q, want the fallback message", result.Response)
	}
	if !history.saved || history.savedA != chat.FallbackMessage {
		t.Error("fallback answer must be persisted like any other")
	}
}

func TestChat_HistoryLoadFailurePropagates(t *testing.T) {
	gen := &scriptedGenerator{intentJSON: chatIntentJSON, answer: "hi"}
	history := &fakeHistoryRepo{getErr: errors.New("primary stepped down")}

	_, err := newService(gen, history, &fakeSalesRepo{}).Chat(context.Background(), "u1", "hi", "acme")
	if err == nil {
		t.Fatal("history load failure must propagate")
	}
	if history.saved {
		t.Error("nothing should be persisted when the turn fails")
	}
}

func TestChat_SaveFailurePropagates(t *testing.T) {
	gen := &scriptedGenerator{intentJSON: chatIntentJSON, answer: "hi"}
	history := &fakeHistoryRepo{saveErr: errors.New("disk full")}

	_, err := newService(gen, history, &fakeSalesRepo{}).Chat(context.Background(), "u1", "hi", "acme")
	if err == nil {
		t.Fatal("save failure must propagate")
	}
}

func TestHistory_ClampsLimit(t *testing.T) {
	gen := &scriptedGenerator{}
	history := &fakeHistoryRepo{turns: []conversation.Turn{{Question: "q", Answer: "a"}}}
	service := newService(gen, history, &fakeSalesRepo{})

	turns, err := service.History(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 1 {
		t.Errorf("expected stored turns back, got %d", len(turns))
	}

	if _, err := service.History(context.Background(), "u1", 10_000); err != nil {
		t.Errorf("oversized limit should be clamped, not rejected: %v", err)
	}
}
