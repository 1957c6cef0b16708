package intent_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/domain/generation"
	"salespilot/services/chat-api/internal/domain/intent"
	"salespilot/services/chat-api/internal/domain/query"
)

type fakeGenerator struct {
	got      generation.Request
	response string
	err      error
}

func (f *fakeGenerator) Complete(ctx context.Context, req generation.Request) (string, error) {
	f.got = req
	return f.response, f.err
}

func newSynthesizer(gen generation.Generator) *intent.Synthesizer {
	return intent.NewSynthesizer(gen, query.NewGuard(16), zerolog.Nop())
}

func TestGenerateQueryIntent_DataQuery(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"reasoning": "User asks for total electronics revenue.",
		"is_database_query": true,
		"pipeline": [
			{"$match": {"company": "acme", "category": "Electronics"}},
			{"$group": {"_id": null, "total": {"$sum": {"$multiply": ["$price", "$quantity"]}}}}
		]
	}`}

	got := newSynthesizer(gen).GenerateQueryIntent(context.Background(), "electronics revenue?", nil, "acme")

	if !got.IsDatabaseQuery {
		t.Fatal("expected a data-query classification")
	}
	if len(got.Pipeline) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(got.Pipeline))
	}
	if !gen.got.JSONOnly {
		t.Error("intent generation must request JSON-only output")
	}
}

func TestGenerateQueryIntent_StripsCodeFences(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"reasoning\": \"greeting\", \"is_database_query\": false, \"pipeline\": []}\n```"}

	got := newSynthesizer(gen).GenerateQueryIntent(context.Background(), "hello", nil, "acme")

	if got.IsDatabaseQuery {
		t.Error("greeting should classify as general chat")
	}
	if got.Reasoning != "greeting" {
		t.Errorf("reasoning = %q, want greeting", got.Reasoning)
	}
}

func TestGenerateQueryIntent_MalformedJSONDegrades(t *testing.T) {
	gen := &fakeGenerator{response: "sure, here is the pipeline you asked for"}

	got := newSynthesizer(gen).GenerateQueryIntent(context.Background(), "sales by month", nil, "acme")

	if got.IsDatabaseQuery {
		t.Error("malformed response must degrade to general chat")
	}
	if !strings.HasPrefix(got.Reasoning, "Error: ") {
		t.Errorf("degraded reasoning should carry the error, got %q", got.Reasoning)
	}
}

func TestGenerateQueryIntent_GeneratorFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream timeout")}

	got := newSynthesizer(gen).GenerateQueryIntent(context.Background(), "sales by month", nil, "acme")

	if got.IsDatabaseQuery {
		t.Error("generator failure must degrade to general chat")
	}
	if !strings.Contains(got.Reasoning, "upstream timeout") {
		t.Errorf("degraded reasoning should carry the cause, got %q", got.Reasoning)
	}
}

func TestGenerateQueryIntent_PrependsTenantFilter(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"reasoning": "Top categories.",
		"is_database_query": true,
		"pipeline": [{"$group": {"_id": "$category", "n": {"$sum": 1}}}]
	}`}

	got := newSynthesizer(gen).GenerateQueryIntent(context.Background(), "top categories", nil, "acme")

	if !got.IsDatabaseQuery {
		t.Fatal("expected a data-query classification")
	}
	if len(got.Pipeline) != 2 {
		t.Fatalf("expected the tenant match prepended, got %d stages", len(got.Pipeline))
	}
	match := got.Pipeline[0]["$match"].(map[string]any)
	if match["company"] != "acme" {
		t.Errorf("first stage filters on %v, want acme", match["company"])
	}
}

func TestGenerateQueryIntent_CrossTenantDegrades(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"reasoning": "Peek at another tenant.",
		"is_database_query": true,
		"pipeline": [{"$match": {"company": "globex"}}]
	}`}

	got := newSynthesizer(gen).GenerateQueryIntent(context.Background(), "globex sales", nil, "acme")

	if got.IsDatabaseQuery {
		t.Error("cross-tenant pipeline must not survive as a data query")
	}
	if got.Reasoning == "" {
		t.Error("degraded intent should explain itself")
	}
}

func TestGenerateQueryIntent_PromptCarriesContext(t *testing.T) {
	gen := &fakeGenerator{response: `{"reasoning": "x", "is_database_query": false, "pipeline": []}`}
	pinned := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	synth := newSynthesizer(gen).WithClock(func() time.Time { return pinned })

	history := []conversation.Turn{{Question: "hi", Answer: "hello"}}
	synth.GenerateQueryIntent(context.Background(), "how were sales last month?", history, "acme")

	prompt := gen.got.Prompt
	if !strings.Contains(prompt, pinned.Format(time.RFC3339)) {
		t.Error("prompt should embed the pinned current time")
	}
	if !strings.Contains(prompt, `"acme"`) {
		t.Error("prompt should name the target company")
	}
	if !strings.Contains(prompt, "User: hi") || !strings.Contains(prompt, "Assistant: hello") {
		t.Error("prompt should include flattened history")
	}
	if !strings.Contains(prompt, "how were sales last month?") {
		t.Error("prompt should include the user request")
	}
}
