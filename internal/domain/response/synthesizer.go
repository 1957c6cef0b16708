package response

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/domain/generation"
	"salespilot/services/chat-api/internal/domain/query"
	"salespilot/services/chat-api/internal/infrastructure/metrics"
)

// NoDataMessage is the fixed phrasing for an empty result set. The grounded
// system instruction quotes it verbatim so the model repeats it instead of
// inventing an answer.
const NoDataMessage = "I couldn't find any sales records matching that request."

const groundedSystemInstruction = `You are a precise Data Analyst Assistant. You answer user questions based ONLY on the provided database results.

### GUIDELINES
1. **Grounding**: Answer ONLY using the "CONTEXT DATA". Do not use outside knowledge.
2. **No Data**: If the dataset is empty ` + "`[]`" + `, say "` + NoDataMessage + `"
3. **Format**: Format currency as $X,XXX. Do not show JSON syntax or pipeline code to the user.`

const generalSystemInstruction = `You are a helpful Business Assistant for a Sales Analytics platform.

### GOALS
1. **Persona**: Professional, friendly, and helpful.
2. **Memory**: You have access to the "HISTORY OF CONVERSATION". **You must use this history to recall details the user has shared previously**, such as their name, preferences, or previous questions.
3. **Scope**:
   - If the user asks "What is my name?", check the HISTORY. If they stated it earlier, tell them.
   - If the user asks "What do you do?", explain you are a Sales Data Assistant.
   - If the user asks about data (e.g., "sales?"), ask them to provide more specific details.

### RULES
- Do NOT make up information. If the user's name is not in the history, say "I don't think you've told me your name yet."`

// Synthesizer turns query results or conversation history into prose answers.
type Synthesizer struct {
	gen generation.Generator
	log zerolog.Logger
}

func NewSynthesizer(gen generation.Generator, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		gen: gen,
		log: log.With().Str("component", "response-synthesizer").Logger(),
	}
}

// Grounded answers strictly from the supplied records. An empty result set is
// surfaced to the model as "[] (No matches)" so the fixed no-data phrasing is
// used rather than a hallucinated answer.
func (s *Synthesizer) Grounded(ctx context.Context, message string, records []query.Record) (string, error) {
	data := "[] (No matches)"
	if len(records) > 0 {
		encoded, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode result data: %w", err)
		}
		data = string(encoded)
	}

	prompt := fmt.Sprintf("User Request: %s\nDB Data: %s\nFormulate answer.", message, data)

	answer, err := s.gen.Complete(ctx, generation.Request{
		System: groundedSystemInstruction,
		Prompt: prompt,
	})
	if err != nil {
		metrics.GenerationErrorsTotal.WithLabelValues("grounded_response").Inc()
		return "", fmt.Errorf("grounded response: %w", err)
	}
	return answer, nil
}

// General handles messages that did not warrant a data query, grounded in the
// conversation history alone.
func (s *Synthesizer) General(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	prompt := fmt.Sprintf("History: %s\nUser: %s", conversation.Flatten(history), message)

	answer, err := s.gen.Complete(ctx, generation.Request{
		System: generalSystemInstruction,
		Prompt: prompt,
	})
	if err != nil {
		metrics.GenerationErrorsTotal.WithLabelValues("general_response").Inc()
		return "", fmt.Errorf("general response: %w", err)
	}
	return answer, nil
}
