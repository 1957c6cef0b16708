package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/domain/generation"
	"salespilot/services/chat-api/internal/domain/query"
	"salespilot/services/chat-api/internal/infrastructure/metrics"
)

// Synthesizer classifies a message as data-query or general chat and, for
// data queries, produces a pipeline structurally scoped to one tenant.
type Synthesizer struct {
	gen   generation.Generator
	guard *query.Guard
	clock func() time.Time
	log   zerolog.Logger
}

func NewSynthesizer(gen generation.Generator, guard *query.Guard, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		gen:   gen,
		guard: guard,
		clock: time.Now,
		log:   log.With().Str("component", "intent-synthesizer").Logger(),
	}
}

// WithClock overrides the wall-clock source. Tests use it to pin the
// "Current Time" the prompt embeds for resolving relative dates.
func (s *Synthesizer) WithClock(clock func() time.Time) *Synthesizer {
	s.clock = clock
	return s
}

// GenerateQueryIntent never fails: a broken structured response must not
// break the user-facing chat turn, so every generator, parse or validation
// fault degrades to a general-chat classification carrying the error text.
func (s *Synthesizer) GenerateQueryIntent(ctx context.Context, message string, history []conversation.Turn, tenant string) query.Intent {
	prompt := fmt.Sprintf(queryPromptTemplate,
		s.clock().Format(time.RFC3339),
		tenant,
		conversation.Flatten(history),
		message,
	)

	raw, err := s.gen.Complete(ctx, generation.Request{
		System:   querySystemInstruction,
		Prompt:   prompt,
		JSONOnly: true,
	})
	if err != nil {
		metrics.GenerationErrorsTotal.WithLabelValues("query_intent").Inc()
		return s.degraded(fmt.Errorf("generate intent: %w", err))
	}

	var parsed query.Intent
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return s.degraded(fmt.Errorf("parse intent JSON: %w", err))
	}

	if !parsed.IsDatabaseQuery {
		metrics.IntentClassificationsTotal.WithLabelValues("general_chat").Inc()
		return parsed
	}

	scoped, rewritten, err := s.guard.EnforceTenantScope(parsed.Pipeline, tenant)
	if err != nil {
		if errors.Is(err, query.ErrCrossTenant) {
			s.log.Warn().Str("tenant", tenant).Msg("generated pipeline crossed tenant boundary")
		}
		return s.degraded(fmt.Errorf("validate pipeline: %w", err))
	}
	if rewritten {
		metrics.TenantScopeRewritesTotal.Inc()
		s.log.Warn().Str("tenant", tenant).Msg("prepended missing tenant filter to generated pipeline")
	}
	parsed.Pipeline = scoped

	metrics.IntentClassificationsTotal.WithLabelValues("data_query").Inc()
	return parsed
}

func (s *Synthesizer) degraded(err error) query.Intent {
	metrics.IntentClassificationsTotal.WithLabelValues("degraded").Inc()
	s.log.Warn().Err(err).Msg("intent synthesis degraded to general chat")
	return query.Intent{
		Reasoning:       "Error: " + err.Error(),
		IsDatabaseQuery: false,
	}
}

// stripCodeFences removes surrounding markdown code-fence markup some
// providers wrap JSON responses in.
func stripCodeFences(raw string) string {
	out := strings.TrimSpace(raw)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
