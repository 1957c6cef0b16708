package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/domain/conversation"
	"salespilot/services/chat-api/internal/domain/intent"
	"salespilot/services/chat-api/internal/domain/query"
	"salespilot/services/chat-api/internal/domain/response"
	"salespilot/services/chat-api/internal/infrastructure/metrics"
)

// FallbackMessage is returned when response synthesis itself fails. The
// caller never sees a raw provider error; a degraded answer is still a real
// conversational turn.
const FallbackMessage = "I'm having trouble answering right now. Please try again in a moment."

// Result is the outcome of one chat turn. Pipeline is populated only on the
// data path, for diagnostic transparency.
type Result struct {
	Response string
	Pipeline query.Pipeline
}

// Service orchestrates one chat turn: history, intent, optional execution,
// response synthesis and unconditional persistence.
type Service struct {
	history      conversation.Repository
	synthesizer  *intent.Synthesizer
	executor     *query.Executor
	responder    *response.Synthesizer
	historyLimit int
	log          zerolog.Logger
}

func NewService(
	history conversation.Repository,
	synthesizer *intent.Synthesizer,
	executor *query.Executor,
	responder *response.Synthesizer,
	historyLimit int,
	log zerolog.Logger,
) *Service {
	return &Service{
		history:      history,
		synthesizer:  synthesizer,
		executor:     executor,
		responder:    responder,
		historyLimit: historyLimit,
		log:          log.With().Str("component", "chat-service").Logger(),
	}
}

// Chat processes one user message for a tenant. Model and query faults
// degrade inside their components; history store faults propagate, since a
// chat service that cannot read or write memory is genuinely broken.
func (s *Service) Chat(ctx context.Context, userID, message, tenant string) (*Result, error) {
	history, err := s.history.GetHistory(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	generated := s.synthesizer.GenerateQueryIntent(ctx, message, history, tenant)

	result := &Result{}
	if generated.IsDatabaseQuery {
		records, err := s.executor.Execute(ctx, generated.Pipeline)
		if err != nil {
			// Degrade to "no data": the turn still gets a grounded answer.
			s.log.Error().Err(err).Str("user_id", userID).Msg("query failed, continuing with empty results")
			records = []query.Record{}
		}

		answer, err := s.responder.Grounded(ctx, message, records)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("grounded synthesis failed")
			answer = FallbackMessage
		}
		result.Response = answer
		result.Pipeline = generated.Pipeline
	} else {
		answer, err := s.responder.General(ctx, message, history)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("general synthesis failed")
			answer = FallbackMessage
		}
		result.Response = answer
	}

	if err := s.history.SaveInteraction(ctx, userID, message, result.Response); err != nil {
		return nil, fmt.Errorf("save interaction: %w", err)
	}
	metrics.InteractionsSavedTotal.Inc()

	return result, nil
}

// History returns the most recent limit turns for a user.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]conversation.Turn, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	turns, err := s.history.GetHistory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return turns, nil
}
