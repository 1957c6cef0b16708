package query

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"salespilot/services/chat-api/internal/infrastructure/metrics"
)

// Executor runs sanitized pipelines against the sales repository.
//
// It returns a real error on execution failure rather than masking it as an
// empty result set, so callers and tests can tell "no data" apart from "the
// query broke". The chat orchestrator is the one place that chooses to
// degrade a failure to an empty result.
type Executor struct {
	repo Repository
	log  zerolog.Logger
}

func NewExecutor(repo Repository, log zerolog.Logger) *Executor {
	return &Executor{
		repo: repo,
		log:  log.With().Str("component", "query-executor").Logger(),
	}
}

// Execute sanitizes date wrappers and issues one aggregation call. An empty
// pipeline short-circuits to an empty result without touching the store.
func (e *Executor) Execute(ctx context.Context, pipeline Pipeline) ([]Record, error) {
	if len(pipeline) == 0 {
		return []Record{}, nil
	}

	sanitized := SanitizeDates(pipeline)

	records, err := e.repo.Aggregate(ctx, sanitized)
	if err != nil {
		metrics.PipelineExecutionsTotal.WithLabelValues("error").Inc()
		e.log.Error().Err(err).Int("stages", len(pipeline)).Msg("pipeline execution failed")
		return nil, fmt.Errorf("execute pipeline: %w", err)
	}

	metrics.PipelineExecutionsTotal.WithLabelValues("ok").Inc()
	return records, nil
}
