package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"salespilot/services/chat-api/internal/domain/generation"
)

// Config carries the provider settings for the generation client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

// Client implements generation.Generator over any OpenAI-compatible
// chat-completion endpoint.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	retry   RetryConfig
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	retry := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retry:   retry,
		log:     log.With().Str("component", "llm-client").Logger(),
	}
}

// Complete issues one chat completion with a bounded per-call timeout and
// retries transient provider failures with exponential backoff.
func (c *Client) Complete(ctx context.Context, req generation.Request) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	completionReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.JSONOnly {
		completionReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	c.log.Debug().Str("model", c.model).Bool("json_only", req.JSONOnly).Msg("calling generation provider")

	resp, err := WithRetry(ctx, c.retry, "chat_completion", func() (*openai.ChatCompletionResponse, error) {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		resp, err := c.api.CreateChatCompletion(callCtx, completionReq)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
