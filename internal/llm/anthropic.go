package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient implements LLMClient on the Anthropic Messages API.
type anthropicClient struct {
	cfg      Config
	inner    anthropic.Client
	model    anthropic.Model
	observer Observer
}

// NewAnthropicClient creates an LLMClient backed by the hosted Anthropic API.
// An empty Config.Endpoint uses the SDK default base URL.
func NewAnthropicClient(cfg Config, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key is not set", ErrNotConfigured)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	return &anthropicClient{
		cfg:      cfg,
		inner:    anthropic.NewClient(opts...),
		model:    model,
		observer: observerOrNoop(observer),
	}, nil
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	temp, maxTok := c.cfg.taskParams(req)
	retries := c.cfg.retries(req)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(maxTok),
		Temperature: anthropic.Float(temp),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	event := LLMCallEvent{Task: req.Task, Provider: ProviderAnthropic, Model: string(c.model), Attempts: 1 + retries}

	resp, err := c.inner.Messages.New(ctx, params, option.WithMaxRetries(retries))
	event.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		err = c.classify(ctx, err)
		event.ErrorCode = ErrorCode(err)
		c.observer.OnCallComplete(event)
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	event.Success = true
	c.observer.OnCallComplete(event)
	return &GenerateResponse{
		Text:      text.String(),
		Model:     string(resp.Model),
		LatencyMs: event.LatencyMs,
	}, nil
}

func (c *anthropicClient) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(err) {
		return ErrUnavailable
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: anthropic returned status %d", ErrRetryExhausted, apiErr.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}
