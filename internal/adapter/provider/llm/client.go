// Package llm calls an OpenAI-compatible chat-completion endpoint (Groq by
// default) with fixed sampling parameters.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pollylang/pollylang-backend/internal/domain"
	"github.com/pollylang/pollylang-backend/internal/observability"
)

const (
	defaultBaseURL     = "https://api.groq.com/openai/v1/"
	defaultModel       = "llama-3.1-8b-instant"
	defaultTemperature = 0.6
	defaultMaxTokens   = 40
	defaultTimeout     = 20 * time.Second

	systemName = "groq"
)

// Config holds the endpoint and sampling settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client sends one system and one user message per call.
// SDK-level retries are disabled; the dialogue layer owns the retry policy.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
	tracer      trace.Tracer
	log         *slog.Logger
}

// NewClient creates a Client. Zero fields in cfg take the defaults, except
// Temperature, which is used as given.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithMaxRetries(0),
		),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
		timeout:     cfg.Timeout,
		tracer:      otel.Tracer("pollylang/llm"),
		log:         logger.With("adapter", "llm"),
	}
}

// Generate returns the trimmed content of the first choice. An empty choice
// list yields "". Failures are reported as *domain.GenerationError carrying
// the remote error body when there is one.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "llm.chat",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(observability.GenAIAttributes(systemName, c.model, c.temperature, c.maxTokens)...),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	if err != nil {
		genErr := toGenerationError(err)
		span.RecordError(genErr)
		span.SetStatus(codes.Error, "llm completion failed")
		c.log.ErrorContext(ctx, "llm request failed",
			slog.Int("status", genErr.StatusCode),
			slog.String("error", genErr.Error()),
		)
		return "", genErr
	}

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", time.Since(start).Milliseconds()),
	)

	if len(resp.Choices) == 0 {
		c.log.WarnContext(ctx, "llm returned no choices")
		return "", nil
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	span.SetAttributes(attribute.String("gen_ai.response.finish_reason", string(resp.Choices[0].FinishReason)))

	c.log.DebugContext(ctx, "llm response",
		slog.Int("chars", len(text)),
		slog.Duration("took", time.Since(start)),
	)
	return text, nil
}

func toGenerationError(err error) *domain.GenerationError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &domain.GenerationError{
			StatusCode: apiErr.StatusCode,
			Body:       strings.TrimSpace(apiErr.RawJSON()),
			Err:        err,
		}
	}
	return &domain.GenerationError{Err: err}
}
