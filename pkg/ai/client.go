package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-action-board/pkg/config"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

// Options configures an LLMClient
type Options struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float32
	MaxTokens         int
	Timeout           time.Duration
	MaxRetries        uint64
	RequestsPerMinute int
	// RetryInitialInterval is the first backoff wait, 500ms when zero
	RetryInitialInterval time.Duration
}

// OptionsFromConfig maps the AI section of the application config
func OptionsFromConfig(cfg config.AIConfig) Options {
	return Options{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Model:             cfg.Model,
		Temperature:       cfg.Temperature,
		MaxTokens:         cfg.MaxTokens,
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
}

// LLMClient sends chat completions to an OpenAI compatible endpoint (Groq by default)
type LLMClient struct {
	client  *openai.Client
	opts    Options
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewLLMClient creates a client. A zero RequestsPerMinute disables pacing.
func NewLLMClient(opts Options, logger *zap.Logger) *LLMClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	httpClient := &http.Client{}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}
	cfg.HTTPClient = httpClient

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	return &LLMClient{
		client:  openai.NewClientWithConfig(cfg),
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Model returns the configured model name
func (c *LLMClient) Model() string {
	return c.opts.Model
}

// CompleteJSON runs one chat completion in JSON object mode and returns the
// assistant content. Retries happen only when MaxRetries > 0 and the error is retryable.
func (c *LLMClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var content string
	attempt := 0
	call := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			c.logger.Warn("chat completion failed",
				zap.String("model", c.opts.Model),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("empty response from model %s", c.opts.Model))
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	if c.opts.MaxRetries == 0 {
		if err := call(); err != nil {
			return "", unwrapPermanent(err)
		}
		return content, nil
	}

	bo := backoff.NewExponentialBackOff()
	if c.opts.RetryInitialInterval > 0 {
		bo.InitialInterval = c.opts.RetryInitialInterval
	}
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(call, backoff.WithContext(backoff.WithMaxRetries(bo, c.opts.MaxRetries), ctx)); err != nil {
		return "", err
	}
	return content, nil
}

func unwrapPermanent(err error) error {
	if perm, ok := err.(*backoff.PermanentError); ok {
		return perm.Err
	}
	return err
}
