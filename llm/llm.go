package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/auth"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption  OptionType = "model"
	MaxTokensOption  OptionType = "max_tokens"
	APITimeoutOption OptionType = "api_timeout"
	RetryOption      OptionType = "retry"
	BaseURLOption    OptionType = "base_url"
	// CredentialsOption is only read by the Vertex AI backend
	CredentialsOption OptionType = "credentials"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel creates an option to set the model name
func WithModel(model string) Option {
	return Option{
		Type:  ModelNameOption,
		Value: model,
	}
}

// WithMaxTokens creates an option to set the max tokens
func WithMaxTokens(maxTokens int) Option {
	return Option{
		Type:  MaxTokensOption,
		Value: maxTokens,
	}
}

// WithAPITimeout creates an option to set the API timeout in seconds, 0 disables it
func WithAPITimeout(timeout int) Option {
	return Option{
		Type:  APITimeoutOption,
		Value: timeout,
	}
}

// WithRetryConfig creates an option to set the HTTP retry policy
func WithRetryConfig(config common.RetryConfig) Option {
	return Option{
		Type:  RetryOption,
		Value: config,
	}
}

// WithBaseURL creates an option to point the provider at a different endpoint
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithCredentials creates an option to use explicit Google Cloud credentials
// instead of Application Default Credentials
func WithCredentials(credentials *auth.Credentials) Option {
	return Option{
		Type:  CredentialsOption,
		Value: credentials,
	}
}

// Config is everything needed to reach a model service
type Config struct {
	Provider  string
	Model     string
	Project   string
	Region    string
	APIKey    string
	BaseURL   string
	MaxTokens int
	// Timeout is in seconds, 0 waits indefinitely
	Timeout int
	Retry   common.RetryConfig
}

// Request is a single prediction request
type Request struct {
	Prompt string
}

// Response represents the response from the LLM
type Response struct {
	Content string
	Error   error
}

// Empty reports a successful call that carried no usable text
func (r Response) Empty() bool {
	return r.Error == nil && r.Content == ""
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends a request to the language model and returns its response
	Prompt(ctx context.Context, req Request) Response
}

// NewLLM creates the client for cfg.Provider
func NewLLM(ctx context.Context, cfg Config) (LLM, error) {
	var llmClient LLM
	var err error

	options := []Option{
		WithModel(cfg.Model),
		WithMaxTokens(cfg.MaxTokens),
		WithAPITimeout(cfg.Timeout),
		WithRetryConfig(cfg.Retry),
	}
	if cfg.BaseURL != "" {
		options = append(options, WithBaseURL(cfg.BaseURL))
	}

	switch cfg.Provider {
	case common.ProviderVertexAI:
		llmClient, err = NewVertexAI(ctx, cfg.Project, cfg.Region, options...)
	case common.ProviderGemini:
		llmClient, err = NewGemini(ctx, cfg.APIKey, options...)
	case common.ProviderOpenAI:
		llmClient, err = NewOpenAI(cfg.APIKey, options...)
	case common.ProviderAnthropic:
		llmClient, err = NewAnthropic(cfg.APIKey, options...)
	default:
		err = fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	logger.Infow("Using LLM provider", "provider", cfg.Provider, "model", cfg.Model)
	return llmClient, nil
}

// withTimeout bounds a single call, timeout <= 0 only inherits ctx
func withTimeout(ctx context.Context, timeout int) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
}

func annotateError(err error, timeout int) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("llm call timed out after %ds: %w", timeout, err)
	}
	return err
}
