package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
)

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client     anthropic.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(apiKey string, opts ...Option) (*AnthropicModel, error) {
	if apiKey == "" {
		errMsg := "Anthropic API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	model := &AnthropicModel{
		modelName: string(anthropic.ModelClaude3_7SonnetLatest),
		maxTokens: 4000,
	}

	retryConfig := common.DefaultRetryConfig()
	var baseURL string

	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				model.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok && maxTokens > 0 {
				model.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				model.apiTimeout = timeout
			}
		case RetryOption:
			if rc, ok := opt.Value.(common.RetryConfig); ok {
				retryConfig = rc
			}
		case BaseURLOption:
			if u, ok := opt.Value.(string); ok {
				baseURL = u
			}
		}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(common.NewRetryableClient(retryConfig).StandardClient()),
		// retries are owned by the retryable HTTP client
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	model.client = anthropic.NewClient(clientOpts...)

	logger.Debugf("Anthropic client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to Anthropic and returns the response
func (a *AnthropicModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := withTimeout(ctx, a.apiTimeout)
	defer cancel()

	logger.Debugf("Sending prompt to Anthropic model: %s", a.modelName)
	logger.Debug(req.Prompt)

	messageParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.modelName),
		MaxTokens: int64(a.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	message, err := a.client.Messages.New(ctx, messageParams)
	if err != nil {
		err = annotateError(err, a.apiTimeout)
		logger.Errorf("failed to create message: %v", err)
		return Response{
			Error: fmt.Errorf("failed to create message: %w", err),
		}
	}

	if message == nil {
		logger.Warn("Anthropic returned no message")
		return Response{}
	}

	var content string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text
		}
	}

	return Response{
		Content: content,
	}
}
