package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIModel implements the LLM interface using OpenAI's API
type OpenAIModel struct {
	client     *openai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		errMsg := "OpenAI API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	model := &OpenAIModel{
		modelName: "gpt-4.1",
		maxTokens: 4000,
	}

	retryConfig := common.DefaultRetryConfig()
	config := openai.DefaultConfig(apiKey)

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
			if baseURL, ok := opt.Value.(string); ok {
				config.BaseURL = baseURL
			}
		}
	}

	config.HTTPClient = common.NewRetryableClient(retryConfig).StandardClient()
	model.client = openai.NewClientWithConfig(config)

	logger.Debugf("OpenAI client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := withTimeout(ctx, o.apiTimeout)
	defer cancel()

	logger.Debugf("Sending prompt to OpenAI model: %s", o.modelName)
	logger.Debug(req.Prompt)

	chatReq := openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens: o.maxTokens,
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		err = annotateError(err, o.apiTimeout)
		logger.Errorf("failed to create chat completion: %v", err)
		return Response{
			Error: fmt.Errorf("failed to create chat completion: %w", err),
		}
	}

	if len(resp.Choices) == 0 {
		logger.Warn("OpenAI response contained no choices")
		return Response{}
	}

	return Response{
		Content: resp.Choices[0].Message.Content,
	}
}
