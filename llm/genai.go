package llm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cloud.google.com/go/auth"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"google.golang.org/genai"
)

// GenAIModel implements the LLM interface for Gemini models, either on Vertex AI or on the Gemini API
type GenAIModel struct {
	client     *genai.Client
	backend    genai.Backend
	modelName  string
	maxTokens  int32
	apiTimeout int // in seconds
}

// NewVertexAI creates a Gemini client on Vertex AI for the given project and region.
// Credentials come from Application Default Credentials unless WithCredentials is given.
func NewVertexAI(ctx context.Context, project, region string, opts ...Option) (*GenAIModel, error) {
	if project == "" || region == "" {
		errMsg := "Vertex AI project and region cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	return newGenAI(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: region,
	}, opts...)
}

// NewGemini creates a client for the Gemini API
func NewGemini(ctx context.Context, apiKey string, opts ...Option) (*GenAIModel, error) {
	if apiKey == "" {
		errMsg := "Gemini API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	return newGenAI(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	}, opts...)
}

func newGenAI(ctx context.Context, clientConfig *genai.ClientConfig, opts ...Option) (*GenAIModel, error) {
	model := &GenAIModel{
		backend:   clientConfig.Backend,
		modelName: "gemini-2.5-flash",
		maxTokens: 8192,
	}

	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				model.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok && maxTokens > 0 {
				model.maxTokens = clampTokens(maxTokens)
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				model.apiTimeout = timeout
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				clientConfig.HTTPOptions.BaseURL = baseURL
			}
		case CredentialsOption:
			if credentials, ok := opt.Value.(*auth.Credentials); ok && clientConfig.Backend == genai.BackendVertexAI {
				clientConfig.Credentials = credentials
			}
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	model.client = client

	logger.Debugf("GenAI client initialized with backend: %v, model: %s, max tokens: %d, timeout: %d seconds",
		model.backend, model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends the request as a single generateContent call
func (g *GenAIModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := withTimeout(ctx, g.apiTimeout)
	defer cancel()

	logger.Debug("Sending prompt to GenAI model: ", g.modelName)
	logger.Debug(req.Prompt)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		err = annotateError(err, g.apiTimeout)
		logger.Errorf("failed to generate content: %v", err)
		return Response{
			Error: fmt.Errorf("failed to generate content: %w", err),
		}
	}

	if resp == nil {
		logger.Warn("GenAI returned no response")
		return Response{}
	}

	return Response{
		Content: resp.Text(),
	}
}

// clampTokens fits a max token count into the API's int32 field
func clampTokens(maxTokens int) int32 {
	if maxTokens > math.MaxInt32 {
		logger.Warnf("Max tokens %d exceeds the GenAI limit, using %d", maxTokens, math.MaxInt32)
		return math.MaxInt32
	}
	return int32(maxTokens)
}
