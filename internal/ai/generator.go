package ai

import (
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	// ErrEmptyResponse is returned when the model answers with no content.
	ErrEmptyResponse = errors.New("openai returned empty response")
	// ErrMalformedJSON is returned when the answer is not a JSON object.
	ErrMalformedJSON = errors.New("model output is not a JSON object")
)

const defaultModel = "gpt-4.1-mini"

const systemPrompt = "You are a professional web agency strategist. Always return a single valid JSON object and nothing else."

type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
	// retryDelay is the pause before the single retry of a transient failure.
	retryDelay time.Duration
}

// NewGenerator returns a Generator talking to the public OpenAI API.
func NewGenerator(apiKey, model string, logger *zap.Logger) *Generator {
	return NewGeneratorWithConfig(openai.DefaultConfig(apiKey), model, logger)
}

// NewGeneratorWithConfig allows a custom base URL or HTTP client.
func NewGeneratorWithConfig(cfg openai.ClientConfig, model string, logger *zap.Logger) *Generator {
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		logger:     logger.Named("ai"),
		retryDelay: 2 * time.Second,
	}
}
