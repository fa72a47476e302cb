package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"siteforge/internal/utils"
)

// CompleteJSON sends prompt as a single user message and decodes the answer
// as a JSON object. A transient failure is retried once.
func (g *Generator) CompleteJSON(ctx context.Context, prompt string, temperature float32) (map[string]any, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil && utils.ShouldRetry(err) {
		g.logger.Warn("OpenAI call failed, retrying once", zap.Error(err), zap.Duration("delay", g.retryDelay))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("openai chat completion failed: %w", ctx.Err())
		case <-time.After(g.retryDelay):
		}
		resp, err = g.client.CreateChatCompletion(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		g.logger.Warn("OpenAI returned no content", zap.Any("usage", resp.Usage))
		return nil, ErrEmptyResponse
	}
	g.logger.Debug("OpenAI completion",
		zap.String("model", g.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return DecodeObject(resp.Choices[0].Message.Content)
}

// DecodeObject strips a markdown fence if the model added one and decodes
// the remaining text as a JSON object.
func DecodeObject(output string) (map[string]any, error) {
	cleaned := strings.TrimSpace(output)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: got null", ErrMalformedJSON)
	}
	return obj, nil
}
