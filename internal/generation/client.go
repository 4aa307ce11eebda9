// Package generation wraps the upstream text-generation service behind a
// small interface so the plan service and its tests never touch the vendor
// SDK directly.
package generation

import (
	"coachplan/fitness-app/internal/config"
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the upstream answers with no choices.
var ErrEmptyCompletion = errors.New("generation service returned no completion")

// Client is the single upstream dependency of the plan pipeline.
type Client interface {
	// Complete sends one system+user prompt pair and returns the raw
	// completion text. The context carries the caller's deadline; this is
	// the only suspension point in plan generation.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// openAIClient implements Client against the OpenAI chat completion API.
type openAIClient struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient builds a chat-completion client from config.
func NewOpenAIClient(cfg config.GenerationConfig) Client {
	return &openAIClient{
		api:         openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// IsTimeout reports whether an upstream error was a deadline expiry rather
// than a vendor-side failure.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// DefaultTimeout bounds the upstream call when config leaves it unset.
const DefaultTimeout = 45 * time.Second
