// Package genai is the AI-assisted exam authoring provider: it asks an
// OpenAI-compatible endpoint for a candidate question set. Its output is
// untrusted input; Normalize applies the same shape validation and
// defaulting that manually authored questions get before anything is
// stored.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bilgen/okul/internal/model"
)

// Params describes the exam to generate.
type Params struct {
	Subject       string
	Grade         int
	Topic         string
	QuestionCount int
	QuestionType  string // multiple_choice, open_ended, or mixed
}

// Generator produces a candidate question set for the given parameters.
// The HTTP layer depends on this interface so tests can substitute a stub.
type Generator interface {
	GenerateQuestions(ctx context.Context, p Params) ([]model.Question, error)
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new generation client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping verifies the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("LLM endpoint unreachable: %w", err)
	}
	return nil
}

// questionEnvelope is the JSON object the model is instructed to return.
type questionEnvelope struct {
	Questions []RawQuestion `json:"questions"`
}

// GenerateQuestions asks the model for a question set and normalizes the
// response into the domain schema.
func (c *Client) GenerateQuestions(ctx context.Context, p Params) ([]model.Question, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildExamPrompt(p)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	var envelope questionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w", err)
	}
	if len(envelope.Questions) == 0 {
		return nil, fmt.Errorf("LLM returned no questions")
	}

	return Normalize(envelope.Questions), nil
}
