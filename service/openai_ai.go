package service

import (
	"context"
	"errors"

	"github.com/docchat/docchat-be/types"
	"github.com/sashabaranov/go-openai"
)

// OpenAIService talks to any OpenAI-compatible completion endpoint, including
// locally hosted models behind a custom base URL.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (s *OpenAIService) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: message,
				},
			},
		},
	)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", types.NewAppError(types.KindUpstreamFailure, "ai backend returned an error", err)
		}
		return "", types.NewAppError(types.KindUpstreamUnavailable, "ai backend unreachable", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", types.NewAppError(types.KindUpstreamFailure, "ai backend returned an empty completion", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
