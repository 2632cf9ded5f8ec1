package service

import (
	"context"
	"errors"

	"github.com/docchat/docchat-be/types"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiService talks to the Gemini API. The system prompt carrying the
// document content is sent as prior model-role history, the user message as
// the live turn.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(ctx context.Context, apiKey, baseURL, modelName string) (*GeminiService, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (s *GeminiService) Chat(ctx context.Context, systemPrompt, message string) (string, error) {
	chat := s.model.StartChat()
	chat.History = []*genai.Content{
		{
			Parts: []genai.Part{genai.Text(systemPrompt)},
			Role:  "model",
		},
	}

	resp, err := chat.SendMessage(ctx, genai.Text(message))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", types.NewAppError(types.KindUpstreamFailure, "ai backend returned an error", err)
		}
		return "", types.NewAppError(types.KindUpstreamUnavailable, "ai backend unreachable", err)
	}

	content := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	if content == "" {
		return "", types.NewAppError(types.KindUpstreamFailure, "ai backend returned an empty completion", nil)
	}
	return content, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
