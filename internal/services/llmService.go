package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"allo/internal/config"
	"allo/internal/models"
)

const systemPrompt = "You are Merlin, a helpful AI assistant specializing in crypto trading insights and analysis. Provide clear, concise, and informative responses."

// LLMService produces assistant replies for the chat endpoint.
type LLMService interface {
	Complete(ctx context.Context, history []models.ChatTurn, message string) (string, error)
}

type llmService struct {
	apiKey string
	model  string
}

func NewLLMService(cfg *config.Config) LLMService {
	return &llmService{apiKey: cfg.OpenAIAPIKey, model: cfg.OpenAIModel}
}

func (s *llmService) Complete(ctx context.Context, history []models.ChatTurn, message string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("missing api key")
	}

	llm, err := openai.New(openai.WithToken(s.apiKey), openai.WithModel(s.model))
	if err != nil {
		return "", fmt.Errorf("failed to create LLM client: %w", err)
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	}
	for _, turn := range history {
		if turn.Role == "" || turn.Content == "" {
			continue
		}
		if turn.Role == models.RoleAssistant {
			content = append(content, llms.TextParts(llms.ChatMessageTypeAI, turn.Content))
		} else {
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, turn.Content))
		}
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := llm.GenerateContent(ctx, content, llms.WithTemperature(0.7), llms.WithMaxTokens(3000))
	if err != nil {
		return "", fmt.Errorf("failed to generate chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return resp.Choices[0].Content, nil
}
