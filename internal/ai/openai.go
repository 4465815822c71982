package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var _ Provider = (*OpenAIProvider)(nil)

const DefaultOpenAIModel = openai.GPT3Dot5Turbo

type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIProvider(cfg Config, logger *zap.Logger) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) Predict(ctx context.Context, req Request) (string, error) {
	temperature := float32(req.Temperature)
	if temperature == 0 {
		// go-openai omits a zero temperature, which the API reads as 1
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: req.Prompt,
				},
			},
			MaxTokens:   req.MaxOutputTokens,
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		p.logger.Warn("OpenAI returned no choices", zap.String("model", p.model))
		return "", ErrNoContent
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}

func (p *OpenAIProvider) Close() error {
	return nil
}
