package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 512

	ProviderVertex = "vertex"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ErrNoContent is returned by a Provider when the model answered without any text.
var ErrNoContent = errors.New("no content in prediction")

// Request is a single-prompt prediction with fixed sampling parameters.
type Request struct {
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

type Provider interface {
	Name() string
	Predict(ctx context.Context, req Request) (string, error)
	Close() error
}

type Config struct {
	Provider        string
	Project         string
	Location        string
	Model           string
	CredentialsFile string
	Temperature     float64
	MaxOutputTokens int

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// NewProvider builds the provider named by cfg.Provider. An empty name selects Vertex AI.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderVertex:
		return NewVertexProvider(ctx, cfg)
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.Provider)
	}
}
