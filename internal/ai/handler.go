package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	NoResponseMessage = "🤖 No response received."
	errorMessage      = "⚠️ Vertex AI error: %v"
)

type result struct {
	content string
	err     error
}

// Handler turns a chat prompt into a reply using a Provider.
type Handler struct {
	provider        Provider
	temperature     float64
	maxOutputTokens int
	logger          *zap.Logger
}

// NewHandler uses the package defaults for a negative temperature or a
// non-positive token limit. A temperature of 0 is passed through as is.
func NewHandler(provider Provider, temperature float64, maxOutputTokens int, logger *zap.Logger) *Handler {
	if temperature < 0 {
		temperature = DefaultTemperature
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}
	return &Handler{
		provider:        provider,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		logger:          logger,
	}
}

// Chat never returns an error: failures are rendered into the reply text.
func (h *Handler) Chat(ctx context.Context, prompt string) string {
	req := Request{
		Prompt:          prompt,
		Temperature:     h.temperature,
		MaxOutputTokens: h.maxOutputTokens,
	}

	// buffered so the goroutine can finish even if nobody is waiting anymore
	resCh := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resCh <- result{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		content, err := h.provider.Predict(ctx, req)
		resCh <- result{content: content, err: err}
	}()

	var res result
	select {
	case res = <-resCh:
	case <-ctx.Done():
		res = result{err: ctx.Err()}
	}

	switch {
	case errors.Is(res.err, ErrNoContent):
		return NoResponseMessage
	case res.err != nil:
		h.logger.Error("Failed to get prediction",
			zap.Error(res.err),
			zap.String("provider", h.provider.Name()))
		return fmt.Sprintf(errorMessage, res.err)
	case res.content == "":
		return NoResponseMessage
	}
	return res.content
}
