package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap/zaptest"
)

func newOpenAITestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(Config{
		OpenAIAPIKey:  "test-key",
		OpenAIModel:   "test-model",
		OpenAIBaseURL: srv.URL + "/v1",
	}, zaptest.NewLogger(t))
}

func TestOpenAIPredict(t *testing.T) {
	p := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || req.MaxTokens != 512 {
			t.Errorf("unexpected request %+v", req)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hi" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" hello "},"finish_reason":"stop"}]}`))
	})

	got, err := p.Predict(context.Background(), Request{Prompt: "hi", Temperature: 0.7, MaxOutputTokens: 512})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestOpenAIPredictNoChoices(t *testing.T) {
	p := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	})

	if _, err := p.Predict(context.Background(), Request{Prompt: "hi"}); err != ErrNoContent {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestOpenAIPredictError(t *testing.T) {
	p := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	if _, err := p.Predict(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenAIPredictZeroTemperatureIsSent(t *testing.T) {
	p := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		temp, ok := body["temperature"].(float64)
		if !ok {
			t.Errorf("expected temperature in request, got %v", body)
		} else if temp <= 0 || temp > 1e-6 {
			t.Errorf("expected a temperature close to zero, got %v", temp)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
	})

	if _, err := p.Predict(context.Background(), Request{Prompt: "hi", Temperature: 0, MaxOutputTokens: 16}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
