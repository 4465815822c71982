package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// mockProvider records calls and returns canned responses.
type mockProvider struct {
	mu       sync.Mutex
	calls    []Request
	content  string
	err      error
	panicMsg string
	block    chan struct{}
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Predict(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.block != nil {
		<-m.block
	}
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.content, m.err
}

func (m *mockProvider) Close() error { return nil }

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestHandlerChat(t *testing.T) {
	p := &mockProvider{content: "AI is neat"}
	h := NewHandler(p, -1, 0, zaptest.NewLogger(t))

	if got := h.Chat(context.Background(), "tell me about AI"); got != "AI is neat" {
		t.Fatalf("expected %q, got %q", "AI is neat", got)
	}
	if p.callCount() != 1 {
		t.Fatalf("expected 1 call, got %d", p.callCount())
	}

	req := p.calls[0]
	if req.Prompt != "tell me about AI" {
		t.Errorf("expected prompt to be forwarded, got %q", req.Prompt)
	}
	if req.Temperature != DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", DefaultTemperature, req.Temperature)
	}
	if req.MaxOutputTokens != DefaultMaxOutputTokens {
		t.Errorf("expected max tokens %d, got %d", DefaultMaxOutputTokens, req.MaxOutputTokens)
	}
}

func TestHandlerZeroTemperature(t *testing.T) {
	p := &mockProvider{content: "ok"}
	h := NewHandler(p, 0, 64, zaptest.NewLogger(t))

	h.Chat(context.Background(), "be precise")
	if p.callCount() != 1 {
		t.Fatalf("expected 1 call, got %d", p.callCount())
	}
	if req := p.calls[0]; req.Temperature != 0 || req.MaxOutputTokens != 64 {
		t.Errorf("expected temperature 0 and 64 tokens, got %v and %d", req.Temperature, req.MaxOutputTokens)
	}
}

func TestHandlerNoContent(t *testing.T) {
	h := NewHandler(&mockProvider{err: ErrNoContent}, 0.7, 512, zaptest.NewLogger(t))
	if got := h.Chat(context.Background(), "x"); got != NoResponseMessage {
		t.Fatalf("expected %q, got %q", NoResponseMessage, got)
	}

	h = NewHandler(&mockProvider{content: ""}, 0.7, 512, zaptest.NewLogger(t))
	if got := h.Chat(context.Background(), "x"); got != NoResponseMessage {
		t.Fatalf("expected %q, got %q", NoResponseMessage, got)
	}
}

func TestHandlerError(t *testing.T) {
	h := NewHandler(&mockProvider{err: errors.New("quota exceeded")}, 0.7, 512, zaptest.NewLogger(t))

	got := h.Chat(context.Background(), "x")
	if !strings.HasPrefix(got, "⚠️ Vertex AI error:") {
		t.Fatalf("unexpected reply %q", got)
	}
	if !strings.Contains(got, "quota exceeded") {
		t.Fatalf("expected error detail in reply, got %q", got)
	}
}

func TestHandlerRecoversPanic(t *testing.T) {
	h := NewHandler(&mockProvider{panicMsg: "nil map"}, 0.7, 512, zaptest.NewLogger(t))

	got := h.Chat(context.Background(), "x")
	if !strings.Contains(got, "nil map") {
		t.Fatalf("expected panic detail in reply, got %q", got)
	}
}

func TestHandlerContextCancelled(t *testing.T) {
	p := &mockProvider{block: make(chan struct{})}
	defer close(p.block)
	h := NewHandler(p, 0.7, 512, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := h.Chat(ctx, "x")
	if !strings.Contains(got, context.DeadlineExceeded.Error()) {
		t.Fatalf("expected deadline error in reply, got %q", got)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "watson"}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProviderOpenAI(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI, OpenAIAPIKey: "k"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderOpenAI {
		t.Fatalf("expected openai provider, got %q", p.Name())
	}
}
