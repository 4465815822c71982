package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakePredictionClient struct {
	req  *aiplatformpb.PredictRequest
	resp *aiplatformpb.PredictResponse
	err  error
}

func (f *fakePredictionClient) Predict(ctx context.Context, req *aiplatformpb.PredictRequest, opts ...gax.CallOption) (*aiplatformpb.PredictResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakePredictionClient) Close() error { return nil }

func prediction(t *testing.T, fields map[string]any) *structpb.Value {
	t.Helper()
	v, err := structpb.NewValue(fields)
	if err != nil {
		t.Fatalf("build prediction: %v", err)
	}
	return v
}

func TestVertexPredict(t *testing.T) {
	fake := &fakePredictionClient{
		resp: &aiplatformpb.PredictResponse{
			Predictions: []*structpb.Value{
				prediction(t, map[string]any{"content": "hello there"}),
				prediction(t, map[string]any{"content": "ignored"}),
			},
		},
	}
	p := &VertexProvider{client: fake, endpoint: EndpointPath("proj", "us-central1", "123")}

	got, err := p.Predict(context.Background(), Request{Prompt: "hi", Temperature: 0.7, MaxOutputTokens: 512})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("expected %q, got %q", "hello there", got)
	}

	req := fake.req
	if req.GetEndpoint() != "projects/proj/locations/us-central1/endpoints/123" {
		t.Errorf("unexpected endpoint %q", req.GetEndpoint())
	}
	if len(req.GetInstances()) != 1 {
		t.Fatalf("expected one instance, got %d", len(req.GetInstances()))
	}
	if prompt := req.GetInstances()[0].GetStructValue().GetFields()["prompt"].GetStringValue(); prompt != "hi" {
		t.Errorf("expected prompt %q, got %q", "hi", prompt)
	}
	params := req.GetParameters().GetStructValue().GetFields()
	if v := params["temperature"].GetNumberValue(); v != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", v)
	}
	if v := params["maxOutputTokens"].GetNumberValue(); v != 512 {
		t.Errorf("expected maxOutputTokens 512, got %v", v)
	}
}

func TestVertexPredictMissingContent(t *testing.T) {
	fake := &fakePredictionClient{
		resp: &aiplatformpb.PredictResponse{
			Predictions: []*structpb.Value{prediction(t, map[string]any{"safetyAttributes": map[string]any{}})},
		},
	}
	p := &VertexProvider{client: fake, endpoint: "e"}

	_, err := p.Predict(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestVertexPredictError(t *testing.T) {
	p := &VertexProvider{client: &fakePredictionClient{err: errors.New("permission denied")}, endpoint: "e"}

	_, err := p.Predict(context.Background(), Request{Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestVertexPredictEmptyPredictions(t *testing.T) {
	p := &VertexProvider{client: &fakePredictionClient{resp: &aiplatformpb.PredictResponse{}}, endpoint: "e"}

	_, err := p.Predict(context.Background(), Request{Prompt: "hi"})
	if err == nil || errors.Is(err, ErrNoContent) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}
