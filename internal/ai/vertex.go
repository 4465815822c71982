package ai

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ Provider = (*VertexProvider)(nil)

type predictionClient interface {
	Predict(ctx context.Context, req *aiplatformpb.PredictRequest, opts ...gax.CallOption) (*aiplatformpb.PredictResponse, error)
	Close() error
}

// VertexProvider calls a Vertex AI prediction endpoint.
type VertexProvider struct {
	client   predictionClient
	endpoint string
}

func NewVertexProvider(ctx context.Context, cfg Config) (*VertexProvider, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction client: %w", err)
	}

	return &VertexProvider{
		client:   client,
		endpoint: EndpointPath(cfg.Project, cfg.Location, cfg.Model),
	}, nil
}

// EndpointPath returns the fully qualified resource name of a prediction endpoint.
func EndpointPath(project, location, endpoint string) string {
	return fmt.Sprintf("projects/%s/locations/%s/endpoints/%s", project, location, endpoint)
}

func (p *VertexProvider) Name() string {
	return ProviderVertex
}

func (p *VertexProvider) Predict(ctx context.Context, req Request) (string, error) {
	pbReq, err := newPredictRequest(p.endpoint, req)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Predict(ctx, pbReq)
	if err != nil {
		return "", fmt.Errorf("prediction failed: %w", err)
	}

	return firstContent(resp.GetPredictions())
}

func (p *VertexProvider) Close() error {
	return p.client.Close()
}

func newPredictRequest(endpoint string, req Request) (*aiplatformpb.PredictRequest, error) {
	instance, err := structpb.NewValue(map[string]any{
		"prompt": req.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode instance: %w", err)
	}

	params, err := structpb.NewValue(map[string]any{
		"temperature":     req.Temperature,
		"maxOutputTokens": req.MaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}

	return &aiplatformpb.PredictRequest{
		Endpoint:   endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	}, nil
}

// firstContent extracts the "content" field of the first prediction.
func firstContent(predictions []*structpb.Value) (string, error) {
	if len(predictions) == 0 {
		return "", fmt.Errorf("empty predictions list")
	}

	fields := predictions[0].GetStructValue().GetFields()
	content, ok := fields["content"]
	if !ok {
		return "", ErrNoContent
	}
	return content.GetStringValue(), nil
}
