package joke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://official-joke-api.appspot.com/random_joke"

	FailureMessage = "❌ Failed to fetch a joke."
)

type response struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(endpoint string, httpClient *http.Client, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Joke returns "setup\npunchline", or FailureMessage if the joke could not be fetched.
func (c *Client) Joke(ctx context.Context) string {
	j, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch joke",
			zap.Error(err),
			zap.String("endpoint", c.endpoint))
		return FailureMessage
	}
	return j.Setup + "\n" + j.Punchline
}

func (c *Client) fetch(ctx context.Context) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var j response
	if err := json.NewDecoder(resp.Body).Decode(&j); err != nil {
		return nil, fmt.Errorf("failed to decode joke: %w", err)
	}
	return &j, nil
}
