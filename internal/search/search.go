package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// MaxResults caps the number of items requested per query.
	MaxResults = 3

	NoResultsMessage = "No results found."
)

type Config struct {
	APIKey   string
	EngineID string
	// Endpoint overrides the Custom Search base URL, mainly for tests.
	Endpoint   string
	HTTPClient *http.Client
}

type Client struct {
	service  *customsearch.Service
	engineID string
	logger   *zap.Logger
}

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.HTTPClient != nil {
		// WithHTTPClient bypasses the key option, so the key travels as a query parameter instead.
		opts = []option.ClientOption{option.WithHTTPClient(withAPIKey(cfg.HTTPClient, cfg.APIKey))}
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &Client{
		service:  service,
		engineID: cfg.EngineID,
		logger:   logger,
	}, nil
}

// Search returns the formatted results for query, or a text describing why there are none.
func (c *Client) Search(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return NoResultsMessage
	}

	res, err := c.service.Cse.List().
		Context(ctx).
		Cx(c.engineID).
		Q(query).
		Num(MaxResults).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			c.logger.Warn("Search API returned an error status",
				zap.Int("status", apiErr.Code),
				zap.String("query", query))
			return fmt.Sprintf("Search error: HTTP %d", apiErr.Code)
		}
		c.logger.Error("Search request failed",
			zap.Error(err),
			zap.String("query", query))
		return fmt.Sprintf("Search error: %v", err)
	}

	return FormatResults(res.Items)
}

// FormatResults renders each item as "title\nsnippet\nlink", separated by blank lines.
func FormatResults(items []*customsearch.Result) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("%s\n%s\n%s", item.Title, item.Snippet, item.Link))
	}

	if len(blocks) == 0 {
		return NoResultsMessage
	}
	return strings.Join(blocks, "\n\n")
}
