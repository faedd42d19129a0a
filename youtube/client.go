package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"ytextract/config"
	"ytextract/retry"
)

// Client talks to the catalog API. Channel lookup and playlist listing go
// through the generated Data API client; video detail lookup goes through a
// raw endpoint call because the generated statistics types collapse absent
// counters to zero (see details.go). Every outbound call runs inside the
// same bounded retry loop.
type Client struct {
	service *yt.Service
	http    *http.Client
	baseURL string
	apiKey  string
	retry   retry.Config
}

// NewClient builds a Client from configuration. The API key is mandatory.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != config.DefaultBaseURL {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Client{
		service: service,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		retry: retry.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
			Multiplier:     cfg.BackoffMultiplier,
			JitterFraction: 0.2,
		},
	}, nil
}

// classify marks ErrChannelNotFound as permanent; transport and status
// failures stay retryable until the budget runs out.
func classify(err error) bool {
	if errors.Is(err, ErrChannelNotFound) {
		return false
	}
	return retry.IsRetryable(err)
}
