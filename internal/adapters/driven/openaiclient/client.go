// Package openaiclient builds go-openai clients and maps their errors
// onto the domain error taxonomy.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 60 * time.Second

// New creates a client for the OpenAI API or a compatible endpoint.
func New(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

// Error classifies an error returned by the client.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.StatusError("openai", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.StatusError("openai", reqErr.HTTPStatusCode, reqErr.Error())
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: openai: %v", domain.ErrBackendUnavailable, err)
}
