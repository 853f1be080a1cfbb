package openaiclient

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

func TestError(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, Error(ctx, nil))

	limited := Error(ctx, &openai.APIError{HTTPStatusCode: 429, Message: "quota"})
	assert.ErrorIs(t, limited, domain.ErrRateLimited)

	down := Error(ctx, &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")})
	assert.ErrorIs(t, down, domain.ErrBackendUnavailable)

	network := Error(ctx, errors.New("connection refused"))
	assert.ErrorIs(t, network, domain.ErrBackendUnavailable)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, Error(cancelled, errors.New("request aborted")), context.Canceled)
}

func TestNew_BaseURL(t *testing.T) {
	assert.NotNil(t, New("sk-test", "http://localhost:1234/v1", 0))
}
