// Package generate brokers calls to the external text-generation service.
// Provider clients (Gemini, OpenAI-compatible) do the raw API call; Gateway
// adds the timeout and single-retry policy and collapses every failure into
// a typed generation error.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/dinoai/omnicast/internal/domain"
)

// DefaultTimeout bounds one generation call, retry included.
const DefaultTimeout = 15 * time.Second

// Client is a raw provider client. Complete sends a single request carrying
// the instruction (which already embeds the user input) and returns the
// first textual response field.
type Client interface {
	// Name identifies the provider and model for logging.
	Name() string

	Complete(ctx context.Context, instruction, userText string) (string, error)
}

// Gateway wraps a provider client with the service's call policy: one
// outstanding call per invocation, a hard timeout, and at most one retry on
// transient network errors. All failures surface as *domain.Error with
// KindGenerationFailed; callers cannot and need not distinguish retryable
// from non-retryable causes.
type Gateway struct {
	client  Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewGateway creates a gateway around a provider client. A non-positive
// timeout falls back to DefaultTimeout.
func NewGateway(client Client, timeout time.Duration, logger *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{client: client, timeout: timeout, logger: logger}
}

// Generate implements domain.Generator.
func (g *Gateway) Generate(ctx context.Context, instruction, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.client.Complete(ctx, instruction, userText)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		g.logger.Warn("generation call failed, retrying once", "provider", g.client.Name(), "error", err)
		text, err = g.client.Complete(ctx, instruction, userText)
	}
	if err != nil {
		g.logger.Error("generation failed", "provider", g.client.Name(), "duration", time.Since(start), "error", err)
		return "", domain.NewError(domain.KindGenerationFailed, "generation service call failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.NewError(domain.KindGenerationFailed, "generation service returned empty text", nil)
	}

	g.logger.Info("generation complete", "provider", g.client.Name(), "duration", time.Since(start), "chars", len(text))
	return text, nil
}

// isTransient reports whether the error looks like a transient network
// failure worth one retry. Provider-side rejections (status errors, safety
// blocks) are not retried.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
