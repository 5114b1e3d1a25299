package generate

import (
	"context"
	"fmt"
)

// NewClient builds the provider client selected by name. "gemini" is the
// default; "openai" also covers OpenAI-compatible gateways when baseURL is
// set.
func NewClient(ctx context.Context, provider, model, apiKey, baseURL string) (Client, error) {
	switch provider {
	case "", "gemini":
		return NewGeminiClient(ctx, apiKey, model)
	case "openai":
		return NewOpenAIClient(apiKey, model, baseURL)
	default:
		return nil, fmt.Errorf("generation provider %s not supported", provider)
	}
}
