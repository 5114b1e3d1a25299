package generate

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client against any OpenAI-compatible chat
// completions endpoint (OpenAI itself, or gateways that speak its API).
type OpenAIClient struct {
	model string
	cli   openai.Client
}

// NewOpenAIClient creates an OpenAI-compatible provider client. baseURL may
// be empty for the official endpoint.
func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{model: model, cli: openai.NewClient(opts...)}, nil
}

func (o *OpenAIClient) Name() string { return "openai:" + o.model }

// Complete sends the instruction as a single user message.
func (o *OpenAIClient) Complete(ctx context.Context, instruction, _ string) (string, error) {
	resp, err := o.cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(instruction),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
