// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/content-engine/pkg/types"
)

// OpenAIClient implements Client over the OpenAI chat completions API. Any
// OpenAI-compatible endpoint works through BaseURL.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds a client from explicit settings. The SDK's own
// retries are disabled; a failed call surfaces immediately.
func NewOpenAIClient(cfg types.AIConfig, extra ...option.RequestOption) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: chat-completion api key missing; set OPENAI_API_KEY or .secrets/%s", types.ErrConfig, "openai-api-key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: chat-completion model is required", types.ErrConfig)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	opts = append(opts, extra...)

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Complete sends one chat-completion request and returns the first choice's
// content. Transport, auth, and empty replies wrap types.ErrService.
func (o *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", types.ErrService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", types.ErrService)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: chat completion returned empty content", types.ErrService)
	}
	return content, nil
}
