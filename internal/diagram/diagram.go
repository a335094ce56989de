// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diagram produces a Mermaid flowchart describing a disease's causal
// and treatment structure.
package diagram

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Extractor returns diagram text for one article.
type Extractor interface {
	Extract(ctx context.Context, topic types.Topic, article types.Article) (string, error)
}

// StaticExtractor writes a fixed cause → treatment skeleton naming the topic.
type StaticExtractor struct{}

// Extract always succeeds.
func (StaticExtractor) Extract(_ context.Context, topic types.Topic, _ types.Article) (string, error) {
	label := strings.ReplaceAll(topic.Zh+" / "+topic.En, `"`, "'")
	var b strings.Builder
	b.WriteString("graph TD\n")
	fmt.Fprintf(&b, "  A[\"%s\"] --> B[\"病因 Causes\"]\n", label)
	b.WriteString("  B --> C[\"症状 Symptoms\"]\n")
	b.WriteString("  C --> D[\"诊断 Diagnosis\"]\n")
	b.WriteString("  D --> E[\"治疗 Treatment\"]\n")
	b.WriteString("  E --> F[\"预防 Prevention\"]\n")
	return b.String(), nil
}

const diagramPrompt = `Read the medical article below and describe its causal and treatment structure as a Mermaid flowchart.
Start with "graph TD". Use bilingual node labels (Chinese / English). Output only the Mermaid text.

Article:
`

// RemoteExtractor asks the chat-completion service for the flowchart and
// returns the reply unmodified.
type RemoteExtractor struct {
	client      llm.Client
	model       string
	temperature float64
}

// NewRemoteExtractor builds a RemoteExtractor.
func NewRemoteExtractor(client llm.Client, model string, temperature float64) *RemoteExtractor {
	return &RemoteExtractor{client: client, model: model, temperature: temperature}
}

// Extract does not validate the returned syntax.
func (e *RemoteExtractor) Extract(ctx context.Context, topic types.Topic, article types.Article) (string, error) {
	reply, err := e.client.Complete(ctx, llm.Request{
		Model:       e.model,
		Messages:    []llm.Message{llm.User(diagramPrompt + article.HTML)},
		Temperature: e.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("extracting structure for %s: %w", topic.Slug, err)
	}
	return reply, nil
}

// New selects the Extractor variant named by cfg.Strategy.
func New(cfg types.DiagramConfig, client llm.Client) (Extractor, error) {
	switch cfg.Strategy {
	case "", types.DiagramStatic:
		return StaticExtractor{}, nil
	case types.DiagramRemote:
		if client == nil {
			return nil, fmt.Errorf("%w: remote diagram extractor requires a chat-completion client", types.ErrConfig)
		}
		return NewRemoteExtractor(client, cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("%w: unknown diagram strategy %q (want static or remote)", types.ErrConfig, cfg.Strategy)
	}
}
