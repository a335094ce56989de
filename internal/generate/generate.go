// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces article HTML for a topic. Two interchangeable
// ArticleSource variants exist: a deterministic template fill and a remote
// chat-completion call.
package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

const dateFmt = "2006-01-02"

// ArticleSource produces the article for one topic.
type ArticleSource interface {
	Generate(ctx context.Context, topic types.Topic) (types.Article, error)
}

// NewSource selects the ArticleSource variant named by cfg.Source. client is
// only required for the remote variant; now defaults to time.Now.
func NewSource(cfg types.GenerationConfig, client llm.Client, now func() time.Time) (ArticleSource, error) {
	if now == nil {
		now = time.Now
	}
	switch cfg.Source {
	case "", types.SourceTemplate:
		return &TemplateSource{Now: now}, nil
	case types.SourceRemote:
		if client == nil {
			return nil, fmt.Errorf("%w: remote article source requires a chat-completion client", types.ErrConfig)
		}
		return NewRemoteSource(client, cfg.Model, cfg.Temperature, now), nil
	default:
		return nil, fmt.Errorf("%w: unknown article source %q (want template or remote)", types.ErrConfig, cfg.Source)
	}
}
