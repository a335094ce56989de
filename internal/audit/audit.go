// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit scores generated articles. The stub auditor returns a fixed
// report; the remote auditor asks the chat-completion service for one.
package audit

import (
	"context"
	"fmt"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

// DefaultLang tags reports for the bilingual article layout.
const DefaultLang = "zh-en"

// Auditor produces a quality report for one article.
type Auditor interface {
	Audit(ctx context.Context, topic types.Topic, article types.Article) (types.AuditReport, error)
}

// StubAuditor returns the same report for every article.
type StubAuditor struct{}

// Audit always succeeds.
func (StubAuditor) Audit(context.Context, types.Topic, types.Article) (types.AuditReport, error) {
	return types.AuditReport{
		Score:  92,
		Issues: []string{"缺少锚点", "建议加入 DOI"},
		Lang:   DefaultLang,
	}, nil
}

// New selects the Auditor variant named by cfg.Strategy.
func New(cfg types.AuditConfig, client llm.Client) (Auditor, error) {
	switch cfg.Strategy {
	case "", types.AuditorStub:
		return StubAuditor{}, nil
	case types.AuditorRemote:
		if client == nil {
			return nil, fmt.Errorf("%w: remote auditor requires a chat-completion client", types.ErrConfig)
		}
		return NewRemoteAuditor(client, cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("%w: unknown auditor %q (want stub or remote)", types.ErrConfig, cfg.Strategy)
	}
}
