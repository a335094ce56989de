// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/pdiddy/content-engine/pkg/types"
)

const (
	zhTemplate = "<h1>%s（%s）</h1><p>这是一篇自动生成的双语医学文章，生成于 %s。</p>"
	enTemplate = "<h1>%s (%s)</h1><p>This is an automatically generated bilingual medical article, created on %s.</p>"
	separator  = "<hr/>"
)

// TemplateSource fills a fixed bilingual template with the titles, the slug,
// and the run date. Output depends only on the topic and the calendar date.
type TemplateSource struct {
	Now func() time.Time
}

// Generate always succeeds.
func (s *TemplateSource) Generate(_ context.Context, topic types.Topic) (types.Article, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	date := now().Format(dateFmt)
	slug := html.EscapeString(topic.Slug)

	zh := fmt.Sprintf(zhTemplate, html.EscapeString(topic.Zh), slug, date)
	en := fmt.Sprintf(enTemplate, html.EscapeString(topic.En), slug, date)

	return types.Article{
		Slug: topic.Slug,
		HTML: zh + separator + en,
	}, nil
}
