// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

const (
	articleSystemPrompt = "You are a bilingual medical writer. Write accurate, patient-friendly health education articles in Simplified Chinese followed by an English version. Respond with Markdown only."
)

var articlePromptTmpl = template.Must(template.New("article").Parse(`Write a bilingual medical article about the topic below.

Topic (Chinese): {{.Zh}}
Topic (English): {{.En}}
Slug: {{.Slug}}
Date: {{.Date}}

Requirements:
- Start with a level-1 heading "{{.Zh}}（{{.Slug}}）" and write the Chinese article first.
- Then a horizontal rule, then a level-1 heading "{{.En}} ({{.Slug}})" and the English article.
- Cover overview, causes, symptoms, diagnosis, treatment, and prevention as level-2 sections in each language.
- Cite guideline sources by name and include DOIs where they exist.
- Do not include any text outside the article.
`))

// RemoteSource asks the chat-completion service for a Markdown article and
// renders it to HTML. Failed calls are not retried.
type RemoteSource struct {
	client      llm.Client
	model       string
	temperature float64
	now         func() time.Time
	md          goldmark.Markdown
}

// NewRemoteSource builds a RemoteSource. temperature is sent as given.
func NewRemoteSource(client llm.Client, model string, temperature float64, now func() time.Time) *RemoteSource {
	if now == nil {
		now = time.Now
	}
	return &RemoteSource{
		client:      client,
		model:       model,
		temperature: temperature,
		now:         now,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Generate calls the service once and converts its Markdown reply to HTML.
func (s *RemoteSource) Generate(ctx context.Context, topic types.Topic) (types.Article, error) {
	prompt, err := renderArticlePrompt(topic, s.now().Format(dateFmt))
	if err != nil {
		return types.Article{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		Messages:    []llm.Message{llm.System(articleSystemPrompt), llm.User(prompt)},
		Temperature: s.temperature,
	})
	if err != nil {
		return types.Article{}, fmt.Errorf("generating %s: %w", topic.Slug, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return types.Article{}, fmt.Errorf("generating %s: %w: empty article", topic.Slug, types.ErrService)
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(reply), &buf); err != nil {
		return types.Article{}, fmt.Errorf("rendering %s: %w", topic.Slug, err)
	}

	return types.Article{Slug: topic.Slug, HTML: buf.String()}, nil
}

func renderArticlePrompt(topic types.Topic, date string) (string, error) {
	var buf bytes.Buffer
	err := articlePromptTmpl.Execute(&buf, struct {
		types.Topic
		Date string
	}{Topic: topic, Date: date})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
