// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"text/template"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

const auditSystemPrompt = "You are a medical editor auditing health education articles for accuracy, sourcing, and readability."

var auditPromptTmpl = template.Must(template.New("audit").Parse(`Audit the article titled "{{.Title}}" below.

Score it from 0 to 100 and list concrete issues (missing anchors, missing DOIs, unsupported claims, unclear wording).

Respond with a single JSON object and nothing else:
{"score": 0-100, "issues": ["..."], "length": <word count>, "lang": "zh-en"}

Article:
{{.Article}}
`))

// RemoteAuditor sends the article to the chat-completion service and parses
// the first JSON object in the reply.
type RemoteAuditor struct {
	client      llm.Client
	model       string
	temperature float64
}

// NewRemoteAuditor builds a RemoteAuditor. Temperature 0 keeps scoring as
// repeatable as the service allows.
func NewRemoteAuditor(client llm.Client, model string, temperature float64) *RemoteAuditor {
	return &RemoteAuditor{client: client, model: model, temperature: temperature}
}

// auditReply is the loosely typed reply shape; scores sometimes come back
// as floats.
type auditReply struct {
	Score  *float64 `json:"score"`
	Issues []string `json:"issues"`
	Length int      `json:"length"`
	Lang   string   `json:"lang"`
}

// Audit returns types.ErrParse when the reply holds no usable JSON object.
func (a *RemoteAuditor) Audit(ctx context.Context, topic types.Topic, article types.Article) (types.AuditReport, error) {
	prompt, err := renderAuditPrompt(topic, article)
	if err != nil {
		return types.AuditReport{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := a.client.Complete(ctx, llm.Request{
		Model:       a.model,
		Messages:    []llm.Message{llm.System(auditSystemPrompt), llm.User(prompt)},
		Temperature: a.temperature,
	})
	if err != nil {
		return types.AuditReport{}, fmt.Errorf("auditing %s: %w", topic.Slug, err)
	}

	report, err := ParseReport(reply)
	if err != nil {
		return types.AuditReport{}, fmt.Errorf("auditing %s: %w", topic.Slug, err)
	}

	if report.Length == 0 {
		n, err := WordCount(article.HTML)
		if err == nil {
			report.Length = n
		}
	}
	return report, nil
}

// ParseReport extracts and validates an AuditReport from a model reply. A
// negative length is treated as not measured.
func ParseReport(reply string) (types.AuditReport, error) {
	raw, err := llm.ExtractJSON(reply)
	if err != nil {
		return types.AuditReport{}, err
	}

	var r auditReply
	if err := json.Unmarshal(raw, &r); err != nil {
		return types.AuditReport{}, fmt.Errorf("%w: decoding audit JSON: %v", types.ErrParse, err)
	}
	if r.Score == nil {
		return types.AuditReport{}, fmt.Errorf("%w: audit JSON has no score", types.ErrParse)
	}
	score := int(math.Round(*r.Score))
	if score < 0 || score > 100 {
		return types.AuditReport{}, fmt.Errorf("%w: audit score %d out of range [0,100]", types.ErrParse, score)
	}

	report := types.AuditReport{
		Score:  score,
		Issues: r.Issues,
		Length: max(r.Length, 0),
		Lang:   r.Lang,
	}
	if report.Issues == nil {
		report.Issues = []string{}
	}
	if report.Lang == "" {
		report.Lang = DefaultLang
	}
	return report, nil
}

func renderAuditPrompt(topic types.Topic, article types.Article) (string, error) {
	var buf bytes.Buffer
	err := auditPromptTmpl.Execute(&buf, struct {
		Title   string
		Article string
	}{
		Title:   topic.Zh + " / " + topic.En,
		Article: article.HTML,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
