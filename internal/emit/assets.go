// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

// ImageLink is one external image-search reference.
type ImageLink struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// imageSearches maps a source name to its search URL prefix. The escaped
// English title is appended.
var imageSearches = []struct {
	source string
	prefix string
	path   bool
}{
	{"unsplash", "https://unsplash.com/s/photos/", true},
	{"pexels", "https://www.pexels.com/search/", true},
	{"pixabay", "https://pixabay.com/images/search/", true},
	{"wikimedia", "https://commons.wikimedia.org/w/index.php?search=", false},
}

// ImageLinks returns the image-search links for topic in a fixed order.
func ImageLinks(topic types.Topic) []ImageLink {
	links := make([]ImageLink, 0, len(imageSearches))
	for _, s := range imageSearches {
		q := url.QueryEscape(topic.En)
		if s.path {
			q = url.PathEscape(topic.En)
		}
		links = append(links, ImageLink{Source: s.source, URL: s.prefix + q})
	}
	return links
}

func imageLinksFile(topic types.Topic) ([]byte, error) {
	return marshalJSON(ImageLinks(topic))
}

// auditFile encodes the report with non-ASCII text left as UTF-8.
func auditFile(r types.AuditReport) ([]byte, error) {
	if r.Issues == nil {
		r.Issues = []string{}
	}
	return marshalJSON(r)
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}

func coverPrompt(topic types.Topic) string {
	return fmt.Sprintf("Cover illustration for a bilingual medical article on %s (%s). "+
		"Clean flat medical illustration, soft blue and white palette, anatomically plausible, "+
		"friendly and reassuring tone, no text, no logos, 16:9.", topic.En, topic.Zh)
}

func pdfPlaceholder(topic types.Topic) string {
	return fmt.Sprintf("%s / %s - PDF 示例", topic.Zh, topic.En)
}

var scoreChartTmpl = template.Must(template.New("chart").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="64" viewBox="0 0 {{.Width}} 64">
  <text x="8" y="18" font-family="sans-serif" font-size="14">{{.Slug}} 图表示意</text>
  <rect x="8" y="28" width="{{.Track}}" height="20" fill="#e5e7eb"/>
  <rect x="8" y="28" width="{{.Bar}}" height="20" fill="{{.Color}}"/>
  <text x="{{.LabelX}}" y="43" font-family="sans-serif" font-size="12">{{.Score}}/100</text>
</svg>
`))

// chartFile draws the per-topic chart. The placeholder style names the slug
// only; the score style adds a bar for the audit score.
func chartFile(style types.ChartStyle, slug string, r types.AuditReport) ([]byte, error) {
	escaped := html.EscapeString(slug)
	switch style {
	case "", types.ChartPlaceholder:
		return []byte(fmt.Sprintf("<svg><text>%s 图表示意</text></svg>", escaped)), nil
	case types.ChartScore:
		const track = 300
		score := min(max(r.Score, 0), 100)
		color := "#16a34a"
		switch {
		case score < 60:
			color = "#dc2626"
		case score < 80:
			color = "#d97706"
		}
		var buf bytes.Buffer
		err := scoreChartTmpl.Execute(&buf, map[string]any{
			"Width":  track + 80,
			"Track":  track,
			"Bar":    score * track / 100,
			"Color":  color,
			"LabelX": track + 16,
			"Score":  score,
			"Slug":   escaped,
		})
		if err != nil {
			return nil, fmt.Errorf("rendering chart: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown chart style %q (want placeholder or score)", types.ErrConfig, style)
	}
}
