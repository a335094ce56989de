// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Article is the generated HTML for one topic.
type Article struct {
	Slug string `json:"slug" yaml:"slug"`
	HTML string `json:"html" yaml:"html"`
}

// AuditReport is the quality assessment of one Article.
type AuditReport struct {
	// Score ranges from 0 to 100.
	Score int `json:"score" yaml:"score"`

	// Issues lists findings in the order the auditor reported them.
	Issues []string `json:"issues" yaml:"issues"`

	// Length is the article word count. Zero means not measured.
	Length int `json:"length,omitempty" yaml:"length,omitempty"`

	// Lang tags the article languages (e.g. "zh-en").
	Lang string `json:"lang" yaml:"lang"`
}
