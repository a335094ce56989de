// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Topic is one entry of the topic list. It drives the generation of a single
// bilingual article and is read-only for the duration of a run.
type Topic struct {
	// Slug is the filename-safe identifier used to name every artifact.
	Slug string `json:"slug" yaml:"slug"`

	// Zh is the Chinese title.
	Zh string `json:"zh" yaml:"zh"`

	// En is the English title.
	En string `json:"en" yaml:"en"`
}
