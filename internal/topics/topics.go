// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics loads the ordered topic list that drives a generation run.
package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/pkg/types"
)

// slugPattern restricts slugs to names that are safe as a single path element.
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// Load reads the topic list at path. Files ending in .yaml or .yml are parsed
// as YAML; everything else is parsed as a JSON array. Every failure wraps
// types.ErrConfig and is reported before any topic is processed.
func Load(path string) ([]types.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading topic list: %v", types.ErrConfig, err)
	}

	topics, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return topics, nil
}

// Parse decodes a topic list. ext selects the format the same way Load does.
func Parse(data []byte, ext string) ([]types.Topic, error) {
	var topics []types.Topic
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &topics); err != nil {
			return nil, fmt.Errorf("%w: parsing topic list: %v", types.ErrConfig, err)
		}
	default:
		if err := json.Unmarshal(data, &topics); err != nil {
			return nil, fmt.Errorf("%w: parsing topic list: %v", types.ErrConfig, err)
		}
	}

	if err := Validate(topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// Validate checks that the list is non-empty, that every topic carries a
// slug and both titles, and that slugs are unique and filename-safe.
func Validate(topics []types.Topic) error {
	if len(topics) == 0 {
		return fmt.Errorf("%w: topic list is empty", types.ErrConfig)
	}

	seen := make(map[string]int, len(topics))
	var problems []string
	for i, t := range topics {
		switch {
		case strings.TrimSpace(t.Slug) == "":
			problems = append(problems, fmt.Sprintf("topic %d: missing slug", i))
			continue
		case !slugPattern.MatchString(t.Slug):
			problems = append(problems, fmt.Sprintf("topic %d: invalid slug %q", i, t.Slug))
			continue
		}
		if strings.TrimSpace(t.Zh) == "" {
			problems = append(problems, fmt.Sprintf("topic %d (%s): missing zh title", i, t.Slug))
		}
		if strings.TrimSpace(t.En) == "" {
			problems = append(problems, fmt.Sprintf("topic %d (%s): missing en title", i, t.Slug))
		}
		if prev, ok := seen[t.Slug]; ok {
			problems = append(problems, fmt.Sprintf("topic %d: duplicate slug %q (first at %d)", i, t.Slug, prev))
			continue
		}
		seen[t.Slug] = i
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", types.ErrConfig, strings.Join(problems, "; "))
	}
	return nil
}
