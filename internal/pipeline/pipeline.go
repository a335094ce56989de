// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the generate → audit → diagram → emit sequence over
// a topic list, one topic at a time.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/content-engine/internal/audit"
	"github.com/pdiddy/content-engine/internal/diagram"
	"github.com/pdiddy/content-engine/internal/emit"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/topics"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Emitter writes one topic's artifacts.
type Emitter interface {
	Emit(b emit.Bundle) ([]string, error)
}

// Recorder persists an emitted topic's audit report. *index.Store
// satisfies it.
type Recorder interface {
	Record(ctx context.Context, runID, source, slug string, r types.AuditReport) error
}

// Stages wires the components for one run.
type Stages struct {
	Source    generate.ArticleSource
	Auditor   audit.Auditor
	Extractor diagram.Extractor
	Emitter   Emitter

	// Recorder is optional.
	Recorder Recorder

	// RunID and SourceName label recorded reports.
	RunID      string
	SourceName string

	// KeepGoing reports a failed topic and moves on instead of aborting.
	KeepGoing bool
}

// Summary holds counts from a run.
type Summary struct {
	Emitted int
	Failed  int
	Files   int
}

// Total returns the number of topics attempted.
func (s Summary) Total() int {
	return s.Emitted + s.Failed
}

// HasFailures reports whether any topic failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// RunFile loads the topic list at path and runs it. A malformed list fails
// with types.ErrConfig before any artifact is written.
func RunFile(ctx context.Context, st Stages, path string, w io.Writer) (Summary, error) {
	list, err := topics.Load(path)
	if err != nil {
		return Summary{}, err
	}
	fmt.Fprintf(w, "loaded %d topic(s) from %s\n", len(list), path)
	return Run(ctx, st, list, w)
}

// Run processes topics in order. Without KeepGoing the first failure stops
// the run and is returned; topics emitted before it keep their files.
func Run(ctx context.Context, st Stages, list []types.Topic, w io.Writer) (Summary, error) {
	if st.Source == nil || st.Auditor == nil || st.Extractor == nil || st.Emitter == nil {
		return Summary{}, fmt.Errorf("%w: pipeline stages incomplete", types.ErrConfig)
	}

	var summary Summary
	for _, topic := range list {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(w, "generating %s\n", topic.Slug)

		files, err := processTopic(ctx, st, topic)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", topic.Slug, err)
			summary.Failed++
			summary.Files += len(files)
			if !st.KeepGoing {
				return summary, fmt.Errorf("topic %s: %w", topic.Slug, err)
			}
			continue
		}

		fmt.Fprintf(w, "emitted %s (%d files)\n", topic.Slug, len(files))
		summary.Emitted++
		summary.Files += len(files)
	}

	fmt.Fprintf(w, "\nemitted: %d, failed: %d, files: %d\n", summary.Emitted, summary.Failed, summary.Files)
	return summary, nil
}

func processTopic(ctx context.Context, st Stages, topic types.Topic) ([]string, error) {
	article, err := st.Source.Generate(ctx, topic)
	if err != nil {
		return nil, err
	}

	report, err := st.Auditor.Audit(ctx, topic, article)
	if err != nil {
		return nil, err
	}

	graph, err := st.Extractor.Extract(ctx, topic, article)
	if err != nil {
		return nil, err
	}

	files, err := st.Emitter.Emit(emit.Bundle{
		Topic:   topic,
		Article: article,
		Report:  report,
		Diagram: graph,
	})
	if err != nil {
		return files, err
	}

	if st.Recorder != nil {
		if err := st.Recorder.Record(ctx, st.RunID, st.SourceName, topic.Slug, report); err != nil {
			return files, err
		}
	}
	return files, nil
}
