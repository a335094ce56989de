// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit writes every per-topic artifact into the output tree.
package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/content-engine/pkg/types"
)

// Output subdirectories under the root.
const (
	geoDir      = "geo"
	readableDir = "readable"
	wxDir       = "wx"
	auditDir    = "audit"
	chartsDir   = "charts"
	promptsDir  = "prompts"
	pdfDir      = "pdf"
	refsDir     = "refs"
)

// Dirs lists every directory the emitter writes into, relative to the root.
var Dirs = []string{geoDir, readableDir, wxDir, auditDir, chartsDir, promptsDir, pdfDir, refsDir}

// Paths holds the destination of each artifact for one slug.
type Paths struct {
	GeoHTML      string
	ReadableHTML string
	WxHTML       string
	Audit        string
	Chart        string
	Diagram      string
	CoverPrompt  string
	PDF          string
	ImageLinks   string
}

// PathsFor returns the artifact paths for slug under root.
func PathsFor(root, slug string) Paths {
	return Paths{
		GeoHTML:      filepath.Join(root, geoDir, slug+".html"),
		ReadableHTML: filepath.Join(root, readableDir, slug+".html"),
		WxHTML:       filepath.Join(root, wxDir, slug+".html"),
		Audit:        filepath.Join(root, auditDir, slug+"-score.json"),
		Chart:        filepath.Join(root, chartsDir, slug+".svg"),
		Diagram:      filepath.Join(root, chartsDir, slug+".mmd"),
		CoverPrompt:  filepath.Join(root, promptsDir, slug+"-cover.txt"),
		PDF:          filepath.Join(root, pdfDir, slug+".pdf"),
		ImageLinks:   filepath.Join(root, refsDir, slug+"-images.json"),
	}
}

// Bundle is everything the emitter needs for one topic.
type Bundle struct {
	Topic   types.Topic
	Article types.Article
	Report  types.AuditReport
	Diagram string
}

// Emitter writes bundles under Root. Existing files are overwritten; files
// left by earlier runs for other slugs are not removed.
type Emitter struct {
	Root  string
	Chart types.ChartStyle
}

// New returns an Emitter for cfg. An unknown chart style is rejected here so
// a run fails before any topic is generated.
func New(cfg types.OutputConfig) (*Emitter, error) {
	switch cfg.Chart {
	case "", types.ChartPlaceholder, types.ChartScore:
	default:
		return nil, fmt.Errorf("%w: unknown chart style %q (want placeholder or score)", types.ErrConfig, cfg.Chart)
	}

	root := cfg.Dir
	if root == "" {
		root = "output"
	}
	return &Emitter{Root: root, Chart: cfg.Chart}, nil
}

// Emit writes the nine artifacts for b and returns their paths in write
// order. A failure part way through leaves the files already written.
func (e *Emitter) Emit(b Bundle) ([]string, error) {
	p := PathsFor(e.Root, b.Topic.Slug)

	auditJSON, err := auditFile(b.Report)
	if err != nil {
		return nil, err
	}
	chart, err := chartFile(e.Chart, b.Topic.Slug, b.Report)
	if err != nil {
		return nil, err
	}
	links, err := imageLinksFile(b.Topic)
	if err != nil {
		return nil, err
	}

	files := []struct {
		path string
		data []byte
	}{
		{p.GeoHTML, []byte(b.Article.HTML)},
		{p.ReadableHTML, []byte(b.Article.HTML)},
		{p.WxHTML, []byte(b.Article.HTML)},
		{p.Audit, auditJSON},
		{p.Chart, chart},
		{p.Diagram, []byte(b.Diagram)},
		{p.CoverPrompt, []byte(coverPrompt(b.Topic))},
		{p.PDF, []byte(pdfPlaceholder(b.Topic))},
		{p.ImageLinks, links},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := writeFile(f.path, f.data); err != nil {
			return written, err
		}
		written = append(written, f.path)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
