// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads the output tree to an S3-compatible bucket.
package publish

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"strings"
)

// Uploader stores one local file under an object key.
type Uploader interface {
	Upload(ctx context.Context, key, filePath, contentType string) error
}

// Summary holds counts from a publish run.
type Summary struct {
	Uploaded int
	Failed   int
}

// contentTypes covers the artifact kinds the emitter writes; anything else
// falls back to the mime package.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".mmd":  "text/plain; charset=utf-8",
	".txt":  "text/plain; charset=utf-8",
	".pdf":  "text/plain; charset=utf-8",
	".db":   "application/vnd.sqlite3",
}

// ContentType returns the upload content type for a file name.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Publish uploads every regular file under root as prefix/<relative path>.
// Upload failures are reported and counted; walking continues.
func Publish(ctx context.Context, up Uploader, root, prefix string, w io.Writer) (Summary, error) {
	var summary Summary

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.ToSlash(rel))

		if err := up.Upload(ctx, key, p, ContentType(p)); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			return nil
		}
		fmt.Fprintf(w, "uploaded %s\n", key)
		summary.Uploaded++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walking %s: %w", root, err)
	}

	fmt.Fprintf(w, "\nuploaded: %d, failed: %d\n", summary.Uploaded, summary.Failed)
	return summary, nil
}
