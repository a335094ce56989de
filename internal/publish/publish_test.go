// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/pkg/types"
)

type mockUploader struct {
	uploads map[string]string // key → content type
	failKey string
}

func (m *mockUploader) Upload(_ context.Context, key, filePath, contentType string) error {
	if key == m.failKey {
		return errors.New("access denied")
	}
	if _, err := os.Stat(filePath); err != nil {
		return err
	}
	m.uploads[key] = contentType
	return nil
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestPublish(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "geo/flu.html", "audit/flu-score.json", "charts/flu.svg", "pdf/flu.pdf", ".cache/skip.txt")
	up := &mockUploader{uploads: map[string]string{}}
	var out bytes.Buffer

	summary, err := Publish(context.Background(), up, root, "daily/2026-10-16", &out)
	require.NoError(t, err)
	assert.Equal(t, Summary{Uploaded: 4}, summary)

	var keys []string
	for k := range up.uploads {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"daily/2026-10-16/audit/flu-score.json",
		"daily/2026-10-16/charts/flu.svg",
		"daily/2026-10-16/geo/flu.html",
		"daily/2026-10-16/pdf/flu.pdf",
	}, keys)
	assert.Equal(t, "text/html; charset=utf-8", up.uploads["daily/2026-10-16/geo/flu.html"])
	assert.Equal(t, "image/svg+xml", up.uploads["daily/2026-10-16/charts/flu.svg"])
	assert.Contains(t, out.String(), "uploaded: 4, failed: 0")
}

func TestPublishCountsFailures(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "geo/a.html", "geo/b.html")
	up := &mockUploader{uploads: map[string]string{}, failKey: "geo/a.html"}
	var out bytes.Buffer

	summary, err := Publish(context.Background(), up, root, "", &out)
	require.NoError(t, err)
	assert.Equal(t, Summary{Uploaded: 1, Failed: 1}, summary)
	assert.Contains(t, out.String(), "failed  geo/a.html: access denied")
}

func TestPublishMissingRoot(t *testing.T) {
	up := &mockUploader{uploads: map[string]string{}}
	_, err := Publish(context.Background(), up, filepath.Join(t.TempDir(), "nope"), "", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType("refs/flu-images.json"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("charts/flu.mmd"))
	assert.Equal(t, "application/octet-stream", ContentType("blob.unknownext"))
}

func TestNewMinioUploaderRequiresConfig(t *testing.T) {
	_, err := NewMinioUploader(context.Background(), types.PublishConfig{Endpoint: "http://localhost:9000"})
	assert.ErrorIs(t, err, types.ErrConfig)
}
