// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/pkg/types"
)

// testStore opens a store whose clock advances one minute per call.
func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.IndexConfig{Enabled: true, Dir: filepath.Join(t.TempDir(), "index")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func report(score int, issues ...string) types.AuditReport {
	return types.AuditReport{Score: score, Issues: issues, Lang: "zh-en"}
}

func TestOpenCreatesDatabase(t *testing.T) {
	s := testStore(t)
	assert.FileExists(t, filepath.Join(s.Dir(), dbFile))
}

func TestExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	assert.False(t, Exists(dir))
	assert.NoDirExists(t, dir, "Exists must not create the directory")

	s, err := Open(types.IndexConfig{Enabled: true, Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.True(t, Exists(dir))
}

func TestRecordAndLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "run-1", "template", "flu", report(92, "缺少锚点")))
	require.NoError(t, s.Record(ctx, "run-1", "template", "diabetes-101", report(70)))
	require.NoError(t, s.Record(ctx, "run-2", "remote", "flu", report(85, "建议加入 DOI")))

	got, err := s.Latest(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "diabetes-101", got[0].Slug)
	assert.Equal(t, "run-1", got[0].RunID)
	assert.Equal(t, []string{}, got[0].Report.Issues)

	assert.Equal(t, "flu", got[1].Slug)
	assert.Equal(t, "run-2", got[1].RunID)
	assert.Equal(t, "remote", got[1].Source)
	assert.Equal(t, 85, got[1].Report.Score)
	assert.Equal(t, []string{"建议加入 DOI"}, got[1].Report.Issues)
	assert.False(t, got[1].CreatedAt.IsZero())
}

func TestLatestFilters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "run-1", "template", "flu", report(92)))
	require.NoError(t, s.Record(ctx, "run-1", "template", "asthma", report(60)))
	require.NoError(t, s.Record(ctx, "run-2", "template", "flu", report(50)))

	tests := []struct {
		name  string
		opts  QueryOptions
		slugs []string
	}{
		{name: "slug", opts: QueryOptions{Slug: "flu"}, slugs: []string{"flu"}},
		{name: "min score uses latest report", opts: QueryOptions{MinScore: 55}, slugs: []string{"asthma"}},
		{name: "run id", opts: QueryOptions{RunID: "run-1"}, slugs: []string{"asthma", "flu"}},
		{name: "run id and min score", opts: QueryOptions{RunID: "run-1", MinScore: 90}, slugs: []string{"flu"}},
		{name: "no match", opts: QueryOptions{Slug: "nope"}, slugs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Latest(ctx, tt.opts)
			require.NoError(t, err)
			var slugs []string
			for _, e := range got {
				slugs = append(slugs, e.Slug)
			}
			assert.Equal(t, tt.slugs, slugs)
		})
	}
}

func TestRecordUpsertsWithinRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "run-1", "template", "flu", report(40)))
	require.NoError(t, s.Record(ctx, "run-1", "template", "flu", report(95)))

	got, err := s.Latest(ctx, QueryOptions{RunID: "run-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 95, got[0].Report.Score)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "run-1", "template", "flu", report(92, "缺少锚点")))

	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "scores.json")
	require.NoError(t, s.Export(ctx, QueryOptions{}, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []Entry
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "flu", fromJSON[0].Slug)
	assert.Equal(t, 92, fromJSON[0].Report.Score)

	yamlPath := filepath.Join(dir, "nested", "scores.yaml")
	require.NoError(t, s.Export(ctx, QueryOptions{}, yamlPath))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []Entry
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, []string{"缺少锚点"}, fromYAML[0].Report.Issues)
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, s.Export(context.Background(), QueryOptions{}, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
