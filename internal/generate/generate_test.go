// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

// --- mock client ---

type mockClient struct {
	reply string
	err   error
	reqs  []llm.Request
}

func (m *mockClient) Complete(_ context.Context, req llm.Request) (string, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

var diabetes = types.Topic{Slug: "diabetes-101", Zh: "糖尿病", En: "Diabetes"}

func fixedClock(s string) func() time.Time {
	return func() time.Time {
		tm, _ := time.Parse(dateFmt, s)
		return tm
	}
}

func TestTemplateSourceGenerate(t *testing.T) {
	src := &TemplateSource{Now: fixedClock("2026-10-16")}

	art, err := src.Generate(context.Background(), diabetes)
	require.NoError(t, err)

	want := "<h1>糖尿病（diabetes-101）</h1><p>这是一篇自动生成的双语医学文章，生成于 2026-10-16。</p>" +
		"<hr/>" +
		"<h1>Diabetes (diabetes-101)</h1><p>This is an automatically generated bilingual medical article, created on 2026-10-16.</p>"
	assert.Equal(t, want, art.HTML)
	assert.Equal(t, "diabetes-101", art.Slug)
}

func TestTemplateSourceIdempotentWithinDay(t *testing.T) {
	morning := &TemplateSource{Now: func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC) }}
	evening := &TemplateSource{Now: func() time.Time { return time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC) }}

	a, err := morning.Generate(context.Background(), diabetes)
	require.NoError(t, err)
	b, err := evening.Generate(context.Background(), diabetes)
	require.NoError(t, err)
	assert.Equal(t, a.HTML, b.HTML)

	next := &TemplateSource{Now: fixedClock("2026-10-17")}
	c, err := next.Generate(context.Background(), diabetes)
	require.NoError(t, err)
	assert.NotEqual(t, a.HTML, c.HTML)
}

func TestTemplateSourceEscapesTitles(t *testing.T) {
	src := &TemplateSource{Now: fixedClock("2026-10-16")}
	art, err := src.Generate(context.Background(), types.Topic{Slug: "a-b", Zh: "甲<乙>", En: "A & B"})
	require.NoError(t, err)
	assert.Contains(t, art.HTML, "<h1>甲&lt;乙&gt;（a-b）</h1>")
	assert.Contains(t, art.HTML, "<h1>A &amp; B (a-b)</h1>")
}

func TestRemoteSourceGenerate(t *testing.T) {
	client := &mockClient{reply: "# 糖尿病（diabetes-101）\n\n正文。\n\n---\n\n# Diabetes (diabetes-101)\n\n## Causes\n\nBody text."}
	src := NewRemoteSource(client, "gpt-test", 0.7, fixedClock("2026-10-16"))

	art, err := src.Generate(context.Background(), diabetes)
	require.NoError(t, err)

	assert.Contains(t, art.HTML, "<h1>糖尿病（diabetes-101）</h1>")
	assert.Contains(t, art.HTML, "<hr>")
	assert.Contains(t, art.HTML, "<h2>Causes</h2>")

	require.Len(t, client.reqs, 1)
	req := client.reqs[0]
	assert.Equal(t, "gpt-test", req.Model)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, "Topic (Chinese): 糖尿病")
	assert.Contains(t, req.Messages[1].Content, "Topic (English): Diabetes")
	assert.Contains(t, req.Messages[1].Content, "Date: 2026-10-16")
}

func TestRemoteSourcePassesRawHTML(t *testing.T) {
	client := &mockClient{reply: "<h1>糖尿病</h1>\n<p>raw</p>"}
	src := NewRemoteSource(client, "m", 0.2, nil)

	art, err := src.Generate(context.Background(), diabetes)
	require.NoError(t, err)
	assert.Contains(t, art.HTML, "<h1>糖尿病</h1>")
	assert.InDelta(t, 0.2, client.reqs[0].Temperature, 1e-9)
}

func TestRemoteSourceKeepsZeroTemperature(t *testing.T) {
	client := &mockClient{reply: "# 糖尿病"}
	src := NewRemoteSource(client, "m", 0, nil)

	_, err := src.Generate(context.Background(), diabetes)
	require.NoError(t, err)
	require.Len(t, client.reqs, 1)
	assert.Zero(t, client.reqs[0].Temperature)
}

func TestRemoteSourceServiceError(t *testing.T) {
	client := &mockClient{err: fmt.Errorf("%w: connection refused", types.ErrService)}
	src := NewRemoteSource(client, "m", 0, nil)

	_, err := src.Generate(context.Background(), diabetes)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrService)
	assert.Len(t, client.reqs, 1, "no retry")
}

func TestRemoteSourceEmptyReply(t *testing.T) {
	src := NewRemoteSource(&mockClient{reply: "  \n"}, "m", 0, nil)
	_, err := src.Generate(context.Background(), diabetes)
	assert.ErrorIs(t, err, types.ErrService)
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.GenerationConfig
		client  llm.Client
		want    string
		wantErr error
	}{
		{name: "default is template", cfg: types.GenerationConfig{}, want: "*generate.TemplateSource"},
		{name: "template", cfg: types.GenerationConfig{Source: types.SourceTemplate}, want: "*generate.TemplateSource"},
		{name: "remote", cfg: types.GenerationConfig{Source: types.SourceRemote}, client: &mockClient{}, want: "*generate.RemoteSource"},
		{name: "remote without client", cfg: types.GenerationConfig{Source: types.SourceRemote}, wantErr: types.ErrConfig},
		{name: "unknown", cfg: types.GenerationConfig{Source: "jinja"}, wantErr: types.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.cfg, tt.client, nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fmt.Sprintf("%T", src))
		})
	}
}
