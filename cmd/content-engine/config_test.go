// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/internal/index"
	"github.com/pdiddy/content-engine/pkg/types"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	loadedSecrets = map[string]string{}
	loadedDotenv = map[string]string{}
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Cleanup(viper.Reset)
}

func TestPipelineConfigDefaults(t *testing.T) {
	resetConfig(t)

	cfg := pipelineConfig()
	assert.Equal(t, defaultTopicsFile, cfg.TopicsFile)
	assert.Equal(t, types.SourceTemplate, cfg.Generation.Source)
	assert.Equal(t, types.AuditorStub, cfg.Audit.Strategy)
	assert.Equal(t, types.DiagramStatic, cfg.Diagram.Strategy)
	assert.Equal(t, types.ChartPlaceholder, cfg.Output.Chart)
	assert.Equal(t, defaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, filepath.Join(defaultOutputDir, index.DefaultDirName), cfg.Index.Dir)
	assert.Equal(t, defaultModel, cfg.Generation.Model)
	assert.False(t, cfg.KeepGoing)
	assert.False(t, cfg.Index.Enabled)
}

func TestPipelineConfigStageOverrides(t *testing.T) {
	resetConfig(t)
	viper.Set("ai.model", "deepseek-chat")
	viper.Set("audit.model", "gpt-4o")
	viper.Set("output.dir", "site")

	cfg := pipelineConfig()
	assert.Equal(t, "deepseek-chat", cfg.Generation.Model)
	assert.Equal(t, "gpt-4o", cfg.Audit.Model)
	assert.Equal(t, "deepseek-chat", cfg.Diagram.Model)
	assert.Equal(t, filepath.Join("site", index.DefaultDirName), cfg.Index.Dir)
}

func TestAPIKeyPrecedence(t *testing.T) {
	resetConfig(t)
	loadedSecrets = map[string]string{"openai-api-key": "from-secrets"}
	assert.Equal(t, "from-secrets", apiKey())

	loadedDotenv = map[string]string{"OPENAI_API_KEY": "from-dotenv"}
	assert.Equal(t, "from-dotenv", apiKey())

	t.Setenv("OPENAI_API_KEY", "from-env")
	assert.Equal(t, "from-env", apiKey())

	viper.Set("ai.api_key", "from-config")
	assert.Equal(t, "from-config", apiKey())
}

func TestPublishCredentialsFromSecrets(t *testing.T) {
	resetConfig(t)
	loadedSecrets = map[string]string{
		"minio-access-key": "access",
		"minio-secret-key": "secret",
	}

	cfg := pipelineConfig()
	assert.Equal(t, "access", cfg.Publish.AccessKeyID)
	assert.Equal(t, "secret", cfg.Publish.SecretAccessKey)
}

func TestBuildStagesRemoteWithoutKey(t *testing.T) {
	resetConfig(t)
	viper.Set("generation.source", "remote")

	_, _, err := buildStages(pipelineConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestBuildStagesUnknownStrategy(t *testing.T) {
	resetConfig(t)
	viper.Set("diagram.strategy", "crayon")

	_, _, err := buildStages(pipelineConfig())
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestRunPipelineTemplate(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	topicsFile := filepath.Join(dir, "keywords.json")
	require.NoError(t, os.WriteFile(topicsFile,
		[]byte(`[{"slug":"diabetes-101","zh":"糖尿病","en":"Diabetes"}]`), 0o644))

	out := filepath.Join(dir, "output")
	viper.Set("topics_file", topicsFile)
	viper.Set("output.dir", out)
	viper.Set("index.enabled", true)

	var buf bytes.Buffer
	summary, err := runPipeline(context.Background(), pipelineConfig(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Emitted)
	assert.Equal(t, 9, summary.Files)
	assert.FileExists(t, filepath.Join(out, "geo", "diabetes-101.html"))
	assert.FileExists(t, filepath.Join(out, index.DefaultDirName, "runs.db"))
	assert.Contains(t, buf.String(), "source=template")
}

func TestRunPipelineBadTopicsWritesNothing(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	topicsFile := filepath.Join(dir, "keywords.json")
	require.NoError(t, os.WriteFile(topicsFile, []byte(`[{"zh":"糖尿病","en":"Diabetes"}]`), 0o644))

	out := filepath.Join(dir, "output")
	viper.Set("topics_file", topicsFile)
	viper.Set("output.dir", out)
	viper.Set("index.enabled", true)

	_, err := runPipeline(context.Background(), pipelineConfig(), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfig)
	assert.NoDirExists(t, out)
}

func TestBuildStagesUnknownChartStyle(t *testing.T) {
	resetConfig(t)
	viper.Set("output.chart", "png")

	_, _, err := buildStages(pipelineConfig())
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestGenerationTemperature(t *testing.T) {
	resetConfig(t)
	assert.InDelta(t, 0.7, pipelineConfig().Generation.Temperature, 1e-9)

	viper.Set("generation.temperature", 0)
	assert.Zero(t, pipelineConfig().Generation.Temperature)
}

func TestReportWithoutIndexCreatesNothing(t *testing.T) {
	resetConfig(t)
	out := filepath.Join(t.TempDir(), "output")
	require.NoError(t, reportCmd.Flags().Set("output-dir", out))
	t.Cleanup(func() { _ = reportCmd.Flags().Set("output-dir", defaultOutputDir) })

	require.NoError(t, runReport(reportCmd, nil))
	assert.NoDirExists(t, out)
}
