// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-engine/internal/audit"
	"github.com/pdiddy/content-engine/internal/diagram"
	"github.com/pdiddy/content-engine/internal/emit"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/index"
	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/schedule"
	"github.com/pdiddy/content-engine/internal/secrets"
	"github.com/pdiddy/content-engine/internal/topics"
	"github.com/pdiddy/content-engine/pkg/types"
)

const (
	defaultTopicsFile = "scripts/keywords.json"
	defaultOutputDir  = "output"
	defaultModel      = "gpt-4o-mini"
)

func setDefaults() {
	viper.SetDefault("topics_file", defaultTopicsFile)
	viper.SetDefault("keep_going", false)

	viper.SetDefault("ai.model", defaultModel)
	viper.SetDefault("ai.base_url", "")

	viper.SetDefault("generation.source", string(types.SourceTemplate))
	viper.SetDefault("generation.temperature", 0.7)
	viper.SetDefault("audit.strategy", string(types.AuditorStub))
	viper.SetDefault("audit.temperature", 0.0)
	viper.SetDefault("diagram.strategy", string(types.DiagramStatic))
	viper.SetDefault("diagram.temperature", 0.2)

	viper.SetDefault("output.dir", defaultOutputDir)
	viper.SetDefault("output.chart", string(types.ChartPlaceholder))

	viper.SetDefault("index.enabled", false)
	viper.SetDefault("index.dir", "")

	viper.SetDefault("publish.endpoint", "http://localhost:9000")
	viper.SetDefault("publish.bucket", "content-engine")
	viper.SetDefault("publish.prefix", "")

	viper.SetDefault("schedule.cron", schedule.DefaultSpec)
}

// bindFlags binds a command's flags to viper keys. Binding happens when the
// command runs so commands sharing a key do not override each other.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q for key %q", flag, key)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// configured exposes a viper key as a credential source.
func configured(key string) secrets.Source {
	return secrets.Source{Values: map[string]string{key: viper.GetString(key)}, Key: key}
}

// aiConfig builds the chat-completion settings for one stage. A stage-level
// model or base URL overrides the shared ai.* values.
func aiConfig(stage string) types.AIConfig {
	model := viper.GetString(stage + ".model")
	if model == "" {
		model = viper.GetString("ai.model")
	}
	baseURL := viper.GetString(stage + ".base_url")
	if baseURL == "" {
		baseURL = secrets.Resolve(
			configured("ai.base_url"),
			secrets.Source{Values: secrets.Env("OPENAI_BASE_URL"), Key: "OPENAI_BASE_URL"},
			secrets.Source{Values: loadedDotenv, Key: "OPENAI_BASE_URL"},
		)
	}
	return types.AIConfig{
		Model:       model,
		APIKey:      apiKey(),
		BaseURL:     baseURL,
		Temperature: viper.GetFloat64(stage + ".temperature"),
	}
}

// apiKey resolves the chat-completion credential: config or
// CONTENT_ENGINE_AI_API_KEY, then OPENAI_API_KEY, then .env, then
// .secrets/openai-api-key.
func apiKey() string {
	return secrets.Resolve(
		configured("ai.api_key"),
		secrets.Source{Values: secrets.Env("OPENAI_API_KEY"), Key: "OPENAI_API_KEY"},
		secrets.Source{Values: loadedDotenv, Key: "OPENAI_API_KEY"},
		secrets.Source{Values: loadedSecrets, Key: "openai-api-key"},
	)
}

// pipelineConfig assembles the typed configuration from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		TopicsFile: viper.GetString("topics_file"),
		KeepGoing:  viper.GetBool("keep_going"),
		Generation: types.GenerationConfig{
			AIConfig: aiConfig("generation"),
			Source:   types.SourceKind(viper.GetString("generation.source")),
		},
		Audit: types.AuditConfig{
			AIConfig: aiConfig("audit"),
			Strategy: types.AuditorKind(viper.GetString("audit.strategy")),
		},
		Diagram: types.DiagramConfig{
			AIConfig: aiConfig("diagram"),
			Strategy: types.DiagramKind(viper.GetString("diagram.strategy")),
		},
		Output: types.OutputConfig{
			Dir:   viper.GetString("output.dir"),
			Chart: types.ChartStyle(viper.GetString("output.chart")),
		},
		Index: types.IndexConfig{
			Enabled: viper.GetBool("index.enabled"),
			Dir:     indexDir(),
		},
		Publish: types.PublishConfig{
			Endpoint: viper.GetString("publish.endpoint"),
			Bucket:   viper.GetString("publish.bucket"),
			AccessKeyID: secrets.Resolve(
				configured("publish.access_key_id"),
				secrets.Source{Values: loadedDotenv, Key: "MINIO_ACCESS_KEY"},
				secrets.Source{Values: loadedSecrets, Key: "minio-access-key"},
			),
			SecretAccessKey: secrets.Resolve(
				configured("publish.secret_access_key"),
				secrets.Source{Values: loadedDotenv, Key: "MINIO_SECRET_KEY"},
				secrets.Source{Values: loadedSecrets, Key: "minio-secret-key"},
			),
			Prefix: viper.GetString("publish.prefix"),
		},
		Schedule: types.ScheduleConfig{
			Cron: viper.GetString("schedule.cron"),
		},
	}
}

// indexDir defaults the run index to a hidden directory under the output
// root.
func indexDir() string {
	if dir := viper.GetString("index.dir"); dir != "" {
		return dir
	}
	return filepath.Join(orDefault(viper.GetString("output.dir"), defaultOutputDir), index.DefaultDirName)
}

// chatClient builds the chat-completion client for a stage, or returns nil
// when the stage does not need one.
func chatClient(remote bool, cfg types.AIConfig) (llm.Client, error) {
	if !remote {
		return nil, nil
	}
	return llm.NewOpenAIClient(cfg)
}

// buildStages wires the pipeline components named by cfg. The returned
// cleanup closes the run index when one was opened.
func buildStages(cfg types.PipelineConfig) (pipeline.Stages, func(), error) {
	noop := func() {}

	genClient, err := chatClient(cfg.Generation.Source == types.SourceRemote, cfg.Generation.AIConfig)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}
	source, err := generate.NewSource(cfg.Generation, genClient, time.Now)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}

	auditClient, err := chatClient(cfg.Audit.Strategy == types.AuditorRemote, cfg.Audit.AIConfig)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}
	auditor, err := audit.New(cfg.Audit, auditClient)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}

	diagramClient, err := chatClient(cfg.Diagram.Strategy == types.DiagramRemote, cfg.Diagram.AIConfig)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}
	extractor, err := diagram.New(cfg.Diagram, diagramClient)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}

	emitter, err := emit.New(cfg.Output)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}

	sourceName := string(cfg.Generation.Source)
	if sourceName == "" {
		sourceName = string(types.SourceTemplate)
	}

	st := pipeline.Stages{
		Source:     source,
		Auditor:    auditor,
		Extractor:  extractor,
		Emitter:    emitter,
		RunID:      uuid.NewString(),
		SourceName: sourceName,
		KeepGoing:  cfg.KeepGoing,
	}

	if !cfg.Index.Enabled {
		return st, noop, nil
	}
	store, err := index.Open(cfg.Index)
	if err != nil {
		return pipeline.Stages{}, noop, err
	}
	st.Recorder = store
	return st, func() { _ = store.Close() }, nil
}

// runPipeline runs one pass over the configured topic list. The list is
// loaded and validated before any stage is built, so a bad list leaves the
// output root untouched.
func runPipeline(ctx context.Context, cfg types.PipelineConfig, w io.Writer) (pipeline.Summary, error) {
	list, err := topics.Load(cfg.TopicsFile)
	if err != nil {
		return pipeline.Summary{}, err
	}

	st, cleanup, err := buildStages(cfg)
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer cleanup()

	fmt.Fprintf(w, "run %s: source=%s auditor=%s diagram=%s output=%s\n",
		st.RunID, st.SourceName, orDefault(string(cfg.Audit.Strategy), string(types.AuditorStub)),
		orDefault(string(cfg.Diagram.Strategy), string(types.DiagramStatic)), orDefault(cfg.Output.Dir, defaultOutputDir))
	fmt.Fprintf(w, "loaded %d topic(s) from %s\n", len(list), cfg.TopicsFile)
	return pipeline.Run(ctx, st, list, w)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
