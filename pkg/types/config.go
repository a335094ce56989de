// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceKind selects the ArticleSource variant used by the generate stage.
type SourceKind string

const (
	SourceTemplate SourceKind = "template"
	SourceRemote   SourceKind = "remote"
)

// AuditorKind selects the Auditor variant.
type AuditorKind string

const (
	AuditorStub   AuditorKind = "stub"
	AuditorRemote AuditorKind = "remote"
)

// DiagramKind selects the structure Extractor variant.
type DiagramKind string

const (
	DiagramStatic DiagramKind = "static"
	DiagramRemote DiagramKind = "remote"
)

// ChartStyle selects how the per-topic chart SVG is drawn.
type ChartStyle string

const (
	ChartPlaceholder ChartStyle = "placeholder"
	ChartScore       ChartStyle = "score"
)

// AIConfig holds shared settings for stages that call the chat-completion API.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini", "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey is the credential for the chat-completion API. It is never read
	// from the environment by the stages themselves.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL points at an OpenAI-compatible endpoint. Empty uses the
	// OpenAI default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Temperature is the sampling temperature sent with each request.
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// GenerationConfig holds settings for the content generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// Source selects template or remote generation.
	Source SourceKind `json:"source" yaml:"source"`
}

// AuditConfig holds settings for the audit stage.
type AuditConfig struct {
	AIConfig `yaml:",inline"`

	// Strategy selects the stub or remote auditor.
	Strategy AuditorKind `json:"strategy" yaml:"strategy"`
}

// DiagramConfig holds settings for the structure extraction stage.
type DiagramConfig struct {
	AIConfig `yaml:",inline"`

	// Strategy selects the static or remote extractor.
	Strategy DiagramKind `json:"strategy" yaml:"strategy"`
}

// OutputConfig holds settings for the asset emitter.
type OutputConfig struct {
	// Dir is the output root (contains geo/, readable/, wx/, audit/, ...).
	Dir string `json:"dir" yaml:"dir"`

	// Chart selects the chart style: placeholder or score.
	Chart ChartStyle `json:"chart" yaml:"chart"`
}

// IndexConfig holds settings for the SQLite run index.
type IndexConfig struct {
	// Enabled records every emitted audit report in the index.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding runs.db.
	Dir string `json:"dir" yaml:"dir"`
}

// PublishConfig holds settings for uploading the output tree to an
// S3-compatible bucket.
type PublishConfig struct {
	// Endpoint is the object store URL (e.g. "http://localhost:9000").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Bucket is created on first use when missing.
	Bucket string `json:"bucket" yaml:"bucket"`

	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix" yaml:"prefix"`
}

// ScheduleConfig holds the cron trigger for unattended daily runs.
type ScheduleConfig struct {
	// Cron is a six-field (seconds-first) cron spec.
	Cron string `json:"cron" yaml:"cron"`
}

// PipelineConfig groups all stage configurations for one generate run.
type PipelineConfig struct {
	// TopicsFile is the JSON or YAML topic list.
	TopicsFile string `json:"topics_file" yaml:"topics_file"`

	// KeepGoing continues with the next topic when one fails.
	KeepGoing bool `json:"keep_going" yaml:"keep_going"`

	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Audit      AuditConfig      `json:"audit" yaml:"audit"`
	Diagram    DiagramConfig    `json:"diagram" yaml:"diagram"`
	Output     OutputConfig     `json:"output" yaml:"output"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	Publish    PublishConfig    `json:"publish" yaml:"publish"`
	Schedule   ScheduleConfig   `json:"schedule" yaml:"schedule"`
}
