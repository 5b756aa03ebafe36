// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "topicgap/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Provider names a text-generation service.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// AIConfig holds settings for the text-generation backend used by extraction.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: openai or anthropic.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier passed through to the provider unchanged.
	Model string `json:"model" yaml:"model"`

	// APIKey is the credential for the provider. It is never written to disk.
	APIKey string `json:"-" yaml:"-"`

	// MaxAttempts bounds the total number of calls per document (default 5).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BackoffInitial is the first wait between attempts (default 1s). Each
	// following wait doubles up to BackoffMax (default 60s).
	BackoffInitial time.Duration `json:"backoff_initial" yaml:"backoff_initial"`
	BackoffMax     time.Duration `json:"backoff_max" yaml:"backoff_max"`
}

// SourceType identifies the on-disk format of a document source.
type SourceType string

const (
	SourceJSONL  SourceType = "jsonl"
	SourceJSON   SourceType = "json"
	SourceCSV    SourceType = "csv"
	SourceSQLite SourceType = "sqlite"
)

// SourceConfig locates a corpus and the field holding each document's text.
type SourceConfig struct {
	// Path is the file to read.
	Path string `json:"path" yaml:"path"`

	// Type is the source format. Empty means detect from the file extension.
	Type SourceType `json:"type" yaml:"type"`

	// TextColumn is the record field or table column holding the text.
	TextColumn string `json:"text_column" yaml:"text_column"`

	// Table is the table to read when Type is sqlite.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`

	// StripHTML converts HTML markup in each document to plain text.
	StripHTML bool `json:"strip_html" yaml:"strip_html"`
}

// ExtractionConfig holds settings for the topic extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	Source SourceConfig `json:"source" yaml:"source"`

	// OutputPath is the JSON file receiving topic counts.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// SampleSize is the number of documents to process (default 500).
	// Zero, negative, or at least the corpus size processes everything.
	SampleSize int `json:"sample_size" yaml:"sample_size"`

	// Seed drives the sampling PRNG (default 42).
	Seed uint64 `json:"seed" yaml:"seed"`

	// Workers is the number of concurrent extraction calls (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// RequestsPerSecond caps the call rate across workers. Zero disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// SkipFailures records documents whose extraction exhausted its retries
	// and continues, instead of aborting the run.
	SkipFailures bool `json:"skip_failures" yaml:"skip_failures"`
}

// AnalysisConfig holds settings for the gap analysis stage.
type AnalysisConfig struct {
	ScientificPath string `json:"scientific_path" yaml:"scientific_path"`
	RealWorldPath  string `json:"real_world_path" yaml:"real_world_path"`

	// OutputJSONL receives every record, one per line.
	OutputJSONL string `json:"output_jsonl" yaml:"output_jsonl"`

	// OutputMarkdown receives a table of the top TopN records.
	OutputMarkdown string `json:"output_md" yaml:"output_md"`

	// OutputHTML, when set, receives the same table rendered as HTML.
	OutputHTML string `json:"output_html,omitempty" yaml:"output_html,omitempty"`

	// DBPath, when set, names a SQLite database that stores the run.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`

	// TopN is the number of records in the Markdown and HTML tables (default 50).
	TopN int `json:"top_n" yaml:"top_n"`

	// PrintN is the number of records printed to the terminal (default 20).
	PrintN int `json:"print_n" yaml:"print_n"`
}

// FetchConfig holds settings for fetching scientific abstracts from arXiv.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	Query      string `json:"query" yaml:"query"`
	MaxResults int    `json:"max_results" yaml:"max_results"`

	// BatchSize is the page size requested per API call (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// PageDelay is the pause between pages (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	OutputPath string `json:"output_path" yaml:"output_path"`
}
