// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/arxiv"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/extract"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/report"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/secrets"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

const defaultHTTPTimeout = 120 * time.Second

// Viper keys. Each maps to a flag, a config file entry, and a TOPICGAP_
// environment variable (dots and dashes become underscores).
const (
	keySecretsDir  = "secrets-dir"
	keyUserAgent   = "http.user-agent"
	keyHTTPTimeout = "http.timeout"
	keyVerbose     = "verbose"

	keyProvider       = "ai.provider"
	keyModel          = "ai.model"
	keyMaxAttempts    = "ai.max-attempts"
	keyBackoffInitial = "ai.backoff-initial"
	keyBackoffMax     = "ai.backoff-max"

	keyExtractInput  = "extract.input"
	keyExtractType   = "extract.type"
	keyTextColumn    = "extract.text-column"
	keyTable         = "extract.table"
	keyStripHTML     = "extract.strip-html"
	keyExtractOutput = "extract.output"
	keySampleSize    = "extract.sample-size"
	keySeed          = "extract.seed"
	keyWorkers       = "extract.workers"
	keyRPS           = "extract.rps"
	keySkipFailures  = "extract.skip-failures"

	keyScientific  = "analyze.scientific"
	keyRealWorld   = "analyze.real-world"
	keyOutputJSONL = "analyze.output-jsonl"
	keyOutputMD    = "analyze.output-md"
	keyOutputHTML  = "analyze.output-html"
	keyDB          = "analyze.db"
	keyTopN        = "analyze.top-n"
	keyPrintN      = "analyze.print-n"

	keyFetchQuery  = "fetch.query"
	keyFetchMax    = "fetch.max-results"
	keyFetchBatch  = "fetch.batch-size"
	keyFetchDelay  = "fetch.delay"
	keyFetchOutput = "fetch.output"
)

// bindFlags binds each viper key to the named flag in fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func httpConfig(v *viper.Viper) types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   v.GetDuration(keyHTTPTimeout),
		UserAgent: v.GetString(keyUserAgent),
	}
}

// aiConfig reads the backend settings and resolves the provider credential.
func aiConfig(v *viper.Viper, keys map[string]string) (types.AIConfig, error) {
	cfg := types.AIConfig{
		HTTPConfig:     httpConfig(v),
		Provider:       types.Provider(v.GetString(keyProvider)),
		Model:          v.GetString(keyModel),
		MaxAttempts:    v.GetInt(keyMaxAttempts),
		BackoffInitial: v.GetDuration(keyBackoffInitial),
		BackoffMax:     v.GetDuration(keyBackoffMax),
	}
	if cfg.Provider == "" {
		cfg.Provider = types.ProviderOpenAI
	}

	var keyFile string
	switch cfg.Provider {
	case types.ProviderOpenAI:
		keyFile = secrets.OpenAIKey
	case types.ProviderAnthropic:
		keyFile = secrets.AnthropicKey
	default:
		return cfg, fmt.Errorf("unknown provider %q (want openai or anthropic)", cfg.Provider)
	}

	apiKey, ok := secrets.Lookup(keys, keyFile)
	if !ok {
		return cfg, fmt.Errorf("%s: %w (add %s to the secrets directory or set its environment variable)",
			cfg.Provider, extract.ErrMissingCredential, keyFile)
	}
	cfg.APIKey = apiKey
	return cfg, nil
}

func extractionConfig(v *viper.Viper, keys map[string]string) (types.ExtractionConfig, error) {
	ai, err := aiConfig(v, keys)
	if err != nil {
		return types.ExtractionConfig{}, err
	}
	return types.ExtractionConfig{
		AIConfig: ai,
		Source: types.SourceConfig{
			Path:       v.GetString(keyExtractInput),
			Type:       types.SourceType(v.GetString(keyExtractType)),
			TextColumn: v.GetString(keyTextColumn),
			Table:      v.GetString(keyTable),
			StripHTML:  v.GetBool(keyStripHTML),
		},
		OutputPath:        v.GetString(keyExtractOutput),
		SampleSize:        v.GetInt(keySampleSize),
		Seed:              v.GetUint64(keySeed),
		Workers:           v.GetInt(keyWorkers),
		RequestsPerSecond: v.GetFloat64(keyRPS),
		SkipFailures:      v.GetBool(keySkipFailures),
	}, nil
}

func analysisConfig(v *viper.Viper) types.AnalysisConfig {
	cfg := types.AnalysisConfig{
		ScientificPath: v.GetString(keyScientific),
		RealWorldPath:  v.GetString(keyRealWorld),
		OutputJSONL:    v.GetString(keyOutputJSONL),
		OutputMarkdown: v.GetString(keyOutputMD),
		OutputHTML:     v.GetString(keyOutputHTML),
		DBPath:         v.GetString(keyDB),
		TopN:           v.GetInt(keyTopN),
		PrintN:         v.GetInt(keyPrintN),
	}
	if cfg.TopN <= 0 {
		cfg.TopN = report.DefaultTopN
	}
	if cfg.PrintN <= 0 {
		cfg.PrintN = report.DefaultPrintN
	}
	return cfg
}

func fetchConfig(v *viper.Viper) types.FetchConfig {
	cfg := types.FetchConfig{
		HTTPConfig: httpConfig(v),
		Query:      v.GetString(keyFetchQuery),
		MaxResults: v.GetInt(keyFetchMax),
		BatchSize:  v.GetInt(keyFetchBatch),
		PageDelay:  v.GetDuration(keyFetchDelay),
		OutputPath: v.GetString(keyFetchOutput),
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = arxiv.DefaultMaxResults
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = arxiv.DefaultBatchSize
	}
	return cfg
}
