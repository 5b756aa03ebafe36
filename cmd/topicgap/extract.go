// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/aggregate"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/corpus"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/counts"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/extract"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/retry"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract clinical topics from a corpus and write topic counts",
	Long: `Extract samples documents from a corpus, asks the configured language model
for the clinical topics in each one, and writes a JSON object mapping each topic
to the number of documents that mentioned it.

Each model call is attempted up to five times with exponential backoff. By
default a document that still fails aborts the run; --skip-failures counts it
and continues. A run manifest is written next to the counts file.`,
	Example: `  topicgap extract --input datasets/notes.jsonl --text-column text --output topics/real_world.json
  topicgap extract --input datasets/arxiv.jsonl --text-column abstract --output topics/scientific.json --workers 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := extractionConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		if err := corpus.Validate(cfg.Source); err != nil {
			return err
		}
		if cfg.OutputPath == "" {
			return fmt.Errorf("--output is required")
		}

		gen, err := extract.NewBackend(cfg.AIConfig)
		if err != nil {
			return err
		}
		return runExtract(cmd.Context(), cfg, gen, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := extractCmd.Flags()
	f.String("input", "", "corpus file (.jsonl, .json, .csv, .db)")
	f.String("type", "", "corpus format: jsonl, json, csv, sqlite (default: from extension)")
	f.String("text-column", "text", "field or column holding the document text")
	f.String("table", "", "table to read when the corpus is a SQLite database")
	f.Bool("strip-html", false, "convert HTML documents to plain text before extraction")
	f.String("output", "", "JSON file receiving topic counts")
	f.Int("sample-size", aggregate.DefaultSampleSize, "documents to sample; 0 processes the whole corpus")
	f.Uint64("seed", aggregate.DefaultSeed, "sampling seed")
	f.Int("workers", 1, "concurrent model calls")
	f.Float64("rps", 0, "maximum model calls per second (0 = unlimited)")
	f.Bool("skip-failures", false, "count documents that exhaust their retries and continue")
	f.String("provider", string(types.ProviderOpenAI), "model provider: openai or anthropic")
	f.String("model", "", "model identifier (default: provider default)")
	f.Int("max-attempts", 5, "attempts per document before giving up")
	f.Duration("backoff-initial", time.Second, "first wait between attempts")
	f.Duration("backoff-max", 60*time.Second, "longest wait between attempts")

	bindFlags(f, map[string]string{
		keyExtractInput:   "input",
		keyExtractType:    "type",
		keyTextColumn:     "text-column",
		keyTable:          "table",
		keyStripHTML:      "strip-html",
		keyExtractOutput:  "output",
		keySampleSize:     "sample-size",
		keySeed:           "seed",
		keyWorkers:        "workers",
		keyRPS:            "rps",
		keySkipFailures:   "skip-failures",
		keyProvider:       "provider",
		keyModel:          "model",
		keyMaxAttempts:    "max-attempts",
		keyBackoffInitial: "backoff-initial",
		keyBackoffMax:     "backoff-max",
	})

	rootCmd.AddCommand(extractCmd)
}

// runExtract loads the corpus, aggregates topic counts through gen, and
// writes the counts and run manifest.
func runExtract(ctx context.Context, cfg types.ExtractionConfig, gen extract.TopicGenerator, stdout, stderr io.Writer) error {
	manifest := types.RunManifest{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Source:     cfg.Source,
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		SampleSize: cfg.SampleSize,
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
	}

	fmt.Fprintf(stdout, "Loading corpus from %s...\n", cfg.Source.Path)
	docs, err := corpus.Load(ctx, cfg.Source)
	if err != nil {
		return err
	}
	manifest.Documents = len(docs)

	ex := extract.New(gen,
		extract.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			Initial:     cfg.BackoffInitial,
			Max:         cfg.BackoffMax,
		}),
		extract.WithLogger(slog.Default()),
	)

	total := min(len(docs), cfg.SampleSize)
	if cfg.SampleSize <= 0 {
		total = len(docs)
	}
	fmt.Fprintf(stdout, "Processing %d documents...\n", total)

	res, err := aggregate.Run(ctx, ex, docs, aggregate.Config{
		SampleSize:        cfg.SampleSize,
		Seed:              cfg.Seed,
		Workers:           cfg.Workers,
		RequestsPerSecond: cfg.RequestsPerSecond,
		SkipFailures:      cfg.SkipFailures,
		Progress:          progressPrinter(stderr),
	}, stderr)
	if err != nil {
		return err
	}

	if len(res.Counts) == 0 {
		fmt.Fprintln(stdout, "No topics were extracted.")
		return nil
	}

	if err := counts.Save(cfg.OutputPath, res.Counts); err != nil {
		return err
	}

	manifest.FinishedAt = time.Now().UTC()
	manifest.Sampled = res.Sampled
	manifest.Processed = res.Processed
	manifest.Failed = res.Failed
	manifest.Mentions = res.Mentions
	manifest.UniqueTopics = len(res.Counts)
	if err := counts.WriteManifest(counts.ManifestPath(cfg.OutputPath), manifest); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Successfully extracted and saved %d unique topics to %s\n", len(res.Counts), cfg.OutputPath)
	if res.Failed > 0 {
		fmt.Fprintf(stdout, "%d of %d documents failed extraction\n", res.Failed, res.Sampled)
	}
	return nil
}

// progressPrinter rewrites a single status line on w.
func progressPrinter(w io.Writer) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(w, "\rExtracting topics: %d/%d", done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}
