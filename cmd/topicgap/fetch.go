// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/arxiv"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch-arxiv",
	Short: "Fetch arXiv abstracts into a JSON Lines corpus",
	Long: `Fetch-arxiv queries the arXiv API newest first, one page at a time with a
pause between pages, and writes {"title","abstract"} records. Extract the
result with --text-column abstract.`,
	Example: `  topicgap fetch-arxiv --query 'cat:q-bio.QM AND all:clinical' --max-results 500 --output datasets/arxiv.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := fetchConfig(viper.GetViper())
		if cfg.Query == "" || cfg.OutputPath == "" {
			return fmt.Errorf("--query and --output are required")
		}

		stdout := cmd.OutOrStdout()
		fmt.Fprintf(stdout, "Fetching %d abstracts for query: '%s'\n", cfg.MaxResults, cfg.Query)

		f := &arxiv.Fetcher{
			Client:    &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
			BatchSize: cfg.BatchSize,
			Delay:     cfg.PageDelay,
			Progress:  fetchProgress(cmd.ErrOrStderr()),
		}
		papers, fetchErr := f.Fetch(cmd.Context(), cfg.Query, cfg.MaxResults)
		if fetchErr != nil && len(papers) == 0 {
			return fetchErr
		}
		if fetchErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: stopped early: %v\n", fetchErr)
		}

		if len(papers) == 0 {
			fmt.Fprintln(stdout, "No abstracts fetched.")
			return nil
		}
		if err := writeOutput(cfg.OutputPath, func(w io.Writer) error {
			return arxiv.WriteJSONL(w, papers)
		}); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Successfully saved %d abstracts to %s\n", len(papers), cfg.OutputPath)
		return nil
	},
}

func init() {
	f := fetchCmd.Flags()
	f.String("query", "", "arXiv search_query expression")
	f.Int("max-results", arxiv.DefaultMaxResults, "maximum abstracts to fetch")
	f.Int("batch-size", arxiv.DefaultBatchSize, "abstracts requested per page")
	f.Duration("delay", arxiv.DefaultDelay, "pause between pages")
	f.String("output", "", "JSON Lines file receiving the abstracts")

	bindFlags(f, map[string]string{
		keyFetchQuery:  "query",
		keyFetchMax:    "max-results",
		keyFetchBatch:  "batch-size",
		keyFetchDelay:  "delay",
		keyFetchOutput: "output",
	})

	rootCmd.AddCommand(fetchCmd)
}

func fetchProgress(w io.Writer) func(fetched, limit int) {
	start := time.Now()
	return func(fetched, limit int) {
		fmt.Fprintf(w, "\rFetched %d/%d abstracts (%s)", fetched, limit, time.Since(start).Round(time.Second))
		if fetched >= limit {
			fmt.Fprintln(w)
		}
	}
}
