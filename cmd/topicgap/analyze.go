// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/counts"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/gap"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/report"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank topics by how overrepresented they are in real-world text",
	Long: `Analyze reads the topic counts of a scientific and a real-world corpus,
merges topics that differ only in case, and scores each topic by the ratio of
its real-world frequency to its scientific frequency. Topics never seen in
real-world text are dropped.

The full ranking is written as JSON Lines and the top entries as a Markdown
table. An HTML page and a SQLite record of the run are written on request.`,
	Example: `  topicgap analyze --scientific topics/scientific.json --real-world topics/real_world.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := analysisConfig(viper.GetViper())
		if cfg.ScientificPath == "" || cfg.RealWorldPath == "" {
			return fmt.Errorf("--scientific and --real-world are required")
		}
		return runAnalyze(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.String("scientific", "", "topic counts of the scientific corpus")
	f.String("real-world", "", "topic counts of the real-world corpus")
	f.String("output-jsonl", "results/gap_analysis.jsonl", "JSON Lines file receiving every record")
	f.String("output-md", "results/gap_analysis.md", "Markdown file receiving the top records")
	f.String("output-html", "", "HTML file receiving the top records (optional)")
	f.String("db", "", "SQLite database recording the run (optional)")
	f.Int("top-n", report.DefaultTopN, "records in the Markdown and HTML tables")
	f.Int("print-n", report.DefaultPrintN, "records printed to the terminal")

	bindFlags(f, map[string]string{
		keyScientific:  "scientific",
		keyRealWorld:   "real-world",
		keyOutputJSONL: "output-jsonl",
		keyOutputMD:    "output-md",
		keyOutputHTML:  "output-html",
		keyDB:          "db",
		keyTopN:        "top-n",
		keyPrintN:      "print-n",
	})

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, cfg types.AnalysisConfig, stdout io.Writer) error {
	sci, err := counts.Load(cfg.ScientificPath)
	if err != nil {
		return err
	}
	rw, err := counts.Load(cfg.RealWorldPath)
	if err != nil {
		return err
	}

	a := gap.Analyze(sci, rw)
	fmt.Fprintf(stdout, "Scientific mentions: %d, real-world mentions: %d, topics: %d (%d without real-world mentions dropped)\n",
		a.Summary.TotalScientific, a.Summary.TotalRealWorld, a.Summary.Topics, a.Summary.Dropped)

	fmt.Fprintf(stdout, "Top %d topics with the highest gap score:\n", min(cfg.PrintN, len(a.Records)))
	fmt.Fprintln(stdout, report.RenderTable(a.Records, cfg.PrintN))

	if cfg.OutputJSONL != "" {
		if err := writeOutput(cfg.OutputJSONL, func(w io.Writer) error {
			return report.WriteJSONL(w, a.Records)
		}); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Full analysis saved to %s\n", cfg.OutputJSONL)
	}

	if cfg.OutputMarkdown != "" {
		if err := writeOutput(cfg.OutputMarkdown, func(w io.Writer) error {
			return report.WriteMarkdown(w, a.Records, cfg.TopN)
		}); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Top %d results saved to %s\n", cfg.TopN, cfg.OutputMarkdown)
	}

	if cfg.OutputHTML != "" {
		if err := writeOutput(cfg.OutputHTML, func(w io.Writer) error {
			return report.WriteHTML(w, a.Records, cfg.TopN)
		}); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "HTML report saved to %s\n", cfg.OutputHTML)
	}

	if cfg.DBPath != "" {
		runID, err := saveRun(ctx, cfg, a.Records)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Run %s stored in %s\n", runID, cfg.DBPath)
	}
	return nil
}

func saveRun(ctx context.Context, cfg types.AnalysisConfig, records []types.TopicGapRecord) (string, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", cfg.DBPath, err)
	}
	sink, err := report.OpenSQLite(cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer sink.Close()

	run := report.Run{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now(),
		ScientificPath: cfg.ScientificPath,
		RealWorldPath:  cfg.RealWorldPath,
	}
	if err := sink.SaveRun(ctx, run, records); err != nil {
		return "", err
	}
	return run.ID, nil
}

// writeOutput creates path and its parent directory and hands the file to write.
func writeOutput(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
