//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline inputs and outputs. Each can be overridden with the environment
// variable named in its target's doc comment.
const (
	defaultArxivQuery     = "cat:q-bio.QM AND all:clinical"
	defaultArxivCorpus    = "datasets/arxiv.jsonl"
	defaultRealWorld      = "datasets/real_world.jsonl"
	defaultScientificJSON = "topics/scientific.json"
	defaultRealWorldJSON  = "topics/real_world.json"
)

// FetchArxiv downloads arXiv abstracts into datasets/arxiv.jsonl.
// ARXIV_QUERY overrides the search expression.
func FetchArxiv() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "fetch-arxiv",
		"--query", envOr("ARXIV_QUERY", defaultArxivQuery),
		"--output", defaultArxivCorpus)
}

// ExtractScientific writes topic counts for the arXiv corpus.
func ExtractScientific() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "extract",
		"--input", defaultArxivCorpus,
		"--text-column", "abstract",
		"--output", defaultScientificJSON)
}

// ExtractRealWorld writes topic counts for the real-world corpus.
// REAL_WORLD_CORPUS and TEXT_COLUMN override the input file and its text field.
func ExtractRealWorld() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "extract",
		"--input", envOr("REAL_WORLD_CORPUS", defaultRealWorld),
		"--text-column", envOr("TEXT_COLUMN", "text"),
		"--output", defaultRealWorldJSON)
}

// Analyze ranks topics from the two count files into results/.
func Analyze() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "analyze",
		"--scientific", defaultScientificJSON,
		"--real-world", defaultRealWorldJSON,
		"--output-html", "results/gap_analysis.html")
}

// Pipeline runs every stage in order.
func Pipeline() error {
	mg.SerialDeps(Init, FetchArxiv, ExtractScientific, ExtractRealWorld, Analyze)
	fmt.Println("Pipeline complete. See results/.")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
