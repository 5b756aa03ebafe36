// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate drives topic extraction over a sampled corpus and
// accumulates topic occurrence counts.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

const (
	// DefaultSampleSize is the number of documents processed per corpus.
	DefaultSampleSize = 500

	// DefaultSeed makes sampling reproducible across runs.
	DefaultSeed uint64 = 42
)

// TopicExtractor returns the topics of one document.
type TopicExtractor interface {
	Topics(ctx context.Context, doc string) ([]string, error)
}

// Config controls a corpus run.
type Config struct {
	// SampleSize is the number of documents to draw. Zero, negative, or at
	// least len(docs) processes the whole corpus.
	SampleSize int
	Seed       uint64

	// Workers bounds concurrent extraction calls. Values below 2 process
	// documents one at a time, in sample order.
	Workers int

	// RequestsPerSecond caps the extraction call rate. Zero disables the cap.
	RequestsPerSecond float64

	// SkipFailures counts documents whose extraction failed and continues.
	// Otherwise the first failure aborts the run.
	SkipFailures bool

	// Progress, if set, is called after each document with the number of
	// documents finished so far. Calls are serialized and done is strictly
	// increasing.
	Progress func(done, total int)
}

// Result is the outcome of a corpus run.
type Result struct {
	Counts types.TopicCounts

	// Sampled is the number of documents selected for processing.
	Sampled int
	// Processed is the number of documents whose extraction returned.
	Processed int
	// Failed is the number of documents skipped after exhausting retries.
	Failed int
	// Mentions is the total number of topic strings returned.
	Mentions int
}

// Sample returns n documents drawn uniformly without replacement using a
// PRNG seeded with seed. The whole corpus is returned unchanged when n is
// not positive or n >= len(docs).
func Sample(docs []string, n int, seed uint64) []string {
	if n <= 0 || n >= len(docs) {
		return docs
	}

	r := rand.New(rand.NewPCG(seed, seed))
	idx := make([]int, len(docs))
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first n slots hold the sample.
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]string, n)
	for i := range out {
		out[i] = docs[idx[i]]
	}
	return out
}

// Run samples docs, extracts topics from each, and counts every returned
// topic string by exact match. Per-document progress and skipped failures
// are reported to w.
func Run(ctx context.Context, ex TopicExtractor, docs []string, cfg Config, w io.Writer) (Result, error) {
	sample := Sample(docs, cfg.SampleSize, cfg.Seed)
	total := len(sample)

	res := Result{
		Counts:  types.TopicCounts{},
		Sampled: total,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	done := 0

	// finish records one document under mu.
	finish := func() {
		done++
		if cfg.Progress != nil {
			cfg.Progress(done, total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, doc := range sample {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}

			topics, err := ex.Topics(gctx, doc)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if cfg.SkipFailures && gctx.Err() == nil {
					res.Failed++
					fmt.Fprintf(w, "failed  document %d: %v\n", i, err)
					finish()
					return nil
				}
				return fmt.Errorf("extracting document %d: %w", i, err)
			}

			for _, t := range topics {
				res.Counts[t]++
			}
			res.Mentions += len(topics)
			res.Processed++
			finish()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}
