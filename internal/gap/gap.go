// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gap compares topic frequencies between a scientific corpus and a
// real-world corpus and ranks topics by how much more often they appear in
// real-world text.
package gap

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

// Epsilon keeps the gap ratio finite for topics absent from the scientific corpus.
const Epsilon = 1e-9

// Summary describes the inputs of an analysis.
type Summary struct {
	TotalScientific int
	TotalRealWorld  int
	// Topics is the number of distinct grouped topics across both corpora.
	Topics int
	// Dropped is the number of topics with no real-world occurrences.
	Dropped int
}

// Analysis is the ranked output of Analyze.
type Analysis struct {
	Records []types.TopicGapRecord
	Summary Summary
}

// Key returns the grouping key for a topic label.
func Key(topic string) string {
	return strings.ToLower(norm.NFC.String(topic))
}

// Group merges labels that differ only in case by summing their counts.
func Group(counts types.TopicCounts) types.TopicCounts {
	grouped := make(types.TopicCounts, len(counts))
	for topic, n := range counts {
		grouped[Key(topic)] += n
	}
	return grouped
}

// Combine returns one record per grouped topic in either corpus, ordered by
// key, with frequencies computed over each corpus's full grouped total. A
// corpus with a zero total yields zero frequencies. Labels are the lower-case
// keys and no record is dropped.
func Combine(scientific, realWorld types.TopicCounts) ([]types.TopicGapRecord, Summary) {
	sci := Group(scientific)
	rw := Group(realWorld)

	sum := Summary{
		TotalScientific: sci.Total(),
		TotalRealWorld:  rw.Total(),
	}

	keys := make([]string, 0, len(sci)+len(rw))
	for k := range sci {
		keys = append(keys, k)
	}
	for k := range rw {
		if _, ok := sci[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	sum.Topics = len(keys)

	records := make([]types.TopicGapRecord, 0, len(keys))
	for _, k := range keys {
		sciFreq := frequency(sci[k], sum.TotalScientific)
		rwFreq := frequency(rw[k], sum.TotalRealWorld)
		records = append(records, types.TopicGapRecord{
			Topic:           k,
			ScientificCount: sci[k],
			RealWorldCount:  rw[k],
			ScientificFreq:  sciFreq,
			RealWorldFreq:   rwFreq,
			GapScore:        rwFreq / (sciFreq + Epsilon),
		})
	}
	return records, sum
}

// Analyze ranks topics by gap score, highest first. Topics that never occur
// in the real-world corpus are dropped. Equal scores keep key order, so
// identical inputs always produce identical output. Labels are title-cased.
func Analyze(scientific, realWorld types.TopicCounts) Analysis {
	all, sum := Combine(scientific, realWorld)

	records := make([]types.TopicGapRecord, 0, len(all))
	for _, r := range all {
		if r.RealWorldCount == 0 {
			sum.Dropped++
			continue
		}
		records = append(records, r)
	}

	slices.SortStableFunc(records, func(a, b types.TopicGapRecord) int {
		return cmp.Compare(b.GapScore, a.GapScore)
	})

	title := cases.Title(language.Und)
	for i := range records {
		records[i].Topic = title.String(records[i].Topic)
	}

	return Analysis{Records: records, Summary: sum}
}

// Score returns the ranked records of Analyze.
func Score(scientific, realWorld types.TopicCounts) []types.TopicGapRecord {
	return Analyze(scientific, realWorld).Records
}

func frequency(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
