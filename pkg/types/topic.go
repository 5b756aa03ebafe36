// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TopicCounts maps a topic label to its number of occurrences in one corpus.
// Topics that never occurred are absent.
type TopicCounts map[string]int

// Total returns the sum of all counts.
func (c TopicCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// TopicGapRecord is one row of the gap analysis.
type TopicGapRecord struct {
	Topic           string  `json:"topic" yaml:"topic" db:"topic"`
	ScientificCount int     `json:"scientific_count" yaml:"scientific_count" db:"scientific_count"`
	RealWorldCount  int     `json:"real_world_count" yaml:"real_world_count" db:"real_world_count"`
	ScientificFreq  float64 `json:"scientific_freq" yaml:"scientific_freq" db:"scientific_freq"`
	RealWorldFreq   float64 `json:"real_world_freq" yaml:"real_world_freq" db:"real_world_freq"`
	GapScore        float64 `json:"gap_score" yaml:"gap_score" db:"gap_score"`
}

// RunManifest describes one extraction run. It is written next to the
// topic counts so a result can be traced back to its inputs.
type RunManifest struct {
	RunID      string    `yaml:"run_id"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`

	Source     SourceConfig `yaml:"source"`
	Provider   Provider     `yaml:"provider"`
	Model      string       `yaml:"model"`
	SampleSize int          `yaml:"sample_size"`
	Seed       uint64       `yaml:"seed"`
	Workers    int          `yaml:"workers"`

	Documents    int `yaml:"documents"`
	Sampled      int `yaml:"sampled"`
	Processed    int `yaml:"processed"`
	Failed       int `yaml:"failed"`
	Mentions     int `yaml:"mentions"`
	UniqueTopics int `yaml:"unique_topics"`
}
