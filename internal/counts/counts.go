// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package counts reads and writes topic count files and the run manifest
// that accompanies them.
package counts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

// Load reads a JSON object mapping topic to count.
func Load(path string) (types.TopicCounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topic counts %s: %w", path, err)
	}

	var c types.TopicCounts
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing topic counts %s: %w", path, err)
	}
	for topic, n := range c {
		if n < 0 {
			return nil, fmt.Errorf("topic counts %s: negative count %d for %q", path, n, topic)
		}
	}
	if c == nil {
		c = types.TopicCounts{}
	}
	return c, nil
}

// Save writes c as an indented JSON object, creating parent directories.
func Save(path string, c types.TopicCounts) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling topic counts: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// ManifestPath returns the manifest location for a counts file:
// topics/real_world.json becomes topics/real_world.run.yaml.
func ManifestPath(countsPath string) string {
	return strings.TrimSuffix(countsPath, filepath.Ext(countsPath)) + ".run.yaml"
}

// WriteManifest saves m as YAML.
func WriteManifest(path string, m types.RunManifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return writeFile(path, data)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (types.RunManifest, error) {
	var m types.RunManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
