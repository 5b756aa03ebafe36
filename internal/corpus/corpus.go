// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the raw text documents of a corpus from disk.
//
// Supported formats are JSON Lines, a JSON array of objects, CSV with a
// header row, and a SQLite table. Each record contributes one document: the
// value of the configured text column. Records whose value is missing or not
// a string contribute an empty document, which extraction skips.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

// ErrUnsupportedSource reports a source type this package cannot read.
var ErrUnsupportedSource = errors.New("unsupported source type")

// ErrColumnNotFound reports that no record carries the text column.
var ErrColumnNotFound = errors.New("text column not found")

// inspectLimit bounds the number of records scanned when listing columns of
// schemaless formats.
const inspectLimit = 100

// ResolveType returns cfg.Type, or the type implied by the file extension
// when cfg.Type is empty. Unknown types wrap ErrUnsupportedSource.
func ResolveType(cfg types.SourceConfig) (types.SourceType, error) {
	t := types.SourceType(strings.ToLower(string(cfg.Type)))
	if t == "" {
		switch strings.ToLower(filepath.Ext(cfg.Path)) {
		case ".jsonl", ".ndjson":
			t = types.SourceJSONL
		case ".json":
			t = types.SourceJSON
		case ".csv":
			t = types.SourceCSV
		case ".db", ".sqlite", ".sqlite3":
			t = types.SourceSQLite
		default:
			return "", fmt.Errorf("%w: cannot infer type of %s (use jsonl, json, csv, or sqlite)", ErrUnsupportedSource, cfg.Path)
		}
	}

	switch t {
	case types.SourceJSONL, types.SourceJSON, types.SourceCSV, types.SourceSQLite:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (use jsonl, json, csv, or sqlite)", ErrUnsupportedSource, t)
	}
}

// Validate checks cfg without touching the file system.
func Validate(cfg types.SourceConfig) error {
	if cfg.Path == "" {
		return fmt.Errorf("source path is required")
	}
	t, err := ResolveType(cfg)
	if err != nil {
		return err
	}
	if cfg.TextColumn == "" {
		return fmt.Errorf("text column is required")
	}
	if t == types.SourceSQLite && cfg.Table == "" {
		return fmt.Errorf("table is required for sqlite sources")
	}
	return nil
}

// Load returns one document per record of the source, in file order.
func Load(ctx context.Context, cfg types.SourceConfig) ([]string, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	t, _ := ResolveType(cfg)

	var (
		docs []string
		err  error
	)
	switch t {
	case types.SourceJSONL:
		docs, err = loadJSONL(cfg.Path, cfg.TextColumn)
	case types.SourceJSON:
		docs, err = loadJSON(cfg.Path, cfg.TextColumn)
	case types.SourceCSV:
		docs, err = loadCSV(cfg.Path, cfg.TextColumn)
	case types.SourceSQLite:
		docs, err = loadSQLite(ctx, cfg.Path, cfg.Table, cfg.TextColumn)
	}
	if err != nil {
		return nil, err
	}

	if cfg.StripHTML {
		for i, d := range docs {
			docs[i] = HTMLToText(d)
		}
	}
	return docs, nil
}

// Columns lists the field or column names of a source. For JSON formats it
// is the union of keys over the first records, in first-seen order.
func Columns(ctx context.Context, cfg types.SourceConfig) ([]string, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("source path is required")
	}
	t, err := ResolveType(cfg)
	if err != nil {
		return nil, err
	}

	switch t {
	case types.SourceJSONL:
		return jsonlColumns(cfg.Path)
	case types.SourceJSON:
		return jsonColumns(cfg.Path)
	case types.SourceCSV:
		return csvColumns(cfg.Path)
	default:
		if cfg.Table == "" {
			return sqliteTables(ctx, cfg.Path)
		}
		return sqliteColumns(ctx, cfg.Path, cfg.Table)
	}
}

// textValue returns v when it is a string, else "".
func textValue(v any) string {
	s, _ := v.(string)
	return s
}

// keyTracker accumulates column names in first-seen order.
type keyTracker struct {
	seen map[string]bool
	keys []string
}

func (k *keyTracker) add(rec map[string]any) {
	if k.seen == nil {
		k.seen = map[string]bool{}
	}
	// Map order is random; sort the new keys of one record for stable output.
	var fresh []string
	for key := range rec {
		if !k.seen[key] {
			fresh = append(fresh, key)
			k.seen[key] = true
		}
	}
	slices.Sort(fresh)
	k.keys = append(k.keys, fresh...)
}
