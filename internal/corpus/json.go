// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

const maxLineBytes = 64 << 20

func openLines(path string) (*os.File, *bufio.Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), maxLineBytes)
	return f, sc, nil
}

func loadJSONL(path, column string) ([]string, error) {
	f, sc, err := openLines(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []string
	found := false
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		v, ok := rec[column]
		found = found || ok
		docs = append(docs, textValue(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(docs) > 0 && !found {
		return nil, fmt.Errorf("%w: %q in %s", ErrColumnNotFound, column, path)
	}
	return docs, nil
}

func loadJSON(path, column string) ([]string, error) {
	recs, err := readJSONArray(path)
	if err != nil {
		return nil, err
	}

	docs := make([]string, 0, len(recs))
	found := false
	for _, rec := range recs {
		v, ok := rec[column]
		found = found || ok
		docs = append(docs, textValue(v))
	}
	if len(docs) > 0 && !found {
		return nil, fmt.Errorf("%w: %q in %s", ErrColumnNotFound, column, path)
	}
	return docs, nil
}

func readJSONArray(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var recs []map[string]any
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing %s: expected a JSON array of objects: %w", path, err)
	}
	return recs, nil
}

func jsonlColumns(path string) ([]string, error) {
	f, sc, err := openLines(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var kt keyTracker
	n := 0
	for sc.Scan() && n < inspectLimit {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, n+1, err)
		}
		kt.add(rec)
		n++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return kt.keys, nil
}

func jsonColumns(path string) ([]string, error) {
	recs, err := readJSONArray(path)
	if err != nil {
		return nil, err
	}
	var kt keyTracker
	for i, rec := range recs {
		if i == inspectLimit {
			break
		}
		kt.add(rec)
	}
	return kt.keys, nil
}
