// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

func openCSV(path string) (*os.File, *csv.Reader, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, nil, fmt.Errorf("%s: missing header row", path)
		}
		return nil, nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	return f, r, header, nil
}

func loadCSV(path, column string) ([]string, error) {
	f, r, header, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	col := slices.Index(header, column)
	if col < 0 {
		return nil, fmt.Errorf("%w: %q in %s (columns: %v)", ErrColumnNotFound, column, path, header)
	}

	var docs []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if col < len(rec) {
			docs = append(docs, rec[col])
		} else {
			docs = append(docs, "")
		}
	}
	return docs, nil
}

func csvColumns(path string) ([]string, error) {
	f, _, header, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	f.Close()
	return header, nil
}
