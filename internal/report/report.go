// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes ranked gap records as JSON Lines, Markdown, HTML,
// terminal tables, and SQLite rows.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

const (
	// DefaultTopN is the number of records in Markdown and HTML reports.
	DefaultTopN = 50

	// DefaultPrintN is the number of records printed to the terminal.
	DefaultPrintN = 20
)

var header = table.Row{"Topic", "Scientific Count", "Real World Count", "Scientific Freq", "Real World Freq", "Gap Score"}

// WriteJSONL writes one JSON object per record.
func WriteJSONL(w io.Writer, records []types.TopicGapRecord) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// Markdown renders the first n records as a GitHub Markdown table.
func Markdown(records []types.TopicGapRecord, n int) string {
	return newTable(records, n, 0).RenderMarkdown()
}

// WriteMarkdown writes the Markdown table of the first n records.
func WriteMarkdown(w io.Writer, records []types.TopicGapRecord, n int) error {
	_, err := io.WriteString(w, Markdown(records, n)+"\n")
	return err
}

// RenderTable renders the first n records as a boxed table for a terminal.
func RenderTable(records []types.TopicGapRecord, n int) string {
	tw := newTable(records, n, terminalTopicWidth)
	tw.SetStyle(table.StyleLight)
	return tw.Render()
}

// terminalTopicWidth wraps long topic names in terminal output.
const terminalTopicWidth = 48

func newTable(records []types.TopicGapRecord, n, topicWidth int) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(header)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, WidthMax: topicWidth},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for _, r := range head(records, n) {
		tw.AppendRow(table.Row{
			r.Topic,
			r.ScientificCount,
			r.RealWorldCount,
			formatFloat(r.ScientificFreq),
			formatFloat(r.RealWorldFreq),
			formatFloat(r.GapScore),
		})
	}
	return tw
}

// head returns at most n records; n <= 0 means all.
func head(records []types.TopicGapRecord, n int) []types.TopicGapRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

// formatFloat prints six significant digits.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
