// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

const htmlStyle = `body{font-family:sans-serif;margin:2rem;color:#1c1917}
table{border-collapse:collapse;font-size:0.9rem}
th,td{border:1px solid #a8a29e;padding:0.3rem 0.5rem}
thead th{background:#f1f5f9}`

// DefaultHTMLTitle heads pages written by WriteHTML.
const DefaultHTMLTitle = "Topic Gap Analysis"

// WriteHTML renders the first n records as a standalone HTML page.
func WriteHTML(w io.Writer, records []types.TopicGapRecord, n int) error {
	return WriteHTMLTitled(w, DefaultHTMLTitle, records, n)
}

// WriteHTMLTitled is WriteHTML with a custom page title.
func WriteHTMLTitled(w io.Writer, title string, records []types.TopicGapRecord, n int) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(records, n)), &body); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>%[1]s</title><style>%[2]s</style></head>\n<body>\n<h1>%[1]s</h1>\n%[3]s</body></html>\n",
		html.EscapeString(title), htmlStyle, body.String())
	return err
}
