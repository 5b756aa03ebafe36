// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv fetches paper abstracts from the arXiv Atom API to build a
// scientific corpus.
package arxiv

import (
	"bufio"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/httputil"
)

// apiBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// Defaults for paging through results.
const (
	DefaultBatchSize  = 100
	DefaultMaxResults = 500
	DefaultDelay      = 3 * time.Second
)

// Abstract is one fetched paper. It is written as a JSONL record whose
// abstract field serves as the document text.
type Abstract struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

// Fetcher pages through arXiv search results.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	BatchSize int
	// Delay is the pause between page requests.
	Delay time.Duration
	// Progress, when set, receives the running total after each page.
	Progress func(fetched, limit int)
}

// Fetch returns up to limit abstracts matching query, newest first. Paging
// stops early when a page comes back empty. On a failed page the abstracts
// gathered so far are returned together with the error.
func (f *Fetcher) Fetch(ctx context.Context, query string, limit int) ([]Abstract, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	batch := f.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	var papers []Abstract
	for start := 0; start < limit; {
		page, err := f.fetchPage(ctx, client, query, start, min(batch, limit-start))
		if err != nil {
			return papers, fmt.Errorf("fetching results from %d: %w", start, err)
		}
		if len(page) == 0 {
			break
		}
		papers = append(papers, page...)
		start += len(page)
		if f.Progress != nil {
			f.Progress(len(papers), limit)
		}

		if start >= limit || f.Delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return papers, ctx.Err()
		case <-time.After(f.Delay):
		}
	}
	return papers, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, client *http.Client, query string, start, n int) ([]Abstract, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", strconv.Itoa(start))
	params.Set("max_results", strconv.Itoa(n))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var doc feed
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]Abstract, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		papers = append(papers, Abstract{
			Title:    collapse(e.Title),
			Abstract: collapse(e.Summary),
		})
	}
	return papers, nil
}

// collapse trims s and folds the line breaks arXiv puts inside titles and
// abstracts into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// WriteJSONL writes one {"title","abstract"} object per line.
func WriteJSONL(w io.Writer, papers []Abstract) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i, p := range papers {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding abstract %d: %w", i, err)
		}
	}
	return bw.Flush()
}
