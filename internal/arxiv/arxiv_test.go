// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeArxiv serves total entries across pages and records each query.
type fakeArxiv struct {
	mu      sync.Mutex
	total   int
	queries []map[string]string
	status  int
}

func (f *fakeArxiv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.queries = append(f.queries, map[string]string{
		"search_query": q.Get("search_query"),
		"start":        q.Get("start"),
		"max_results":  q.Get("max_results"),
		"sortBy":       q.Get("sortBy"),
		"sortOrder":    q.Get("sortOrder"),
		"ua":           r.Header.Get("User-Agent"),
	})
	fail := f.status != 0 && len(f.queries) > 1
	f.mu.Unlock()

	if fail {
		w.WriteHeader(f.status)
		return
	}

	start, _ := strconv.Atoi(q.Get("start"))
	n, _ := strconv.Atoi(q.Get("max_results"))
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><feed xmlns="http://www.w3.org/2005/Atom">`)
	for i := start; i < start+n && i < f.total; i++ {
		fmt.Fprintf(&b, "<entry><id>http://arxiv.org/abs/2401.%05dv1</id><title>\n  Paper %d\n  on sepsis </title><summary>  Abstract %d\n text. </summary></entry>", i, i, i)
	}
	b.WriteString(`</feed>`)
	w.Header().Set("Content-Type", "application/atom+xml")
	fmt.Fprint(w, b.String())
}

func withServer(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := apiBase
	apiBase = ts.URL
	t.Cleanup(func() {
		apiBase = old
		ts.Close()
	})
	return ts
}

func TestFetch_Paginates(t *testing.T) {
	fake := &fakeArxiv{total: 1000}
	ts := withServer(t, fake)

	var progress []int
	f := &Fetcher{Client: ts.Client(), UserAgent: "topicgap-test", BatchSize: 100,
		Progress: func(fetched, _ int) { progress = append(progress, fetched) }}
	papers, err := f.Fetch(context.Background(), "cat:q-bio.QM", 250)
	require.NoError(t, err)

	require.Len(t, papers, 250)
	assert.Equal(t, Abstract{Title: "Paper 0 on sepsis", Abstract: "Abstract 0 text."}, papers[0])
	assert.Equal(t, "Paper 249 on sepsis", papers[249].Title)
	assert.Equal(t, []int{100, 200, 250}, progress)

	require.Len(t, fake.queries, 3)
	wantStarts := []string{"0", "100", "200"}
	wantSizes := []string{"100", "100", "50"}
	for i, q := range fake.queries {
		assert.Equal(t, "cat:q-bio.QM", q["search_query"])
		assert.Equal(t, wantStarts[i], q["start"])
		assert.Equal(t, wantSizes[i], q["max_results"])
		assert.Equal(t, "submittedDate", q["sortBy"])
		assert.Equal(t, "descending", q["sortOrder"])
		assert.Equal(t, "topicgap-test", q["ua"])
	}
}

func TestFetch_StopsOnEmptyPage(t *testing.T) {
	fake := &fakeArxiv{total: 120}
	ts := withServer(t, fake)

	f := &Fetcher{Client: ts.Client()}
	papers, err := f.Fetch(context.Background(), "all:asthma", 500)
	require.NoError(t, err)

	assert.Len(t, papers, 120)
	assert.Len(t, fake.queries, 3)
}

func TestFetch_PartialOnError(t *testing.T) {
	fake := &fakeArxiv{total: 1000, status: http.StatusInternalServerError}
	ts := withServer(t, fake)

	f := &Fetcher{Client: ts.Client(), BatchSize: 10}
	papers, err := f.Fetch(context.Background(), "all:asthma", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Len(t, papers, 10)
}

func TestFetch_MalformedXML(t *testing.T) {
	ts := withServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<feed><entry>")
	}))

	f := &Fetcher{Client: ts.Client()}
	_, err := f.Fetch(context.Background(), "all:asthma", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing arXiv response")
}

func TestFetch_EmptyQuery(t *testing.T) {
	f := &Fetcher{}
	_, err := f.Fetch(context.Background(), "  ", 5)
	require.Error(t, err)
}

func TestFetch_ContextCancelledBetweenPages(t *testing.T) {
	fake := &fakeArxiv{total: 1000}
	ts := withServer(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	f := &Fetcher{Client: ts.Client(), BatchSize: 10, Delay: 1 << 40,
		Progress: func(int, int) { cancel() }}
	papers, err := f.Fetch(ctx, "all:asthma", 50)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, papers, 10)
}

func TestWriteJSONL(t *testing.T) {
	papers := []Abstract{
		{Title: "A <b> title", Abstract: "First & only."},
		{Title: "Second", Abstract: "More."},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, papers))

	assert.Contains(t, buf.String(), `"A <b> title"`)

	var got []Abstract
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var a Abstract
		require.NoError(t, json.Unmarshal(sc.Bytes(), &a))
		got = append(got, a)
	}
	assert.Equal(t, papers, got)
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  plain  ", "plain"},
		{"line\n  break", "line break"},
		{"\ttabs\tand\nnewlines\n", "tabs and newlines"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, collapse(tt.in))
		})
	}
}
