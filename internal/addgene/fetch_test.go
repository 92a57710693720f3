// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package addgene

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioscrape/plasmid-engine/internal/httputil"
	"github.com/bioscrape/plasmid-engine/pkg/types"
)

const testDetailHTML = `<html><head><title>pTest (Plasmid #42888)</title></head>
<body><span class="material-name">pTest</span></body></html>`

const testSequencesHTML = `<html><body>
<a class="genbank-file-download" href="%s">Download</a>
</body></html>`

func testConfig(baseURL string) types.HarvestConfig {
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "plasmid-engine/test",
		},
		BaseURL:           baseURL,
		Vendor:            VendorAddgene,
		RequestsPerSecond: 1000, // effectively unthrottled in tests
	}
}

func TestProfileURLs(t *testing.T) {
	p, ok := Lookup(VendorAddgene)
	require.True(t, ok)
	assert.Equal(t, "https://www.addgene.org/42888/", p.DetailURL("https://www.addgene.org", 42888))
	assert.Equal(t, "https://www.addgene.org/42888/sequences/", p.SequencesURL("https://www.addgene.org", 42888))
}

func TestLookup_UnknownVendor(t *testing.T) {
	_, ok := Lookup("genscript")
	assert.False(t, ok)

	_, ok = NewFetcher(types.HarvestConfig{Vendor: "genscript"})
	assert.False(t, ok, "unregistered vendor yields no fetcher, not an error")
}

func TestFetch_TwoDocuments(t *testing.T) {
	var detailHits, seqHits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/42888/":
			atomic.AddInt32(&detailHits, 1)
			fmt.Fprint(w, testDetailHTML)
		case "/42888/sequences/":
			atomic.AddInt32(&seqHits, 1)
			fmt.Fprintf(w, testSequencesHTML, "/files/42888.gbk")
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	detail, sequences, err := f.Fetch(context.Background(), 42888)
	require.NoError(t, err)
	assert.Equal(t, "pTest", detail.Find("span.material-name").Text())
	href, _ := sequences.Find("a.genbank-file-download").Attr("href")
	assert.Equal(t, "/files/42888.gbk", href)
	assert.Equal(t, int32(1), atomic.LoadInt32(&detailHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&seqHits))
}

func TestFetch_ServerErrorIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	_, _, err := f.Fetch(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, httputil.IsTransient(err))
}

func TestFetch_NotFoundPageStillParses(t *testing.T) {
	// The vendor serves the sentinel in markup with a 404 status; the
	// fetcher must hand the document back rather than erroring.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><head><title>Page Not Found</title></head><body></body></html>`)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	detail, _, err := f.Fetch(context.Background(), 999999999)
	require.NoError(t, err)
	assert.Contains(t, detail.Find("title").Text(), "Page Not Found")
}

func TestFetch_SendsConfiguredUserAgent(t *testing.T) {
	var agents []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		fmt.Fprint(w, testDetailHTML)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	_, _, err := f.Fetch(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	for _, ua := range agents {
		assert.Equal(t, "plasmid-engine/test", ua)
	}
}
