// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package addgene

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGenBank = `LOCUS       pTest        5169 bp    DNA     circular SYN
ORIGIN
        1 gacggatcgg gagatctccc gatcccctat ggtgcactct cagtacaatc
//
`

func seqDoc(t *testing.T, href string) *goquery.Document {
	t.Helper()
	html := `<html><body></body></html>`
	if href != "" {
		html = fmt.Sprintf(`<html><body><a class="genbank-file-download" href=%q>Download</a></body></html>`, href)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestResolveSequence_Downloads(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, sampleGenBank)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	payload, err := f.ResolveSequence(context.Background(), seqDoc(t, ts.URL+"/files/1.gbk"))
	require.NoError(t, err)
	assert.Equal(t, []byte(sampleGenBank), payload)
	// The file host rejects library identification; downloads use a
	// browser User-Agent.
	assert.Equal(t, "Mozilla/5.0", gotUA)
}

func TestResolveSequence_RelativeLinkResolvesAgainstBase(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/1.gbk" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, sampleGenBank)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	payload, err := f.ResolveSequence(context.Background(), seqDoc(t, "/files/1.gbk"))
	require.NoError(t, err)
	assert.Equal(t, []byte(sampleGenBank), payload)
}

func TestResolveSequence_NoLinkIsAbsentNotError(t *testing.T) {
	f, ok := NewFetcher(testConfig("http://unused.invalid"))
	require.True(t, ok)

	payload, err := f.ResolveSequence(context.Background(), seqDoc(t, ""))
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestResolveSequence_SecondTrySucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, sampleGenBank)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	payload, err := f.ResolveSequence(context.Background(), seqDoc(t, ts.URL))
	require.NoError(t, err)
	assert.Equal(t, []byte(sampleGenBank), payload)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResolveSequence_ThreeFailuresResolveAbsent(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	f, ok := NewFetcher(testConfig(ts.URL))
	require.True(t, ok)

	payload, err := f.ResolveSequence(context.Background(), seqDoc(t, ts.URL))
	require.NoError(t, err, "exhausted inner tries resolve to absent, not failure")
	assert.Nil(t, payload)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDecodeSequence(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"clean text untouched", []byte("LOCUS pX 100 bp"), []byte("LOCUS pX 100 bp")},
		{"nul bytes removed", []byte("LOC\x00US"), []byte("LOCUS")},
		{"invalid utf8 replaced", []byte{'A', 0xff, 'B'}, []byte("A�B")},
		{"mixed", []byte{0x00, 'O', 0xc3}, []byte("O�")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeSequence(tt.in))
		})
	}
}
