// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package addgene

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/bioscrape/plasmid-engine/internal/httputil"
	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// browserUserAgent is sent on sequence-file downloads; the vendor's file
// host rejects default client identification.
const browserUserAgent = "Mozilla/5.0"

// Fetcher retrieves the two documents describing one identifier. All
// outbound requests pass through a shared rate limiter so total request
// rate stays bounded regardless of how many workers share the Fetcher.
type Fetcher struct {
	client    *http.Client
	profile   Profile
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

// NewFetcher builds a Fetcher for the configured vendor. ok is false when
// the vendor tag has no registered profile; that is the documented
// extension point, not an error.
func NewFetcher(cfg types.HarvestConfig) (f *Fetcher, ok bool) {
	profile, ok := Lookup(cfg.Vendor)
	if !ok {
		return nil, false
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		profile:   profile,
		baseURL:   base,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}, true
}

// DetailURL returns the detail page URL for id; it becomes the record's
// VendorURL.
func (f *Fetcher) DetailURL(id int) string {
	return f.profile.DetailURL(f.baseURL, id)
}

// Fetch retrieves and parses the detail and sequence documents for one
// identifier: two GETs per call. Transport failures surface as transient
// errors for the retry executor; unparseable markup is permanent.
func (f *Fetcher) Fetch(ctx context.Context, id int) (detail, sequences *goquery.Document, err error) {
	detail, err = f.fetchDocument(ctx, f.profile.DetailURL(f.baseURL, id))
	if err != nil {
		return nil, nil, fmt.Errorf("detail page for %d: %w", id, err)
	}
	sequences, err = f.fetchDocument(ctx, f.profile.SequencesURL(f.baseURL, id))
	if err != nil {
		return nil, nil, fmt.Errorf("sequence page for %d: %w", id, err)
	}
	return detail, sequences, nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := httputil.Get(ctx, f.client, url, f.userAgent)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, httputil.Permanent(fmt.Errorf("parsing %s: %w", url, err))
	}
	return doc, nil
}
