// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package addgene

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/bioscrape/plasmid-engine/internal/httputil"
)

// sequenceLinkSelector matches the annotated-sequence download link on
// the sequence sub-page.
const sequenceLinkSelector = "a.genbank-file-download[href]"

// sequenceTries bounds the inner locate-and-download attempts before the
// sequence is declared absent.
const sequenceTries = 3

// ResolveSequence locates the sequence-file download link in the parsed
// sequence document and fetches its payload, trying up to three times.
// A record with no locatable or retrievable sequence returns (nil, nil):
// pooled libraries and legacy deposits legitimately have none, so absence
// is a terminal outcome rather than an error. The payload is decoded
// before return: invalid UTF-8 is replaced with U+FFFD and NUL bytes are
// removed, so persistence never sees raw binary noise.
func (f *Fetcher) ResolveSequence(ctx context.Context, seqDoc *goquery.Document) ([]byte, error) {
	href, ok := seqDoc.Find(sequenceLinkSelector).First().Attr("href")
	if !ok || href == "" {
		return nil, nil
	}
	href = f.resolveLink(href)

	var payload []byte
	for try := 0; try < sequenceTries; try++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		body, err := httputil.Get(ctx, f.client, href, browserUserAgent)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		payload = body
		break
	}
	if payload == nil {
		return nil, nil
	}
	return decodeSequence(payload), nil
}

// resolveLink makes a download link absolute. The vendor serves absolute
// file-host URLs, but a relative href resolves against the configured
// base rather than failing the download.
func (f *Fetcher) resolveLink(href string) string {
	link, err := url.Parse(href)
	if err != nil || link.IsAbs() {
		return href
	}
	base, err := url.Parse(f.baseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(link).String()
}

// decodeSequence normalizes a downloaded payload to clean text.
func decodeSequence(raw []byte) []byte {
	clean := bytes.ToValidUTF8(raw, []byte("�"))
	return bytes.ReplaceAll(clean, []byte{0x00}, nil)
}
