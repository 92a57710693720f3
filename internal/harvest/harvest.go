// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest orchestrates batch retrieval: fetch both documents for
// an identifier, detect the not-found sentinel, extract every attribute,
// assemble an immutable record, and hand it to exactly one sink call.
package harvest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/bioscrape/plasmid-engine/internal/addgene"
	"github.com/bioscrape/plasmid-engine/internal/extract"
	"github.com/bioscrape/plasmid-engine/internal/httputil"
	"github.com/bioscrape/plasmid-engine/internal/sink"
	"github.com/bioscrape/plasmid-engine/pkg/types"
)

const defaultConcurrency = 8

// BatchResult holds the outcome of one batch run. Records is ordered by
// completion; per-identifier field extraction is strictly sequential
// inside its own task, but ordering across identifiers carries no
// meaning.
type BatchResult struct {
	Harvested int
	Skipped   int
	Failed    int
	Records   []*types.Plasmid
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Harvested + r.Skipped + r.Failed
}

// HasFailures reports whether any identifiers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ByName indexes the accumulated records by plasmid name. When distinct
// identifiers share a name, the later completion wins; last-write-wins is
// the documented collision policy for downstream deduplication.
func (r BatchResult) ByName() map[string]*types.Plasmid {
	m := make(map[string]*types.Plasmid, len(r.Records))
	for _, p := range r.Records {
		m[p.Name] = p
	}
	return m
}

// Pipeline drives harvesting for a batch of identifiers.
type Pipeline struct {
	fetcher *addgene.Fetcher
	retry   *httputil.Executor
	sink    sink.Sink
	log     *slog.Logger
	vendor  string
	workers int
}

// New builds a Pipeline. The vendor tag selects a registered profile;
// when none is registered every identifier yields no documents and is
// skipped, which keeps unknown vendors an extension point rather than an
// error path.
func New(cfg types.HarvestConfig, s sink.Sink, log *slog.Logger) *Pipeline {
	fetcher, ok := addgene.NewFetcher(cfg)
	if !ok {
		fetcher = nil
	}
	workers := cfg.Concurrency
	if workers <= 0 {
		workers = defaultConcurrency
	}
	return &Pipeline{
		fetcher: fetcher,
		retry:   httputil.NewExecutor(cfg.Retry),
		sink:    s,
		log:     log,
		vendor:  cfg.Vendor,
		workers: workers,
	}
}

// Run processes the identifier list with a bounded worker pool and
// returns the accumulated records. Individual failures never abort the
// batch. Cancellation lets in-flight identifiers drain; records already
// accumulated are returned alongside ctx.Err(), and abandoned
// identifiers count as failed so the tally always covers the whole
// batch. A record becomes visible only once fully assembled and
// persisted. Persistence runs on the collector goroutine alone, so
// sinks never see concurrent Write calls.
func (p *Pipeline) Run(ctx context.Context, ids []int) (BatchResult, error) {
	type outcome struct {
		record  *types.Plasmid
		skipped bool
		err     error
	}

	results := make(chan outcome)

	// Single consumer: accumulation and persistence both need no locking
	// beyond the channel.
	var result BatchResult
	var collect sync.WaitGroup
	collect.Add(1)
	go func() {
		defer collect.Done()
		for out := range results {
			switch {
			case out.err != nil:
				result.Failed++
			case out.skipped:
				result.Skipped++
			default:
				if err := p.sink.Write(ctx, out.record); err != nil {
					p.log.Error("persisting failed",
						"id", out.record.ID, "name", out.record.Name, "error", err)
					result.Failed++
					continue
				}
				p.log.Info("harvested", "id", out.record.ID, "name", out.record.Name)
				result.Harvested++
				result.Records = append(result.Records, out.record)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	// Every worker sends exactly one outcome. The collector drains until
	// close(results) below, which follows g.Wait(), so the sends cannot
	// block forever.
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results <- outcome{err: err}
				return err
			}
			record, skipped, err := p.processOne(gctx, id)
			if err != nil {
				p.log.Error("identifier failed", "id", id, "error", err)
			}
			results <- outcome{record: record, skipped: skipped, err: err}
			return nil
		})
	}

	runErr := g.Wait()
	close(results)
	collect.Wait()

	p.log.Info("batch finished",
		"harvested", result.Harvested,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"total", result.Total())
	return result, runErr
}

// processOne walks one identifier through fetch, existence check,
// extraction, and assembly; the caller persists. skipped is true for
// the not-found sentinel, an unresolvable name, or an unrecognized
// vendor; err is non-nil when retries exhausted.
func (p *Pipeline) processOne(ctx context.Context, id int) (record *types.Plasmid, skipped bool, err error) {
	if p.fetcher == nil {
		p.log.Warn("no profile for vendor, skipping", "vendor", p.vendor, "id", id)
		return nil, true, nil
	}

	// FETCHING. Backoff state lives entirely in this call frame.
	detailDoc, seqDoc, err := p.fetchDocuments(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("fetching documents: %w", err)
	}

	// CHECKING_EXISTENCE: the sentinel check precedes all field work.
	if extract.NotFound(detailDoc) {
		p.log.Info("no such identifier, skipping", "id", id)
		return nil, true, nil
	}
	name, ok := extract.Name(detailDoc)
	if !ok {
		p.log.Info("no resolvable name, discarding", "id", id)
		return nil, true, nil
	}

	// EXTRACTING: each attribute independently, through the executor.
	draft := &types.Plasmid{
		ID:        id,
		Name:      name,
		Vendor:    p.vendor,
		VendorURL: p.fetcher.DetailURL(id),
	}
	for _, step := range extract.Rules(detailDoc, draft) {
		if err := p.retry.Do(ctx, step); err != nil {
			return nil, false, fmt.Errorf("extracting fields for %d: %w", id, err)
		}
	}

	var payload []byte
	err = p.retry.Do(ctx, func() error {
		var rerr error
		payload, rerr = p.fetcher.ResolveSequence(ctx, seqDoc)
		return rerr
	})
	if err != nil {
		return nil, false, fmt.Errorf("resolving sequence for %d: %w", id, err)
	}
	draft.Sequence = payload

	if draft.Size == nil {
		draft.Size = sizeFromSequence(payload)
	}

	// ASSEMBLED: draft is complete and never mutated past this point.
	return draft, false, nil
}

func (p *Pipeline) fetchDocuments(ctx context.Context, id int) (detail, sequences *goquery.Document, err error) {
	err = p.retry.Do(ctx, func() error {
		var ferr error
		detail, sequences, ferr = p.fetcher.Fetch(ctx, id)
		return ferr
	})
	return detail, sequences, err
}

// sizeFromSequence recovers the base-pair size from a GenBank LOCUS
// header when the detail page lacked the size field: the third
// whitespace-delimited token of the first line. Best effort; a payload
// that is not a GenBank file leaves the size absent.
func sizeFromSequence(payload []byte) *int {
	if len(payload) == 0 {
		return nil
	}
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	if !scanner.Scan() {
		return nil
	}
	fields := bytes.Fields(scanner.Bytes())
	if len(fields) < 3 {
		return nil
	}
	n, err := strconv.Atoi(string(fields[2]))
	if err != nil {
		return nil
	}
	return &n
}
