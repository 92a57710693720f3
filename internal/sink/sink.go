// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists assembled plasmid records. Every sink receives
// fully assembled records only; the absent-vs-empty convention for
// optional attributes is resolved here and nowhere upstream.
package sink

import (
	"context"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// Sink consumes assembled records. Write errors must surface to the
// batch caller; a sink never silently drops a record. The pipeline
// serializes Write calls, so implementations need no locking of their
// own.
type Sink interface {
	Write(ctx context.Context, p *types.Plasmid) error
	Close() error
}

// orEmpty resolves an absent optional string to "" at the sink boundary.
func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
