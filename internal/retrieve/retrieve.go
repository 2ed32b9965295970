// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve queries literature APIs and normalizes their
// heterogeneous article records.
// Implements: prd002-retrieval (R1-R5);
//
//	docs/ARCHITECTURE § Retrieval.
package retrieve

import (
	"context"
	"time"

	"github.com/pdiddy/litreview/pkg/types"
)

// Source searches a single literature API. Each source (PubMed, Europe PMC)
// implements this interface per the Strategy pattern (R1.1). A source
// returns raw records under its own key naming; Normalize unifies them.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.RetrievalConfig) ([]types.RawArticle, error)
}

// throttle sleeps for the inverse of the configured request rate, honoring
// context cancellation. Sources call it between successive API requests
// (R4.4). A zero rate selects the NCBI default: 10 req/s with an API key,
// 3 without.
func throttle(ctx context.Context, cfg types.RetrievalConfig) error {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		if cfg.APIKey != "" {
			rps = 10
		} else {
			rps = 3
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second / time.Duration(rps)):
		return nil
	}
}
